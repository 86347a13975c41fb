package publisher

import "context"

// Publisher copies emitted files to shared storage and returns the keys it wrote.
type Publisher interface {
	Publish(ctx context.Context, seed int64, files []string) ([]string, error)
	Type() string
}
