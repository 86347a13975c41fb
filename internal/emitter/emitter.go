package emitter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatDB   Format = "db"
)

// Formats lists every supported output format.
var Formats = []string{string(FormatCSV), string(FormatXLSX), string(FormatJSON), string(FormatDB)}

// Emitter writes a complete inventory to one output format and returns the files it
// wrote.
type Emitter interface {
	Format() Format
	Emit(ctx context.Context, dir string, inv *inventory.Inventory) ([]string, error)
}

// OutputFiles lists the base names of every file the emitters can write.
func OutputFiles() []string {
	files := make([]string, 0, len(inventory.Kinds)+2)
	for _, k := range inventory.Kinds {
		files = append(files, inventory.Table{Name: inventory.TableName(k)}.FileName())
	}
	return append(files, jsonFileName, xlsxFileName)
}

// PrepareDir creates dir when missing and removes output left there by a previous
// run: the files in OutputFiles plus any extra names relative to dir (a sqlite
// database). Other content of dir is never touched.
func PrepareDir(dir string, extra ...string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", dir)
	}
	for _, name := range append(OutputFiles(), extra...) {
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing previous output %s", path)
		}
	}
	return nil
}

// Run runs every emitter in order against a prepared directory. It stops at the
// first failure.
func Run(ctx context.Context, dir string, inv *inventory.Inventory, emitters ...Emitter) ([]string, error) {
	var files []string
	for _, e := range emitters {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		written, err := e.Emit(ctx, dir, inv)
		if err != nil {
			return files, errors.Wrapf(err, "emitting %s", e.Format())
		}
		zap.S().Named("emitter").Infof("%s: wrote %d file(s) to %s", e.Format(), len(written), dir)
		files = append(files, written...)
	}
	return files, nil
}
