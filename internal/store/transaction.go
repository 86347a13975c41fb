package store

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// withTx runs fn in one transaction. Store calls made with the context handed to fn
// join it. An error from fn rolls everything back.
func withTx(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// fromContext returns the transaction carried by ctx, if any.
func fromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}
