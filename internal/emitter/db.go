package emitter

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/store"
)

// DBEmitter loads every table into a SQL database in one transaction. It writes no
// files of its own.
type DBEmitter struct {
	store store.Store
}

func NewDBEmitter(s store.Store) *DBEmitter {
	return &DBEmitter{store: s}
}

func (e *DBEmitter) Format() Format {
	return FormatDB
}

func (e *DBEmitter) Emit(ctx context.Context, dir string, inv *inventory.Inventory) ([]string, error) {
	err := e.store.WithTx(ctx, func(ctx context.Context) error {
		for _, t := range inv.Tables() {
			if err := e.store.Inventory().Replace(ctx, t); err != nil {
				return errors.Wrapf(err, "loading %s", t.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.S().Named("emitter").Debugf("loaded %d tables", len(inventory.Kinds))
	return nil, nil
}
