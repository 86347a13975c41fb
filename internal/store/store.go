package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	// WithTx runs fn in a single transaction, committed when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Inventory() Inventory
	Close() error
}

type DataStore struct {
	db        *gorm.DB
	inventory Inventory
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:        db,
		inventory: NewInventoryStore(db),
	}
}

func (s *DataStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, s.db, fn)
}

func (s *DataStore) Inventory() Inventory {
	return s.inventory
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
