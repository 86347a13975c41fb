package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

const insertBatchSize = 500

// Inventory persists flat inventory tables, one SQL table per kind.
type Inventory interface {
	// Replace drops and recreates the table of the given kind, then inserts its rows.
	Replace(ctx context.Context, table inventory.Table) error
	Count(ctx context.Context, kind inventory.Kind) (int64, error)
	Rows(ctx context.Context, kind inventory.Kind) ([]map[string]any, error)
}

type InventoryStore struct {
	db *gorm.DB
}

// Make sure we conform to Inventory interface
var _ Inventory = (*InventoryStore)(nil)

func NewInventoryStore(db *gorm.DB) Inventory {
	return &InventoryStore{db: db}
}

func (s *InventoryStore) Replace(ctx context.Context, table inventory.Table) error {
	if len(table.Columns) == 0 {
		return fmt.Errorf("%s: %w", table.Name, ErrEmptyTable)
	}
	db := s.getDB(ctx)
	name := TableName(table.Kind)

	if err := db.Migrator().DropTable(name); err != nil {
		return fmt.Errorf("dropping %s: %w", name, err)
	}
	if err := db.Exec(createStatement(name, table)).Error; err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if len(table.Rows) == 0 {
		return nil
	}

	rows := make([]map[string]any, len(table.Rows))
	for i, row := range table.Rows {
		m := make(map[string]any, len(table.Columns))
		for j, col := range table.Columns {
			m[col] = row[j]
		}
		rows[i] = m
	}
	if err := db.Table(name).CreateInBatches(rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("inserting into %s: %w", name, err)
	}
	return nil
}

func (s *InventoryStore) Count(ctx context.Context, kind inventory.Kind) (int64, error) {
	db := s.getDB(ctx)
	name := TableName(kind)
	if !db.Migrator().HasTable(name) {
		return 0, fmt.Errorf("%s: %w", name, ErrTableNotFound)
	}
	var count int64
	if err := db.Table(name).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *InventoryStore) Rows(ctx context.Context, kind inventory.Kind) ([]map[string]any, error) {
	db := s.getDB(ctx)
	name := TableName(kind)
	if !db.Migrator().HasTable(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrTableNotFound)
	}
	var rows []map[string]any
	if err := db.Table(name).Order("moref").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *InventoryStore) getDB(ctx context.Context) *gorm.DB {
	if tx := fromContext(ctx); tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

var tableNames = map[inventory.Kind]string{
	inventory.KindRegion:           "regions",
	inventory.KindVCenter:          "vcenters",
	inventory.KindDatacenter:       "datacenters",
	inventory.KindCluster:          "clusters",
	inventory.KindHost:             "esxi_hosts",
	inventory.KindNIC:              "host_nics",
	inventory.KindVM:               "virtual_machines",
	inventory.KindGuestDetail:      "vm_guest_details",
	inventory.KindDatastoreCluster: "datastore_clusters",
	inventory.KindDatastore:        "datastores",
	inventory.KindVirtualSwitch:    "virtual_switches",
	inventory.KindNetwork:          "networks",
	inventory.KindPortGroup:        "port_groups",
	inventory.KindTag:              "nsx_tags",
}

// TableName is the SQL table holding a kind.
func TableName(kind inventory.Kind) string {
	return tableNames[kind]
}

// createStatement derives column types from the first row; moref is the primary key.
func createStatement(name string, table inventory.Table) string {
	cols := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		var sample any
		if len(table.Rows) > 0 {
			sample = table.Rows[0][i]
		}
		def := fmt.Sprintf("%q %s", col, sqlType(sample))
		if col == "moref" {
			def += " PRIMARY KEY"
		}
		cols[i] = def
	}
	return fmt.Sprintf("CREATE TABLE %q (%s)", name, strings.Join(cols, ", "))
}

func sqlType(v any) string {
	switch v.(type) {
	case int, int64:
		return "BIGINT"
	case float64:
		return "DOUBLE PRECISION"
	case bool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
