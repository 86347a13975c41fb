package emitter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

// CSVEmitter writes one delimited file per kind, header first.
type CSVEmitter struct{}

func NewCSVEmitter() *CSVEmitter {
	return &CSVEmitter{}
}

func (e *CSVEmitter) Format() Format {
	return FormatCSV
}

func (e *CSVEmitter) Emit(ctx context.Context, dir string, inv *inventory.Inventory) ([]string, error) {
	tables := inv.Tables()
	files := make([]string, 0, len(tables))
	for _, t := range tables {
		path := filepath.Join(dir, t.FileName())
		if err := writeCSV(path, t); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func writeCSV(path string, t inventory.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return errors.Wrapf(err, "writing header of %s", path)
	}
	if err := w.WriteAll(t.StringRows()); err != nil {
		return errors.Wrapf(err, "writing rows of %s", path)
	}
	return f.Close()
}

// ReadCSV loads the tables of a CSV output directory back, in generation order.
// Every cell is a string. Missing files are reported, not skipped.
func ReadCSV(dir string) ([]inventory.Table, error) {
	tables := make([]inventory.Table, 0, len(inventory.Kinds))
	for _, k := range inventory.Kinds {
		t := inventory.Table{Kind: k, Name: inventory.TableName(k)}
		path := filepath.Join(dir, t.FileName())

		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", path)
		}
		records, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		if len(records) == 0 {
			return nil, errors.Errorf("%s has no header", path)
		}

		t.Columns = records[0]
		for _, rec := range records[1:] {
			row := make([]any, len(rec))
			for i, v := range rec {
				row[i] = v
			}
			t.Rows = append(t.Rows, row)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
