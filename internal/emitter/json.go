package emitter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/registry"
	"github.com/kubev2v/vsphere-inventory-generator/pkg/version"
)

const jsonFileName = "inventory.json"

type jsonDocument struct {
	GeneratorVersion string                         `json:"generator_version"`
	Counts           map[inventory.Kind]int         `json:"counts"`
	ManagedObjects   []types.ManagedObjectReference `json:"managed_objects"`
	Inventory        *inventory.Inventory           `json:"inventory"`
}

// JSONEmitter writes the whole inventory as one document, with the vSphere managed
// object reference of every entity.
type JSONEmitter struct{}

func NewJSONEmitter() *JSONEmitter {
	return &JSONEmitter{}
}

func (e *JSONEmitter) Format() Format {
	return FormatJSON
}

func (e *JSONEmitter) Emit(ctx context.Context, dir string, inv *inventory.Inventory) ([]string, error) {
	doc := jsonDocument{
		GeneratorVersion: version.Get().GitVersion,
		Counts:           inv.Counts(),
		ManagedObjects:   managedObjects(inv),
		Inventory:        inv,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding inventory")
	}

	path := filepath.Join(dir, jsonFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "writing %s", path)
	}
	return []string{path}, nil
}

func managedObjects(inv *inventory.Inventory) []types.ManagedObjectReference {
	var refs []types.ManagedObjectReference
	for _, t := range inv.Tables() {
		idx := t.Index("moref")
		for _, row := range t.Rows {
			id, _ := row[idx].(string)
			refs = append(refs, registry.Reference(t.Kind, id))
		}
	}
	return refs
}
