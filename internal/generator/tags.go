package generator

import (
	"fmt"
	"sort"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

// tagStage tags a sampled fraction of each targeted kind, once per category.
func (r *run) tagStage() error {
	categories := r.cfg.Tags.Categories
	if len(categories) == 0 {
		return nil
	}
	modified := r.reference.Format(dateLayout)

	for i, target := range r.cfg.Tags.Targets {
		kind := r.tagKinds[i]
		population := r.reg.OfKind(kind)
		k := int(float64(len(population))*target.Fraction + 0.5)
		if k == 0 {
			continue
		}
		for _, category := range categories {
			picked := r.src.SampleIndices(len(population), k)
			sort.Ints(picked)
			for _, idx := range picked {
				object := population[idx]
				if err := r.newTag(kind, object, category, modified); err != nil {
					return fmt.Errorf("%s %s: %w", kind, object, err)
				}
			}
		}
		r.log.Debugf("tagged %d of %d %s entities per category", k, len(population), kind)
	}
	return nil
}

func (r *run) newTag(kind inventory.Kind, object, category, modified string) error {
	id, err := r.reg.Register(inventory.KindTag, object)
	if err != nil {
		return err
	}
	value, ok := r.tagValues[object]
	if !ok {
		value = object
	}
	created, ok := r.createdDates[object]
	if !ok {
		created = r.pastDate()
	}
	r.inv.Tags = append(r.inv.Tags, inventory.Tag{
		ID:           id,
		Name:         fmt.Sprintf("%s:%s", category, value),
		ObjectType:   string(kind),
		ObjectRef:    object,
		Category:     category,
		Value:        value,
		CreatedDate:  created,
		ModifiedDate: modified,
		Notes:        fmt.Sprintf("%s tag on %s", category, object),
	})
	return nil
}
