// Package registry issues managed object references for generated entities and
// keeps the parent and cross links between them.
package registry

import (
	"fmt"

	"github.com/vmware/govmomi/vim25/types"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

// firstID is the first counter value of every kind, so ids look like vm-1000, domain-c1000.
const firstID = 1000

// Entry is the metadata kept for a registered entity.
type Entry struct {
	ID     string
	Kind   inventory.Kind
	Parent string
	Links  []string
	// Seq is the registration order over all kinds.
	Seq int
}

// Registry is an arena of entries addressed by id. Single pass, single goroutine.
type Registry struct {
	entries  []Entry
	index    map[string]int
	counters map[inventory.Kind]int
	children map[string][]int
}

func New() *Registry {
	return &Registry{
		entries:  make([]Entry, 0, 1024),
		index:    make(map[string]int),
		counters: make(map[inventory.Kind]int),
		children: make(map[string][]int),
	}
}

// Register issues a new id of the given kind. An empty parent makes a root. The
// parent and every link must already be registered.
func (r *Registry) Register(kind inventory.Kind, parent string, links ...string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("register: unsupported kind %q", kind)
	}
	if parent != "" {
		if _, ok := r.index[parent]; !ok {
			return "", NewErrUnknownReference(parent, fmt.Sprintf("parent of new %s", kind))
		}
	}
	for _, l := range links {
		if _, ok := r.index[l]; !ok {
			return "", NewErrUnknownReference(l, fmt.Sprintf("link of new %s", kind))
		}
	}

	n := r.counters[kind] + firstID
	r.counters[kind]++
	id := fmt.Sprintf("%s%d", kind.Prefix(), n)

	seq := len(r.entries)
	r.entries = append(r.entries, Entry{
		ID:     id,
		Kind:   kind,
		Parent: parent,
		Links:  append([]string(nil), links...),
		Seq:    seq,
	})
	r.index[id] = seq
	if parent != "" {
		r.children[parent] = append(r.children[parent], seq)
	}
	for _, l := range links {
		r.children[l] = append(r.children[l], seq)
	}
	return id, nil
}

// Resolve returns the entry for id.
func (r *Registry) Resolve(id string) (Entry, error) {
	i, ok := r.index[id]
	if !ok {
		return Entry{}, NewErrUnknownReference(id, "resolve")
	}
	return r.entries[i], nil
}

// ChildrenOf lists, in registration order, the entities of the given kind that have
// id as parent or as a link. An empty kind matches every kind.
func (r *Registry) ChildrenOf(id string, kind inventory.Kind) ([]string, error) {
	if _, ok := r.index[id]; !ok {
		return nil, NewErrUnknownReference(id, "children lookup")
	}
	out := []string{}
	for _, i := range r.children[id] {
		if kind == "" || r.entries[i].Kind == kind {
			out = append(out, r.entries[i].ID)
		}
	}
	return out, nil
}

// OfKind lists every id of the kind in registration order.
func (r *Registry) OfKind(kind inventory.Kind) []string {
	out := make([]string, 0, r.counters[kind])
	for _, e := range r.entries {
		if e.Kind == kind {
			out = append(out, e.ID)
		}
	}
	return out
}

func (r *Registry) Count(kind inventory.Kind) int {
	return r.counters[kind]
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Reference builds the managed object reference of an id issued for kind.
func Reference(kind inventory.Kind, id string) types.ManagedObjectReference {
	return types.ManagedObjectReference{Type: kind.ManagedType(), Value: id}
}
