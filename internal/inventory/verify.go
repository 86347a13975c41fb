package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

const maxReportedProblems = 20

// ErrIntegrity lists the referential problems found in a set of tables.
type ErrIntegrity struct {
	Problems []string
	Total    int
}

func (e *ErrIntegrity) Error() string {
	msg := fmt.Sprintf("inventory integrity check failed with %d problem(s): %s", e.Total, strings.Join(e.Problems, "; "))
	if e.Total > len(e.Problems) {
		msg += "; ..."
	}
	return msg
}

type node struct {
	kind   Kind
	parent string
	table  *Table
	row    []any
}

func (n node) get(column string) any {
	i := n.table.Index(column)
	if i < 0 {
		return nil
	}
	return n.row[i]
}

func (n node) str(column string) string {
	s, _ := n.get(column).(string)
	return s
}

// integer accepts typed rows and rows read back from text formats.
func (n node) integer(column string) (int, bool) {
	switch v := n.get(column).(type) {
	case int:
		return v, true
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	}
	return 0, false
}

type verifier struct {
	nodes    map[string]node
	order    []string
	problems []string
	total    int
}

func (v *verifier) fail(format string, args ...any) {
	v.total++
	if len(v.problems) < maxReportedProblems {
		v.problems = append(v.problems, fmt.Sprintf(format, args...))
	}
}

// Verify rebuilds the hierarchy from the flat tables alone and checks that ids are
// unique, every reference points to a record that precedes it, every entity chains up
// to exactly one region root, and denormalized refs and totals agree with the tree.
func Verify(tables []Table) error {
	v := &verifier{nodes: make(map[string]node)}

	for ti := range tables {
		t := &tables[ti]
		idCol := t.Index("moref")
		if idCol < 0 {
			v.fail("table %s has no moref column", t.Name)
			continue
		}
		parentCol := parentColumns[t.Kind]
		for _, row := range t.Rows {
			id, _ := row[idCol].(string)
			if id == "" {
				v.fail("%s: record without moref", t.Name)
				continue
			}
			if _, dup := v.nodes[id]; dup {
				v.fail("%s: duplicate moref %s", t.Name, id)
				continue
			}
			n := node{kind: t.Kind, table: t, row: row}
			if parentCol != "" {
				n.parent = n.str(parentCol)
				if n.parent == "" {
					v.fail("%s %s: missing %s", t.Kind, id, parentCol)
				}
			}
			v.checkRefs(id, n)
			v.nodes[id] = n
			v.order = append(v.order, id)
		}
	}

	v.checkRoots()
	v.checkDenormalized(tables)

	if v.total > 0 {
		return &ErrIntegrity{Problems: v.problems, Total: v.total}
	}
	return nil
}

// parentColumns names the column holding the parent of each kind.
var parentColumns = map[Kind]string{
	KindRegion:           "",
	KindVCenter:          "region_ref",
	KindDatacenter:       "vcenter_ref",
	KindCluster:          "datacenter_ref",
	KindHost:             "cluster_ref",
	KindNIC:              "host_ref",
	KindVM:               "host_ref",
	KindGuestDetail:      "vm_ref",
	KindDatastoreCluster: "cluster_ref",
	KindDatastore:        "cluster_ref",
	KindVirtualSwitch:    "datacenter_ref",
	KindNetwork:          "vswitch_ref",
	KindPortGroup:        "vswitch_ref",
	KindTag:              "object_ref",
}

// refKinds pins the kind a *_ref column must point to. object_ref may point anywhere.
var refKinds = map[string]Kind{
	"region_ref":            KindRegion,
	"vcenter_ref":           KindVCenter,
	"datacenter_ref":        KindDatacenter,
	"cluster_ref":           KindCluster,
	"host_ref":              KindHost,
	"vm_ref":                KindVM,
	"datastore_cluster_ref": KindDatastoreCluster,
	"vswitch_ref":           KindVirtualSwitch,
	"network_ref":           KindNetwork,
}

func (v *verifier) checkRefs(id string, n node) {
	for i, col := range n.table.Columns {
		switch {
		case strings.HasSuffix(col, "_ref"):
			ref, _ := n.row[i].(string)
			if ref == "" {
				continue
			}
			target, ok := v.nodes[ref]
			if !ok {
				v.fail("%s %s: %s %s does not resolve to an earlier record", n.kind, id, col, ref)
				continue
			}
			if want, pinned := refKinds[col]; pinned && target.kind != want {
				v.fail("%s %s: %s %s is a %s, want %s", n.kind, id, col, ref, target.kind, want)
			}
			if col == "object_ref" {
				if ot := n.str("object_type"); ot != string(target.kind) && ot != target.kind.ManagedType() {
					v.fail("%s %s: object_type %s does not match %s (%s)", n.kind, id, ot, ref, target.kind)
				}
			}
		case col == "associated_vms":
			list, _ := n.row[i].(string)
			if list == "" {
				continue
			}
			for _, ref := range strings.Split(list, ",") {
				if target, ok := v.nodes[ref]; !ok || target.kind != KindVM {
					v.fail("%s %s: associated vm %s does not resolve", n.kind, id, ref)
				}
			}
		}
	}
}

// checkRoots walks every chain to its root: it must end at a region, without cycles.
func (v *verifier) checkRoots() {
	limit := len(v.nodes) + 1
	for _, id := range v.order {
		n := v.nodes[id]
		cur, steps := n, 0
		for cur.parent != "" && steps < limit {
			next, ok := v.nodes[cur.parent]
			if !ok {
				break // already reported as unresolved
			}
			cur = next
			steps++
		}
		if steps >= limit {
			v.fail("%s %s: parent chain does not terminate", n.kind, id)
			continue
		}
		if cur.parent == "" && cur.kind != KindRegion {
			v.fail("%s %s: chain ends at %s root instead of a region", n.kind, id, cur.kind)
		}
	}
}

func (v *verifier) checkDenormalized(tables []Table) {
	hostsPerCluster := map[string]int{}
	vmsPerCluster := map[string]int{}
	guestsPerVM := map[string]int{}

	for ti := range tables {
		t := &tables[ti]
		idCol := t.Index("moref")
		if idCol < 0 {
			continue
		}
		for _, row := range t.Rows {
			id, _ := row[idCol].(string)
			n, ok := v.nodes[id]
			if !ok {
				continue
			}
			switch t.Kind {
			case KindCluster:
				dc, ok := v.nodes[n.str("datacenter_ref")]
				if ok && dc.str("vcenter_ref") != n.str("vcenter_ref") {
					v.fail("cluster %s: vcenter_ref %s disagrees with datacenter %s", id, n.str("vcenter_ref"), dc.str("vcenter_ref"))
				}
			case KindHost:
				hostsPerCluster[n.str("cluster_ref")]++
				cl, ok := v.nodes[n.str("cluster_ref")]
				if ok && (cl.str("datacenter_ref") != n.str("datacenter_ref") || cl.str("vcenter_ref") != n.str("vcenter_ref")) {
					v.fail("host %s: datacenter/vcenter refs disagree with cluster %s", id, n.str("cluster_ref"))
				}
			case KindVM:
				vmsPerCluster[n.str("cluster_ref")]++
				host, ok := v.nodes[n.str("host_ref")]
				if ok && (host.str("cluster_ref") != n.str("cluster_ref") || host.str("vcenter_ref") != n.str("vcenter_ref")) {
					v.fail("vm %s: cluster/vcenter refs disagree with host %s", id, n.str("host_ref"))
				}
			case KindGuestDetail:
				guestsPerVM[n.str("vm_ref")]++
			}
		}
	}

	for _, id := range v.order {
		n := v.nodes[id]
		switch n.kind {
		case KindCluster:
			if want, ok := n.integer("total_hosts"); ok && want != hostsPerCluster[id] {
				v.fail("cluster %s: total_hosts %d but %d host records", id, want, hostsPerCluster[id])
			}
			if want, ok := n.integer("total_vms"); ok && want != vmsPerCluster[id] {
				v.fail("cluster %s: total_vms %d but %d vm records", id, want, vmsPerCluster[id])
			}
		case KindVM:
			if guestsPerVM[id] != 1 {
				v.fail("vm %s: %d guest detail records, want 1", id, guestsPerVM[id])
			}
		}
	}
}
