// Package inventory holds the generated vSphere entity graph and its flat,
// per-kind record form.
package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// Inventory is the complete result of one generation run, one ordered slice per kind.
type Inventory struct {
	Seed  int64  `json:"seed"`
	Scale string `json:"scale"`

	Regions           []Region           `json:"regions"`
	VCenters          []VCenter          `json:"vcenters"`
	Datacenters       []Datacenter       `json:"datacenters"`
	Clusters          []Cluster          `json:"clusters"`
	Hosts             []Host             `json:"hosts"`
	NICs              []NIC              `json:"host_nics"`
	VMs               []VM               `json:"vms"`
	GuestDetails      []GuestDetail      `json:"vm_guest_details"`
	DatastoreClusters []DatastoreCluster `json:"datastore_clusters"`
	Datastores        []Datastore        `json:"datastores"`
	VirtualSwitches   []VirtualSwitch    `json:"virtual_switches"`
	Networks          []Network          `json:"networks"`
	PortGroups        []PortGroup        `json:"port_groups"`
	Tags              []Tag              `json:"tags"`
}

// Counts returns the number of records per kind.
func (inv *Inventory) Counts() map[Kind]int {
	return map[Kind]int{
		KindRegion:           len(inv.Regions),
		KindVCenter:          len(inv.VCenters),
		KindDatacenter:       len(inv.Datacenters),
		KindCluster:          len(inv.Clusters),
		KindHost:             len(inv.Hosts),
		KindNIC:              len(inv.NICs),
		KindVM:               len(inv.VMs),
		KindGuestDetail:      len(inv.GuestDetails),
		KindDatastoreCluster: len(inv.DatastoreClusters),
		KindDatastore:        len(inv.Datastores),
		KindVirtualSwitch:    len(inv.VirtualSwitches),
		KindNetwork:          len(inv.Networks),
		KindPortGroup:        len(inv.PortGroups),
		KindTag:              len(inv.Tags),
	}
}

// VMsPerRegion sums VM records by region name.
func (inv *Inventory) VMsPerRegion() map[string]int {
	vcRegion := make(map[string]string, len(inv.VCenters))
	regionName := make(map[string]string, len(inv.Regions))
	for _, r := range inv.Regions {
		regionName[r.ID] = r.Name
	}
	for _, vc := range inv.VCenters {
		vcRegion[vc.ID] = regionName[vc.RegionRef]
	}
	out := make(map[string]int, len(inv.Regions))
	for _, r := range inv.Regions {
		out[r.Name] = 0
	}
	for _, vm := range inv.VMs {
		out[vcRegion[vm.VCenterRef]]++
	}
	return out
}

// Summary renders the record counts in generation order, one kind per line.
func (inv *Inventory) Summary() string {
	counts := inv.Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "scale=%s seed=%d\n", inv.Scale, inv.Seed)
	for _, k := range Kinds {
		fmt.Fprintf(&b, "%-17s %d\n", k, counts[k])
	}
	perRegion := inv.VMsPerRegion()
	names := make([]string, 0, len(perRegion))
	for n := range perRegion {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, "vms[%s] %d\n", n, perRegion[n])
	}
	return b.String()
}
