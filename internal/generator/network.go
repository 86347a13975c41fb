package generator

import (
	"fmt"
	"strings"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

const (
	switchLoadBalancing = "Route based on physical NIC load"
	subnetMask          = "255.255.255.0"
)

// networkStage gives every datacenter its distributed switches, one network per
// purpose and segment pair, and one port group per network.
func (r *run) networkStage(rb *regionBuild) error {
	layout := r.cfg.Network
	perSwitch := len(layout.Purposes) * len(layout.Segments)

	for _, dc := range rb.datacenters {
		vlan := 0
		for s := 0; s < r.cfg.VirtualSwitchesPerDatacenter; s++ {
			id, err := r.reg.Register(inventory.KindVirtualSwitch, dc.record.ID)
			if err != nil {
				return fmt.Errorf("datacenter %q: %w", dc.record.Name, err)
			}
			vs := inventory.VirtualSwitch{
				ID:            id,
				Name:          fmt.Sprintf("%s-DVS-%02d", dc.record.Name, s+1),
				DatacenterRef: dc.record.ID,
				Type:          "Distributed",
				Uplinks:       layout.Uplinks,
				PortGroups:    perSwitch,
				MTU:           layout.MTU,
				LoadBalancing: switchLoadBalancing,
				Notes:         fmt.Sprintf("distributed switch for %s", dc.record.Name),
			}
			r.inv.VirtualSwitches = append(r.inv.VirtualSwitches, vs)

			for p, purpose := range layout.Purposes {
				for _, segment := range layout.Segments {
					if err := r.newNetwork(rb, dc, vs, purpose, p, segment, vlan); err != nil {
						return fmt.Errorf("switch %q: %w", vs.Name, err)
					}
					vlan++
				}
			}
		}
	}
	return nil
}

func (r *run) newNetwork(rb *regionBuild, dc *datacenterBuild, vs inventory.VirtualSwitch, purpose string, p int, segment string, k int) error {
	id, err := r.reg.Register(inventory.KindNetwork, vs.ID)
	if err != nil {
		return err
	}
	octet := (dc.index*r.networksPerDatacenter()+k)%254 + 1
	members := strings.Join(window(dc.vmsBySegment[segment], p*associatedVMsPerNetwork, associatedVMsPerNetwork), ",")
	network := inventory.Network{
		ID:            id,
		Name:          fmt.Sprintf("%s-NET-%s-%s", dc.record.Name, purpose, segment),
		VSwitchRef:    vs.ID,
		Purpose:       purpose,
		Segment:       segment,
		VLANID:        vlanID(r.cfg.Network.VLANBase, k),
		IPRange:       fmt.Sprintf("%s.%d.0/24", rb.cfg.NetworkPrefix, octet),
		SubnetMask:    subnetMask,
		Gateway:       fmt.Sprintf("%s.%d.1", rb.cfg.NetworkPrefix, octet),
		AssociatedVMs: members,
		Notes:         fmt.Sprintf("%s %s segment", purpose, segment),
	}
	r.inv.Networks = append(r.inv.Networks, network)

	pgID, err := r.reg.Register(inventory.KindPortGroup, vs.ID, id)
	if err != nil {
		return err
	}
	r.inv.PortGroups = append(r.inv.PortGroups, inventory.PortGroup{
		ID:             pgID,
		Name:           "PG-" + network.Name,
		VSwitchRef:     vs.ID,
		NetworkRef:     id,
		VLANID:         network.VLANID,
		AssociatedVMs:  members,
		SecurityPolicy: "Reject promiscuous, MAC changes and forged transmits",
		TrafficShaping: "Disabled",
		TeamingPolicy:  switchLoadBalancing,
		Notes:          fmt.Sprintf("port group for %s", network.Name),
	})
	return nil
}

func (r *run) networksPerDatacenter() int {
	return r.cfg.VirtualSwitchesPerDatacenter * len(r.cfg.Network.Purposes) * len(r.cfg.Network.Segments)
}

// vlanID keeps generated VLANs inside the valid 1-4094 range.
func vlanID(base, k int) int {
	return (max(base, 1)+k-1)%4094 + 1
}

// window returns up to n elements starting at from.
func window(ids []string, from, n int) []string {
	if from >= len(ids) {
		return nil
	}
	return ids[from:min(from+n, len(ids))]
}
