package generator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/sampler"
)

// associatedVMsPerNetwork caps how many VMs a network lists.
const associatedVMsPerNetwork = 5

const dateLayout = "2006-01-02"

var powerStates = sampler.MustDistribution([]sampler.Choice[types.VirtualMachinePowerState]{
	{Value: types.VirtualMachinePowerStatePoweredOn, Weight: 0.9},
	{Value: types.VirtualMachinePowerStatePoweredOff, Weight: 0.1},
})

var toolsVersions = []string{"11365", "12352", "12389", "12416"}

// vmStage places every host's VM share on it, each VM with its guest detail.
func (r *run) vmStage(rb *regionBuild) error {
	for _, dc := range rb.datacenters {
		for _, cb := range dc.clusters {
			for _, h := range cb.hosts {
				for i := 0; i < h.vms; i++ {
					if err := r.newVM(rb, dc, h.record); err != nil {
						return fmt.Errorf("host %q: %w", h.record.Name, err)
					}
				}
			}
		}
	}
	return nil
}

func (r *run) newVM(rb *regionBuild, dc *datacenterBuild, host inventory.Host) error {
	id, err := r.reg.Register(inventory.KindVM, host.ID)
	if err != nil {
		return err
	}
	osType := r.osTypes.Sample(r.src)
	purpose := r.purposes.Sample(r.src)
	instance, err := uuid.NewRandomFromReader(r.src)
	if err != nil {
		return fmt.Errorf("vm uuid: %w", err)
	}
	power := powerStates.Sample(r.src)
	created := r.pastDate()

	vm := inventory.VM{
		ID:            id,
		Name:          fmt.Sprintf("%s-VM-%s-%s", rb.cfg.Name, purpose.Name, strings.TrimPrefix(id, inventory.KindVM.Prefix())),
		UUID:          instance.String(),
		HostRef:       host.ID,
		ClusterRef:    host.ClusterRef,
		DatacenterRef: host.DatacenterRef,
		VCenterRef:    host.VCenterRef,
		GuestOS:       osType.Name,
		Purpose:       purpose.Name,
		VMVersion:     fmt.Sprintf("vmx-%d", r.src.IntRange(14, 20)),
		CPUCount:      sampler.PickOne(r.src, osType.CPUCores),
		MemoryGB:      sampler.PickOne(r.src, osType.MemoryGB),
		DiskCount:     r.src.IntRange(1, 4),
		NICCount:      r.src.IntRange(1, 4),
		IPAddress:     fmt.Sprintf("%s.%d.%d", rb.cfg.NetworkPrefix, r.src.IntRange(1, 254), r.src.IntRange(1, 254)),
		PowerState:    string(power),
		CreatedDate:   created,
		Notes:         fmt.Sprintf("%s workload on %s", purpose.Name, host.Name),
	}
	r.inv.VMs = append(r.inv.VMs, vm)
	r.tagValues[id] = purpose.Name
	r.createdDates[id] = created

	members := dc.vmsBySegment[purpose.Name]
	if len(members) < associatedVMsPerNetwork*max(1, len(r.cfg.Network.Purposes)) {
		dc.vmsBySegment[purpose.Name] = append(members, id)
	}

	return r.newGuestDetail(vm, osType.Name, power == types.VirtualMachinePowerStatePoweredOn)
}

func (r *run) newGuestDetail(vm inventory.VM, osName string, running bool) error {
	id, err := r.reg.Register(inventory.KindGuestDetail, vm.ID)
	if err != nil {
		return err
	}
	g := inventory.GuestDetail{
		ID:           id,
		VMRef:        vm.ID,
		GuestOSFull:  osName + " (64-bit)",
		IPAddress:    vm.IPAddress,
		Hostname:     strings.ToLower(vm.Name),
		ToolsVersion: sampler.PickOne(r.src, toolsVersions),
		ToolsStatus:  "toolsNotRunning",
		GuestState:   "notRunning",
		Notes:        "guest information reported by VMware Tools",
	}
	if running {
		g.UptimeDays = round2(r.src.UniformFloat64(1, 400))
		g.ToolsStatus = "toolsOk"
		g.GuestState = "running"
		g.CPUUsage = r.src.IntRange(20, 80)
		g.MemoryUsage = r.src.IntRange(40, 90)
	}
	r.inv.GuestDetails = append(r.inv.GuestDetails, g)
	return nil
}

// pastDate draws a day between the start of the generated history and the
// reference date.
func (r *run) pastDate() string {
	days := int(r.reference.Sub(historyStart).Hours() / 24)
	if days <= 0 {
		return r.reference.Format(dateLayout)
	}
	return r.reference.AddDate(0, 0, -r.src.Intn(days)).Format(dateLayout)
}
