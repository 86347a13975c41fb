package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/sampler"
)

var hostStatus = sampler.MustDistribution([]sampler.Choice[string]{
	{Value: "Connected", Weight: 0.95},
	{Value: "Maintenance", Weight: 0.05},
})

var nicLink = sampler.MustDistribution([]sampler.Choice[string]{
	{Value: "Up", Weight: 0.95},
	{Value: "Down", Weight: 0.05},
})

// nicSpeeds maps link speed in Mbps to the ESXi driver serving it.
var nicSpeeds = []struct {
	mbps   int
	driver string
}{
	{mbps: 10000, driver: "ixgben"},
	{mbps: 25000, driver: "bnxtnet"},
	{mbps: 40000, driver: "i40en"},
}

// hostStage registers the planned hosts and their physical NICs.
func (r *run) hostStage(rb *regionBuild) error {
	for _, dc := range rb.datacenters {
		for _, cb := range dc.clusters {
			prefix := strings.Replace(cb.record.Name, "-CL-", "-ESX-", 1)
			for i, h := range cb.hosts {
				if err := r.newHost(cb, h, fmt.Sprintf("%s-%02d", prefix, i+1)); err != nil {
					return fmt.Errorf("cluster %q: %w", cb.record.Name, err)
				}
			}
		}
	}
	return nil
}

func (r *run) newHost(cb *clusterBuild, h *hostBuild, name string) error {
	id, err := r.reg.Register(inventory.KindHost, cb.record.ID)
	if err != nil {
		return err
	}
	h.record = inventory.Host{
		ID:              id,
		Name:            name,
		ClusterRef:      cb.record.ID,
		DatacenterRef:   cb.record.DatacenterRef,
		VCenterRef:      cb.record.VCenterRef,
		Vendor:          h.model.Vendor,
		Model:           h.model.Model,
		Serial:          r.serial(h.model.Vendor, 7),
		CPUCores:        h.model.CPUCores,
		MemoryGB:        h.model.MemoryGB,
		NICCount:        r.cfg.NICsPerHost,
		DatastoresCount: cb.datastores,
		VMCount:         h.vms,
		DensityCategory: h.density.Name,
		Status:          hostStatus.Sample(r.src),
		UptimeDays:      round2(r.src.UniformFloat64(100, 400)),
	}
	r.inv.Hosts = append(r.inv.Hosts, h.record)
	r.tagValues[id] = h.model.Model

	for n := 0; n < r.cfg.NICsPerHost; n++ {
		if err := r.newNIC(h.record, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) newNIC(host inventory.Host, n int) error {
	id, err := r.reg.Register(inventory.KindNIC, host.ID)
	if err != nil {
		return err
	}
	speed := sampler.PickOne(r.src, nicSpeeds)
	r.inv.NICs = append(r.inv.NICs, inventory.NIC{
		ID:         id,
		Name:       fmt.Sprintf("vmnic%d", n),
		HostRef:    host.ID,
		MACAddress: r.mac(),
		LinkStatus: nicLink.Sample(r.src),
		SpeedMbps:  speed.mbps,
		Duplex:     "Full",
		Driver:     speed.driver,
		Firmware:   fmt.Sprintf("%d.%d.%d", r.src.IntRange(1, 3), r.src.IntRange(0, 9), r.src.IntRange(0, 99)),
		PCIAddress: fmt.Sprintf("0000:%02x:00.%d", 0x18+n/2, n%2),
		Notes:      fmt.Sprintf("uplink %d of %s", n+1, host.Name),
	})
	return nil
}

// mac returns an address in the VMware OUI.
func (r *run) mac() string {
	return fmt.Sprintf("00:50:56:%02x:%02x:%02x", r.src.Intn(256), r.src.Intn(256), r.src.Intn(256))
}

// serial derives an asset serial from the first letters of a vendor name.
func (r *run) serial(vendor string, digits int) string {
	letters := strings.ToUpper(strings.ReplaceAll(vendor, " ", ""))
	if len(letters) > 4 {
		letters = letters[:4]
	}
	return fmt.Sprintf("%s%0*d", letters, digits, r.src.Intn(int(math.Pow10(digits))))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
