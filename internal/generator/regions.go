package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/kubev2v/vsphere-inventory-generator/internal/allocator"
	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
)

type regionBuild struct {
	cfg         profile.Region
	record      inventory.Region
	profile     *preparedProfile
	datacenters []*datacenterBuild
	// clusterSeq numbers clusters across the whole region
	clusterSeq int
}

type datacenterBuild struct {
	index      int
	record     inventory.Datacenter
	hostTarget int
	clusters   []*clusterBuild
	// vmsBySegment keeps the first VMs of each purpose, for network membership
	vmsBySegment map[string][]string
}

// regionStage splits the tier's VM total across regions and registers them.
func (r *run) regionStage() ([]*regionBuild, error) {
	groups := make([]allocator.Group, len(r.cfg.Regions))
	for i, reg := range r.cfg.Regions {
		groups[i] = allocator.Group{Name: reg.Name, Weight: reg.Weight}
	}
	quotas, err := allocator.Allocate(r.tier.TotalVMs, groups)
	if err != nil {
		return nil, err
	}

	regions := make([]*regionBuild, 0, len(r.cfg.Regions))
	for i, reg := range r.cfg.Regions {
		p, ok := r.profiles[reg.Profile]
		if !ok {
			return nil, profile.NewErrInvalidConfiguration("region %q: undefined profile %q", reg.Name, reg.Profile)
		}
		id, err := r.reg.Register(inventory.KindRegion, "")
		if err != nil {
			return nil, err
		}
		rec := inventory.Region{
			ID:              id,
			Name:            reg.Name,
			Weight:          reg.Weight,
			NetworkPrefix:   reg.NetworkPrefix,
			DatacenterCount: reg.Datacenters,
			Profile:         reg.Profile,
			VMQuota:         quotas[i],
			HostTarget:      hostTarget(quotas[i], r.tier.AvgVMsPerHost),
		}
		r.inv.Regions = append(r.inv.Regions, rec)
		regions = append(regions, &regionBuild{cfg: reg, record: rec, profile: p})
		r.log.Debugf("region %s: %d vms, %d hosts targeted over %d datacenters", reg.Name, rec.VMQuota, rec.HostTarget, reg.Datacenters)
	}
	return regions, nil
}

// hostTarget is the host count a VM quota needs at the tier density. A region with
// any VM gets at least one host.
func hostTarget(quota int, avg float64) int {
	if quota <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(quota)/avg)))
}

// datacenterStage creates the region's vCenter(s) and datacenters.
func (r *run) datacenterStage(rb *regionBuild) error {
	targets, err := allocator.Even(rb.record.HostTarget, rb.cfg.Datacenters)
	if err != nil {
		return err
	}

	var vc inventory.VCenter
	for i := 0; i < rb.cfg.Datacenters; i++ {
		if i == 0 || r.cfg.VCenterScope == profile.VCenterPerDatacenter {
			if vc, err = r.newVCenter(rb, i+1); err != nil {
				return err
			}
		}

		id, err := r.reg.Register(inventory.KindDatacenter, vc.ID)
		if err != nil {
			return err
		}
		role := datacenterRole(i)
		dc := inventory.Datacenter{
			ID:          id,
			Name:        fmt.Sprintf("%s-DC-%s", rb.cfg.Name, role),
			VCenterRef:  vc.ID,
			RegionRef:   rb.record.ID,
			Description: fmt.Sprintf("%s datacenter for %s", role, rb.cfg.Name),
			Status:      "Active",
		}
		r.inv.Datacenters = append(r.inv.Datacenters, dc)
		rb.datacenters = append(rb.datacenters, &datacenterBuild{
			index:        i,
			record:       dc,
			hostTarget:   targets[i],
			vmsBySegment: make(map[string][]string),
		})
	}
	return nil
}

func datacenterRole(i int) string {
	switch i {
	case 0:
		return "PROD"
	case 1:
		return "DR"
	default:
		return fmt.Sprintf("DR%d", i)
	}
}

func (r *run) newVCenter(rb *regionBuild, n int) (inventory.VCenter, error) {
	id, err := r.reg.Register(inventory.KindVCenter, rb.record.ID)
	if err != nil {
		return inventory.VCenter{}, err
	}
	version := r.versions.Sample(r.src)
	instance, err := uuid.NewRandomFromReader(r.src)
	if err != nil {
		return inventory.VCenter{}, fmt.Errorf("vcenter instance uuid: %w", err)
	}
	name := fmt.Sprintf("%s-VC-%02d", rb.cfg.Name, n)
	vc := inventory.VCenter{
		ID:           id,
		Name:         name,
		RegionRef:    rb.record.ID,
		Version:      version.Version,
		Build:        version.Build,
		URL:          fmt.Sprintf("https://%s.vsphere.local/sdk", strings.ToLower(name)),
		InstanceUUID: instance.String(),
		Description:  fmt.Sprintf("vCenter %s for %s", version.Version, rb.cfg.Name),
	}
	r.inv.VCenters = append(r.inv.VCenters, vc)
	return vc, nil
}
