package generator

import (
	"fmt"

	"github.com/kubev2v/vsphere-inventory-generator/internal/allocator"
	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
	"github.com/kubev2v/vsphere-inventory-generator/internal/sampler"
)

type clusterBuild struct {
	size       profile.ClusterSize
	hosts      []*hostBuild
	datastores int
	record     inventory.Cluster
}

type hostBuild struct {
	model   profile.HostModel
	density profile.VMDensity
	// weight is the sampled VM count the region quota is apportioned by
	weight int
	vms    int
	record inventory.Host
}

// ceiling is the host limit of any cluster in the active tier.
func (r *run) ceiling() int {
	return r.tier.MaxHostsPerCluster
}

// clusterStage plans clusters and hosts for every datacenter of the region, spreads
// the region VM quota over the planned hosts, then registers the clusters with their
// final totals.
func (r *run) clusterStage(rb *regionBuild) error {
	for _, dc := range rb.datacenters {
		plans, err := r.planClusters(rb.profile, dc.hostTarget)
		if err != nil {
			return fmt.Errorf("datacenter %q: %w", dc.record.Name, err)
		}
		dc.clusters = plans
	}

	var hosts []*hostBuild
	for _, dc := range rb.datacenters {
		for _, cb := range dc.clusters {
			for i := range cb.hosts {
				cb.hosts[i] = r.planHost(rb.profile)
				hosts = append(hosts, cb.hosts[i])
			}
			cb.datastores = r.src.IntRange(r.cfg.DatastoresPerCluster.Min, r.cfg.DatastoresPerCluster.Max)
		}
	}

	if err := apportionVMs(rb.record.VMQuota, hosts); err != nil {
		return err
	}

	for _, dc := range rb.datacenters {
		for _, cb := range dc.clusters {
			if err := r.newCluster(rb, dc, cb); err != nil {
				return err
			}
		}
	}
	return nil
}

// planClusters partitions a datacenter host target into clusters. Each cluster draws
// a size category among those that still fit, then a host count inside the category
// range, the tier ceiling and the remaining target. A remainder no category fits is
// absorbed into the headroom of planned clusters; what is still left is either
// dropped or covered by one more minimum-size cluster, whichever lands closer to
// the target.
func (r *run) planClusters(p *preparedProfile, target int) ([]*clusterBuild, error) {
	if target <= 0 {
		return nil, nil
	}
	if len(p.usable) == 0 {
		return nil, fmt.Errorf("profile %q has no cluster size fitting %d hosts per cluster", p.name, r.ceiling())
	}

	var plans []*clusterBuild
	remaining := target
	for remaining > 0 {
		limit := min(remaining, r.ceiling())
		size, ok, err := r.drawClusterSize(p, limit)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		n := r.src.IntRange(size.MinHosts, min(size.MaxHosts, limit))
		plans = append(plans, &clusterBuild{size: size, hosts: make([]*hostBuild, n)})
		remaining -= n
	}

	for _, cb := range plans {
		if remaining == 0 {
			break
		}
		room := min(cb.size.MaxHosts, r.ceiling()) - len(cb.hosts)
		take := min(room, remaining)
		if take > 0 {
			cb.hosts = append(cb.hosts, make([]*hostBuild, take)...)
			remaining -= take
		}
	}

	if remaining > 0 {
		smallest := p.usable[0]
		for _, cs := range p.usable[1:] {
			if cs.MinHosts < smallest.MinHosts {
				smallest = cs
			}
		}
		overshoot := smallest.MinHosts - remaining
		if len(plans) == 0 || overshoot < remaining {
			plans = append(plans, &clusterBuild{size: smallest, hosts: make([]*hostBuild, smallest.MinHosts)})
			r.log.Debugf("host target %d overshot by %d", target, overshoot)
		} else {
			r.log.Debugf("host target %d undershot by %d", target, remaining)
		}
	}
	return plans, nil
}

// drawClusterSize samples a usable size whose minimum fits limit.
func (r *run) drawClusterSize(p *preparedProfile, limit int) (profile.ClusterSize, bool, error) {
	eligible := make([]sampler.Choice[profile.ClusterSize], 0, len(p.usable))
	for _, cs := range p.usable {
		if cs.MinHosts <= limit {
			eligible = append(eligible, sampler.Choice[profile.ClusterSize]{Value: cs, Weight: cs.Weight})
		}
	}
	switch len(eligible) {
	case 0:
		return profile.ClusterSize{}, false, nil
	case len(p.usable):
		return p.sizes.Sample(r.src), true, nil
	}
	size, err := sampler.Pick(r.src, eligible)
	if err != nil {
		return profile.ClusterSize{}, false, err
	}
	return size, true, nil
}

// planHost draws the hardware and density of one host.
func (r *run) planHost(p *preparedProfile) *hostBuild {
	density := p.density.Sample(r.src)
	return &hostBuild{
		model:   r.hostModels.Sample(r.src),
		density: density,
		weight:  r.src.IntRange(density.MinVMs, density.MaxVMs),
	}
}

// apportionVMs gives every host its share of the quota, weighted by the host's
// sampled density, so the hosts of a region always carry exactly the quota.
func apportionVMs(quota int, hosts []*hostBuild) error {
	if len(hosts) == 0 {
		if quota > 0 {
			return allocator.NewErrInfeasibleAllocation("%d vms but no hosts", quota)
		}
		return nil
	}
	weights := make([]float64, len(hosts))
	for i, h := range hosts {
		weights[i] = float64(h.weight)
	}
	counts, err := allocator.Weighted(quota, weights)
	if err != nil {
		return err
	}
	for i, h := range hosts {
		h.vms = counts[i]
	}
	return nil
}

func (r *run) newCluster(rb *regionBuild, dc *datacenterBuild, cb *clusterBuild) error {
	id, err := r.reg.Register(inventory.KindCluster, dc.record.ID)
	if err != nil {
		return err
	}
	rb.clusterSeq++

	var vms, cores, memory int
	for _, h := range cb.hosts {
		vms += h.vms
		cores += h.model.CPUCores
		memory += h.model.MemoryGB
	}
	cb.record = inventory.Cluster{
		ID:            id,
		Name:          fmt.Sprintf("%s-CL-%02d", rb.cfg.Name, rb.clusterSeq),
		DatacenterRef: dc.record.ID,
		VCenterRef:    dc.record.VCenterRef,
		SizeCategory:  cb.size.Name,
		TotalHosts:    len(cb.hosts),
		TotalVMs:      vms,
		TotalCPUCores: cores,
		TotalMemoryGB: memory,
		HAEnabled:     true,
		DRSEnabled:    true,
		Notes:         fmt.Sprintf("%s cluster in %s", cb.size.Name, dc.record.Name),
	}
	r.inv.Clusters = append(r.inv.Clusters, cb.record)
	r.tagValues[id] = cb.size.Name
	r.log.Debugf("cluster %s: %s, %d hosts, %d vms", cb.record.Name, cb.size.Name, len(cb.hosts), vms)
	return nil
}
