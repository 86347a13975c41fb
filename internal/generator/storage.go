package generator

import (
	"fmt"
	"strings"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
	"github.com/kubev2v/vsphere-inventory-generator/internal/sampler"
)

var datastoreTypes = sampler.MustDistribution([]sampler.Choice[string]{
	{Value: "VMFS-6", Weight: 0.8},
	{Value: "NFS", Weight: 0.2},
})

var automationLevels = []string{"automated", "manual"}

type datastorePlan struct {
	record inventory.Datastore
	pod    int
}

// storageStage gives every cluster its datastores and datastore clusters. Datastores
// are drawn first so each datastore cluster is registered with its final capacity.
func (r *run) storageStage(rb *regionBuild) error {
	for _, dc := range rb.datacenters {
		for _, cb := range dc.clusters {
			if err := r.clusterStorage(cb); err != nil {
				return fmt.Errorf("cluster %q: %w", cb.record.Name, err)
			}
		}
	}
	return nil
}

func (r *run) clusterStorage(cb *clusterBuild) error {
	pods := 0
	if cb.datastores > 0 {
		pods = r.cfg.DatastoreClustersPerCluster
	}

	plans := make([]datastorePlan, cb.datastores)
	members := 0
	for i := range plans {
		plans[i] = datastorePlan{record: r.planDatastore(), pod: -1}
		if pods > 0 && r.src.Bool(r.cfg.Membership()) {
			plans[i].pod = members % pods
			members++
		}
	}
	// a datastore cluster exists only with at least one member
	pods = min(pods, members)

	base := strings.Replace(cb.record.Name, "-CL-", "-DS-", 1)
	podIDs := make([]string, pods)
	for p := 0; p < pods; p++ {
		id, err := r.reg.Register(inventory.KindDatastoreCluster, cb.record.ID)
		if err != nil {
			return err
		}
		podIDs[p] = id
		dsc := inventory.DatastoreCluster{
			ID:              id,
			Name:            fmt.Sprintf("DSC-%s-%02d", cb.record.Name, p+1),
			ClusterRef:      cb.record.ID,
			SDRSEnabled:     true,
			AutomationLevel: sampler.PickOne(r.src, automationLevels),
			SpaceThreshold:  r.src.IntRange(75, 85),
		}
		for _, ds := range plans {
			if ds.pod == p {
				dsc.TotalDatastores++
				dsc.TotalCapacityGB += ds.record.CapacityGB
				dsc.FreeSpaceGB += ds.record.FreeSpaceGB
			}
		}
		r.inv.DatastoreClusters = append(r.inv.DatastoreClusters, dsc)
	}

	for i, ds := range plans {
		var links []string
		if ds.pod >= 0 {
			ds.record.DatastoreClusterRef = podIDs[ds.pod]
			links = append(links, podIDs[ds.pod])
		}
		id, err := r.reg.Register(inventory.KindDatastore, cb.record.ID, links...)
		if err != nil {
			return err
		}
		ds.record.ID = id
		ds.record.Name = fmt.Sprintf("%s-%02d", base, i+1)
		ds.record.ClusterRef = cb.record.ID
		r.inv.Datastores = append(r.inv.Datastores, ds.record)
		r.tagValues[id] = ds.record.StorageArray
	}
	return nil
}

// planDatastore draws the capacity and backing array of one datastore.
func (r *run) planDatastore() inventory.Datastore {
	capacity := sampler.PickOne(r.src, r.cfg.DatastoreSizesGB)
	array := r.arrays.Sample(r.src)
	return inventory.Datastore{
		Type:               datastoreTypes.Sample(r.src),
		CapacityGB:         capacity,
		FreeSpaceGB:        int(float64(capacity) * r.src.UniformFloat64(0.2, 0.4)),
		ProvisionedSpaceGB: int(float64(capacity) * r.src.UniformFloat64(0.7, 0.9)),
		StorageArray:       array.Name,
		StorageModel:       sampler.PickOne(r.src, array.Models),
		StorageSerial:      r.arraySerial(array),
	}
}

// arraySerial prefixes a serial with the initials of the array name.
func (r *run) arraySerial(array profile.StorageArray) string {
	var initials strings.Builder
	for _, w := range strings.Fields(array.Name) {
		initials.WriteString(strings.ToUpper(w[:1]))
	}
	return r.serial(initials.String(), 6)
}
