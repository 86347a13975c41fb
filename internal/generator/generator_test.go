package generator_test

import (
	"context"
	"errors"
	"math"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/vsphere-inventory-generator/internal/generator"
	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
)

func defaultConfig() *profile.Config {
	cfg, err := profile.Default()
	Expect(err).To(BeNil())
	return cfg
}

func generate(cfg *profile.Config, seed int64) *inventory.Inventory {
	g, err := generator.New(cfg, generator.WithSeed(seed))
	Expect(err).To(BeNil())
	inv, err := g.Generate(context.TODO())
	Expect(err).To(BeNil())
	return inv
}

var _ = Describe("generator", func() {
	Context("single region", func() {
		var inv *inventory.Inventory

		BeforeEach(func() {
			cfg := defaultConfig()
			cfg.Regions = []profile.Region{
				{Name: "HQ", Weight: 1, NetworkPrefix: "10.1", Datacenters: 1, Profile: "large_site"},
			}
			inv = generate(cfg, 7)
		})

		It("places exactly the tier's VMs on roughly total/avg hosts", func() {
			Expect(inv.VMs).To(HaveLen(1000))
			Expect(len(inv.Hosts)).To(BeNumerically(">=", 45))
			Expect(len(inv.Hosts)).To(BeNumerically("<=", 55))
		})

		It("hangs everything under one datacenter and one vCenter", func() {
			Expect(inv.VCenters).To(HaveLen(1))
			Expect(inv.Datacenters).To(HaveLen(1))
			dc := inv.Datacenters[0]
			for _, c := range inv.Clusters {
				Expect(c.DatacenterRef).To(Equal(dc.ID))
				Expect(c.VCenterRef).To(Equal(inv.VCenters[0].ID))
			}
			clusters := map[string]bool{}
			for _, c := range inv.Clusters {
				clusters[c.ID] = true
			}
			for _, h := range inv.Hosts {
				Expect(clusters).To(HaveKey(h.ClusterRef))
			}
		})

		It("produces a consistent inventory", func() {
			Expect(inventory.Verify(inv.Tables())).To(BeNil())
		})
	})

	Context("default document", func() {
		var (
			cfg *profile.Config
			inv *inventory.Inventory
		)

		BeforeEach(func() {
			cfg = defaultConfig()
			inv = generate(cfg, 42)
		})

		It("splits VMs across regions by weight", func() {
			perRegion := inv.VMsPerRegion()
			Expect(perRegion).To(Equal(map[string]int{
				"HQ-A": 300,
				"HQ-B": 300,
				"NA":   150,
				"EU":   150,
				"APAC": 100,
			}))
			for _, r := range inv.Regions {
				Expect(perRegion[r.Name]).To(Equal(r.VMQuota))
			}
		})

		It("keeps every cluster inside its size category and the tier ceiling", func() {
			tier, err := cfg.Tier()
			Expect(err).To(BeNil())

			sizes := map[string]map[string]profile.ClusterSize{}
			for name, p := range cfg.DistributionProfiles {
				sizes[name] = map[string]profile.ClusterSize{}
				for _, cs := range p.ClusterSizes {
					sizes[name][cs.Name] = cs
				}
			}
			regionProfile := map[string]string{}
			for _, r := range inv.Regions {
				regionProfile[r.ID] = r.Profile
			}
			dcRegion := map[string]string{}
			for _, dc := range inv.Datacenters {
				dcRegion[dc.ID] = dc.RegionRef
			}

			Expect(inv.Clusters).ToNot(BeEmpty())
			for _, c := range inv.Clusters {
				cs, ok := sizes[regionProfile[dcRegion[c.DatacenterRef]]][c.SizeCategory]
				Expect(ok).To(BeTrue(), c.Name)
				Expect(c.TotalHosts).To(BeNumerically(">=", cs.MinHosts), c.Name)
				Expect(c.TotalHosts).To(BeNumerically("<=", cs.MaxHosts), c.Name)
				Expect(c.TotalHosts).To(BeNumerically("<=", tier.MaxHostsPerCluster), c.Name)
			}
		})

		It("produces a consistent inventory", func() {
			Expect(inventory.Verify(inv.Tables())).To(BeNil())
		})

		It("issues morefs in vSphere formats", func() {
			formats := map[inventory.Kind]*regexp.Regexp{
				inventory.KindCluster:          regexp.MustCompile(`^domain-c\d+$`),
				inventory.KindHost:             regexp.MustCompile(`^host-\d+$`),
				inventory.KindVM:               regexp.MustCompile(`^vm-\d+$`),
				inventory.KindDatastoreCluster: regexp.MustCompile(`^group-p\d+$`),
				inventory.KindPortGroup:        regexp.MustCompile(`^dvportgroup-\d+$`),
			}
			for _, t := range inv.Tables() {
				re, ok := formats[t.Kind]
				if !ok {
					continue
				}
				for _, row := range t.Rows {
					Expect(row[0]).To(MatchRegexp(re.String()))
				}
			}
			Expect(inv.VMs[0].ID).To(Equal("vm-1000"))
		})

		It("gives each VM one guest detail and each host its NICs", func() {
			Expect(inv.GuestDetails).To(HaveLen(len(inv.VMs)))
			Expect(inv.NICs).To(HaveLen(len(inv.Hosts) * cfg.NICsPerHost))
		})

		It("registers datastore clusters with the totals of their members", func() {
			type totals struct{ count, capacity int }
			members := map[string]totals{}
			for _, ds := range inv.Datastores {
				if ds.DatastoreClusterRef == "" {
					continue
				}
				t := members[ds.DatastoreClusterRef]
				t.count++
				t.capacity += ds.CapacityGB
				members[ds.DatastoreClusterRef] = t
			}
			Expect(inv.DatastoreClusters).ToNot(BeEmpty())
			for _, dsc := range inv.DatastoreClusters {
				Expect(dsc.TotalDatastores).To(Equal(members[dsc.ID].count))
				Expect(dsc.TotalCapacityGB).To(Equal(members[dsc.ID].capacity))
			}
		})

		It("reports each host's datastore count", func() {
			perCluster := map[string]int{}
			for _, ds := range inv.Datastores {
				perCluster[ds.ClusterRef]++
			}
			for _, h := range inv.Hosts {
				Expect(h.DatastoresCount).To(Equal(perCluster[h.ClusterRef]))
			}
		})

		It("builds one network and port group per purpose and segment", func() {
			perSwitch := len(cfg.Network.Purposes) * len(cfg.Network.Segments)
			Expect(inv.VirtualSwitches).To(HaveLen(len(inv.Datacenters)))
			Expect(inv.Networks).To(HaveLen(len(inv.VirtualSwitches) * perSwitch))
			Expect(inv.PortGroups).To(HaveLen(len(inv.Networks)))
			for _, n := range inv.Networks {
				Expect(n.VLANID).To(BeNumerically(">=", 1))
				Expect(n.VLANID).To(BeNumerically("<=", 4094))
			}
		})

		It("tags the configured fraction of each target kind per category", func() {
			perKind := map[string]int{}
			for _, t := range inv.Tags {
				perKind[t.ObjectType]++
			}
			categories := len(cfg.Tags.Categories)
			Expect(perKind["VM"]).To(Equal(categories * int(math.Round(float64(len(inv.VMs))*0.25))))
			Expect(perKind["Host"]).To(Equal(categories * int(math.Round(float64(len(inv.Hosts))*0.1))))
		})
	})

	Context("determinism", func() {
		It("reproduces the same inventory for the same seed", func() {
			a := generate(defaultConfig(), 99)
			b := generate(defaultConfig(), 99)
			Expect(a).To(Equal(b))
		})

		It("keeps totals but changes content across seeds", func() {
			a := generate(defaultConfig(), 1)
			b := generate(defaultConfig(), 2)
			Expect(a.VMs).To(HaveLen(len(b.VMs)))
			Expect(a.VMsPerRegion()).To(Equal(b.VMsPerRegion()))
			Expect(a.VMs).ToNot(Equal(b.VMs))
		})

		It("can be called repeatedly on one generator", func() {
			g, err := generator.New(defaultConfig(), generator.WithSeed(5))
			Expect(err).To(BeNil())
			a, err := g.Generate(context.TODO())
			Expect(err).To(BeNil())
			b, err := g.Generate(context.TODO())
			Expect(err).To(BeNil())
			Expect(a).To(Equal(b))
		})
	})

	Context("weight fidelity", func() {
		It("follows configured weights at large scale", func() {
			cfg := defaultConfig().WithScale("large")
			inv := generate(cfg, 3)
			Expect(inv.VMs).To(HaveLen(20000))
			Expect(inventory.Verify(inv.Tables())).To(BeNil())

			osCounts := map[string]int{}
			for _, vm := range inv.VMs {
				osCounts[vm.GuestOS]++
			}
			for _, os := range cfg.OSTypes {
				share := float64(osCounts[os.Name]) / float64(len(inv.VMs))
				Expect(share).To(BeNumerically("~", os.Weight, 0.02), os.Name)
			}

			purposes := map[string]int{}
			for _, vm := range inv.VMs {
				purposes[vm.Purpose]++
			}
			for _, p := range cfg.VMPurposes {
				share := float64(purposes[p.Name]) / float64(len(inv.VMs))
				Expect(share).To(BeNumerically("~", p.Weight, 0.02), p.Name)
			}

			models := map[string]int{}
			for _, h := range inv.Hosts {
				models[h.Model]++
			}
			n := float64(len(inv.Hosts))
			for _, m := range cfg.HostModels {
				tolerance := math.Max(0.02, 4*math.Sqrt(m.Weight*(1-m.Weight)/n))
				Expect(float64(models[m.Model])/n).To(BeNumerically("~", m.Weight, tolerance), m.Model)
			}
		})
	})

	Context("vcenter scope", func() {
		It("creates one vCenter per datacenter", func() {
			cfg := defaultConfig()
			cfg.VCenterScope = profile.VCenterPerDatacenter
			inv := generate(cfg, 1)
			Expect(inv.VCenters).To(HaveLen(len(inv.Datacenters)))
			Expect(inventory.Verify(inv.Tables())).To(BeNil())
		})

		It("creates one vCenter per region by default", func() {
			inv := generate(defaultConfig(), 1)
			Expect(inv.VCenters).To(HaveLen(len(inv.Regions)))
		})
	})

	Context("edge cases", func() {
		It("builds empty regions when the tier has no VMs", func() {
			cfg := defaultConfig()
			tier := cfg.Scales["small"]
			tier.TotalVMs = 0
			cfg.Scales["small"] = tier

			inv := generate(cfg, 1)
			Expect(inv.Regions).To(HaveLen(5))
			Expect(inv.Datacenters).ToNot(BeEmpty())
			Expect(inv.Clusters).To(BeEmpty())
			Expect(inv.Hosts).To(BeEmpty())
			Expect(inv.VMs).To(BeEmpty())
			Expect(inventory.Verify(inv.Tables())).To(BeNil())
		})

		It("gives a zero-weight region no VMs", func() {
			cfg := defaultConfig()
			cfg.Regions[4].Weight = 0
			inv := generate(cfg, 1)
			Expect(inv.VMsPerRegion()["APAC"]).To(Equal(0))
			Expect(inv.VMs).To(HaveLen(1000))
		})

		It("respects a tight cluster ceiling", func() {
			cfg := defaultConfig()
			tier := cfg.Scales["small"]
			tier.MaxHostsPerCluster = 3
			cfg.Scales["small"] = tier

			inv := generate(cfg, 11)
			for _, c := range inv.Clusters {
				Expect(c.TotalHosts).To(BeNumerically("<=", 3))
			}
			Expect(inv.VMs).To(HaveLen(1000))
			Expect(inventory.Verify(inv.Tables())).To(BeNil())
		})

		It("skips datastore clusters when membership is zero", func() {
			cfg := defaultConfig()
			none := 0.0
			cfg.DatastoreClusterMembership = &none
			inv := generate(cfg, 1)
			for _, ds := range inv.Datastores {
				Expect(ds.DatastoreClusterRef).To(BeEmpty())
			}
			Expect(inv.DatastoreClusters).To(BeEmpty())
			Expect(inventory.Verify(inv.Tables())).To(BeNil())
		})

		It("never creates empty datastore clusters under partial membership", func() {
			cfg := defaultConfig()
			partial := 0.3
			cfg.DatastoreClusterMembership = &partial
			cfg.DatastoreClustersPerCluster = 3

			for _, seed := range []int64{1, 2, 3, 4, 5} {
				inv := generate(cfg, seed)
				members := map[string]int{}
				for _, ds := range inv.Datastores {
					if ds.DatastoreClusterRef != "" {
						members[ds.DatastoreClusterRef]++
					}
				}
				for _, dsc := range inv.DatastoreClusters {
					Expect(dsc.TotalDatastores).To(BeNumerically(">", 0), dsc.Name)
					Expect(dsc.TotalDatastores).To(Equal(members[dsc.ID]), dsc.Name)
				}
				Expect(inventory.Verify(inv.Tables())).To(BeNil())
			}
		})
	})

	Context("failures", func() {
		It("rejects an undefined scale", func() {
			cfg := defaultConfig().WithScale("huge")
			_, err := generator.New(cfg)
			Expect(err).ToNot(BeNil())
			var invalid *profile.ErrInvalidConfiguration
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("stops on a cancelled context", func() {
			g, err := generator.New(defaultConfig())
			Expect(err).To(BeNil())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			inv, err := g.Generate(ctx)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(inv).To(BeNil())
		})
	})
})
