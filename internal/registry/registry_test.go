package registry_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/registry"
)

var _ = Describe("registry", func() {
	var r *registry.Registry

	BeforeEach(func() {
		r = registry.New()
	})

	Context("register", func() {
		It("issues per-kind counters with the kind prefix", func() {
			region, err := r.Register(inventory.KindRegion, "")
			Expect(err).To(BeNil())
			Expect(region).To(Equal("region-1000"))

			vc, err := r.Register(inventory.KindVCenter, region)
			Expect(err).To(BeNil())
			Expect(vc).To(Equal("vc-1000"))

			dc, err := r.Register(inventory.KindDatacenter, vc)
			Expect(err).To(BeNil())

			first, err := r.Register(inventory.KindCluster, dc)
			Expect(err).To(BeNil())
			second, err := r.Register(inventory.KindCluster, dc)
			Expect(err).To(BeNil())

			Expect(first).To(Equal("domain-c1000"))
			Expect(second).To(Equal("domain-c1001"))
			Expect(r.Count(inventory.KindCluster)).To(Equal(2))
			Expect(r.Len()).To(Equal(5))
		})

		It("rejects an unregistered parent", func() {
			_, err := r.Register(inventory.KindVM, "host-4242")
			Expect(err).ToNot(BeNil())

			var unknown *registry.ErrUnknownReference
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("host-4242"))
		})

		It("rejects an unregistered link", func() {
			region, _ := r.Register(inventory.KindRegion, "")
			_, err := r.Register(inventory.KindDatastore, region, "group-p9999")

			var unknown *registry.ErrUnknownReference
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(r.Count(inventory.KindDatastore)).To(Equal(0))
		})

		It("rejects an unknown kind", func() {
			_, err := r.Register(inventory.Kind("Folder"), "")
			Expect(err).ToNot(BeNil())
		})
	})

	Context("resolve", func() {
		It("returns the entry metadata", func() {
			region, _ := r.Register(inventory.KindRegion, "")
			vc, _ := r.Register(inventory.KindVCenter, region)

			entry, err := r.Resolve(vc)
			Expect(err).To(BeNil())
			Expect(entry.Kind).To(Equal(inventory.KindVCenter))
			Expect(entry.Parent).To(Equal(region))
			Expect(entry.Seq).To(Equal(1))
		})

		It("fails for unknown ids", func() {
			_, err := r.Resolve("vm-1")
			var unknown *registry.ErrUnknownReference
			Expect(errors.As(err, &unknown)).To(BeTrue())
		})
	})

	Context("children", func() {
		It("follows both parent edges and links", func() {
			region, _ := r.Register(inventory.KindRegion, "")
			vc, _ := r.Register(inventory.KindVCenter, region)
			dc, _ := r.Register(inventory.KindDatacenter, vc)
			cluster, _ := r.Register(inventory.KindCluster, dc)
			pod, _ := r.Register(inventory.KindDatastoreCluster, cluster)
			inPod, _ := r.Register(inventory.KindDatastore, cluster, pod)
			standalone, _ := r.Register(inventory.KindDatastore, cluster)

			ds, err := r.ChildrenOf(cluster, inventory.KindDatastore)
			Expect(err).To(BeNil())
			Expect(ds).To(Equal([]string{inPod, standalone}))

			ds, err = r.ChildrenOf(pod, inventory.KindDatastore)
			Expect(err).To(BeNil())
			Expect(ds).To(Equal([]string{inPod}))

			all, err := r.ChildrenOf(cluster, "")
			Expect(err).To(BeNil())
			Expect(all).To(HaveLen(3))
		})

		It("lists ids of a kind in order", func() {
			region, _ := r.Register(inventory.KindRegion, "")
			other, _ := r.Register(inventory.KindRegion, "")
			Expect(r.OfKind(inventory.KindRegion)).To(Equal([]string{region, other}))
		})
	})

	It("maps ids to managed object references", func() {
		region, _ := r.Register(inventory.KindRegion, "")
		vc, _ := r.Register(inventory.KindVCenter, region)
		dc, _ := r.Register(inventory.KindDatacenter, vc)
		cluster, _ := r.Register(inventory.KindCluster, dc)

		e, err := r.Resolve(cluster)
		Expect(err).To(BeNil())
		ref := registry.Reference(e.Kind, e.ID)
		Expect(ref.Type).To(Equal("ClusterComputeResource"))
		Expect(ref.Value).To(Equal(cluster))
	})
})
