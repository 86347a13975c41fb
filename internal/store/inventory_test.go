package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/vsphere-inventory-generator/internal/config"
	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	st "github.com/kubev2v/vsphere-inventory-generator/internal/store"
)

func regionTable(names ...string) inventory.Table {
	inv := &inventory.Inventory{}
	for i, n := range names {
		inv.Regions = append(inv.Regions, inventory.Region{
			ID:              "region-" + string(rune('a'+i)),
			Name:            n,
			Weight:          0.5,
			NetworkPrefix:   "10.10",
			DatacenterCount: 1,
			Profile:         "large_site",
			VMQuota:         10,
			HostTarget:      1,
		})
	}
	return inv.Tables()[0]
}

var _ = Describe("inventory store", Ordered, func() {
	var store st.Store

	BeforeAll(func() {
		Expect(os.Setenv("DB_NAME", filepath.Join(GinkgoT().TempDir(), "inventory.db"))).To(Succeed())
		DeferCleanup(os.Unsetenv, "DB_NAME")

		cfg, err := config.Load()
		Expect(err).To(BeNil())
		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())

		store = st.NewStore(db)
		Expect(store).ToNot(BeNil())
	})

	AfterAll(func() {
		store.Close()
	})

	It("creates a table per kind and inserts every row", func() {
		err := store.Inventory().Replace(context.TODO(), regionTable("HQ-A", "HQ-B"))
		Expect(err).To(BeNil())

		count, err := store.Inventory().Count(context.TODO(), inventory.KindRegion)
		Expect(err).To(BeNil())
		Expect(count).To(Equal(int64(2)))

		rows, err := store.Inventory().Rows(context.TODO(), inventory.KindRegion)
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0]["name"]).To(Equal("HQ-A"))
		Expect(rows[0]["network_prefix"]).To(Equal("10.10"))
	})

	It("replaces previous content", func() {
		err := store.Inventory().Replace(context.TODO(), regionTable("EU"))
		Expect(err).To(BeNil())

		count, err := store.Inventory().Count(context.TODO(), inventory.KindRegion)
		Expect(err).To(BeNil())
		Expect(count).To(Equal(int64(1)))
	})

	It("creates empty tables", func() {
		err := store.Inventory().Replace(context.TODO(), regionTable())
		Expect(err).To(BeNil())

		count, err := store.Inventory().Count(context.TODO(), inventory.KindRegion)
		Expect(err).To(BeNil())
		Expect(count).To(BeZero())
	})

	It("reports tables that were never written", func() {
		_, err := store.Inventory().Count(context.TODO(), inventory.KindTag)
		Expect(errors.Is(err, st.ErrTableNotFound)).To(BeTrue())
	})

	Context("transaction", func() {
		It("keeps nothing when the callback fails", func() {
			failure := errors.New("emitter failed")

			err := store.WithTx(context.TODO(), func(ctx context.Context) error {
				Expect(store.Inventory().Replace(ctx, regionTable("NA", "APAC", "EU"))).To(Succeed())

				count, err := store.Inventory().Count(ctx, inventory.KindRegion)
				Expect(err).To(BeNil())
				Expect(count).To(Equal(int64(3)))
				return failure
			})
			Expect(errors.Is(err, failure)).To(BeTrue())

			count, err := store.Inventory().Count(context.TODO(), inventory.KindRegion)
			Expect(err).To(BeNil())
			Expect(count).To(BeZero())
		})

		It("keeps the rows when the callback succeeds", func() {
			err := store.WithTx(context.TODO(), func(ctx context.Context) error {
				return store.Inventory().Replace(ctx, regionTable("NA", "APAC"))
			})
			Expect(err).To(BeNil())

			count, err := store.Inventory().Count(context.TODO(), inventory.KindRegion)
			Expect(err).To(BeNil())
			Expect(count).To(Equal(int64(2)))
		})
	})
})
