package emitter_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/vsphere-inventory-generator/internal/config"
	"github.com/kubev2v/vsphere-inventory-generator/internal/emitter"
	"github.com/kubev2v/vsphere-inventory-generator/internal/generator"
	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
	st "github.com/kubev2v/vsphere-inventory-generator/internal/store"
)

func generate(seed int64) *inventory.Inventory {
	cfg, err := profile.Default()
	Expect(err).To(BeNil())
	g, err := generator.New(cfg, generator.WithSeed(seed))
	Expect(err).To(BeNil())
	inv, err := g.Generate(context.TODO())
	Expect(err).To(BeNil())
	return inv
}

func emitTo(dir string, inv *inventory.Inventory, emitters ...emitter.Emitter) []string {
	Expect(emitter.PrepareDir(dir)).To(Succeed())
	files, err := emitter.Run(context.TODO(), dir, inv, emitters...)
	Expect(err).To(BeNil())
	return files
}

var _ = Describe("emitter", Ordered, func() {
	var inv *inventory.Inventory

	BeforeAll(func() {
		inv = generate(17)
	})

	Context("csv", func() {
		It("writes one file per kind under the historical names", func() {
			dir := GinkgoT().TempDir()
			files := emitTo(dir, inv, emitter.NewCSVEmitter())

			Expect(files).To(HaveLen(len(inventory.Kinds)))
			for _, name := range []string{"vCenters.csv", "ESXiHosts.csv", "VirtualMachines.csv", "NSXTags.csv", "Regions.csv"} {
				Expect(filepath.Join(dir, name)).To(BeAnExistingFile())
			}
		})

		It("reads back into tables that pass verification", func() {
			dir := GinkgoT().TempDir()
			emitTo(dir, inv, emitter.NewCSVEmitter())

			tables, err := emitter.ReadCSV(dir)
			Expect(err).To(BeNil())
			Expect(tables).To(HaveLen(len(inventory.Kinds)))
			Expect(inventory.Verify(tables)).To(BeNil())

			for _, t := range tables {
				if t.Kind == inventory.KindVM {
					Expect(t.Rows).To(HaveLen(len(inv.VMs)))
					Expect(t.Columns[0]).To(Equal("moref"))
				}
			}
		})

		It("is byte-identical for the same seed", func() {
			a, b := GinkgoT().TempDir(), GinkgoT().TempDir()
			emitTo(a, generate(3), emitter.NewCSVEmitter())
			emitTo(b, generate(3), emitter.NewCSVEmitter())

			for _, k := range inventory.Kinds {
				name := inventory.TableName(k) + ".csv"
				left, err := os.ReadFile(filepath.Join(a, name))
				Expect(err).To(BeNil())
				right, err := os.ReadFile(filepath.Join(b, name))
				Expect(err).To(BeNil())
				Expect(left).To(Equal(right), name)
			}
		})

		It("removes previous output only", func() {
			dir := GinkgoT().TempDir()
			previous := filepath.Join(dir, "inventory.json")
			Expect(os.WriteFile(previous, []byte("{}"), 0o644)).To(Succeed())
			unrelated := filepath.Join(dir, "src", "main.go")
			Expect(os.MkdirAll(filepath.Dir(unrelated), 0o755)).To(Succeed())
			Expect(os.WriteFile(unrelated, []byte("package main\n"), 0o644)).To(Succeed())
			notes := filepath.Join(dir, "notes.csv")
			Expect(os.WriteFile(notes, []byte("x"), 0o644)).To(Succeed())

			emitTo(dir, inv, emitter.NewCSVEmitter())

			Expect(previous).ToNot(BeAnExistingFile())
			Expect(unrelated).To(BeAnExistingFile())
			Expect(notes).To(BeAnExistingFile())
			Expect(filepath.Join(dir, "VirtualMachines.csv")).To(BeAnExistingFile())
		})

		It("removes an extra file such as a database", func() {
			dir := GinkgoT().TempDir()
			db := filepath.Join(dir, "vsphere.db")
			Expect(os.WriteFile(db, []byte("x"), 0o644)).To(Succeed())

			Expect(emitter.PrepareDir(dir, "vsphere.db")).To(Succeed())
			Expect(db).ToNot(BeAnExistingFile())
		})

		It("creates a missing directory", func() {
			dir := filepath.Join(GinkgoT().TempDir(), "a", "b")
			Expect(emitter.PrepareDir(dir)).To(Succeed())
			Expect(dir).To(BeADirectory())
		})

		It("fails to read a directory with missing tables", func() {
			_, err := emitter.ReadCSV(GinkgoT().TempDir())
			Expect(err).ToNot(BeNil())
		})
	})

	Context("json", func() {
		It("writes counts, managed object refs and the inventory", func() {
			dir := GinkgoT().TempDir()
			files := emitTo(dir, inv, emitter.NewJSONEmitter())
			Expect(files).To(HaveLen(1))

			data, err := os.ReadFile(files[0])
			Expect(err).To(BeNil())

			var doc struct {
				Counts         map[string]int `json:"counts"`
				ManagedObjects []struct {
					Type  string `json:"type"`
					Value string `json:"value"`
				} `json:"managed_objects"`
				Inventory inventory.Inventory `json:"inventory"`
			}
			Expect(json.Unmarshal(data, &doc)).To(Succeed())

			Expect(doc.Counts["VM"]).To(Equal(len(inv.VMs)))
			Expect(doc.Inventory.VMs).To(HaveLen(len(inv.VMs)))
			Expect(doc.Inventory.Seed).To(Equal(int64(17)))

			total := 0
			for _, n := range inv.Counts() {
				total += n
			}
			Expect(doc.ManagedObjects).To(HaveLen(total))
			Expect(doc.ManagedObjects[0].Type).To(Equal("Folder"))
		})

		It("is byte-identical for the same seed", func() {
			a, b := GinkgoT().TempDir(), GinkgoT().TempDir()
			left := emitTo(a, generate(8), emitter.NewJSONEmitter())
			right := emitTo(b, generate(8), emitter.NewJSONEmitter())

			l, err := os.ReadFile(left[0])
			Expect(err).To(BeNil())
			r, err := os.ReadFile(right[0])
			Expect(err).To(BeNil())
			Expect(l).To(Equal(r))
		})
	})

	Context("xlsx", func() {
		It("writes a sheet per kind and the RVTools sheets", func() {
			dir := GinkgoT().TempDir()
			files := emitTo(dir, inv, emitter.NewXLSXEmitter())
			Expect(files).To(HaveLen(1))

			f, err := excelize.OpenFile(files[0])
			Expect(err).To(BeNil())
			defer f.Close()

			sheets := f.GetSheetList()
			for _, k := range inventory.Kinds {
				Expect(sheets).To(ContainElement(inventory.TableName(k)))
			}
			Expect(sheets).To(ContainElements("vInfo", "vHost", "vDatastore", "dvSwitch", "dvPort"))
			Expect(sheets).ToNot(ContainElement("Sheet1"))

			vInfo, err := f.GetRows("vInfo")
			Expect(err).To(BeNil())
			Expect(vInfo).To(HaveLen(len(inv.VMs) + 1))
			Expect(vInfo[0][0]).To(Equal("VM"))

			vHost, err := f.GetRows("vHost")
			Expect(err).To(BeNil())
			Expect(vHost).To(HaveLen(len(inv.Hosts) + 1))

			dvPort, err := f.GetRows("dvPort")
			Expect(err).To(BeNil())
			Expect(dvPort).To(HaveLen(len(inv.PortGroups) + 1))
		})
	})

	Context("db", func() {
		It("loads every kind into its own table", func() {
			dir := GinkgoT().TempDir()
			Expect(os.Setenv("DB_NAME", filepath.Join(dir, "inventory.db"))).To(Succeed())
			DeferCleanup(os.Unsetenv, "DB_NAME")

			cfg, err := config.Load()
			Expect(err).To(BeNil())
			db, err := st.InitDB(cfg)
			Expect(err).To(BeNil())
			store := st.NewStore(db)
			defer store.Close()

			files, err := emitter.Run(context.TODO(), dir, inv, emitter.NewDBEmitter(store))
			Expect(err).To(BeNil())
			Expect(files).To(BeEmpty())

			counts := inv.Counts()
			for _, k := range inventory.Kinds {
				n, err := store.Inventory().Count(context.TODO(), k)
				Expect(err).To(BeNil())
				Expect(n).To(Equal(int64(counts[k])), string(k))
			}
		})
	})
})
