package rvtools_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/vsphere-inventory-generator/internal/emitter"
	"github.com/kubev2v/vsphere-inventory-generator/internal/generator"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
	"github.com/kubev2v/vsphere-inventory-generator/internal/rvtools"
)

func newSheet(f *excelize.File, sheet string) int {
	index, err := f.NewSheet(sheet)
	Expect(err).To(Succeed())
	return index
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	Expect(err).To(Succeed())
	Expect(f.SetSheetRow(sheet, cell, &values)).To(Succeed())
}

func writeBuffer(f *excelize.File) []byte {
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	Expect(err).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("rvtools parser", func() {
	Context("hand written workbook", func() {
		It("summarizes VMs and hosts", func() {
			f := excelize.NewFile()
			defer f.Close()

			newSheet(f, "vInfo")
			setRow(f, "vInfo", 1, "VM", "Powerstate", "Template", "CPUs", "Memory", "OS according to the configuration file", "VI SDK Server")
			setRow(f, "vInfo", 2, "web-1", "poweredOn", "False", 2, 4096, "RHEL 8.6", "VC-01")
			setRow(f, "vInfo", 3, "web-2", "poweredOff", "False", 4, 8192, "RHEL 8.6", "VC-01")
			setRow(f, "vInfo", 4, "tmpl", "poweredOff", "True", 1, 1024, "RHEL 8.6", "VC-01")

			newSheet(f, "vHost")
			setRow(f, "vHost", 1, "Host", "Datacenter", "Cluster", "Config status")
			setRow(f, "vHost", 2, "esx-1", "DC", "CL-1", "green")
			setRow(f, "vHost", 3, "esx-2", "DC", "CL-1", "yellow")
			setRow(f, "vHost", 4, "esx-3", "DC", "CL-2", "")

			summary, err := rvtools.ParseRVTools(writeBuffer(f))
			Expect(err).To(BeNil())

			Expect(summary.TotalVMs).To(Equal(2))
			Expect(summary.PowerStates).To(Equal(map[string]int{"poweredOn": 1, "poweredOff": 1}))
			Expect(summary.Os).To(Equal(map[string]int{"RHEL 8.6": 2}))
			Expect(summary.CPUCores).To(Equal(6))
			Expect(summary.MemoryMiB).To(Equal(int64(12288)))
			Expect(summary.VCenters).To(Equal([]string{"VC-01"}))

			Expect(summary.TotalHosts).To(Equal(3))
			Expect(summary.TotalClusters).To(Equal(2))
			Expect(summary.TotalDatacenters).To(Equal(1))
			Expect(summary.HostsPerCluster).To(Equal([]int{2, 1}))
			Expect(summary.HostPowerStates).To(Equal(map[string]int{"green": 2, "yellow": 1}))
		})

		It("rejects a workbook without inventory sheets", func() {
			f := excelize.NewFile()
			defer f.Close()

			_, err := rvtools.ParseRVTools(writeBuffer(f))
			Expect(err).ToNot(BeNil())
		})

		It("rejects content that is not a workbook", func() {
			_, err := rvtools.ParseRVTools([]byte("not a workbook"))
			Expect(err).ToNot(BeNil())
		})
	})

	Context("generated workbook", func() {
		It("agrees with the inventory it was written from", func() {
			cfg, err := profile.Default()
			Expect(err).To(BeNil())
			g, err := generator.New(cfg, generator.WithSeed(4))
			Expect(err).To(BeNil())
			inv, err := g.Generate(context.TODO())
			Expect(err).To(BeNil())

			dir := GinkgoT().TempDir()
			Expect(emitter.PrepareDir(dir)).To(Succeed())
			files, err := emitter.Run(context.TODO(), dir, inv, emitter.NewXLSXEmitter())
			Expect(err).To(BeNil())

			summary, err := rvtools.ParseFile(files[0])
			Expect(err).To(BeNil())

			Expect(summary.TotalVMs).To(Equal(len(inv.VMs)))
			Expect(summary.TotalHosts).To(Equal(len(inv.Hosts)))
			Expect(summary.TotalClusters).To(Equal(len(inv.Clusters)))
			Expect(summary.VCenters).To(HaveLen(len(inv.VCenters)))
			Expect(summary.Datastores).To(HaveLen(len(inv.Datastores)))
			Expect(summary.Networks).To(HaveLen(len(inv.VirtualSwitches) + len(inv.PortGroups)))

			hosts := 0
			for _, n := range summary.HostsPerCluster {
				hosts += n
			}
			Expect(hosts).To(Equal(len(inv.Hosts)))

			cores := 0
			for _, vm := range inv.VMs {
				cores += vm.CPUCount
			}
			Expect(summary.CPUCores).To(Equal(cores))
		})
	})
})
