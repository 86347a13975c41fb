package emitter

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmware/govmomi/vim25/types"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

const (
	xlsxFileName = "inventory.xlsx"
	defaultSheet = "Sheet1"
	mib          = 1024
)

// XLSXEmitter writes one workbook with a sheet per kind, followed by the vInfo,
// vHost, vDatastore, dvSwitch and dvPort sheets in the layout RVTools exports.
type XLSXEmitter struct{}

func NewXLSXEmitter() *XLSXEmitter {
	return &XLSXEmitter{}
}

func (e *XLSXEmitter) Format() Format {
	return FormatXLSX
}

func (e *XLSXEmitter) Emit(ctx context.Context, dir string, inv *inventory.Inventory) ([]string, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, t := range inv.Tables() {
		if err := writeSheet(f, t.Name, stringsToAny(t.Columns), t.Rows); err != nil {
			return nil, err
		}
	}

	lk := newLookup(inv)
	rvtools := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{"vInfo", vInfoHeader, vInfoRows(inv, lk)},
		{"vHost", vHostHeader, vHostRows(inv, lk)},
		{"vDatastore", vDatastoreHeader, vDatastoreRows(inv, lk)},
		{"dvSwitch", dvSwitchHeader, dvSwitchRows(inv, lk)},
		{"dvPort", dvPortHeader, dvPortRows(inv, lk)},
	}
	for _, s := range rvtools {
		if err := writeSheet(f, s.name, stringsToAny(s.header), s.rows); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, errors.Wrap(err, "removing default sheet")
	}
	f.SetActiveSheet(0)

	path := filepath.Join(dir, xlsxFileName)
	if err := f.SaveAs(path); err != nil {
		return nil, errors.Wrapf(err, "saving %s", path)
	}
	return []string{path}, nil
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return errors.Wrapf(err, "creating sheet %s", name)
	}
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return errors.Wrapf(err, "opening sheet %s", name)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return errors.Wrapf(err, "writing header of %s", name)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return errors.Wrapf(err, "writing row %d of %s", i+1, name)
		}
	}
	return sw.Flush()
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// lookup resolves the names RVTools sheets show in place of references.
type lookup struct {
	names  map[string]string
	vcUUID map[string]string
	guests map[string]inventory.GuestDetail
}

func newLookup(inv *inventory.Inventory) *lookup {
	lk := &lookup{
		names:  make(map[string]string),
		vcUUID: make(map[string]string),
		guests: make(map[string]inventory.GuestDetail, len(inv.GuestDetails)),
	}
	for _, vc := range inv.VCenters {
		lk.names[vc.ID] = vc.Name
		lk.vcUUID[vc.ID] = vc.InstanceUUID
	}
	for _, dc := range inv.Datacenters {
		lk.names[dc.ID] = dc.Name
	}
	for _, c := range inv.Clusters {
		lk.names[c.ID] = c.Name
	}
	for _, h := range inv.Hosts {
		lk.names[h.ID] = h.Name
	}
	for _, dsc := range inv.DatastoreClusters {
		lk.names[dsc.ID] = dsc.Name
	}
	for _, vs := range inv.VirtualSwitches {
		lk.names[vs.ID] = vs.Name
	}
	for _, g := range inv.GuestDetails {
		lk.guests[g.VMRef] = g
	}
	return lk
}

var vInfoHeader = []string{
	"VM", "Powerstate", "Template", "DNS Name", "CPUs", "Memory", "NICs", "Disks",
	"Primary IP Address", "Datacenter", "Cluster", "Host",
	"OS according to the configuration file", "OS according to the VMware Tools",
	"VM ID", "VM UUID", "Firmware", "HW version", "Creation date", "Annotation",
	"VI SDK Server", "VI SDK UUID",
}

func vInfoRows(inv *inventory.Inventory, lk *lookup) [][]any {
	rows := make([][]any, 0, len(inv.VMs))
	for _, vm := range inv.VMs {
		guest := lk.guests[vm.ID]
		rows = append(rows, []any{
			vm.Name, vm.PowerState, false, guest.Hostname, vm.CPUCount, vm.MemoryGB * mib, vm.NICCount, vm.DiskCount,
			vm.IPAddress, lk.names[vm.DatacenterRef], lk.names[vm.ClusterRef], lk.names[vm.HostRef],
			vm.GuestOS, guest.GuestOSFull,
			vm.ID, vm.UUID, "efi", vm.VMVersion, vm.CreatedDate, vm.Notes,
			lk.names[vm.VCenterRef], lk.vcUUID[vm.VCenterRef],
		})
	}
	return rows
}

var vHostHeader = []string{
	"Host", "Datacenter", "Cluster", "Config status", "Connection state", "in Maintenance Mode",
	"Vendor", "Model", "Serial number", "# CPU", "# Cores", "# Memory", "# NICs", "# VMs",
	"Uptime", "Object ID", "VI SDK Server", "VI SDK UUID",
}

func vHostRows(inv *inventory.Inventory, lk *lookup) [][]any {
	rows := make([][]any, 0, len(inv.Hosts))
	for _, h := range inv.Hosts {
		status := types.ManagedEntityStatusGreen
		maintenance := h.Status == "Maintenance"
		if maintenance {
			status = types.ManagedEntityStatusYellow
		}
		rows = append(rows, []any{
			h.Name, lk.names[h.DatacenterRef], lk.names[h.ClusterRef], string(status),
			string(types.HostSystemConnectionStateConnected), maintenance,
			h.Vendor, h.Model, h.Serial, 2, h.CPUCores, h.MemoryGB * mib, h.NICCount, h.VMCount,
			int(h.UptimeDays * 86400), h.ID, lk.names[h.VCenterRef], lk.vcUUID[h.VCenterRef],
		})
	}
	return rows
}

var vDatastoreHeader = []string{
	"Name", "Type", "Capacity MiB", "Provisioned MiB", "In Use MiB", "Free MiB", "Free %",
	"Cluster name", "Datastore Cluster", "Storage array", "Object ID",
}

func vDatastoreRows(inv *inventory.Inventory, lk *lookup) [][]any {
	rows := make([][]any, 0, len(inv.Datastores))
	for _, ds := range inv.Datastores {
		free := 0
		if ds.CapacityGB > 0 {
			free = ds.FreeSpaceGB * 100 / ds.CapacityGB
		}
		rows = append(rows, []any{
			ds.Name, ds.Type, ds.CapacityGB * mib, ds.ProvisionedSpaceGB * mib,
			(ds.CapacityGB - ds.FreeSpaceGB) * mib, ds.FreeSpaceGB * mib, free,
			lk.names[ds.ClusterRef], lk.names[ds.DatastoreClusterRef], ds.StorageArray + " " + ds.StorageModel, ds.ID,
		})
	}
	return rows
}

var dvSwitchHeader = []string{
	"Switch", "Datacenter", "Name", "Vendor", "# Uplinks", "# Ports", "Max MTU", "LB Policy", "Object ID",
}

func dvSwitchRows(inv *inventory.Inventory, lk *lookup) [][]any {
	rows := make([][]any, 0, len(inv.VirtualSwitches))
	for _, vs := range inv.VirtualSwitches {
		rows = append(rows, []any{
			vs.Name, lk.names[vs.DatacenterRef], vs.Name, "VMware, Inc.", vs.Uplinks, vs.PortGroups, vs.MTU, vs.LoadBalancing, vs.ID,
		})
	}
	return rows
}

var dvPortHeader = []string{
	"Port", "Switch", "Type", "VLAN", "# VMs", "Allow Promiscuous", "Object ID",
}

func dvPortRows(inv *inventory.Inventory, lk *lookup) [][]any {
	rows := make([][]any, 0, len(inv.PortGroups))
	for _, pg := range inv.PortGroups {
		members := 0
		if pg.AssociatedVMs != "" {
			members = len(strings.Split(pg.AssociatedVMs, ","))
		}
		rows = append(rows, []any{
			pg.Name, lk.names[pg.VSwitchRef], "earlyBinding", strconv.Itoa(pg.VLANID), members, false, pg.ID,
		})
	}
	return rows
}
