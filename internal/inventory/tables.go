package inventory

import (
	"reflect"
	"strconv"
	"strings"
)

// Table is the flat form of one kind: ordered columns and one row per record.
type Table struct {
	Kind    Kind
	Name    string
	Columns []string
	Rows    [][]any
}

// FileName is the delimited-file name the table is written to.
func (t Table) FileName() string {
	return t.Name + ".csv"
}

// Index returns the position of a column, or -1.
func (t Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// StringRows renders every cell with FormatValue.
func (t Table) StringRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = FormatValue(v)
		}
	}
	return out
}

// tableNames keeps the file names downstream fixture consumers already rely on.
var tableNames = map[Kind]string{
	KindRegion:           "Regions",
	KindVCenter:          "vCenters",
	KindDatacenter:       "Datacenters",
	KindCluster:          "Clusters",
	KindHost:             "ESXiHosts",
	KindNIC:              "HostNICs",
	KindVM:               "VirtualMachines",
	KindGuestDetail:      "VMGuestDetails",
	KindDatastoreCluster: "DatastoreClusters",
	KindDatastore:        "Datastores",
	KindVirtualSwitch:    "VirtualSwitches",
	KindNetwork:          "Networks",
	KindPortGroup:        "PortGroups",
	KindTag:              "NSXTags",
}

// TableName returns the table (and file stem) used for a kind.
func TableName(k Kind) string {
	return tableNames[k]
}

// Tables flattens the inventory into one table per kind, in generation order.
func (inv *Inventory) Tables() []Table {
	return []Table{
		tableOf(KindRegion, inv.Regions),
		tableOf(KindVCenter, inv.VCenters),
		tableOf(KindDatacenter, inv.Datacenters),
		tableOf(KindCluster, inv.Clusters),
		tableOf(KindHost, inv.Hosts),
		tableOf(KindNIC, inv.NICs),
		tableOf(KindVM, inv.VMs),
		tableOf(KindGuestDetail, inv.GuestDetails),
		tableOf(KindDatastoreCluster, inv.DatastoreClusters),
		tableOf(KindDatastore, inv.Datastores),
		tableOf(KindVirtualSwitch, inv.VirtualSwitches),
		tableOf(KindNetwork, inv.Networks),
		tableOf(KindPortGroup, inv.PortGroups),
		tableOf(KindTag, inv.Tags),
	}
}

// Columns returns the column names of a record type, taken from its json tags.
func Columns(rec any) []string {
	t := reflect.TypeOf(rec)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, name)
	}
	return cols
}

func tableOf[T Record](kind Kind, records []T) Table {
	var zero T
	t := Table{
		Kind:    kind,
		Name:    tableNames[kind],
		Columns: Columns(zero),
		Rows:    make([][]any, 0, len(records)),
	}
	for _, rec := range records {
		v := reflect.ValueOf(rec)
		row := make([]any, 0, len(t.Columns))
		for i := 0; i < v.NumField(); i++ {
			name, _, _ := strings.Cut(v.Type().Field(i).Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			row = append(row, v.Field(i).Interface())
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatValue renders a cell for delimited output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return ""
	}
}
