package inventory

// Kind tags every generated entity.
type Kind string

const (
	KindRegion           Kind = "Region"
	KindVCenter          Kind = "VCenter"
	KindDatacenter       Kind = "Datacenter"
	KindCluster          Kind = "Cluster"
	KindHost             Kind = "Host"
	KindNIC              Kind = "NIC"
	KindVM               Kind = "VM"
	KindGuestDetail      Kind = "GuestDetail"
	KindDatastoreCluster Kind = "DatastoreCluster"
	KindDatastore        Kind = "Datastore"
	KindVirtualSwitch    Kind = "VirtualSwitch"
	KindNetwork          Kind = "Network"
	KindPortGroup        Kind = "PortGroup"
	KindTag              Kind = "Tag"
)

// Kinds lists every kind in generation order.
var Kinds = []Kind{
	KindRegion,
	KindVCenter,
	KindDatacenter,
	KindCluster,
	KindHost,
	KindNIC,
	KindVM,
	KindGuestDetail,
	KindDatastoreCluster,
	KindDatastore,
	KindVirtualSwitch,
	KindNetwork,
	KindPortGroup,
	KindTag,
}

type kindInfo struct {
	prefix      string
	managedType string
}

var kindInfos = map[Kind]kindInfo{
	KindRegion:           {prefix: "region-", managedType: "Folder"},
	KindVCenter:          {prefix: "vc-", managedType: "ServiceInstance"},
	KindDatacenter:       {prefix: "datacenter-", managedType: "Datacenter"},
	KindCluster:          {prefix: "domain-c", managedType: "ClusterComputeResource"},
	KindHost:             {prefix: "host-", managedType: "HostSystem"},
	KindNIC:              {prefix: "nic-", managedType: "PhysicalNic"},
	KindVM:               {prefix: "vm-", managedType: "VirtualMachine"},
	KindGuestDetail:      {prefix: "guest-", managedType: "GuestInfo"},
	KindDatastoreCluster: {prefix: "group-p", managedType: "StoragePod"},
	KindDatastore:        {prefix: "datastore-", managedType: "Datastore"},
	KindVirtualSwitch:    {prefix: "dvs-", managedType: "VmwareDistributedVirtualSwitch"},
	KindNetwork:          {prefix: "network-", managedType: "Network"},
	KindPortGroup:        {prefix: "dvportgroup-", managedType: "DistributedVirtualPortgroup"},
	KindTag:              {prefix: "tag-", managedType: "InventoryServiceTag"},
}

// Prefix is the moref prefix of the kind, e.g. "vm-" or "domain-c".
func (k Kind) Prefix() string {
	return kindInfos[k].prefix
}

// ManagedType is the vSphere managed object type the kind maps to.
func (k Kind) ManagedType() string {
	return kindInfos[k].managedType
}

func (k Kind) Valid() bool {
	_, ok := kindInfos[k]
	return ok
}

// ParseKind accepts either the kind name or its vSphere managed type.
func ParseKind(s string) (Kind, bool) {
	for k, info := range kindInfos {
		if string(k) == s || info.managedType == s {
			return k, true
		}
	}
	return "", false
}
