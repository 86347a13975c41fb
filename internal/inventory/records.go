package inventory

// Record is the flat, emitted form of one generated entity. Every record carries its
// own moref and the morefs it points to, so the hierarchy can be rebuilt without the
// generator.
type Record interface {
	Ref() string
	ParentRef() string
	Kind() Kind
}

type Region struct {
	ID              string  `json:"moref"`
	Name            string  `json:"name"`
	Weight          float64 `json:"weight"`
	NetworkPrefix   string  `json:"network_prefix"`
	DatacenterCount int     `json:"datacenter_count"`
	Profile         string  `json:"profile"`
	VMQuota         int     `json:"vm_quota"`
	HostTarget      int     `json:"host_target"`
}

type VCenter struct {
	ID           string `json:"moref"`
	Name         string `json:"name"`
	RegionRef    string `json:"region_ref"`
	Version      string `json:"version"`
	Build        string `json:"build"`
	URL          string `json:"url"`
	InstanceUUID string `json:"instance_uuid"`
	Description  string `json:"description"`
}

type Datacenter struct {
	ID          string `json:"moref"`
	Name        string `json:"name"`
	VCenterRef  string `json:"vcenter_ref"`
	RegionRef   string `json:"region_ref"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type Cluster struct {
	ID            string `json:"moref"`
	Name          string `json:"name"`
	DatacenterRef string `json:"datacenter_ref"`
	VCenterRef    string `json:"vcenter_ref"`
	SizeCategory  string `json:"size_category"`
	TotalHosts    int    `json:"total_hosts"`
	TotalVMs      int    `json:"total_vms"`
	TotalCPUCores int    `json:"total_cpu_cores"`
	TotalMemoryGB int    `json:"total_memory_gb"`
	HAEnabled     bool   `json:"ha_enabled"`
	DRSEnabled    bool   `json:"drs_enabled"`
	Notes         string `json:"notes"`
}

type Host struct {
	ID              string  `json:"moref"`
	Name            string  `json:"name"`
	ClusterRef      string  `json:"cluster_ref"`
	DatacenterRef   string  `json:"datacenter_ref"`
	VCenterRef      string  `json:"vcenter_ref"`
	Vendor          string  `json:"vendor"`
	Model           string  `json:"model"`
	Serial          string  `json:"serial"`
	CPUCores        int     `json:"cpu_cores"`
	MemoryGB        int     `json:"memory_gb"`
	NICCount        int     `json:"nic_count"`
	DatastoresCount int     `json:"datastores_count"`
	VMCount         int     `json:"vm_count"`
	DensityCategory string  `json:"density_category"`
	Status          string  `json:"status"`
	UptimeDays      float64 `json:"uptime_days"`
}

type NIC struct {
	ID         string `json:"moref"`
	Name       string `json:"name"`
	HostRef    string `json:"host_ref"`
	MACAddress string `json:"mac_address"`
	LinkStatus string `json:"link_status"`
	SpeedMbps  int    `json:"speed_mbps"`
	Duplex     string `json:"duplex"`
	Driver     string `json:"driver"`
	Firmware   string `json:"firmware"`
	PCIAddress string `json:"pci_address"`
	Notes      string `json:"notes"`
}

type VM struct {
	ID            string `json:"moref"`
	Name          string `json:"name"`
	UUID          string `json:"uuid"`
	HostRef       string `json:"host_ref"`
	ClusterRef    string `json:"cluster_ref"`
	DatacenterRef string `json:"datacenter_ref"`
	VCenterRef    string `json:"vcenter_ref"`
	GuestOS       string `json:"guest_os"`
	Purpose       string `json:"purpose"`
	VMVersion     string `json:"vm_version"`
	CPUCount      int    `json:"cpu_count"`
	MemoryGB      int    `json:"memory_gb"`
	DiskCount     int    `json:"disk_count"`
	NICCount      int    `json:"nic_count"`
	IPAddress     string `json:"ip_address"`
	PowerState    string `json:"power_state"`
	CreatedDate   string `json:"created_date"`
	Notes         string `json:"notes"`
}

type GuestDetail struct {
	ID           string  `json:"moref"`
	VMRef        string  `json:"vm_ref"`
	GuestOSFull  string  `json:"guest_os_full"`
	IPAddress    string  `json:"ip_address"`
	Hostname     string  `json:"hostname"`
	UptimeDays   float64 `json:"uptime_days"`
	ToolsStatus  string  `json:"tools_status"`
	ToolsVersion string  `json:"tools_version"`
	GuestState   string  `json:"guest_state"`
	CPUUsage     int     `json:"cpu_usage"`
	MemoryUsage  int     `json:"memory_usage"`
	Notes        string  `json:"notes"`
}

type DatastoreCluster struct {
	ID              string `json:"moref"`
	Name            string `json:"name"`
	ClusterRef      string `json:"cluster_ref"`
	TotalCapacityGB int    `json:"total_capacity_gb"`
	FreeSpaceGB     int    `json:"free_space_gb"`
	TotalDatastores int    `json:"total_datastores"`
	SDRSEnabled     bool   `json:"sdrs_enabled"`
	AutomationLevel string `json:"automation_level"`
	SpaceThreshold  int    `json:"space_threshold"`
}

type Datastore struct {
	ID                  string `json:"moref"`
	Name                string `json:"name"`
	ClusterRef          string `json:"cluster_ref"`
	DatastoreClusterRef string `json:"datastore_cluster_ref"`
	Type                string `json:"type"`
	CapacityGB          int    `json:"capacity_gb"`
	FreeSpaceGB         int    `json:"free_space_gb"`
	ProvisionedSpaceGB  int    `json:"provisioned_space_gb"`
	StorageArray        string `json:"storage_array"`
	StorageModel        string `json:"storage_model"`
	StorageSerial       string `json:"storage_serial"`
}

type VirtualSwitch struct {
	ID            string `json:"moref"`
	Name          string `json:"name"`
	DatacenterRef string `json:"datacenter_ref"`
	Type          string `json:"type"`
	Uplinks       int    `json:"uplinks"`
	PortGroups    int    `json:"port_groups"`
	MTU           int    `json:"mtu"`
	LoadBalancing string `json:"load_balancing"`
	Notes         string `json:"notes"`
}

type Network struct {
	ID            string `json:"moref"`
	Name          string `json:"name"`
	VSwitchRef    string `json:"vswitch_ref"`
	Purpose       string `json:"purpose"`
	Segment       string `json:"segment"`
	VLANID        int    `json:"vlan_id"`
	IPRange       string `json:"ip_range"`
	SubnetMask    string `json:"subnet_mask"`
	Gateway       string `json:"gateway"`
	AssociatedVMs string `json:"associated_vms"`
	Notes         string `json:"notes"`
}

type PortGroup struct {
	ID             string `json:"moref"`
	Name           string `json:"name"`
	VSwitchRef     string `json:"vswitch_ref"`
	NetworkRef     string `json:"network_ref"`
	VLANID         int    `json:"vlan_id"`
	AssociatedVMs  string `json:"associated_vms"`
	SecurityPolicy string `json:"security_policy"`
	TrafficShaping string `json:"traffic_shaping"`
	TeamingPolicy  string `json:"teaming_policy"`
	Notes          string `json:"notes"`
}

type Tag struct {
	ID           string `json:"moref"`
	Name         string `json:"name"`
	ObjectType   string `json:"object_type"`
	ObjectRef    string `json:"object_ref"`
	Category     string `json:"category"`
	Value        string `json:"value"`
	CreatedDate  string `json:"created_date"`
	ModifiedDate string `json:"modified_date"`
	Notes        string `json:"notes"`
}

func (r Region) Ref() string       { return r.ID }
func (r Region) ParentRef() string { return "" }
func (r Region) Kind() Kind        { return KindRegion }

func (r VCenter) Ref() string       { return r.ID }
func (r VCenter) ParentRef() string { return r.RegionRef }
func (r VCenter) Kind() Kind        { return KindVCenter }

func (r Datacenter) Ref() string       { return r.ID }
func (r Datacenter) ParentRef() string { return r.VCenterRef }
func (r Datacenter) Kind() Kind        { return KindDatacenter }

func (r Cluster) Ref() string       { return r.ID }
func (r Cluster) ParentRef() string { return r.DatacenterRef }
func (r Cluster) Kind() Kind        { return KindCluster }

func (r Host) Ref() string       { return r.ID }
func (r Host) ParentRef() string { return r.ClusterRef }
func (r Host) Kind() Kind        { return KindHost }

func (r NIC) Ref() string       { return r.ID }
func (r NIC) ParentRef() string { return r.HostRef }
func (r NIC) Kind() Kind        { return KindNIC }

func (r VM) Ref() string       { return r.ID }
func (r VM) ParentRef() string { return r.HostRef }
func (r VM) Kind() Kind        { return KindVM }

func (r GuestDetail) Ref() string       { return r.ID }
func (r GuestDetail) ParentRef() string { return r.VMRef }
func (r GuestDetail) Kind() Kind        { return KindGuestDetail }

func (r DatastoreCluster) Ref() string       { return r.ID }
func (r DatastoreCluster) ParentRef() string { return r.ClusterRef }
func (r DatastoreCluster) Kind() Kind        { return KindDatastoreCluster }

func (r Datastore) Ref() string       { return r.ID }
func (r Datastore) ParentRef() string { return r.ClusterRef }
func (r Datastore) Kind() Kind        { return KindDatastore }

func (r VirtualSwitch) Ref() string       { return r.ID }
func (r VirtualSwitch) ParentRef() string { return r.DatacenterRef }
func (r VirtualSwitch) Kind() Kind        { return KindVirtualSwitch }

func (r Network) Ref() string       { return r.ID }
func (r Network) ParentRef() string { return r.VSwitchRef }
func (r Network) Kind() Kind        { return KindNetwork }

func (r PortGroup) Ref() string       { return r.ID }
func (r PortGroup) ParentRef() string { return r.VSwitchRef }
func (r PortGroup) Kind() Kind        { return KindPortGroup }

func (r Tag) Ref() string       { return r.ID }
func (r Tag) ParentRef() string { return r.ObjectRef }
func (r Tag) Kind() Kind        { return KindTag }
