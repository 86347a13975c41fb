package profile

import "time"

const (
	VCenterPerRegion     = "region"
	VCenterPerDatacenter = "datacenter"

	referenceDateLayout = "2006-01-02"
)

// Config is the configuration document driving a generation run. It is read once and
// never modified by the generator.
type Config struct {
	// Scale selects the active entry of Scales.
	Scale string `json:"scale" validate:"required"`
	// VCenterScope is either "region" (one vCenter per region) or "datacenter".
	VCenterScope string `json:"vcenter_scope,omitempty" validate:"omitempty,oneof=region datacenter"`
	// ReferenceDate bounds generated creation dates so output does not depend on the wall clock.
	ReferenceDate string `json:"reference_date,omitempty"`

	Scales               map[string]ScaleTier           `json:"scales" validate:"required,min=1,dive"`
	DistributionProfiles map[string]DistributionProfile `json:"distribution_profiles" validate:"required,min=1,dive"`
	Regions              []Region                       `json:"regions" validate:"required,min=1,dive"`

	VCenterVersions []VCenterVersion `json:"vcenter_versions" validate:"required,min=1,dive"`
	HostModels      []HostModel      `json:"host_models" validate:"required,min=1,dive"`
	OSTypes         []OSType         `json:"os_types" validate:"required,min=1,dive"`
	VMPurposes      []VMPurpose      `json:"vm_purposes" validate:"required,min=1,dive"`
	StorageArrays   []StorageArray   `json:"storage_arrays" validate:"required,min=1,dive"`

	DatastoreSizesGB             []int    `json:"datastore_sizes_gb" validate:"required,min=1,dive,gt=0"`
	DatastoresPerCluster         Range    `json:"datastores_per_cluster"`
	DatastoreClustersPerCluster  int      `json:"datastore_clusters_per_cluster,omitempty" validate:"gte=0"`
	DatastoreClusterMembership   *float64 `json:"datastore_cluster_membership,omitempty" validate:"omitempty,gte=0,lte=1"`
	NICsPerHost                  int      `json:"nics_per_host" validate:"gte=0,lte=32"`
	VirtualSwitchesPerDatacenter int      `json:"virtual_switches_per_datacenter" validate:"gte=1"`

	Network NetworkLayout `json:"network"`
	Tags    TagPolicy     `json:"tags"`
}

// ScaleTier is the numeric definition of one scale size.
type ScaleTier struct {
	TotalVMs           int     `json:"total_vms" validate:"gte=0"`
	AvgVMsPerHost      float64 `json:"avg_vms_per_host" validate:"gt=0"`
	MaxHostsPerCluster int     `json:"max_hosts_per_cluster" validate:"gt=0"`
}

// DistributionProfile drives cluster sizing and host density for the regions assigned to it.
type DistributionProfile struct {
	ClusterSizes []ClusterSize `json:"cluster_sizes" validate:"required,min=1,dive"`
	VMDensity    []VMDensity   `json:"vm_density" validate:"required,min=1,dive"`
}

type ClusterSize struct {
	Name     string  `json:"name" validate:"required"`
	MinHosts int     `json:"min_hosts" validate:"gt=0"`
	MaxHosts int     `json:"max_hosts" validate:"gt=0"`
	Weight   float64 `json:"weight" validate:"gte=0"`
}

type VMDensity struct {
	Name   string  `json:"name" validate:"required"`
	MinVMs int     `json:"min_vms" validate:"gte=0"`
	MaxVMs int     `json:"max_vms" validate:"gte=0"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type Region struct {
	Name          string  `json:"name" validate:"required"`
	Weight        float64 `json:"weight" validate:"gte=0"`
	NetworkPrefix string  `json:"network_prefix" validate:"required"`
	Datacenters   int     `json:"datacenters" validate:"gt=0"`
	Profile       string  `json:"profile" validate:"required"`
}

type VCenterVersion struct {
	Version string  `json:"version" validate:"required"`
	Build   string  `json:"build" validate:"required"`
	Weight  float64 `json:"weight" validate:"gte=0"`
}

type HostModel struct {
	Vendor   string  `json:"vendor" validate:"required"`
	Model    string  `json:"model" validate:"required"`
	Weight   float64 `json:"weight" validate:"gte=0"`
	CPUCores int     `json:"cpu_cores" validate:"gt=0"`
	MemoryGB int     `json:"memory_gb" validate:"gt=0"`
}

type OSType struct {
	Name     string  `json:"name" validate:"required"`
	Weight   float64 `json:"weight" validate:"gte=0"`
	MemoryGB []int   `json:"memory_gb" validate:"required,min=1,dive,gt=0"`
	CPUCores []int   `json:"cpu_cores" validate:"required,min=1,dive,gt=0"`
}

type VMPurpose struct {
	Name   string  `json:"name" validate:"required"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type StorageArray struct {
	Name   string   `json:"name" validate:"required"`
	Models []string `json:"models" validate:"required,min=1,dive,required"`
	Weight float64  `json:"weight" validate:"gte=0"`
}

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gte=0"`
}

type NetworkLayout struct {
	Purposes []string `json:"purposes" validate:"dive,required"`
	Segments []string `json:"segments" validate:"dive,required"`
	VLANBase int      `json:"vlan_base" validate:"gte=0,lte=4094"`
	Uplinks  int      `json:"uplinks" validate:"gte=0"`
	MTU      int      `json:"mtu" validate:"gte=1280,lte=9216"`
}

type TagPolicy struct {
	Categories []string    `json:"categories" validate:"dive,required"`
	Targets    []TagTarget `json:"targets" validate:"dive"`
}

// TagTarget tags a fraction of the entities of one kind, once per category.
type TagTarget struct {
	Kind     string  `json:"kind" validate:"required"`
	Fraction float64 `json:"fraction" validate:"gte=0,lte=1"`
}

// Tier returns the active scale tier.
func (c *Config) Tier() (ScaleTier, error) {
	tier, ok := c.Scales[c.Scale]
	if !ok {
		return ScaleTier{}, NewErrInvalidConfiguration("scale %q is not defined", c.Scale)
	}
	return tier, nil
}

// Reference returns the parsed reference date.
func (c *Config) Reference() (time.Time, error) {
	t, err := time.Parse(referenceDateLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, NewErrInvalidConfiguration("reference_date %q: %v", c.ReferenceDate, err)
	}
	return t, nil
}

// Membership is the probability that a datastore joins a datastore cluster.
func (c *Config) Membership() float64 {
	if c.DatastoreClusterMembership == nil {
		return 1
	}
	return *c.DatastoreClusterMembership
}

// WithScale returns a copy of the document with another active scale.
func (c *Config) WithScale(scale string) *Config {
	cp := *c
	cp.Scale = scale
	return &cp
}
