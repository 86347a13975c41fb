package rvtools

import (
	"fmt"
	"sort"
	"strings"
)

const (
	NetDvSwitch    = "dvswitch"
	NetDvPortGroup = "distributed"
)

// Summary is what an RVTools export says about an environment.
type Summary struct {
	VCenters []string

	TotalVMs    int
	PowerStates map[string]int
	Os          map[string]int
	CPUCores    int
	MemoryMiB   int64

	TotalHosts       int
	TotalClusters    int
	TotalDatacenters int
	HostsPerCluster  []int
	HostPowerStates  map[string]int

	Datastores []Datastore
	Networks   []Network
}

type Datastore struct {
	ID              string
	Name            string
	Type            string
	TotalCapacityGB int
	FreeCapacityGB  int
}

type Network struct {
	Name     string
	Type     string
	DVSwitch string
	VlanID   string
}

func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "vCenters:    %s\n", strings.Join(s.VCenters, ", "))
	fmt.Fprintf(&b, "VMs:         %d (%s)\n", s.TotalVMs, formatCounts(s.PowerStates))
	fmt.Fprintf(&b, "vCPUs:       %d\n", s.CPUCores)
	fmt.Fprintf(&b, "Memory GiB:  %d\n", s.MemoryMiB/1024)
	fmt.Fprintf(&b, "Datacenters: %d\n", s.TotalDatacenters)
	fmt.Fprintf(&b, "Clusters:    %d\n", s.TotalClusters)
	fmt.Fprintf(&b, "Hosts:       %d (%s)\n", s.TotalHosts, formatCounts(s.HostPowerStates))
	fmt.Fprintf(&b, "Datastores:  %d\n", len(s.Datastores))
	fmt.Fprintf(&b, "Networks:    %d\n", len(s.Networks))
	fmt.Fprintf(&b, "OS:          %s\n", formatCounts(s.Os))
	return b.String()
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ", ")
}
