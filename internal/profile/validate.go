package profile

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/thoas/go-funk"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their document names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field rules, then every cross reference and weight set of the document.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			if fe.Param() != "" {
				return NewErrInvalidConfiguration("%s: value %v violates %s=%s", field, fe.Value(), fe.Tag(), fe.Param())
			}
			return NewErrInvalidConfiguration("%s: value %v violates %s", field, fe.Value(), fe.Tag())
		}
		return NewErrInvalidConfiguration("%v", err)
	}

	tier, err := c.Tier()
	if err != nil {
		return err
	}
	if _, err := c.Reference(); err != nil {
		return err
	}

	for _, name := range sortedKeys(c.DistributionProfiles) {
		if err := validateDistributionProfile(name, c.DistributionProfiles[name]); err != nil {
			return err
		}
	}

	if err := c.validateRegions(tier); err != nil {
		return err
	}

	weightSets := []struct {
		name    string
		weights []float64
	}{
		{"vcenter_versions", funk.Map(c.VCenterVersions, func(v VCenterVersion) float64 { return v.Weight }).([]float64)},
		{"host_models", funk.Map(c.HostModels, func(h HostModel) float64 { return h.Weight }).([]float64)},
		{"os_types", funk.Map(c.OSTypes, func(o OSType) float64 { return o.Weight }).([]float64)},
		{"vm_purposes", funk.Map(c.VMPurposes, func(p VMPurpose) float64 { return p.Weight }).([]float64)},
		{"storage_arrays", funk.Map(c.StorageArrays, func(a StorageArray) float64 { return a.Weight }).([]float64)},
	}
	for _, ws := range weightSets {
		if err := checkWeights(ws.name, ws.weights); err != nil {
			return err
		}
	}

	if c.DatastoresPerCluster.Min > c.DatastoresPerCluster.Max {
		return NewErrInvalidConfiguration("datastores_per_cluster: inverted range %d > %d", c.DatastoresPerCluster.Min, c.DatastoresPerCluster.Max)
	}

	networks := len(c.Network.Purposes) * len(c.Network.Segments) * c.VirtualSwitchesPerDatacenter
	if networks > 0 && c.Network.VLANBase+networks-1 > 4094 {
		return NewErrInvalidConfiguration("network: %d networks per datacenter starting at vlan %d exceed vlan 4094", networks, c.Network.VLANBase)
	}

	return c.validateTags()
}

func validateDistributionProfile(name string, p DistributionProfile) error {
	sizeNames := map[string]bool{}
	weights := make([]float64, 0, len(p.ClusterSizes))
	for _, cs := range p.ClusterSizes {
		if sizeNames[cs.Name] {
			return NewErrInvalidConfiguration("profile %q: duplicate cluster size %q", name, cs.Name)
		}
		sizeNames[cs.Name] = true
		if cs.MinHosts > cs.MaxHosts {
			return NewErrInvalidConfiguration("profile %q: cluster size %q has inverted host range %d > %d", name, cs.Name, cs.MinHosts, cs.MaxHosts)
		}
		weights = append(weights, cs.Weight)
	}
	if err := checkWeights(fmt.Sprintf("profile %q cluster_sizes", name), weights); err != nil {
		return err
	}

	densityNames := map[string]bool{}
	weights = weights[:0]
	for _, d := range p.VMDensity {
		if densityNames[d.Name] {
			return NewErrInvalidConfiguration("profile %q: duplicate vm density %q", name, d.Name)
		}
		densityNames[d.Name] = true
		if d.MinVMs > d.MaxVMs {
			return NewErrInvalidConfiguration("profile %q: vm density %q has inverted range %d > %d", name, d.Name, d.MinVMs, d.MaxVMs)
		}
		weights = append(weights, d.Weight)
	}
	return checkWeights(fmt.Sprintf("profile %q vm_density", name), weights)
}

func (c *Config) validateRegions(tier ScaleTier) error {
	seen := map[string]bool{}
	weights := make([]float64, 0, len(c.Regions))
	for _, r := range c.Regions {
		if seen[r.Name] {
			return NewErrInvalidConfiguration("duplicate region %q", r.Name)
		}
		seen[r.Name] = true

		p, ok := c.DistributionProfiles[r.Profile]
		if !ok {
			return NewErrInvalidConfiguration("region %q references undefined distribution profile %q", r.Name, r.Profile)
		}
		usable := funk.Filter(p.ClusterSizes, func(cs ClusterSize) bool {
			return cs.Weight > 0 && cs.MinHosts <= tier.MaxHostsPerCluster
		}).([]ClusterSize)
		if len(usable) == 0 {
			return NewErrInvalidConfiguration("region %q: no cluster size of profile %q fits max_hosts_per_cluster %d of scale %q",
				r.Name, r.Profile, tier.MaxHostsPerCluster, c.Scale)
		}
		weights = append(weights, r.Weight)
	}
	return checkWeights("regions", weights)
}

func (c *Config) validateTags() error {
	if len(c.Tags.Targets) > 0 && len(c.Tags.Categories) == 0 {
		return NewErrInvalidConfiguration("tags: targets configured without categories")
	}
	for _, t := range c.Tags.Targets {
		k, ok := inventory.ParseKind(t.Kind)
		if !ok || k == inventory.KindTag {
			return NewErrInvalidConfiguration("tags: unsupported target kind %q", t.Kind)
		}
	}
	return nil
}

// checkWeights rejects empty, negative and zero-sum weight sets.
func checkWeights(name string, weights []float64) error {
	if len(weights) == 0 {
		return NewErrInvalidConfiguration("%s: empty weight set", name)
	}
	var sum float64
	for i, w := range weights {
		if w < 0 {
			return NewErrInvalidConfiguration("%s: entry %d has negative weight %v", name, i, w)
		}
		sum += w
	}
	if sum <= 0 {
		return NewErrInvalidConfiguration("%s: weights sum to zero", name)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := funk.Keys(m).([]string)
	sort.Strings(keys)
	return keys
}
