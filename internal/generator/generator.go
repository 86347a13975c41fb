package generator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/profile"
	"github.com/kubev2v/vsphere-inventory-generator/internal/registry"
	"github.com/kubev2v/vsphere-inventory-generator/internal/sampler"
)

// DefaultSeed is used when no seed option is given.
const DefaultSeed int64 = 1

// historyStart is the earliest generated creation date.
var historyStart = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

type Option func(g *Generator)

func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// preparedProfile holds the sampling tables of one distribution profile.
type preparedProfile struct {
	name string
	// usable are the cluster sizes whose minimum fits the tier ceiling
	usable  []profile.ClusterSize
	sizes   *sampler.Distribution[profile.ClusterSize]
	density *sampler.Distribution[profile.VMDensity]
}

// Generator turns a validated configuration document into an inventory. The
// document is never modified; Generate may be called repeatedly.
type Generator struct {
	cfg       *profile.Config
	tier      profile.ScaleTier
	reference time.Time
	seed      int64
	log       *zap.SugaredLogger

	versions   *sampler.Distribution[profile.VCenterVersion]
	hostModels *sampler.Distribution[profile.HostModel]
	osTypes    *sampler.Distribution[profile.OSType]
	purposes   *sampler.Distribution[profile.VMPurpose]
	arrays     *sampler.Distribution[profile.StorageArray]
	profiles   map[string]*preparedProfile
	tagKinds   []inventory.Kind
}

// New validates the document and prepares every weighted table once.
func New(cfg *profile.Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tier, err := cfg.Tier()
	if err != nil {
		return nil, err
	}
	reference, err := cfg.Reference()
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:       cfg,
		tier:      tier,
		reference: reference,
		seed:      DefaultSeed,
		log:       zap.S().Named("generator"),
		profiles:  make(map[string]*preparedProfile, len(cfg.DistributionProfiles)),
	}
	for _, o := range opts {
		o(g)
	}

	if g.versions, err = sampler.NewDistribution(choices(cfg.VCenterVersions, func(v profile.VCenterVersion) float64 { return v.Weight })); err != nil {
		return nil, fmt.Errorf("vcenter_versions: %w", err)
	}
	if g.hostModels, err = sampler.NewDistribution(choices(cfg.HostModels, func(h profile.HostModel) float64 { return h.Weight })); err != nil {
		return nil, fmt.Errorf("host_models: %w", err)
	}
	if g.osTypes, err = sampler.NewDistribution(choices(cfg.OSTypes, func(o profile.OSType) float64 { return o.Weight })); err != nil {
		return nil, fmt.Errorf("os_types: %w", err)
	}
	if g.purposes, err = sampler.NewDistribution(choices(cfg.VMPurposes, func(p profile.VMPurpose) float64 { return p.Weight })); err != nil {
		return nil, fmt.Errorf("vm_purposes: %w", err)
	}
	if g.arrays, err = sampler.NewDistribution(choices(cfg.StorageArrays, func(a profile.StorageArray) float64 { return a.Weight })); err != nil {
		return nil, fmt.Errorf("storage_arrays: %w", err)
	}

	for name, p := range cfg.DistributionProfiles {
		prepared, err := prepareProfile(name, p, tier.MaxHostsPerCluster)
		if err != nil {
			return nil, err
		}
		g.profiles[name] = prepared
	}

	for _, t := range cfg.Tags.Targets {
		k, _ := inventory.ParseKind(t.Kind)
		g.tagKinds = append(g.tagKinds, k)
	}

	return g, nil
}

func prepareProfile(name string, p profile.DistributionProfile, ceiling int) (*preparedProfile, error) {
	prepared := &preparedProfile{name: name}
	for _, cs := range p.ClusterSizes {
		if cs.Weight > 0 && cs.MinHosts <= ceiling {
			prepared.usable = append(prepared.usable, cs)
		}
	}
	var err error
	if len(prepared.usable) > 0 {
		if prepared.sizes, err = sampler.NewDistribution(choices(prepared.usable, func(cs profile.ClusterSize) float64 { return cs.Weight })); err != nil {
			return nil, fmt.Errorf("profile %q cluster_sizes: %w", name, err)
		}
	}
	if prepared.density, err = sampler.NewDistribution(choices(p.VMDensity, func(d profile.VMDensity) float64 { return d.Weight })); err != nil {
		return nil, fmt.Errorf("profile %q vm_density: %w", name, err)
	}
	return prepared, nil
}

func choices[T any](values []T, weight func(T) float64) []sampler.Choice[T] {
	out := make([]sampler.Choice[T], len(values))
	for i, v := range values {
		out[i] = sampler.Choice[T]{Value: v, Weight: weight(v)}
	}
	return out
}

// Seed is the seed the next Generate call uses.
func (g *Generator) Seed() int64 {
	return g.seed
}

// run is the state of one generation pass.
type run struct {
	*Generator
	src *sampler.Source
	reg *registry.Registry
	inv *inventory.Inventory

	// tagValues holds the value a tag on the entity carries
	tagValues map[string]string
	// createdDates holds VM creation dates, reused by their tags
	createdDates map[string]string
}

// Generate builds the complete inventory. Any failure aborts the run and no partial
// inventory is returned. The context is only consulted between stages.
func (g *Generator) Generate(ctx context.Context) (*inventory.Inventory, error) {
	r := &run{
		Generator:    g,
		src:          sampler.NewSource(g.seed),
		reg:          registry.New(),
		inv:          &inventory.Inventory{Seed: g.seed, Scale: g.cfg.Scale},
		tagValues:    make(map[string]string),
		createdDates: make(map[string]string),
	}

	g.log.Infof("generating scale %q: %d vms, %.1f vms per host, at most %d hosts per cluster, seed %d",
		g.cfg.Scale, g.tier.TotalVMs, g.tier.AvgVMsPerHost, g.tier.MaxHostsPerCluster, g.seed)

	regions, err := r.regionStage()
	if err != nil {
		return nil, fmt.Errorf("region stage: %w", err)
	}

	for _, rb := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.buildRegion(ctx, rb); err != nil {
			return nil, fmt.Errorf("region %q: %w", rb.cfg.Name, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.tagStage(); err != nil {
		return nil, fmt.Errorf("tag stage: %w", err)
	}

	g.log.Infof("generated %d entities: %d clusters, %d hosts, %d vms",
		r.reg.Len(), len(r.inv.Clusters), len(r.inv.Hosts), len(r.inv.VMs))
	return r.inv, nil
}

// buildRegion runs the per-region stages in order.
func (r *run) buildRegion(ctx context.Context, rb *regionBuild) error {
	if err := r.datacenterStage(rb); err != nil {
		return fmt.Errorf("datacenter stage: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.clusterStage(rb); err != nil {
		return fmt.Errorf("cluster stage: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.hostStage(rb); err != nil {
		return fmt.Errorf("host stage: %w", err)
	}
	if err := r.vmStage(rb); err != nil {
		return fmt.Errorf("vm stage: %w", err)
	}
	if err := r.storageStage(rb); err != nil {
		return fmt.Errorf("storage stage: %w", err)
	}
	if err := r.networkStage(rb); err != nil {
		return fmt.Errorf("network stage: %w", err)
	}
	return nil
}
