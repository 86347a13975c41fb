package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/kubev2v/vsphere-inventory-generator/internal/config"
	"github.com/kubev2v/vsphere-inventory-generator/internal/emitter"
	"github.com/kubev2v/vsphere-inventory-generator/internal/generator"
	"github.com/kubev2v/vsphere-inventory-generator/internal/inventory"
	"github.com/kubev2v/vsphere-inventory-generator/internal/publisher"
	"github.com/kubev2v/vsphere-inventory-generator/internal/store"
	"github.com/kubev2v/vsphere-inventory-generator/pkg/metrics"
)

const dbTypePostgres = "pgsql"

type GenerateOptions struct {
	GlobalOptions
	Seed      int64
	OutputDir string
	Formats   []string
	Verify    bool
	DryRun    bool
	Publish   bool
	// MetricsFile receives the generation metrics in the prometheus textfile format.
	MetricsFile string

	env *config.Config
}

func DefaultGenerateOptions(env *config.Config) *GenerateOptions {
	return &GenerateOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Seed:          env.Service.Seed,
		OutputDir:     env.Service.OutputDir,
		Formats:       env.Service.Formats,
		MetricsFile:   env.Service.MetricsFile,
		env:           env,
	}
}

func NewCmdGenerate(env *config.Config) *cobra.Command {
	o := DefaultGenerateOptions(env)
	cmd := &cobra.Command{
		Use:     "generate [FLAGS]",
		Short:   "Generate a synthetic vSphere inventory",
		Example: "generate --scale medium --seed 42 --format csv,xlsx -o ./fixtures",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *GenerateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.Int64Var(&o.Seed, "seed", o.Seed, "Seed of the random source. The same seed and document give the same output")
	fs.StringVarP(&o.OutputDir, "output-dir", "o", o.OutputDir, "Directory the output is written to. Output files of a previous run are replaced, other files are kept")
	fs.StringSliceVarP(&o.Formats, "format", "f", o.Formats, fmt.Sprintf("Output formats. Any of: (%s).", strings.Join(emitter.Formats, ", ")))
	fs.BoolVar(&o.Verify, "verify", o.Verify, "Check the referential integrity of the inventory before writing it")
	fs.BoolVar(&o.DryRun, "dry-run", o.DryRun, "Print the inventory summary without writing anything")
	fs.BoolVar(&o.Publish, "publish", o.Publish, "Upload the written files to the configured S3 bucket")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write generation metrics to this file in the prometheus textfile format")
}

func (o *GenerateOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	o.Formats = funk.UniqString(funk.Map(o.Formats, strings.ToLower).([]string))
	return nil
}

func (o *GenerateOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}
	for _, f := range o.Formats {
		if !funk.Contains(emitter.Formats, f) {
			return fmt.Errorf("output format must be one of %s", strings.Join(emitter.Formats, ", "))
		}
	}

	if !o.DryRun && o.OutputDir == "" {
		return fmt.Errorf("output directory is empty")
	}

	if o.Publish && !o.env.PublishEnabled() {
		return fmt.Errorf("publishing needs VSPHERE_GENERATOR_S3_ENDPOINT and VSPHERE_GENERATOR_S3_BUCKET")
	}

	return nil
}

func (o *GenerateOptions) Run(ctx context.Context, args []string) error {
	cfg, err := o.LoadProfile()
	if err != nil {
		return err
	}

	g, err := generator.New(cfg, generator.WithSeed(o.Seed))
	if err != nil {
		return err
	}
	start := time.Now()
	inv, err := g.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating inventory: %w", err)
	}
	metrics.ObserveGenerationDuration(time.Since(start).Seconds())
	for kind, count := range inv.Counts() {
		metrics.UpdateRecordCountMetric(string(kind), count)
	}
	for region, count := range inv.VMsPerRegion() {
		metrics.UpdateRegionVMsMetric(region, count)
	}

	if o.Verify {
		if err := inventory.Verify(inv.Tables()); err != nil {
			return err
		}
		zap.S().Named("cli").Info("inventory integrity verified")
	}

	if o.DryRun {
		fmt.Fprint(o.out, inv.Summary())
		return nil
	}

	files, err := o.emit(ctx, inv)
	if err != nil {
		return err
	}

	if o.Publish {
		p, err := publisher.NewMinioPublisher(
			publisher.WithEndpoint(o.env.Storage.Endpoint),
			publisher.WithBucket(o.env.Storage.Bucket),
			publisher.WithPrefix(o.env.Storage.Prefix),
			publisher.WithAccessKey(o.env.Storage.AccessKey),
			publisher.WithSecretKey(o.env.Storage.SecretKey),
			publisher.WithRegion(o.env.Storage.Region),
			publisher.WithSSL(o.env.Storage.UseSSL),
		)
		if err != nil {
			return fmt.Errorf("creating publisher: %w", err)
		}
		if _, err := p.Publish(ctx, o.Seed, files); err != nil {
			return err
		}
	}

	if o.MetricsFile != "" {
		if err := metrics.WriteToTextfile(o.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	fmt.Fprint(o.out, inv.Summary())
	fmt.Fprintf(o.out, "Wrote %d file(s) to %s\n", len(files), o.OutputDir)
	return nil
}

func (o *GenerateOptions) emit(ctx context.Context, inv *inventory.Inventory) ([]string, error) {
	var previous []string
	if funk.ContainsString(o.Formats, string(emitter.FormatDB)) && o.env.Database.Type != dbTypePostgres && !filepath.IsAbs(o.env.Database.Name) {
		previous = append(previous, o.env.Database.Name)
	}
	if err := emitter.PrepareDir(o.OutputDir, previous...); err != nil {
		return nil, err
	}

	var (
		emitters []emitter.Emitter
		extra    []string
	)
	for _, f := range o.Formats {
		switch emitter.Format(f) {
		case emitter.FormatCSV:
			emitters = append(emitters, emitter.NewCSVEmitter())
		case emitter.FormatXLSX:
			emitters = append(emitters, emitter.NewXLSXEmitter())
		case emitter.FormatJSON:
			emitters = append(emitters, emitter.NewJSONEmitter())
		case emitter.FormatDB:
			s, dbFile, err := o.openStore()
			if err != nil {
				return nil, err
			}
			defer s.Close()
			emitters = append(emitters, emitter.NewDBEmitter(s))
			if dbFile != "" {
				extra = append(extra, dbFile)
			}
		}
	}

	var files []string
	for _, e := range emitters {
		written, err := emitter.Run(ctx, o.OutputDir, inv, e)
		if err != nil {
			return nil, err
		}
		metrics.IncreaseEmittedFilesMetric(string(e.Format()), len(written))
		files = append(files, written...)
	}
	return append(files, extra...), nil
}

// openStore connects to the configured database. A relative sqlite file lives in the
// output directory and is returned so it can be published with the other files.
func (o *GenerateOptions) openStore() (store.Store, string, error) {
	dbCfg := *o.env
	database := *o.env.Database
	dbCfg.Database = &database

	var dbFile string
	if database.Type != dbTypePostgres {
		if !filepath.IsAbs(database.Name) {
			database.Name = filepath.Join(o.OutputDir, database.Name)
		}
		dbFile = database.Name
	}

	db, err := store.InitDB(&dbCfg)
	if err != nil {
		return nil, "", fmt.Errorf("initializing data store: %w", err)
	}
	return store.NewStore(db), dbFile, nil
}
