package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Storage  *storageConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"sqlite"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"vsphere.db"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	LogLevel  string   `envconfig:"VSPHERE_GENERATOR_LOG_LEVEL" default:"info"`
	OutputDir string   `envconfig:"VSPHERE_GENERATOR_OUTPUT_DIR" default:"vsphere-data"`
	Seed      int64    `envconfig:"VSPHERE_GENERATOR_SEED" default:"1"`
	Formats   []string `envconfig:"VSPHERE_GENERATOR_FORMATS" default:"csv"`
	// MetricsFile is empty when metrics are not written.
	MetricsFile string `envconfig:"VSPHERE_GENERATOR_METRICS_FILE" default:""`
}

// storageConfig points at the S3-compatible bucket generated files are published to.
type storageConfig struct {
	Endpoint  string `envconfig:"VSPHERE_GENERATOR_S3_ENDPOINT" default:""`
	Bucket    string `envconfig:"VSPHERE_GENERATOR_S3_BUCKET" default:""`
	AccessKey string `envconfig:"VSPHERE_GENERATOR_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"VSPHERE_GENERATOR_S3_SECRET_KEY" default:""`
	Prefix    string `envconfig:"VSPHERE_GENERATOR_S3_PREFIX" default:"fixtures"`
	Region    string `envconfig:"VSPHERE_GENERATOR_S3_REGION" default:""`
	UseSSL    bool   `envconfig:"VSPHERE_GENERATOR_S3_USE_SSL" default:"false"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		c, err := Load()
		if err != nil {
			return nil, err
		}
		singleConfig = c
	}
	return singleConfig, nil
}

// Load reads the environment on every call.
func Load() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, err
	}
	return c, nil
}

// PublishEnabled reports whether enough is configured to reach a bucket.
func (c *Config) PublishEnabled() bool {
	return c.Storage != nil && c.Storage.Endpoint != "" && c.Storage.Bucket != ""
}
