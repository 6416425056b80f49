package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/osa-dev/ucoa-audit/internal/model"
	"github.com/osa-dev/ucoa-audit/internal/reconcile"
	"github.com/osa-dev/ucoa-audit/internal/ucoa"
	"github.com/osa-dev/ucoa-audit/internal/validate"
)

// Config represents the top-level ucoa-audit.yaml configuration.
type Config struct {
	Paths      PathsConfig            `yaml:"paths"`
	Window     validate.WindowPolicy  `yaml:"posting_window"`
	Exempt     []model.GovernmentType `yaml:"exempt_gov_types,omitempty"`
	Workbook   WorkbookConfig         `yaml:"workbook"`
	Supplement ucoa.Supplement        `yaml:"codeset_supplement,omitempty"`
	Reconcile  reconcile.Options      `yaml:"reconcile"`
}

// PathsConfig locates the inputs and outputs of a run.
type PathsConfig struct {
	Database  string `yaml:"database"`   // upload system SQLite database
	Workbook  string `yaml:"workbook"`   // published UCoA XLSX
	OutputDir string `yaml:"output_dir"` // report destination
	LogDir    string `yaml:"log_dir"`    // run log destination
}

// WorkbookConfig names the worksheets of the UCoA workbook.
type WorkbookConfig struct {
	Sheets ucoa.WorkbookSheets `yaml:"sheets"`
}

// Load reads a ucoa-audit.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the policy defaults.
func Default() *Config {
	cfg := &Config{
		Paths: PathsConfig{
			Database:  "uploads.db",
			Workbook:  "ucoa.xlsx",
			OutputDir: "reports",
			LogDir:    "logs",
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Window == (validate.WindowPolicy{}) {
		c.Window = validate.DefaultWindow()
	}
	if c.Workbook.Sheets == (ucoa.WorkbookSheets{}) {
		c.Workbook.Sheets = ucoa.DefaultSheets()
	}
	if c.Reconcile == (reconcile.Options{}) {
		c.Reconcile = reconcile.DefaultOptions()
	}
}
