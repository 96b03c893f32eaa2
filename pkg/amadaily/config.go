package amadaily

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration file. Unset fields leave Options unchanged.
type Config struct {
	IncludeDrivingHours  *bool    `yaml:"include_driving_hours"`
	FuzzyMatching        *bool    `yaml:"fuzzy_matching"`
	FuzzyThreshold       *float64 `yaml:"fuzzy_threshold"`
	PerSheetOutput       *bool    `yaml:"per_sheet_output"`
	WriteCSV             *bool    `yaml:"write_csv"`
	TimesheetSheetName   string   `yaml:"timesheet_sheet_name"`
	JobSheetSheetName    string   `yaml:"jobsheet_sheet_name"`
	OutputDir            string   `yaml:"output_dir"`
	OutputBaseName       string   `yaml:"output_base_name"`
	PlaceholderJobs      []string `yaml:"placeholder_jobs"`
	SkipEmployeePrefixes []string `yaml:"skip_employee_prefixes"`
	LogLevel             string   `yaml:"log_level"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.FuzzyThreshold != nil && (*cfg.FuzzyThreshold <= 0 || *cfg.FuzzyThreshold > 1) {
		return nil, fmt.Errorf("parse config %s: fuzzy_threshold must be in (0, 1], got %v", path, *cfg.FuzzyThreshold)
	}
	return &cfg, nil
}

// Apply copies every set field onto opts.
func (c *Config) Apply(opts *Options) {
	if c.IncludeDrivingHours != nil {
		opts.IncludeDriving = *c.IncludeDrivingHours
	}
	if c.FuzzyMatching != nil {
		opts.Fuzzy = *c.FuzzyMatching
	}
	if c.FuzzyThreshold != nil {
		opts.FuzzyThreshold = *c.FuzzyThreshold
	}
	if c.PerSheetOutput != nil {
		opts.PerSheet = *c.PerSheetOutput
	}
	if c.WriteCSV != nil {
		opts.WriteCSV = *c.WriteCSV
	}
	if c.TimesheetSheetName != "" {
		opts.TimesheetSheet = c.TimesheetSheetName
	}
	if c.JobSheetSheetName != "" {
		opts.JobSheetSheet = c.JobSheetSheetName
	}
	if c.OutputDir != "" {
		opts.OutputDir = c.OutputDir
	}
	if c.OutputBaseName != "" {
		opts.OutputBase = c.OutputBaseName
	}
	if len(c.PlaceholderJobs) > 0 {
		opts.PlaceholderJobs = c.PlaceholderJobs
	}
	if len(c.SkipEmployeePrefixes) > 0 {
		opts.SkipEmployeePrefixes = c.SkipEmployeePrefixes
	}
}
