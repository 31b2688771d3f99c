// Package config loads and validates the pmlens YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pmlens/pmlens/internal/types"
)

// DefaultPath is the config filename looked up in the working directory.
const DefaultPath = "pmlens.yaml"

// Config is the full tool configuration loaded from YAML.
type Config struct {
	Project           ProjectConfig      `yaml:"project"`
	RequiredDocuments []RequiredDocument `yaml:"required_documents"`
	Modes             ModesConfig        `yaml:"modes"`
	Output            OutputConfig       `yaml:"output"`
	Logging           LoggingConfig      `yaml:"logging"`
}

// ProjectConfig names the project and its default document directory.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	DefaultPath string `yaml:"default_path"`
}

// RequiredDocument is one entry of the required-document list. Name is
// matched case-insensitively against the mode detector's keyword table;
// Patterns and Formats drive file discovery.
type RequiredDocument struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
	Formats  []string `yaml:"formats"`
	Required bool     `yaml:"required"`
}

// ModesConfig holds per-mode settings.
type ModesConfig struct {
	DocumentCheck  ModeConfig `yaml:"document_check"`
	StatusAnalysis ModeConfig `yaml:"status_analysis"`
	LearningModule ModeConfig `yaml:"learning_module"`
}

// ModeConfig configures a single operation mode.
type ModeConfig struct {
	Enabled       bool     `yaml:"enabled"`
	OutputFormats []string `yaml:"output_formats,omitempty"`

	// ContentPath is the learning-module topic directory.
	ContentPath string `yaml:"content_path,omitempty"`
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Directory         string `yaml:"directory"`
	TimestampFiles    bool   `yaml:"timestamp_files"`
	OverwriteExisting bool   `yaml:"overwrite_existing"`
}

// LoggingConfig controls the leveled logger.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file,omitempty"`
	Console bool   `yaml:"console"`
}

// Load reads configuration from path. A missing file is not an error: the
// default configuration is written there and returned, matching first-run
// behavior.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, types.NewConfigurationError("cannot create default config file", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewConfigurationError(fmt.Sprintf("cannot read config file %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, types.NewConfigurationError(fmt.Sprintf("invalid YAML in config file %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that required sections and fields are present.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return types.NewConfigurationError("missing required project field: name", nil)
	}
	if c.Project.DefaultPath == "" {
		return types.NewConfigurationError("missing required project field: default_path", nil)
	}
	if c.Output.Directory == "" {
		return types.NewConfigurationError("missing required output field: directory", nil)
	}
	if c.Logging.Level == "" {
		return types.NewConfigurationError("missing required logging field: level", nil)
	}

	for i, doc := range c.RequiredDocuments {
		if doc.Name == "" {
			return types.NewConfigurationError(fmt.Sprintf("required document %d missing name", i), nil)
		}
		if len(doc.Patterns) == 0 {
			return types.NewConfigurationError(fmt.Sprintf("required document %d (%s) missing patterns", i, doc.Name), nil)
		}
		if len(doc.Formats) == 0 {
			return types.NewConfigurationError(fmt.Sprintf("required document %d (%s) missing formats", i, doc.Name), nil)
		}
	}
	return nil
}

// ModeEnabled checks whether an operation mode is switched on.
func (c *Config) ModeEnabled(mode types.OperationMode) bool {
	switch mode {
	case types.ModeDocumentCheck:
		return c.Modes.DocumentCheck.Enabled
	case types.ModeStatusAnalysis:
		return c.Modes.StatusAnalysis.Enabled
	case types.ModeLearningModule:
		return c.Modes.LearningModule.Enabled
	}
	return false
}

// ModeOutputFormats returns the configured report formats for a mode.
func (c *Config) ModeOutputFormats(mode types.OperationMode) []string {
	switch mode {
	case types.ModeDocumentCheck:
		return c.Modes.DocumentCheck.OutputFormats
	case types.ModeStatusAnalysis:
		return c.Modes.StatusAnalysis.OutputFormats
	case types.ModeLearningModule:
		return c.Modes.LearningModule.OutputFormats
	}
	return nil
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			Name:        "PM Analysis Project",
			DefaultPath: "./project_files",
		},
		RequiredDocuments: []RequiredDocument{
			{
				Name:     "Project Charter",
				Patterns: []string{"*charter*", "*project*charter*"},
				Formats:  []string{"md", "docx"},
				Required: true,
			},
			{
				Name:     "Risk Management Plan",
				Patterns: []string{"*risk*", "*risk*management*"},
				Formats:  []string{"md", "xlsx", "csv"},
				Required: true,
			},
			{
				Name:     "Work Breakdown Structure",
				Patterns: []string{"*wbs*", "*work*breakdown*", "*breakdown*structure*"},
				Formats:  []string{"md", "xlsx"},
				Required: true,
			},
			{
				Name:     "Roadmap",
				Patterns: []string{"*roadmap*", "*timeline*", "*schedule*"},
				Formats:  []string{"md", "mpp"},
				Required: true,
			},
			{
				Name:     "Stakeholder Register",
				Patterns: []string{"*stakeholder*", "*stakeholder*register*"},
				Formats:  []string{"xlsx", "csv"},
				Required: true,
			},
		},
		Modes: ModesConfig{
			DocumentCheck: ModeConfig{
				Enabled:       true,
				OutputFormats: []string{"markdown", "console"},
			},
			StatusAnalysis: ModeConfig{
				Enabled:       true,
				OutputFormats: []string{"markdown", "excel"},
			},
			LearningModule: ModeConfig{
				Enabled:     true,
				ContentPath: "./learning/modules",
			},
		},
		Output: OutputConfig{
			Directory:         "./reports",
			TimestampFiles:    true,
			OverwriteExisting: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    "pmlens.log",
			Console: true,
		},
	}
}
