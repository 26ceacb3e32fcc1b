package utils

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config mirrors the command line options that may be preset from a YAML
// file given with -config. Absent keys leave the flag defaults untouched.
type Config struct {
	Task         *string        `yaml:"task"`
	Function     *string        `yaml:"function"`
	GoPath       *string        `yaml:"gopath"`
	ModulePath   *string        `yaml:"modulepath"`
	Waitlist     *string        `yaml:"waitlist"`
	StopAtTarget *bool          `yaml:"stop_at_target"`
	Metrics      *bool          `yaml:"metrics"`
	MetricsAddr  *string        `yaml:"metrics_addr"`
	Timeout      *time.Duration `yaml:"timeout"`
	NoColorize   *bool          `yaml:"no_colorize"`
	Verbose      *bool          `yaml:"verbose"`
	LogAI        *bool          `yaml:"ai_logging"`
	Format       *string        `yaml:"format"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (cfg Config, err error) {
	var node yaml.Node
	if err = yaml.Unmarshal(data, &node); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if len(node.Content) == 0 {
		return cfg, nil
	}

	known := map[string]bool{
		"task": true, "function": true, "gopath": true, "modulepath": true,
		"waitlist": true, "stop_at_target": true, "metrics": true,
		"metrics_addr": true, "timeout": true, "no_colorize": true,
		"verbose": true, "ai_logging": true, "format": true,
	}
	if doc := node.Content[0]; doc.Kind == yaml.MappingNode {
		for i := 0; i < len(doc.Content); i += 2 {
			if key := doc.Content[i].Value; !known[key] {
				return cfg, fmt.Errorf("unknown config key %q at line %d", key, doc.Content[i].Line)
			}
		}
	}

	if err = node.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// apply copies the configured values into the global options, skipping
// options whose flag was given explicitly on the command line.
func (c Config) apply(explicit map[string]bool) {
	setString := func(flagName string, v *string, dst *string) {
		if v != nil && !explicit[flagName] {
			*dst = *v
		}
	}
	setBool := func(flagName string, v *bool, dst *bool) {
		if v != nil && !explicit[flagName] {
			*dst = *v
		}
	}

	setString("task", c.Task, &opts.task)
	setString("fun", c.Function, &opts.function)
	setString("gopath", c.GoPath, &opts.gopath)
	setString("modulepath", c.ModulePath, &opts.modulePath)
	setString("waitlist", c.Waitlist, &opts.waitlist)
	setString("metrics-addr", c.MetricsAddr, &opts.metricsAddr)
	setString("format", c.Format, &opts.outputFormat)
	setBool("stop-at-target", c.StopAtTarget, &opts.stopAtTarget)
	setBool("metrics", c.Metrics, &opts.metrics)
	setBool("no-colorize", c.NoColorize, &opts.noColorize)
	setBool("verbose", c.Verbose, &opts.verbose)
	setBool("ai-logging", c.LogAI, &opts.logai)
	if c.Timeout != nil && !explicit["timeout"] {
		opts.timeout = *c.Timeout
	}
}
