package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the declarative assembly surface: species, a registered state
// definition name, and the ordered contribution list.
type Config struct {
	Species       []string             `yaml:"species" mapstructure:"species"`
	State         string               `yaml:"state" mapstructure:"state"`
	Contributions []ContributionConfig `yaml:"contributions" mapstructure:"contributions"`
}

// ContributionConfig selects a registered class, optionally under a distinct
// instance name and with free-form options. In YAML an entry may be a bare
// class name or a {class, name, options} record.
type ContributionConfig struct {
	Class   string         `yaml:"class" mapstructure:"class"`
	Name    string         `yaml:"name" mapstructure:"name"`
	Options map[string]any `yaml:"options" mapstructure:"options"`
}

// UnmarshalYAML accepts the bare-name shorthand.
func (c *ContributionConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Class)
	}
	type plain ContributionConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = ContributionConfig(p)
	return nil
}

// ParseConfig decodes a YAML frame configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse frame configuration: %w", err)
	}
	return cfg, nil
}
