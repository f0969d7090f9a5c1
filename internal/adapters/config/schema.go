package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Gritfile represents the structure of the grit.yaml configuration file.
type Gritfile struct {
	Version  string `yaml:"version"`
	Default  string `yaml:"default"`
	Packager string `yaml:"packager"`
	// Targets is kept as a node so declaration order survives decoding.
	Targets yaml.Node `yaml:"targets"`
}

// TargetDTO represents a target definition in the configuration.
type TargetDTO struct {
	Description string    `yaml:"description"`
	Deps        []string  `yaml:"deps"`
	Steps       []StepDTO `yaml:"steps"`
	Done        string    `yaml:"done"`
}

// StepDTO represents one step of a target body.
// Exactly one of Cmd, Remove and Pack must be set.
type StepDTO struct {
	Cmd    Argv              `yaml:"cmd"`
	Remove string            `yaml:"remove"`
	Pack   *PackDTO          `yaml:"pack"`
	Dir    string            `yaml:"dir"`
	Env    map[string]string `yaml:"env"`
}

// PackDTO represents a packager invocation.
type PackDTO struct {
	Profile         string   `yaml:"profile"`
	Target          string   `yaml:"target"`
	DefaultFeatures *bool    `yaml:"defaultFeatures"`
	Features        []string `yaml:"features"`
	OutDir          string   `yaml:"outDir"`
}

// Argv is a command line given either as a list or as a whitespace-separated string.
type Argv []string

// UnmarshalYAML accepts both `cmd: [cargo, fmt]` and `cmd: cargo fmt`.
func (a *Argv) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*a = strings.Fields(node.Value)
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*a = list
	return nil
}
