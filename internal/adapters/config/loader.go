// Package config provides the configuration loader for grit.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/grit/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = "grit.yaml"

// SchemaVersion is the only supported value of the version key.
const SchemaVersion = "1"

// BuiltinSource names the embedded table in errors and logs.
const BuiltinSource = "<builtin>"

//go:embed grit.yaml
var builtinConfig []byte

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration for root and returns the validated table.
// A relative configPath is resolved against root. An empty configPath selects
// root/grit.yaml when present and the built-in table otherwise.
func (l *Loader) Load(root, configPath string) (*domain.Table, error) {
	data, source, err := l.read(root, configPath)
	if err != nil {
		return nil, err
	}

	table, err := l.Parse(data)
	if err != nil {
		return nil, zerr.With(err, "config", source)
	}
	return table, nil
}

// Builtin returns the embedded default table.
func (l *Loader) Builtin() (*domain.Table, error) {
	return l.Parse(builtinConfig)
}

func (l *Loader) read(root, configPath string) ([]byte, string, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = FileName
	}
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(root, configPath)
	}

	// #nosec G304 -- path comes from the command line or the project root
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		return data, configPath, nil
	case !explicit && os.IsNotExist(err):
		return builtinConfig, BuiltinSource, nil
	default:
		return nil, "", zerr.With(readFailed(err), "path", configPath)
	}
}

// Parse decodes a configuration document into a validated table.
func (l *Loader) Parse(data []byte) (*domain.Table, error) {
	var file Gritfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, parseFailed(err)
	}

	if file.Version != "" && file.Version != SchemaVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedVersion, ""), "version", file.Version)
	}

	packager := file.Packager
	if packager == "" {
		packager = domain.DefaultPackager
	}

	table := domain.NewTable()
	if err := l.addTargets(table, &file.Targets, packager); err != nil {
		return nil, err
	}
	if file.Default != "" {
		table.SetDefault(file.Default)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (l *Loader) addTargets(table *domain.Table, node *yaml.Node, packager string) error {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return parseFailed(fmt.Errorf("line %d: targets must be a mapping", node.Line))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value

		var dto TargetDTO
		if err := valueNode.Decode(&dto); err != nil {
			return zerr.With(parseFailed(err), "target", name)
		}

		target, err := buildTarget(name, &dto, packager)
		if err != nil {
			return zerr.With(zerr.With(err, "target", name), "line", keyNode.Line)
		}

		if len(target.Prerequisites) == 0 && len(target.Commands) == 0 {
			l.Logger.Warn(fmt.Sprintf("target %q has no prerequisites and no steps", name))
		}

		if err := table.AddTarget(target); err != nil {
			return err
		}
	}
	return nil
}

func buildTarget(name string, dto *TargetDTO, packager string) (*domain.Target, error) {
	commands := make([]domain.Command, 0, len(dto.Steps))
	for i := range dto.Steps {
		cmd, err := buildCommand(&dto.Steps[i], packager)
		if err != nil {
			return nil, zerr.With(err, "step", i+1)
		}
		commands = append(commands, cmd)
	}

	return &domain.Target{
		Name:          name,
		Description:   dto.Description,
		Prerequisites: dto.Deps,
		Commands:      commands,
		Marker:        dto.Done,
	}, nil
}

func buildCommand(step *StepDTO, packager string) (domain.Command, error) {
	set := 0
	if len(step.Cmd) > 0 {
		set++
	}
	if step.Remove != "" {
		set++
	}
	if step.Pack != nil {
		set++
	}
	if set != 1 {
		return domain.Command{}, zerr.With(zerr.Wrap(domain.ErrInvalidStep, ""), "actions", set)
	}

	var cmd domain.Command
	switch {
	case step.Remove != "":
		if err := validateRemovePath(step.Remove); err != nil {
			return domain.Command{}, err
		}
		return domain.Remove(step.Remove), nil
	case step.Pack != nil:
		spec, err := buildPackageSpec(step.Pack)
		if err != nil {
			return domain.Command{}, err
		}
		cmd = spec.Command(packager)
	default:
		if step.Cmd[0] == "" {
			return domain.Command{}, domain.ErrEmptyCommand
		}
		cmd = domain.Exec(step.Cmd[0], step.Cmd[1:]...)
	}

	if _, err := domain.ResolvePath(".", step.Dir); err != nil {
		return domain.Command{}, err
	}
	cmd.Dir = step.Dir
	cmd.Env = step.Env
	return cmd, nil
}

func buildPackageSpec(dto *PackDTO) (domain.PackageSpec, error) {
	profile, err := domain.ParseProfile(dto.Profile)
	if err != nil {
		return domain.PackageSpec{}, err
	}

	platform := domain.PlatformWeb
	if dto.Target != "" {
		if platform, err = domain.ParsePlatform(dto.Target); err != nil {
			return domain.PackageSpec{}, err
		}
	}

	defaultFeatures := true
	if dto.DefaultFeatures != nil {
		defaultFeatures = *dto.DefaultFeatures
	}

	return domain.PackageSpec{
		Profile:         profile,
		Platform:        platform,
		DefaultFeatures: defaultFeatures,
		Features:        dto.Features,
		OutDir:          dto.OutDir,
	}, nil
}

// validateRemovePath rejects absolute paths, the root itself and paths that leave it.
func validateRemovePath(p string) error {
	if filepath.IsAbs(p) {
		return zerr.With(zerr.Wrap(domain.ErrPathOutsideRoot, ""), "path", p)
	}
	clean := filepath.Clean(p)
	if clean == "." {
		return zerr.With(zerr.Wrap(domain.ErrInvalidStep, "refusing to remove the project root"), "path", p)
	}
	_, err := domain.ResolvePath(".", clean)
	return err
}

func readFailed(err error) error {
	return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
}

func parseFailed(err error) error {
	return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
}
