package scaffold

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ComposeIncludeFile is the name of the compose include scaffolded into
// the workspace.
const ComposeIncludeFile = "compose.mcpdeck.yaml"

// ComposeService is one service entry in the compose include.
type ComposeService struct {
	Image       string            `yaml:"image"`
	Ports       []string          `yaml:"ports,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Restart     string            `yaml:"restart,omitempty"`
}

// composeInclude is the on-disk shape of the scaffolded YAML file.
type composeInclude struct {
	Services map[string]ComposeService `yaml:"services"`
}

// WriteComposeInclude creates the compose include in dir unless it already
// exists. An existing file is left untouched so user edits survive re-running
// setup.
func (s *Scaffolder) WriteComposeInclude(dir string) (created bool, err error) {
	path := filepath.Join(dir, ComposeIncludeFile)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to check for %s: %w", path, err)
	}
	if exists {
		return false, nil
	}

	data, err := yaml.Marshal(composeInclude{Services: map[string]ComposeService{}})
	if err != nil {
		return false, fmt.Errorf("failed to render compose include: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// AddComposeService inserts a service into the workspace compose include,
// creating the file first if needed. Adding a service that already exists
// is an error; scaffolding never overwrites user configuration.
func (s *Scaffolder) AddComposeService(dir, name string, svc ComposeService) error {
	if _, err := s.WriteComposeInclude(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, ComposeIncludeFile)

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var include composeInclude
	if err := yaml.Unmarshal(data, &include); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if include.Services == nil {
		include.Services = map[string]ComposeService{}
	}
	if _, exists := include.Services[name]; exists {
		return fmt.Errorf("service %q already exists in %s", name, path)
	}
	include.Services[name] = svc

	out, err := yaml.Marshal(include)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := afero.WriteFile(s.fs, path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
