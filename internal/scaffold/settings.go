package scaffold

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// ServerEntryName is the key mcpdeck registers itself under in an
// assistant's mcpServers map.
const ServerEntryName = "mcpdeck"

// ConfigureAssistant adds (or updates) the mcpdeck entry in an assistant's
// settings file. The file is read, the mcpServers map is merged, and the
// result is written back; every unrelated key survives untouched. A settings
// file that exists but is not valid JSON aborts the operation rather than
// clobbering whatever the user has.
func (s *Scaffolder) ConfigureAssistant(assistant string) (string, error) {
	path, err := s.resolver.SettingsPath(assistant)
	if err != nil {
		return "", err
	}

	settings := map[string]any{}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	if err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return "", fmt.Errorf("settings file %s is not valid JSON, refusing to overwrite: %w", path, err)
		}
	}

	servers, ok := settings["mcpServers"].(map[string]any)
	if !ok {
		servers = map[string]any{}
	}
	servers[ServerEntryName] = map[string]any{
		"url": fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port),
	}
	settings["mcpServers"] = servers

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render settings for %s: %w", assistant, err)
	}
	out = append(out, '\n')

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create settings directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(s.fs, path, out, 0o644); err != nil {
		return "", fmt.Errorf("failed to write settings file %s: %w", path, err)
	}
	return path, nil
}
