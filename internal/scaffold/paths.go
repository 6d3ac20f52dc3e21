package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Supported assistant variants.
const (
	AssistantClaude = "claude"
	AssistantCursor = "cursor"
)

// PathResolver locates the settings file of an AI assistant for the current
// platform. It is injected so scaffolding stays testable without touching
// the real home directory.
type PathResolver interface {
	SettingsPath(assistant string) (string, error)
}

// OSPathResolver resolves settings paths from the actual OS environment.
type OSPathResolver struct {
	goos   string
	home   string
	getenv func(string) string
}

// NewOSPathResolver creates a resolver for the running platform.
func NewOSPathResolver() (*OSPathResolver, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return &OSPathResolver{goos: runtime.GOOS, home: home, getenv: os.Getenv}, nil
}

// SettingsPath returns the settings file for the given assistant variant.
func (r *OSPathResolver) SettingsPath(assistant string) (string, error) {
	switch assistant {
	case AssistantClaude:
		return r.claudePath(), nil
	case AssistantCursor:
		return filepath.Join(r.home, ".cursor", "mcp.json"), nil
	default:
		return "", fmt.Errorf("unknown assistant %q", assistant)
	}
}

func (r *OSPathResolver) claudePath() string {
	switch r.goos {
	case "darwin":
		return filepath.Join(r.home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		if appData := r.getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Claude", "claude_desktop_config.json")
		}
		return filepath.Join(r.home, "AppData", "Roaming", "Claude", "claude_desktop_config.json")
	default:
		if xdg := r.getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "claude", "claude_desktop_config.json")
		}
		return filepath.Join(r.home, ".config", "claude", "claude_desktop_config.json")
	}
}

// StaticPathResolver maps assistants to fixed paths. Used in tests and for
// the --settings-file override.
type StaticPathResolver map[string]string

func (r StaticPathResolver) SettingsPath(assistant string) (string, error) {
	path, ok := r[assistant]
	if !ok {
		return "", fmt.Errorf("unknown assistant %q", assistant)
	}
	return path, nil
}
