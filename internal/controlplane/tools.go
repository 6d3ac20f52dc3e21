package controlplane

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mcpdeck/mcpdeck/internal/scaffold"
)

// registerBuiltinTools wires the scaffolding operations up as MCP tools.
func registerBuiltinTools(registry *ToolRegistry, sc *scaffold.Scaffolder, workspaceDir string) {
	registry.Register(
		mcp.NewTool(
			"add-compose-include",
			mcp.WithDescription("Create the workspace compose include file if it does not exist yet."),
		),
		func(ctx context.Context, arguments map[string]any) (any, error) {
			created, err := sc.WriteComposeInclude(workspaceDir)
			if err != nil {
				return nil, err
			}
			return map[string]any{"created": created, "file": scaffold.ComposeIncludeFile}, nil
		},
	)

	registry.Register(
		mcp.NewTool(
			"add-frontend",
			mcp.WithDescription("Add a frontend dev-server service to the workspace compose include."),
			mcp.WithString("framework",
				mcp.Description("Frontend toolchain to run"),
				mcp.DefaultString("vite"),
			),
			mcp.WithNumber("port",
				mcp.Description("Host port to expose the dev server on"),
				mcp.DefaultNumber(5173),
			),
		),
		func(ctx context.Context, arguments map[string]any) (any, error) {
			framework := stringArg(arguments, "framework", "vite")
			port := intArg(arguments, "port", 5173)
			svc := scaffold.ComposeService{
				Image:       "node:22-alpine",
				Ports:       []string{fmt.Sprintf("%d:%d", port, port)},
				Environment: map[string]string{"FRAMEWORK": framework},
				Restart:     "unless-stopped",
			}
			if err := sc.AddComposeService(workspaceDir, "frontend", svc); err != nil {
				return nil, err
			}
			return map[string]any{"service": "frontend", "port": port}, nil
		},
	)

	registry.Register(
		mcp.NewTool(
			"add-postgres",
			mcp.WithDescription("Add a PostgreSQL service to the workspace compose include."),
			mcp.WithString("version",
				mcp.Description("PostgreSQL major version"),
				mcp.DefaultString("16"),
			),
			mcp.WithString("database",
				mcp.Description("Name of the database to create"),
				mcp.DefaultString("app"),
			),
			mcp.WithNumber("port",
				mcp.Description("Host port to expose PostgreSQL on"),
				mcp.DefaultNumber(5432),
			),
		),
		func(ctx context.Context, arguments map[string]any) (any, error) {
			version := stringArg(arguments, "version", "16")
			database := stringArg(arguments, "database", "app")
			port := intArg(arguments, "port", 5432)
			svc := scaffold.ComposeService{
				Image: "postgres:" + version,
				Ports: []string{fmt.Sprintf("%d:5432", port)},
				Environment: map[string]string{
					"POSTGRES_DB":       database,
					"POSTGRES_PASSWORD": "postgres",
				},
				Restart: "unless-stopped",
			}
			if err := sc.AddComposeService(workspaceDir, "postgres", svc); err != nil {
				return nil, err
			}
			return map[string]any{"service": "postgres", "database": database, "port": port}, nil
		},
	)

	registry.Register(
		mcp.NewTool(
			"configure-assistant",
			mcp.WithDescription("Register this control plane in an AI assistant's settings file."),
			mcp.WithString("assistant",
				mcp.Description("Assistant variant, eg claude or cursor"),
				mcp.Required(),
			),
		),
		func(ctx context.Context, arguments map[string]any) (any, error) {
			assistant := stringArg(arguments, "assistant", "")
			if assistant == "" {
				return nil, fmt.Errorf("assistant is required")
			}
			path, err := sc.ConfigureAssistant(assistant)
			if err != nil {
				return nil, err
			}
			return map[string]any{"assistant": assistant, "settings_file": path}, nil
		},
	)
}

func stringArg(arguments map[string]any, key, fallback string) string {
	if v, ok := arguments[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(arguments map[string]any, key string, fallback int) int {
	switch v := arguments[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return fallback
	}
}
