// Package controlplane implements the local MCP control-plane server: a
// JSON-RPC-over-HTTP endpoint exposing the built-in scaffolding tools.
package controlplane

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mcpdeck/mcpdeck/internal/scaffold"
	"github.com/mcpdeck/mcpdeck/internal/telemetry"
	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// JSON-RPC error codes served by the control plane.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

// ServerOptions configures a control-plane server.
type ServerOptions struct {
	// Port is the TCP port to bind the HTTP server to.
	Port string

	// Scaffolder performs the file writes behind the built-in tools.
	Scaffolder *scaffold.Scaffolder

	// WorkspaceDir is the directory the compose include lives in.
	WorkspaceDir string

	OtelProviders *telemetry.Providers
	Metrics       telemetry.CustomMetrics
}

// Server serves the /mcp JSON-RPC endpoint plus health and metrics.
type Server struct {
	port     string
	router   *gin.Engine
	registry *ToolRegistry

	otelProviders *telemetry.Providers
	metrics       telemetry.CustomMetrics
}

// NewServer initializes the control-plane server with the built-in tools.
func NewServer(opts *ServerOptions) (*Server, error) {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopCustomMetrics()
	}
	s := &Server{
		port:          opts.Port,
		registry:      NewToolRegistry(),
		otelProviders: opts.OtelProviders,
		metrics:       metrics,
	}
	registerBuiltinTools(s.registry, opts.Scaffolder, opts.WorkspaceDir)
	s.router = s.setupRouter()
	return s, nil
}

// Registry exposes the tool registry, eg for registering extra tools.
func (s *Server) Registry() *ToolRegistry { return s.registry }

// Router returns the underlying handler, used by tests to serve over httptest.
func (s *Server) Router() http.Handler { return s.router }

// Start runs the HTTP server (blocking call).
func (s *Server) Start() error {
	if err := s.router.Run(":" + s.port); err != nil {
		return fmt.Errorf("failed to run the control plane server: %w", err)
	}
	return nil
}

func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	if s.otelProviders != nil && s.otelProviders.IsEnabled() {
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/mcp", s.mcpHandler())

	return r
}

// rpcRequest is the incoming request shape; params stay raw until the
// method is known.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

func (s *Server) mcpHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			s.writeError(c, 0, codeInvalidRequest, "failed to read request body")
			return
		}

		var req rpcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(c, 0, codeParseError, "request body is not valid JSON")
			return
		}

		switch req.Method {
		case types.MethodToolsList:
			s.writeResult(c, req.ID, types.ListToolsResult{Tools: s.registry.List()})

		case types.MethodToolsCall:
			var params types.ToolCallParams
			if err := json.Unmarshal(req.Params, &params); err != nil {
				s.writeError(c, req.ID, codeInvalidRequest, "invalid tools/call params")
				return
			}
			s.handleToolCall(c, req.ID, params)

		default:
			s.writeError(c, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
		}
	}
}

func (s *Server) handleToolCall(c *gin.Context, id int64, params types.ToolCallParams) {
	started := time.Now()

	result, err := s.registry.Call(c.Request.Context(), params.Name, params.Arguments)

	outcome := telemetry.ToolCallOutcomeSuccess
	if err != nil {
		outcome = telemetry.ToolCallOutcomeError
	}
	s.metrics.RecordToolCall(c.Request.Context(), params.Name, outcome, time.Since(started))

	if err != nil {
		s.writeError(c, id, codeInternalError, err.Error())
		return
	}
	s.writeResult(c, id, result)
}

func (s *Server) writeResult(c *gin.Context, id int64, result any) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.writeError(c, id, codeInternalError, "failed to render result")
		return
	}
	c.JSON(http.StatusOK, types.JSONRPCResponse{
		JSONRPC: types.JSONRPCVersion,
		ID:      id,
		Result:  raw,
	})
}

func (s *Server) writeError(c *gin.Context, id int64, code int, message string) {
	c.JSON(http.StatusOK, types.JSONRPCResponse{
		JSONRPC: types.JSONRPCVersion,
		ID:      id,
		Error:   &types.JSONRPCError{Code: code, Message: message},
	})
}
