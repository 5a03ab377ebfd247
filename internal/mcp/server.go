package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"rtt-forecast/internal/config"
	"rtt-forecast/internal/ingest"
	"rtt-forecast/internal/workspace"
)

// Version is reported to MCP clients; the CLI overrides it at start-up.
var Version = "dev"

// Server holds the state behind the MCP tools: one workspace and the last load report
// per dataset.
type Server struct {
	cfg *config.AppConfig
	ws  *workspace.Workspace

	mu      sync.Mutex
	reports map[workspace.Dataset]ingest.Report
}

// NewServer creates a new MCP server over ws.
func NewServer(cfg *config.AppConfig, ws *workspace.Workspace) *Server {
	return &Server{
		cfg:     cfg,
		ws:      ws,
		reports: make(map[workspace.Dataset]ingest.Report),
	}
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP() *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: "rtt-forecast", Version: Version}, nil)
	s.registerTools(server)
	return server
}

// Serve runs the server over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("version", Version).Str("workspace", s.cfg.WorkspaceFile).Msg("Starting MCP server on stdio")
	if err := s.MCP().Run(ctx, &sdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// handler adapts a typed tool function to the SDK: the result is returned as indented
// JSON text and errors become tool errors.
func handler[In any](fn func(context.Context, In) (any, error)) sdk.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *sdk.CallToolRequest, in In) (*sdk.CallToolResult, any, error) {
		start := time.Now()
		name := ""
		if req != nil && req.Params != nil {
			name = req.Params.Name
		}

		data, err := fn(ctx, in)
		if err != nil {
			log.Warn().Err(err).Str("tool", name).Msg("Tool call failed")
			return nil, nil, err
		}
		log.Debug().Str("tool", name).Dur("elapsed", time.Since(start)).Msg("Tool call completed")

		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: formatResult(data)}},
		}, nil, nil
	}
}

// persist saves the workspace after a mutation. Failures are logged, not returned:
// the in-memory edit has already happened.
func (s *Server) persist() {
	if s.cfg == nil || s.cfg.WorkspaceFile == "" {
		return
	}
	if err := s.ws.Save(s.cfg.WorkspaceFile); err != nil {
		log.Warn().Err(err).Str("path", s.cfg.WorkspaceFile).Msg("Failed to save workspace")
	}
}

func (s *Server) setReport(rep ingest.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[rep.Dataset] = rep
}

func (s *Server) report(ds workspace.Dataset) (ingest.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.reports[ds]
	return rep, ok
}

func formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
