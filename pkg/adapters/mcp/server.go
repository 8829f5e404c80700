// Package mcp exposes drilling table generation and export as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/drillsim"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ChannelsURI is the resource listing the channel catalogue.
const ChannelsURI = "drillsim://channels"

// GenerateResponse is the structured result of generate_drilling_data.
type GenerateResponse struct {
	Seed      int64       `json:"seed" jsonschema_description:"Seed that reproduces this table"`
	Columns   []string    `json:"columns" jsonschema_description:"Column headers, depth first"`
	Rows      [][]float64 `json:"rows" jsonschema_description:"Row-oriented values in column order"`
	TotalRows int         `json:"total_rows" jsonschema_description:"Rows in the full table before head was applied"`
}

// ExportResponse is the structured result of export_drilling_data.
type ExportResponse struct {
	RunID  string `json:"run_id" jsonschema_description:"Identifier of this export in the server logs"`
	Path   string `json:"path" jsonschema_description:"Path of the written file"`
	File   string `json:"file" jsonschema_description:"File name of the written file"`
	Format string `json:"format" jsonschema_description:"File format"`
	Seed   int64  `json:"seed" jsonschema_description:"Seed that reproduces the exported table"`
	Rows   int    `json:"rows" jsonschema_description:"Number of depth rows written"`
}

// ChannelInfo describes one channel and its suggested max step range.
type ChannelInfo struct {
	Key           string           `json:"key"`
	Column        string           `json:"column"`
	Unit          string           `json:"unit,omitempty"`
	Min           float64          `json:"min"`
	Max           float64          `json:"max"`
	MaxStepDelta  float64          `json:"max_step_delta"`
	SuggestedStep domain.StepRange `json:"suggested_step"`
}

// ChannelsResponse is the structured result of list_channels.
type ChannelsResponse struct {
	Channels []ChannelInfo `json:"channels"`
	Formats  []string      `json:"formats"`
}

// Engine is the part of drillsim.Engine the MCP server drives.
type Engine interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Table, error)
	GenerateAndExport(ctx context.Context, req domain.GenerationRequest, target domain.ExportTarget) (*domain.Table, string, error)
	Formats() []domain.Format
}

var _ Engine = (*drillsim.Engine)(nil)

// Server wraps the Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	request   domain.GenerationRequest
	target    domain.ExportTarget
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithDefaults sets the request and export target used for omitted arguments.
// Tools can never choose the export directory.
func WithDefaults(req domain.GenerationRequest, target domain.ExportTarget) Option {
	return func(s *Server) {
		s.request = req
		s.target = target
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		request:   domain.DefaultRequest(),
		target:    domain.DefaultExportTarget(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("drillsim-mcp", strings.TrimSpace(drillsim.Version), server.WithRecovery()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: generate_drilling_data
	generateTool := mcp.NewTool("generate_drilling_data",
		mcp.WithDescription("Generate a synthetic drilling log: depth plus ROP, RPM, flow rate and weight on bit as bounded random walks."),
		withRequestParams(),
		mcp.WithNumber("head", mcp.Description("Return only the first N rows (optional)")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: export_drilling_data
	exportTool := mcp.NewTool("export_drilling_data",
		mcp.WithDescription("Generate a drilling log and write it to a new {prefix}_{index} file without overwriting existing ones."),
		withRequestParams(),
		mcp.WithString("prefix", mcp.Description("File name prefix (optional)")),
		mcp.WithString("format", mcp.Description("File format"), mcp.Enum("csv", "xlsx")),
		mcp.WithOutputSchema[ExportResponse](),
	)
	s.mcpServer.AddTool(exportTool, mcp.NewStructuredToolHandler(s.handleExport))

	// TOOL: list_channels
	channelsTool := mcp.NewTool("list_channels",
		mcp.WithDescription("List the channels, their bounds and default max step, and the export formats."),
		mcp.WithOutputSchema[ChannelsResponse](),
	)
	s.mcpServer.AddTool(channelsTool, mcp.NewStructuredToolHandler(s.handleListChannels))
}

// withRequestParams declares the GenerationRequest arguments shared by the tools.
func withRequestParams() mcp.ToolOption {
	return func(t *mcp.Tool) {
		for _, opt := range []mcp.ToolOption{
			mcp.WithNumber("start_depth", mcp.Description("First depth in metres (default 500)")),
			mcp.WithNumber("end_depth", mcp.Description("Last depth in metres, inclusive when on the grid (default 1000)")),
			mcp.WithNumber("step", mcp.Description("Depth spacing in metres (default 5)")),
			mcp.WithNumber("seed", mcp.Description("Random seed; the same seed reproduces the same data")),
			mcp.WithObject("max_steps", mcp.Description("Max change per depth step keyed by channel: rop, rpm, flow_rate, wob")),
		} {
			opt(t)
		}
	}
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	req, err := s.parseRequest(args)
	if err != nil {
		return GenerateResponse{}, err
	}

	table, err := s.engine.Generate(ctx, req)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("generate failed: %w", err)
	}

	total := table.Len()
	if head, ok, err := intArg(args, "head"); err != nil {
		return GenerateResponse{}, err
	} else if ok {
		table = table.Head(head)
	}

	return GenerateResponse{
		Seed:      table.Seed(),
		Columns:   table.Columns(),
		Rows:      table.Rows(),
		TotalRows: total,
	}, nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExportResponse, error) {
	runID := uuid.NewString()

	req, err := s.parseRequest(args)
	if err != nil {
		return ExportResponse{}, err
	}

	target := s.target
	if prefix, _ := args["prefix"].(string); prefix != "" {
		target.Prefix = prefix
	}
	if format, _ := args["format"].(string); format != "" {
		f, err := domain.ParseFormat(format)
		if err != nil {
			return ExportResponse{}, err
		}
		target.Format = f
	}

	table, path, err := s.engine.GenerateAndExport(ctx, req, target)
	if err != nil {
		s.logger.Warn("MCP export failed", "run_id", runID, "err", err)
		return ExportResponse{}, fmt.Errorf("export failed: %w", err)
	}
	s.logger.Info("MCP export", "run_id", runID, "path", path, "seed", table.Seed())

	return ExportResponse{
		RunID:  runID,
		Path:   path,
		File:   filepath.Base(path),
		Format: string(target.Format),
		Seed:   table.Seed(),
		Rows:   table.Len(),
	}, nil
}

func (s *Server) handleListChannels(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ChannelsResponse, error) {
	return s.channels()
}

func (s *Server) channels() (ChannelsResponse, error) {
	specs, err := s.request.Channels()
	if err != nil {
		return ChannelsResponse{}, err
	}

	resp := ChannelsResponse{Channels: make([]ChannelInfo, len(specs))}
	for i, c := range specs {
		resp.Channels[i] = ChannelInfo{
			Key:           c.Key,
			Column:        c.Column(),
			Unit:          c.Unit,
			Min:           c.Min,
			Max:           c.Max,
			MaxStepDelta:  c.MaxStepDelta,
			SuggestedStep: domain.SuggestedStepRanges[c.Key],
		}
	}
	for _, f := range s.engine.Formats() {
		resp.Formats = append(resp.Formats, string(f))
	}
	return resp, nil
}

// parseRequest overlays args on the server defaults.
func (s *Server) parseRequest(args map[string]interface{}) (domain.GenerationRequest, error) {
	req := s.request
	req.MaxSteps = maps.Clone(s.request.MaxSteps)

	for name, dst := range map[string]*float64{
		"start_depth": &req.StartDepth,
		"end_depth":   &req.EndDepth,
		"step":        &req.Step,
	} {
		v, ok, err := floatArg(args, name)
		if err != nil {
			return req, err
		}
		if ok {
			*dst = v
		}
	}

	if seed, ok, err := int64Arg(args, "seed"); err != nil {
		return req, err
	} else if ok {
		req.Seed = &seed
	}

	if raw, ok := args["max_steps"]; ok && raw != nil {
		steps, err := parseMaxSteps(raw)
		if err != nil {
			return req, err
		}
		if req.MaxSteps == nil {
			req.MaxSteps = make(map[string]float64, len(steps))
		}
		maps.Copy(req.MaxSteps, steps)
	}
	return req, nil
}

// parseMaxSteps accepts an object or its JSON text.
func parseMaxSteps(raw any) (map[string]float64, error) {
	if text, ok := raw.(string); ok {
		var m map[string]float64
		if err := json.Unmarshal([]byte(text), &m); err != nil {
			return nil, fmt.Errorf("max_steps: %w", err)
		}
		return m, nil
	}

	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("max_steps: expected an object, got %T", raw)
	}
	steps := make(map[string]float64, len(obj))
	for k := range obj {
		v, _, err := floatArg(obj, k)
		if err != nil {
			return nil, fmt.Errorf("max_steps: %w", err)
		}
		steps[k] = v
	}
	return steps, nil
}

func floatArg(args map[string]interface{}, name string) (float64, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		return f, err == nil, wrapArg(name, err)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil, wrapArg(name, err)
	}
	return 0, false, fmt.Errorf("%s: expected a number, got %T", name, raw)
}

func int64Arg(args map[string]interface{}, name string) (int64, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil, wrapArg(name, err)
	case json.Number:
		n, err := v.Int64()
		return n, err == nil, wrapArg(name, err)
	}
	f, ok, err := floatArg(args, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != float64(int64(f)) {
		return 0, false, fmt.Errorf("%s: expected an integer, got %g", name, f)
	}
	return int64(f), true, nil
}

func intArg(args map[string]interface{}, name string) (int, bool, error) {
	n, ok, err := int64Arg(args, name)
	return int(n), ok, err
}

func wrapArg(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Server) registerResources() {
	// EXPOSE: drillsim://channels
	s.mcpServer.AddResource(mcp.NewResource(ChannelsURI, "Drilling channel catalogue",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		resp, err := s.channels()
		if err != nil {
			return nil, fmt.Errorf("failed to list channels: %w", err)
		}
		jsonBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ChannelsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
