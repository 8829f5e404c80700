package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/drillsim/internal/config"
	"github.com/aretw0/drillsim/internal/presentation/tui"
	httpAdapter "github.com/aretw0/drillsim/pkg/adapters/http"
	"github.com/aretw0/drillsim/pkg/adapters/mcp"
	"github.com/aretw0/drillsim/pkg/domain"
)

// Generate generates one table, writes exactly one file and reports its path on w.
func Generate(ctx context.Context, rt *Runtime, cfg config.Config, w io.Writer, quiet bool) (string, error) {
	table, path, err := rt.Engine.GenerateAndExport(ctx, cfg.Request(), cfg.Target())
	if err != nil {
		return "", err
	}
	if quiet {
		fmt.Fprintln(w, path)
		return path, nil
	}
	printSystemMessage(w, "Wrote %d rows to %s (seed %d)", table.Len(), path, table.Seed())
	return path, nil
}

// PreviewOptions selects what Preview prints.
type PreviewOptions struct {
	Rows    int  // leading rows shown in the table; <= 0 shows all
	WellLog bool // add a well-log sketch of every row
	Summary bool // add per-channel min/mean/max
	Width   int  // well-log track width
	Styled  bool // render markdown with colours
}

// Preview generates a table without exporting it and prints a preview.
func Preview(ctx context.Context, rt *Runtime, cfg config.Config, w io.Writer, opts PreviewOptions) error {
	table, err := rt.Engine.Generate(ctx, cfg.Request())
	if err != nil {
		return err
	}

	head := table
	if opts.Rows > 0 {
		head = table.Head(opts.Rows)
	}

	var md strings.Builder
	fmt.Fprintf(&md, "## Drilling data preview\n\nSeed %d, showing %d of %d rows.\n\n", table.Seed(), head.Len(), table.Len())
	md.WriteString(tui.MarkdownTable(head, 2))
	if opts.Summary {
		md.WriteString("\n## Summary\n\n")
		md.WriteString(tui.Summary(table))
	}

	render, err := tui.NewRenderer(opts.Styled)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := render(md.String())
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return err
	}

	if opts.WellLog {
		fmt.Fprintln(w)
		return tui.WellLog(w, table, opts.Width)
	}
	return nil
}

// Channels prints the channel catalogue with the effective max steps of cfg.
func Channels(w io.Writer, cfg config.Config, styled bool) error {
	channels, err := cfg.Request().Channels()
	if err != nil {
		return err
	}

	var md strings.Builder
	md.WriteString("| Key | Column | Min | Max | Max step | Suggested step |\n| --- | --- | ---: | ---: | ---: | --- |\n")
	for _, c := range channels {
		r := domain.SuggestedStepRanges[c.Key]
		fmt.Fprintf(&md, "| %s | %s | %g | %g | %g | %g-%g |\n", c.Key, c.Column(), c.Min, c.Max, c.MaxStepDelta, r.Min, r.Max)
	}

	render, err := tui.NewRenderer(styled)
	if err != nil {
		return err
	}
	out, err := render(md.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Serve runs the HTTP API until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, rt *Runtime, cfg config.Config, w io.Writer) error {
	opts := []httpAdapter.Option{
		httpAdapter.WithDefaults(cfg.Request(), cfg.Target()),
		httpAdapter.WithLogger(rt.Logger),
	}
	if rt.Registry != nil {
		opts = append(opts, httpAdapter.WithMetrics(rt.Registry))
	}
	handler, err := httpAdapter.NewHandler(rt.Engine, opts...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		dir, _ := filepath.Abs(cfg.Output.Directory)
		printSystemMessage(w, "Starting drillsim server on %s", srv.Addr)
		printSystemMessage(w, "Exporting to: %s", dir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(w, "Shutting down...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", 5*time.Second, err)
		}
		printSystemMessage(w, "drillsim server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over stdio or SSE.
func ServeMCP(ctx context.Context, rt *Runtime, cfg config.Config, transport string, port int) error {
	srv := mcp.NewServer(rt.Engine,
		mcp.WithDefaults(cfg.Request(), cfg.Target()),
		mcp.WithLogger(rt.Logger),
	)

	switch transport {
	case "stdio":
		rt.Logger.Info("starting drillsim MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		rt.Logger.Info("starting drillsim MCP server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
	return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
}
