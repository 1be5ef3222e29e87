// Package app wires the parser, assembler, renderer and the optional export
// and storage stages into the sleepchart pipeline.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/sleepchart/internal/assembler"
	"github.com/chrissnell/sleepchart/internal/export"
	"github.com/chrissnell/sleepchart/internal/managers"
	"github.com/chrissnell/sleepchart/internal/parser"
	"github.com/chrissnell/sleepchart/internal/render"
	"github.com/chrissnell/sleepchart/internal/storage"
	"github.com/chrissnell/sleepchart/internal/types"
	"github.com/chrissnell/sleepchart/pkg/config"
)

// App represents the main application
type App struct {
	config *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &App{
		config: cfg,
		logger: logger,
	}
}

// Render reads events from in, writes the chart to out and returns the rows
// it drew. source names the input in logs and stored runs. On a fatal parse
// error the rows drawn so far are still returned along with the error.
func (a *App) Render(ctx context.Context, in io.Reader, source string, out io.Writer) (*storage.Run, error) {
	anchor, err := a.config.Chart.Anchor()
	if err != nil {
		return nil, err
	}

	r := render.New(out,
		render.WithDebug(a.config.Chart.Debug),
		render.WithAnchor(anchor),
		render.WithRulerEvery(a.config.Chart.RulerEvery),
	)

	var rows []types.Row
	sink := assembler.SinkFunc(func(row types.Row) error {
		if err := r.WriteRow(row); err != nil {
			return err
		}
		// the renderer owns the date sequence
		row.Date = r.Date()
		rows = append(rows, row)
		return nil
	})

	p := parser.New(in)
	asm := assembler.New(sink, assembler.WithLogger(a.logger))
	runErr := asm.Run(ctx, p)

	a.logger.Infow("chart rendered",
		"source", source,
		"rows", len(rows),
		"lines", p.Line(),
		"realigned", asm.Realigned(),
	)

	run := storage.NewRun(source, rows)
	if runErr != nil {
		return run, fmt.Errorf("%s: %w", source, runErr)
	}
	return run, nil
}

// RenderFile is Render over a named file. The name "-" reads standard input.
func (a *App) RenderFile(ctx context.Context, path string, out io.Writer) (*storage.Run, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return a.Render(ctx, in, path, out)
}

// Export writes run in the configured format to the configured path.
func (a *App) Export(run *storage.Run) error {
	f, err := export.NewFormatter(a.config.Export.Format)
	if err != nil {
		return err
	}

	out, err := os.Create(a.config.Export.Path)
	if err != nil {
		return fmt.Errorf("could not create export file: %w", err)
	}
	defer out.Close()

	chart := export.NewChart(run.ID.String(), run.Source, run.Rows)
	if err := f.Write(out, chart); err != nil {
		return fmt.Errorf("could not write %s export: %w", f.Format(), err)
	}
	a.logger.Infow("chart exported", "path", a.config.Export.Path, "format", f.Format())
	return out.Close()
}

// Store saves run to the configured storage backend.
func (a *App) Store(ctx context.Context, run *storage.Run) error {
	s, err := managers.NewStore(ctx, &a.config.Storage, a.logger)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveRun(ctx, run)
}

// Replay renders a stored run again.
func (a *App) Replay(ctx context.Context, id uuid.UUID, out io.Writer) error {
	s, err := managers.NewStore(ctx, &a.config.Storage, a.logger)
	if err != nil {
		return err
	}
	defer s.Close()

	rows, err := s.LoadRows(ctx, id)
	if err != nil {
		return err
	}

	r := render.New(out,
		render.WithDebug(a.config.Chart.Debug),
		render.WithRulerEvery(a.config.Chart.RulerEvery),
	)
	for _, row := range rows {
		if err := r.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input: %w", err)
	}
	return f, nil
}
