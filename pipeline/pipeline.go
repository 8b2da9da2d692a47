// Package pipeline wires ingestion, enrichment, aggregation, rendering, and
// archiving into one sequential run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-order-report/config"
	"github.com/aluiziolira/go-order-report/ingest"
	"github.com/aluiziolira/go-order-report/models"
	"github.com/aluiziolira/go-order-report/report"
)

// Enricher resolves product ids to catalog metadata.
type Enricher interface {
	Enrich(ctx context.Context, ids []string) models.CatalogIndex
}

// Renderer consumes the aggregated table and returns the sheet it created.
type Renderer interface {
	Render(date time.Time, table *report.Table) (string, error)
}

// Archiver relocates consumed input files into the dated archive.
type Archiver interface {
	Archive(srcDir string, date time.Time) (moved, failed int)
}

// Pipeline runs the fixed sequence ingest -> enrich -> aggregate -> render ->
// archive. Execution is strictly sequential; the only blocking operations
// are file IO, the per-id catalog lookup, and the single rate-limit pause.
//
// Runs are not idempotent across crashes: a failure between the report save
// and the archive move leaves already-reported files in the incoming
// directory, to be reported again next run.
type Pipeline struct {
	cfg      *config.Config
	enricher Enricher
	renderer Renderer
	archiver Archiver
	now      func() time.Time
}

// New assembles a pipeline from its collaborators.
func New(cfg *config.Config, enricher Enricher, renderer Renderer, archiver Archiver) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		enricher: enricher,
		renderer: renderer,
		archiver: archiver,
		now:      time.Now,
	}
}

// Run executes one pass over the incoming directory. Only an unreadable
// incoming directory or an unwritable report artifact is fatal; every other
// condition is logged and skipped.
func (p *Pipeline) Run(ctx context.Context) (*models.RunResult, error) {
	start := p.now()

	records, stats, err := ingest.Ingest(p.cfg.IncomingDir)
	if err != nil {
		return nil, err
	}

	ids := distinctProductIDs(records)
	index := p.enricher.Enrich(ctx, ids)
	table := report.Aggregate(records, index)

	sheet, err := p.renderer.Render(start, table)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	moved, failed := p.archiver.Archive(p.cfg.IncomingDir, start)

	result := &models.RunResult{
		StartTime:        start,
		EndTime:          p.now(),
		FilesSeen:        stats.FilesSeen,
		TextParsed:       stats.TextParsed,
		TextSkipped:      stats.TextSkipped,
		CSVRows:          stats.CSVRows,
		DistinctProducts: len(ids),
		Resolved:         len(index),
		RowsEmitted:      len(table.Rows),
		FilesArchived:    moved,
		ArchiveFailures:  failed,
		SheetName:        sheet,
	}

	slog.Info("run complete",
		slog.String("sheet", sheet),
		slog.Int("files", result.FilesSeen),
		slog.Int("rows", result.RowsEmitted),
		slog.Int("resolved", result.Resolved),
		slog.Int("archived", result.FilesArchived),
		slog.Duration("duration", result.EndTime.Sub(result.StartTime)),
	)

	return result, nil
}

// distinctProductIDs deduplicates ids preserving first-seen order, so each
// product is looked up at most once per run.
func distinctProductIDs(records []models.OrderRecord) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.ProductID]; ok {
			continue
		}
		seen[record.ProductID] = struct{}{}
		ids = append(ids, record.ProductID)
	}
	return ids
}
