// Package pipeline drives batch conversion of accelerograph files: it
// finds inputs, splits multi-channel files, parses each channel, and
// hands the records to an exporter.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/SaidaTaisei/CESMD-V2-File-Converter/internal/observability"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/config"
	"github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/export"
	v2 "github.com/SaidaTaisei/CESMD-V2-File-Converter/pkg/v2"
)

// Publisher pushes converted records to a downstream system.
type Publisher interface {
	Publish(ctx context.Context, rec *v2.WaveformRecord) error
}

// Failure describes one source that could not be converted.
type Failure struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Summary reports the outcome of a conversion batch.
type Summary struct {
	FilesFound      int       `json:"files_found"`
	FilesConverted  int       `json:"files_converted"`
	FilesFailed     int       `json:"files_failed"`
	ChannelsSplit   int       `json:"channels_split"`
	RecordsExported int       `json:"records_exported"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Failures        []Failure `json:"failures,omitempty"`
}

// Converter runs the conversion batch over a worker pool.
type Converter struct {
	cfg       *config.Config
	exporter  export.Exporter
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// NewConverter creates a Converter. publisher may be nil when publishing
// is disabled; a nil clock falls back to the real clock.
func NewConverter(cfg *config.Config, exporter export.Exporter, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Converter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Converter{
		cfg:       cfg,
		exporter:  exporter,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

type fileResult struct {
	source   string
	records  int
	channels int
	failures []Failure
}

// Run converts every matching file in the input directory. Per-file
// failures are collected in the summary and never abort the batch; the
// returned error covers batch-level problems only.
func (c *Converter) Run(ctx context.Context) (*Summary, error) {
	files, err := FindInputFiles(c.cfg.InputDir, c.cfg.FilePattern)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		FilesFound: len(files),
		StartedAt:  c.clock.Now(),
	}

	c.logger.Info("batch started",
		"input_dir", c.cfg.InputDir,
		"files", len(files),
		"workers", c.cfg.Workers,
		"format", c.exporter.Name())

	c.metrics.BatchRunning.Set(1)
	defer c.metrics.BatchRunning.Set(0)

	jobs := make(chan string)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- c.convertFile(ctx, path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		summary.ChannelsSplit += res.channels
		summary.RecordsExported += res.records
		if len(res.failures) > 0 {
			summary.FilesFailed++
			summary.Failures = append(summary.Failures, res.failures...)
			c.metrics.FilesFailed.Inc()
			continue
		}
		summary.FilesConverted++
		c.metrics.FilesConverted.Inc()
	}

	summary.FinishedAt = c.clock.Now()

	c.logger.Info("batch finished",
		"converted", summary.FilesConverted,
		"failed", summary.FilesFailed,
		"records", summary.RecordsExported,
		"duration", summary.FinishedAt.Sub(summary.StartedAt))

	return summary, ctx.Err()
}

// convertFile handles one source file: split detection, per-channel
// parsing, export, and optional publishing.
func (c *Converter) convertFile(ctx context.Context, path string) fileResult {
	start := c.clock.Now()
	res := fileResult{source: path}

	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the input glob
	if err != nil {
		res.failures = append(res.failures, Failure{Source: path, Reason: err.Error()})
		return res
	}
	content := strings.ToValidUTF8(string(data), "")

	type block struct {
		name string
		text string
	}
	blocks := []block{{name: filepath.Base(path), text: content}}

	// The marker count can trip on files whose channel headers never match
	// the splitting pattern; with zero blocks the original text is parsed
	// as a single channel instead.
	if v2.HasMultipleChannels(content) {
		if chans, preamble := v2.SplitChannels(content); len(chans) > 0 {
			if preamble != "" {
				c.logger.Debug("discarding preamble before first channel header",
					"file", path, "bytes", len(preamble))
			}
			res.channels = len(chans)
			c.metrics.ChannelsSplit.Add(float64(len(chans)))

			if c.cfg.WriteSplitFiles {
				if _, err := v2.WriteChannelBlocks(path, chans); err != nil {
					c.logger.Warn("writing split files failed", "file", path, "error", err)
				}
			}

			blocks = blocks[:0]
			for _, ch := range chans {
				blocks = append(blocks, block{
					name: fmt.Sprintf("%s#chan%d", filepath.Base(path), ch.Channel),
					text: ch.Text,
				})
			}
		}
	}

	for _, b := range blocks {
		rec, err := v2.Parse(b.text, b.name, path)
		if err != nil {
			c.logger.Warn("parse failed", "source", b.name, "error", err)
			res.failures = append(res.failures, Failure{Source: b.name, Reason: err.Error()})
			continue
		}
		c.metrics.RecordsParsed.Inc()
		c.metrics.SamplesPerRecord.Observe(float64(len(rec.Acceleration)))

		if err := c.exportRecord(ctx, rec, path); err != nil {
			c.logger.Warn("export failed", "source", b.name, "error", err)
			res.failures = append(res.failures, Failure{Source: b.name, Reason: err.Error()})
			continue
		}
		res.records++

		if c.publisher != nil {
			if err := c.publisher.Publish(ctx, rec); err != nil {
				// Publishing is best-effort; the converted file is already
				// on disk.
				c.logger.Warn("publish failed", "source", b.name, "error", err)
			}
		}
	}

	c.metrics.ConversionDuration.Observe(c.clock.Since(start).Seconds())
	return res
}

func (c *Converter) exportRecord(ctx context.Context, rec *v2.WaveformRecord, source string) error {
	dest := outputPath(c.cfg.OutputDir, source, channelNumber(rec, source), c.exporter.Ext())

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(dest) // #nosec G304 -- destination derives from configured output dir
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := c.exporter.Export(ctx, rec, f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	c.logger.Debug("record exported", "dest", dest)
	return nil
}
