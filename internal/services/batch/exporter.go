package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/phambaophuc/image-watermark/internal/metrics"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/phambaophuc/image-watermark/pkg/utils"
	"go.uber.org/zap"
)

// FileProcessor watermarks one image on disk.
type FileProcessor interface {
	ProcessFile(path string, spec models.WatermarkSpec, settings models.ExportSettings) (*processor.Output, error)
}

// ProgressFunc is called after every finished image with the number of
// images done so far.
type ProgressFunc func(done, total int)

type Exporter struct {
	proc     FileProcessor
	workers  int
	logger   *zap.Logger
	now      func() time.Time
	progress ProgressFunc
}

type Option func(*Exporter)

func WithWorkers(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithProgress(fn ProgressFunc) Option {
	return func(e *Exporter) {
		e.progress = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

func NewExporter(proc FileProcessor, logger *zap.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Exporter{
		proc:    proc,
		workers: runtime.NumCPU(),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export watermarks every source with the same spec and settings and writes
// the results into outDir. A failing image is recorded in its result and does
// not stop the others. Results keep the order of sources.
func (e *Exporter) Export(ctx context.Context, sources []string, outDir string, spec models.WatermarkSpec, settings models.ExportSettings) models.BatchSummary {
	summary := models.BatchSummary{
		Total:   len(sources),
		Results: make([]models.BatchResult, len(sources)),
	}
	for i, src := range sources {
		summary.Results[i].Source = src
	}

	if len(sources) == 0 {
		summary.ProcessedAt = e.now()
		return summary
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		for i := range summary.Results {
			summary.Results[i].Error = fmt.Sprintf("failed to create output directory: %v", err)
		}
		summary.ProcessedAt = e.now()
		return summary
	}

	stamp := e.now()
	names := newNameSet()
	ext := settings.Format.Normalize().Extension()

	numWorkers := min(e.workers, len(sources))
	jobs := make(chan int, len(sources))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result := &summary.Results[i]
				if err := ctx.Err(); err != nil {
					result.Error = err.Error()
				} else {
					target := filepath.Join(outDir, names.claim(utils.ExportFilename(result.Source, ext, stamp)))
					e.exportOne(result, target, spec, settings)
				}

				if e.progress != nil {
					mu.Lock()
					done++
					e.progress(done, len(sources))
					mu.Unlock()
				}
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, r := range summary.Results {
		if r.Error == "" {
			summary.Succeeded++
		}
	}
	summary.ProcessedAt = e.now()

	e.logger.Info("Batch export finished",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.String("output_dir", outDir))

	return summary
}

func (e *Exporter) exportOne(result *models.BatchResult, target string, spec models.WatermarkSpec, settings models.ExportSettings) {
	metrics.BatchInFlight.Inc()
	defer metrics.BatchInFlight.Dec()

	start := time.Now()
	out, err := e.proc.ProcessFile(result.Source, spec, settings)
	if err == nil {
		err = os.WriteFile(target, out.Data.Bytes(), 0o644)
		if err != nil {
			err = fmt.Errorf("failed to write %s: %w", target, err)
		}
	}
	metrics.ObserveWatermark(string(spec.Kind), err, start)

	if err != nil {
		e.logger.Warn("Failed to export image",
			zap.String("source", result.Source), zap.Error(err))
		result.Error = err.Error()
		return
	}

	result.Output = target
	result.FileSize = int64(out.Data.Len())
}

// nameSet hands out unique file names within one batch. Repeated names get
// a numeric suffix.
type nameSet struct {
	mu   sync.Mutex
	used map[string]int
}

func newNameSet() *nameSet {
	return &nameSet{used: make(map[string]int)}
}

func (s *nameSet) claim(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.used[name]
	s.used[name] = n + 1
	if n == 0 {
		return name
	}

	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}
