package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fitnessdash/internal/telemetry/metrics"
	"github.com/2beens/fitnessdash/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Snapshot is an immutable, loaded dataset. Records must not be modified.
type Snapshot struct {
	Path    string
	ModTime time.Time
	Records []WorkoutRecord
}

// Version identifies the file revision the snapshot was loaded from.
func (s *Snapshot) Version() string {
	return strconv.FormatInt(s.ModTime.UnixNano(), 36)
}

// Load reads the dataset at path; the format is chosen by file extension.
func Load(path string) ([]WorkoutRecord, error) {
	var records []WorkoutRecord
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, wrapOpenErr(path, statErr)
		}
		records, err = loadParquetFile(path)
	default:
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, wrapOpenErr(path, err)
		}
		defer f.Close()
		records, err = ParseCSV(f)
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		parseErr.Path = path
	}
	return records, err
}

func wrapOpenErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return fmt.Errorf("open dataset %s: %w", path, err)
}

// Loader memoizes the dataset keyed by its file modification time,
// so the file is only re-read after it changes on disk.
type Loader struct {
	path           string
	metricsManager *metrics.Manager

	mu       sync.Mutex
	snapshot *Snapshot
}

func NewLoader(path string, metricsManager *metrics.Manager) *Loader {
	return &Loader{
		path:           path,
		metricsManager: metricsManager,
	}
}

func (l *Loader) Path() string {
	return l.path
}

func (l *Loader) Get(ctx context.Context) (_ *Snapshot, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "dataset.loader.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stat, err := os.Stat(l.path)
	if err != nil {
		return nil, wrapOpenErr(l.path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.snapshot != nil && l.snapshot.ModTime.Equal(stat.ModTime()) {
		span.SetAttributes(attribute.Bool("dataset.cached", true))
		return l.snapshot, nil
	}

	start := time.Now()
	records, err := Load(l.path)
	l.observeLoad(time.Since(start), len(records), err)
	if err != nil {
		return nil, err
	}

	l.snapshot = &Snapshot{
		Path:    l.path,
		ModTime: stat.ModTime(),
		Records: records,
	}
	span.SetAttributes(
		attribute.Bool("dataset.cached", false),
		attribute.Int("dataset.records", len(records)),
	)
	log.Debugf("dataset [%s] loaded: %d records in %s", l.path, len(records), time.Since(start))

	return l.snapshot, nil
}

func (l *Loader) observeLoad(took time.Duration, records int, err error) {
	if l.metricsManager == nil {
		return
	}
	l.metricsManager.HistDatasetLoadDuration.Observe(took.Seconds())
	if err != nil {
		l.metricsManager.CounterDatasetLoads.WithLabelValues("error").Inc()
		return
	}
	l.metricsManager.CounterDatasetLoads.WithLabelValues("ok").Inc()
	l.metricsManager.GaugeDatasetRecords.Set(float64(records))
}
