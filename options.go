package scalarindex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hupe1980/scalarindex/binaryset"
	"github.com/hupe1980/scalarindex/codec"
	"github.com/hupe1980/scalarindex/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	verifyOnLoad     bool

	// Persistence.
	compression     binaryset.Compression
	codec           codec.Codec
	resources       *resource.Controller
	nonBlocking     bool
	readChunkSize   int64
	readConcurrency int
}

// Option configures index construction, Save and Open.
//
// Options that only matter for persistence are ignored by the index
// constructors and vice versa, so one option list can be shared.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := scalarindex.NewJSONLogger(slog.LevelDebug)
//	idx := scalarindex.NewFixedWidth[int64](scalarindex.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
//	metrics := &scalarindex.BasicMetricsCollector{}
//	idx := scalarindex.NewString(scalarindex.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithVerifyOnLoad makes numeric Load check that records are sorted and that
// positions form a permutation of 0..n-1. By default Load trusts the blob set,
// which must then come from Serialize.
func WithVerifyOnLoad(verify bool) Option {
	return func(o *options) {
		o.verifyOnLoad = verify
	}
}

// WithCompression selects how Save compresses the packed blob set.
// The default is binaryset.CompressionZSTD.
func WithCompression(c binaryset.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec configures the codec used for manifests.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithResourceController bounds IO throughput, buffered memory and
// parallelism of Save, Open and SaveColumns.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithNonBlocking makes Save, Open and SaveColumns fail with resource.ErrBusy
// instead of waiting when the resource controller has no IO budget or
// background slot free.
func WithNonBlocking(nonBlocking bool) Option {
	return func(o *options) {
		o.nonBlocking = nonBlocking
	}
}

// WithReadConcurrency sets how many ranged reads Open issues in parallel and
// how large each one is. chunkSize <= 0 keeps blobstore.DefaultChunkSize.
func WithReadConcurrency(concurrency int, chunkSize int64) Option {
	return func(o *options) {
		o.readConcurrency = concurrency
		o.readChunkSize = chunkSize
	}
}

func (o options) acquireIO(ctx context.Context, bytes int) error {
	if !o.nonBlocking {
		return o.resources.AcquireIO(ctx, bytes)
	}
	if !o.resources.TryAcquireIO(bytes) {
		return fmt.Errorf("%w: no io budget for %d bytes", resource.ErrBusy, bytes)
	}
	return nil
}

func (o options) acquireBackground(ctx context.Context) error {
	if !o.nonBlocking {
		return o.resources.AcquireBackground(ctx)
	}
	if !o.resources.TryAcquireBackground() {
		return fmt.Errorf("%w: no background slot", resource.ErrBusy)
	}
	return nil
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		compression:      binaryset.CompressionZSTD,
		codec:            codec.Default,
		readConcurrency:  4,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
