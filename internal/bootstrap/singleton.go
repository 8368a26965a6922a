// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package bootstrap runs one-time process initialization exactly once and
// shares its outcome with every caller.
package bootstrap

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/inkpost/inkpost/pkg/errutil"
)

const tracerName = "github.com/inkpost/inkpost/internal/bootstrap"

// SetupFunc performs the initialization. It must honor ctx cancellation.
type SetupFunc[T any] func(ctx context.Context) (T, error)

// Config describes a Singleton.
type Config[T any] struct {
	// Name labels logs, spans and metrics.
	Name string

	// Setup is run at most once.
	Setup SetupFunc[T]

	// Timeout bounds Setup. Zero or negative means no bound.
	Timeout time.Duration

	// Discard releases a value that Setup produced after the timeout had
	// already failed the run. Optional.
	Discard func(T)

	Logger *slog.Logger
}

// Singleton is a single-assignment future. The first EnsureReady call starts
// Setup on a detached goroutine; every call, first or later, waits for the
// same outcome. Success and failure are both permanent for the life of the
// Singleton.
type Singleton[T any] struct {
	cfg Config[T]

	once sync.Once
	done chan struct{}

	value T
	err   error

	runs atomic.Int32
}

// New creates a Singleton. Setup does not start until EnsureReady or Start.
func New[T any](cfg Config[T]) *Singleton[T] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "bootstrap"
	}
	return &Singleton[T]{
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// Start triggers Setup without waiting for it.
func (s *Singleton[T]) Start() {
	s.once.Do(func() {
		go s.run()
	})
}

// EnsureReady starts Setup if needed and waits for its outcome. If ctx ends
// first the caller stops waiting; the shared run is unaffected.
func (s *Singleton[T]) EnsureReady(ctx context.Context) (T, error) {
	s.Start()

	select {
	case <-s.done:
		return s.value, s.err
	default:
	}

	select {
	case <-s.done:
		return s.value, s.err
	case <-ctx.Done():
		var zero T
		return zero, oops.Code("BOOTSTRAP_WAIT_CANCELLED").
			With("bootstrap", s.cfg.Name).
			Wrap(ctx.Err())
	}
}

// Done is closed once the outcome is known.
func (s *Singleton[T]) Done() <-chan struct{} {
	return s.done
}

// Ready reports whether Setup has completed successfully.
func (s *Singleton[T]) Ready() bool {
	select {
	case <-s.done:
		return s.err == nil
	default:
		return false
	}
}

// Runs reports how many times Setup has been invoked. It never exceeds one.
func (s *Singleton[T]) Runs() int {
	return int(s.runs.Load())
}

type outcome[T any] struct {
	value T
	err   error
}

func (s *Singleton[T]) run() {
	defer close(s.done)

	ctx := context.Background()
	var cancel context.CancelFunc = func() {}
	if s.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
	}
	defer cancel()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "bootstrap.run",
		trace.WithAttributes(attribute.String("bootstrap.name", s.cfg.Name)))
	defer span.End()

	start := time.Now()
	s.runs.Add(1)
	s.cfg.Logger.InfoContext(ctx, "bootstrap starting", "bootstrap", s.cfg.Name, "timeout", s.cfg.Timeout.String())

	results := make(chan outcome[T], 1)
	go func() {
		var out outcome[T]
		if perr := oops.Code("BOOTSTRAP_PANIC").With("bootstrap", s.cfg.Name).Recover(func() {
			out.value, out.err = s.cfg.Setup(ctx)
		}); perr != nil {
			out.err = perr
		}
		results <- out
	}()

	select {
	case out := <-results:
		s.value, s.err = out.value, out.err
	case <-ctx.Done():
		s.err = oops.Code("BOOTSTRAP_TIMEOUT").
			With("bootstrap", s.cfg.Name).
			With("timeout", s.cfg.Timeout.String()).
			Wrap(ctx.Err())
		go s.discardLate(results)
	}

	elapsed := time.Since(start)
	bootstrapDuration.WithLabelValues(s.cfg.Name).Observe(elapsed.Seconds())

	if s.err != nil {
		bootstrapRuns.WithLabelValues(s.cfg.Name, StatusFailed).Inc()
		span.RecordError(s.err)
		span.SetStatus(codes.Error, "bootstrap failed")
		errutil.LogError(s.cfg.Logger, "bootstrap failed", s.err)
		return
	}

	bootstrapRuns.WithLabelValues(s.cfg.Name, StatusSucceeded).Inc()
	bootstrapReady.WithLabelValues(s.cfg.Name).Set(1)
	s.cfg.Logger.InfoContext(ctx, "bootstrap complete", "bootstrap", s.cfg.Name, "duration", elapsed.String())
}

// discardLate waits for a Setup that outlived its timeout and hands any value
// it produced to Discard.
func (s *Singleton[T]) discardLate(results <-chan outcome[T]) {
	out := <-results
	if out.err == nil && s.cfg.Discard != nil {
		s.cfg.Discard(out.value)
	}
}
