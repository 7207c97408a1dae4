package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/pipeline"
)

// ErrInvalidPipeline is returned when the configuration describes a
// pipeline that cannot be built or whose data definitions do not chain.
var ErrInvalidPipeline = errors.New("invalid pipeline configuration")

// EpochStats summarizes one pass over the whole problem.
type EpochStats struct {
	Epoch int
	// Evaluation marks the final pass, run with every model frozen.
	Evaluation bool
	Batches    int
	Samples    int
	// Losses holds the sample-weighted mean of every loss key.
	Losses map[string]float64
}

// Run executes the main application logic: it sets the pipeline up, prints
// its summary and, unless this is a dry run, trains it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx)
		defer a.closeHealthcheckServer(ctx)
	}

	p, err := a.Setup(ctx)
	if err != nil {
		return err
	}
	defer a.closeStages(ctx, p)

	fmt.Fprint(a.outW, p.Summarize())

	if a.config.DryRun {
		a.logger.Info("Dry run requested, skipping training.")
		return nil
	}
	if err := a.train(ctx, p); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Setup creates the problem, builds the pipeline and runs the handshake.
// Every configuration error is logged; if any was found the pipeline is
// discarded and ErrInvalidPipeline is returned.
func (a *App) Setup(ctx context.Context) (*pipeline.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	p := pipeline.New(a.registry)
	errs := 0

	if len(a.model.Problems) == 0 {
		logger.Error("Configuration error.", "error", "no problem section found")
		errs++
	}
	for _, section := range a.model.Problems {
		n, err := p.CreateProblem(ctx, section, true)
		if err != nil {
			return nil, fmt.Errorf("failed to create problem: %w", err)
		}
		errs += n
	}

	n, err := p.Build(ctx, a.model.Pipeline, true)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	errs += n
	errs += p.Handshake(ctx, true)

	if errs > 0 {
		return nil, fmt.Errorf("%w: %d error(s) found", ErrInvalidPipeline, errs)
	}

	a.mu.Lock()
	a.pipeline = p
	a.summary = p.Summarize()
	a.mu.Unlock()

	logger.Info("Pipeline ready.", "stages", p.Len(), "models", len(p.Models()), "losses", len(p.Losses()))
	return p, nil
}

func (a *App) train(ctx context.Context, p *pipeline.Pipeline) error {
	logger := ctxlog.FromContext(ctx)
	if p.Problem().Len() == 0 {
		logger.Warn("Problem has no samples, nothing to train.")
		return nil
	}

	logger.Info("🚀 Starting training.", "epochs", a.config.Epochs, "batch_size", a.config.BatchSize, "samples", p.Problem().Len())
	for epoch := 1; epoch <= a.config.Epochs; epoch++ {
		stats, err := a.pass(ctx, p, epoch)
		if err != nil {
			return fmt.Errorf("epoch %d: %w", epoch, err)
		}
		a.record(stats)
		logger.Info("Epoch finished.", "epoch", epoch, "batches", stats.Batches, "losses", stats.Losses)
	}
	if a.config.Epochs == 0 {
		return nil
	}

	models := p.Models()
	for _, m := range models {
		m.Freeze()
	}
	defer func() {
		for _, m := range models {
			m.Unfreeze()
		}
	}()

	stats, err := a.pass(ctx, p, a.config.Epochs)
	if err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}
	stats.Evaluation = true
	a.record(stats)
	logger.Info("🏁 Evaluation finished.", "batches", stats.Batches, "losses", stats.Losses)
	return nil
}

// pass runs every sample of the problem through the pipeline once, in
// batches of the configured size.
func (a *App) pass(ctx context.Context, p *pipeline.Pipeline, epoch int) (EpochStats, error) {
	problem := p.Problem()
	total := problem.Len()
	keys := p.LossKeys()

	stats := EpochStats{Epoch: epoch, Losses: make(map[string]float64, len(keys))}
	for start := 0; start < total; start += a.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		end := min(start+a.config.BatchSize, total)
		indices := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			indices = append(indices, i)
		}

		dd, err := problem.Batch(ctx, indices)
		if err != nil {
			return stats, fmt.Errorf("batch %d: %w", stats.Batches, err)
		}
		if err := p.Forward(ctx, dd); err != nil {
			return stats, fmt.Errorf("batch %d: %w", stats.Batches, err)
		}
		for _, key := range keys {
			loss, err := data.Get[float64](dd, key)
			if err != nil {
				return stats, fmt.Errorf("batch %d: loss: %w", stats.Batches, err)
			}
			stats.Losses[key] += loss * float64(len(indices))
		}
		stats.Batches++
		stats.Samples += len(indices)
	}

	for key := range stats.Losses {
		stats.Losses[key] /= float64(stats.Samples)
	}
	return stats, nil
}

func (a *App) record(stats EpochStats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, stats)
}

// closeStages releases the resources held by stages that own any.
func (a *App) closeStages(ctx context.Context, p *pipeline.Pipeline) {
	logger := ctxlog.FromContext(ctx)
	for _, c := range p.Stages() {
		closer, ok := c.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close component.", "component", c.Name(), "error", err)
		}
	}
}
