// Package prep implements the staged pipeline that builds the
// CMACBench dataset from raw source corpora: it lays out directories,
// copies and converts audio and annotations, derives label metadata,
// quality-controls annotations, generates model targets, and assigns
// dataset splits.
package prep

import (
	"context"
	"fmt"
	"strings"

	"cmacbench/config"
	"cmacbench/core/audio"
	"cmacbench/logger"
	"cmacbench/model"
	"cmacbench/repository"

	"github.com/google/uuid"
)

// Stage names one pipeline stage. "all" runs every stage in order
// except clean.
type Stage string

const (
	StageAll    Stage = "all"
	StageClean  Stage = "clean"
	StageMkdirs Stage = "mkdirs"
	StageCopy   Stage = "copy"
	StageLabels Stage = "labels"
	StageQC     Stage = "qc"
	StageMake   Stage = "make"
	StageSplit  Stage = "split"
)

// ParseStage validates a stage name from user input.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageAll, StageClean, StageMkdirs, StageCopy, StageLabels, StageQC, StageMake, StageSplit:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown stage: %q", s)
}

// Runner executes pipeline stages. The repository fields are optional:
// a nil repository turns the corresponding bookkeeping off, so the
// pipeline also works without a database.
type Runner struct {
	cfg      *config.Config
	prober   *audio.Prober
	convert  *audio.Converter
	samples  repository.SampleRepository
	reports  repository.QCReportRepository
	splits   repository.SplitRepository
	runs     repository.RunRepository
	useCache bool // QC verdict cache in Redis
	progress ProgressFunc

	dryRun bool
	watch  bool
	run    *model.PrepRun
}

// Option configures a Runner.
type Option func(*Runner)

// WithInventory wires the sample, QC report and split repositories.
func WithInventory(samples repository.SampleRepository, reports repository.QCReportRepository, splits repository.SplitRepository) Option {
	return func(r *Runner) {
		r.samples = samples
		r.reports = reports
		r.splits = splits
	}
}

// WithRunLog wires the prep run repository.
func WithRunLog(runs repository.RunRepository) Option {
	return func(r *Runner) { r.runs = runs }
}

// WithQCCache enables the Redis QC verdict cache.
func WithQCCache() Option {
	return func(r *Runner) { r.useCache = true }
}

// WithProgress wires a progress subscriber.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithWatch makes the copy stage keep watching the raw directories for
// files that appear while the stage runs.
func WithWatch() Option {
	return func(r *Runner) { r.watch = true }
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		prober:  audio.NewProber(cfg.FFmpegPath),
		convert: audio.NewConverter(cfg.FFmpegPath),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one stage (or all of them) for the given groups.
// dryRun logs every action without touching the filesystem.
func (r *Runner) Run(ctx context.Context, stage Stage, groups []model.BiosoundGroup, dryRun bool) error {
	r.dryRun = dryRun
	r.run = &model.PrepRun{
		ID:     uuid.NewString(),
		Stage:  string(stage),
		Groups: joinGroups(groups),
		DryRun: dryRun,
	}

	logger.Info("Preparing CMACBench dataset",
		logger.String("runId", r.run.ID),
		logger.String("stage", string(stage)),
		logger.String("groups", r.run.Groups),
		logger.Bool("dryRun", dryRun))

	if r.runs != nil {
		if err := r.runs.CreateRun(r.run); err != nil {
			// Bookkeeping must not block the pipeline.
			logger.Warn("Failed to record prep run", logger.ErrorField(err))
		}
	}

	err := r.runStages(ctx, stage, groups)

	if r.runs != nil {
		status := model.RunStatusCompleted
		if err != nil {
			status = model.RunStatusFailed
		}
		if ferr := r.runs.FinishRun(r.run, status, err); ferr != nil {
			logger.Warn("Failed to finish prep run record", logger.ErrorField(ferr))
		}
	}
	r.publish(string(stage), "", "run finished", r.run.FilesSeen, true)
	return err
}

func (r *Runner) runStages(ctx context.Context, stage Stage, groups []model.BiosoundGroup) error {
	if stage == StageClean {
		logger.Info("Stage was 'clean', will remove generated dataset directories and return.")
		return r.Clean(ctx, groups)
	}

	if stage == StageMkdirs || stage == StageAll {
		logger.Info("Making directories for CMACBench dataset.")
		if err := r.Mkdirs(groups); err != nil {
			return fmt.Errorf("mkdirs stage failed: %w", err)
		}
	}

	if stage == StageCopy || stage == StageAll {
		logger.Info("Copying raw audio into CMACBench dataset, converting annotations as needed.")
		if err := r.CopyAudioAndAnnot(ctx, groups); err != nil {
			return fmt.Errorf("copy stage failed: %w", err)
		}
	}

	if stage == StageLabels || stage == StageAll {
		logger.Info("Making metadata for class labels.")
		if err := r.MakeLabelsets(groups); err != nil {
			return fmt.Errorf("labels stage failed: %w", err)
		}
	}

	if stage == StageQC || stage == StageAll {
		logger.Info("Doing quality checks on annotations, removing invalid audio/annotation pairs.")
		if err := r.DoQC(ctx, groups); err != nil {
			return fmt.Errorf("qc stage failed: %w", err)
		}
	}

	if stage == StageMake || stage == StageAll {
		logger.Info("Making inputs and targets for models.")
		if err := r.MakeTargets(ctx, groups); err != nil {
			return fmt.Errorf("make stage failed: %w", err)
		}
	}

	if stage == StageSplit || stage == StageAll {
		logger.Info("Making csv files representing dataset splits.")
		if err := r.MakeSplits(ctx, groups); err != nil {
			return fmt.Errorf("split stage failed: %w", err)
		}
	}

	return nil
}

func joinGroups(groups []model.BiosoundGroup) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return strings.Join(names, ",")
}
