package prep

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"cmacbench/logger"
	"cmacbench/model"
)

// splitsHeader is the column layout of a split manifest CSV.
var splitsHeader = []string{"wav_name", "annot_name", "animal_id", "split", "duration_s"}

// MakeSplits assigns every sample of each (group, unit) to train, val
// or test, balancing total audio duration against the configured
// fractions, and writes one manifest CSV per (group, unit).
func (r *Runner) MakeSplits(ctx context.Context, groups []model.BiosoundGroup) error {
	fractions := map[string]float64{
		model.SplitTrain: r.cfg.TrainFraction,
		model.SplitVal:   r.cfg.ValFraction,
		model.SplitTest:  r.cfg.TestFraction,
	}
	var total float64
	for _, f := range fractions {
		total += f
	}
	if total <= 0 {
		return fmt.Errorf("split fractions sum to %v, nothing to assign", total)
	}

	for _, g := range groups {
		for _, unit := range g.Units() {
			entries, err := r.collectSplitCandidates(ctx, g, unit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				logger.Warn("No samples to split",
					logger.String("group", string(g)),
					logger.String("unit", string(unit)))
				continue
			}

			assignSplits(entries, fractions, r.cfg.SplitSeed)

			manifest := filepath.Join(MetadataDir(r.cfg, g), fmt.Sprintf("%s.splits.csv", unit))
			logger.Info("Writing split manifest",
				logger.String("group", string(g)),
				logger.String("unit", string(unit)),
				logger.String("path", manifest),
				logger.Int("samples", len(entries)))

			if !r.dryRun {
				if err := os.MkdirAll(filepath.Dir(manifest), 0755); err != nil {
					return fmt.Errorf("failed to make metadata directory: %w", err)
				}
				if err := writeSplitManifest(manifest, entries); err != nil {
					return err
				}
				if r.splits != nil {
					if err := r.splits.ReplaceEntries(string(g), string(unit), entries); err != nil {
						logger.Warn("Failed to record split entries",
							logger.String("group", string(g)),
							logger.ErrorField(err))
					}
				}
			}
			logSplitBalance(string(g), string(unit), entries)
			r.publish(string(StageSplit), string(g), "split manifest written", len(entries), false)
		}
	}
	return nil
}

// collectSplitCandidates gathers every sample of one (group, unit)
// with its probed duration.
func (r *Runner) collectSplitCandidates(ctx context.Context, g model.BiosoundGroup, unit model.Unit) ([]*model.SplitEntry, error) {
	groupDir := GroupRoot(r.cfg, g)
	animalDirs, err := ListAnimalDirs(groupDir, g)
	if err != nil {
		return nil, err
	}

	var entries []*model.SplitEntry
	for _, animalDir := range animalDirs {
		wavPaths, err := FromDir(animalDir, ".wav")
		if err != nil {
			return nil, err
		}
		for _, wavPath := range wavPaths {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			info, err := r.prober.Probe(ctx, wavPath)
			if err != nil {
				return nil, err
			}
			entries = append(entries, &model.SplitEntry{
				Group:     string(g),
				Unit:      string(unit),
				AnimalID:  AnimalIDFromDir(filepath.Base(animalDir)),
				WavName:   filepath.Base(wavPath),
				AnnotName: filepath.Base(AnnotPathFor(wavPath, unit)),
				Duration:  info.Duration,
			})
		}
	}
	return entries, nil
}

// assignSplits fills splits greedily: samples are taken longest first
// and each goes to the split with the largest remaining duration
// deficit. The seeded shuffle decides ties between equal durations, so
// the assignment is reproducible for a given seed.
func assignSplits(entries []*model.SplitEntry, fractions map[string]float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Duration > entries[j].Duration
	})

	var totalDuration float64
	for _, e := range entries {
		totalDuration += e.Duration
	}
	var fractionSum float64
	for _, f := range fractions {
		fractionSum += f
	}

	splits := make([]string, 0, len(fractions))
	for s := range fractions {
		splits = append(splits, s)
	}
	sort.Strings(splits)

	target := make(map[string]float64, len(fractions))
	assigned := make(map[string]float64, len(fractions))
	for _, s := range splits {
		target[s] = totalDuration * fractions[s] / fractionSum
	}

	for _, e := range entries {
		best, bestDeficit := "", -1.0
		for _, s := range splits {
			deficit := target[s] - assigned[s]
			if deficit > bestDeficit {
				best, bestDeficit = s, deficit
			}
		}
		e.Split = best
		assigned[best] += e.Duration
	}
}

func writeSplitManifest(path string, entries []*model.SplitEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create split manifest %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(splitsHeader); err != nil {
		return fmt.Errorf("failed to write split manifest header: %w", err)
	}
	for _, e := range entries {
		rec := []string{
			e.WavName,
			e.AnnotName,
			e.AnimalID,
			e.Split,
			strconv.FormatFloat(e.Duration, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write split manifest row for %s: %w", e.WavName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush split manifest %s: %w", path, err)
	}
	return nil
}

func logSplitBalance(group, unit string, entries []*model.SplitEntry) {
	durations := map[string]float64{}
	counts := map[string]int{}
	for _, e := range entries {
		durations[e.Split] += e.Duration
		counts[e.Split]++
	}
	for _, s := range []string{model.SplitTrain, model.SplitVal, model.SplitTest} {
		logger.Info("Split balance",
			logger.String("group", group),
			logger.String("unit", unit),
			logger.String("split", s),
			logger.Int("samples", counts[s]),
			logger.Float64("durationS", durations[s]))
	}
}
