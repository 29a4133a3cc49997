package prep

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cmacbench/annot"
	"cmacbench/core/frames"
	"cmacbench/logger"
	"cmacbench/model"
)

// MakeTargets generates model inputs and targets for every sample:
// a frame-label vector for frame classification and a boundary one-hot
// vector for boundary detection, both on a fixed frame grid, written
// as `<stem>.<unit>.frames.csv` next to the sample.
func (r *Runner) MakeTargets(ctx context.Context, groups []model.BiosoundGroup) error {
	stepS := r.cfg.FrameStepMS / 1000.0
	if stepS <= 0 {
		return fmt.Errorf("invalid frame step: %v ms", r.cfg.FrameStepMS)
	}

	for _, g := range groups {
		groupDir := GroupRoot(r.cfg, g)
		animalDirs, err := ListAnimalDirs(groupDir, g)
		if err != nil {
			return err
		}

		var labelmaps GroupLabelmaps
		if g.HasLabelsetQC() {
			labelmaps, err = LoadLabelmaps(MetadataDir(r.cfg, g))
			if err != nil {
				return fmt.Errorf("no labelmaps for group %s; run the labels stage first: %w", g, err)
			}
		}

		made := 0
		for _, animalDir := range animalDirs {
			for _, unit := range g.Units() {
				n, err := r.makeTargetsAnimalDir(ctx, g, animalDir, unit, labelmaps, stepS)
				if err != nil {
					return err
				}
				made += n
			}
		}
		logger.Info("Made inputs and targets",
			logger.String("group", string(g)),
			logger.Int("files", made))
		r.publish(string(StageMake), string(g), "targets written", made, false)
	}
	return nil
}

func (r *Runner) makeTargetsAnimalDir(ctx context.Context, g model.BiosoundGroup, animalDir string, unit model.Unit, labelmaps GroupLabelmaps, stepS float64) (int, error) {
	labelmap, err := labelmapFor(g, animalDir, unit, labelmaps)
	if err != nil {
		return 0, err
	}

	wavPaths, err := FromDir(animalDir, ".wav")
	if err != nil {
		return 0, err
	}

	made := 0
	for _, wavPath := range wavPaths {
		select {
		case <-ctx.Done():
			return made, ctx.Err()
		default:
		}

		csvPath := AnnotPathFor(wavPath, unit)
		a, err := annot.Read(csvPath)
		if err != nil {
			return made, err
		}

		info, err := r.prober.Probe(ctx, wavPath)
		if err != nil {
			return made, err
		}

		frameTimes := frames.Times(info.Duration, stepS)
		frameLabels := frames.ToFrameLabels(a, labelmap, frameTimes)
		boundary := frames.BoundaryOneHot(a, frameTimes)

		outPath := filepath.Join(animalDir, fmt.Sprintf("%s.%s.frames.csv", WavStem(wavPath), unit))
		if r.dryRun {
			logger.Debug("Would write targets", logger.String("path", outPath))
			made++
			continue
		}
		if err := writeTargets(outPath, frameTimes, frameLabels, boundary); err != nil {
			return made, err
		}
		made++
	}
	return made, nil
}

// labelmapFor resolves the labelmap for one (animal, unit). Groups
// without labelset metadata (mouse pup calls) get a labelmap built
// from the labels present in the animal's annotations.
func labelmapFor(g model.BiosoundGroup, animalDir string, unit model.Unit, labelmaps GroupLabelmaps) (model.Labelmap, error) {
	animalID := AnimalIDFromDir(filepath.Base(animalDir))
	if labelmaps != nil {
		if byAnimal, ok := labelmaps[string(unit)]; ok {
			if m, ok := byAnimal[animalID]; ok {
				return m, nil
			}
		}
		return nil, fmt.Errorf("no labelmap for unit %s animal %s in group %s", unit, animalID, g)
	}
	labels, err := gatherLabels(animalDir, unit)
	if err != nil {
		return nil, err
	}
	ls := &model.Labelset{Group: string(g), Unit: string(unit), AnimalID: animalID, Labels: labels}
	return model.NewLabelmap(ls), nil
}

// targetsHeader is the column layout of a frames CSV.
var targetsHeader = []string{"frame_time_s", "label", "boundary_onehot"}

func writeTargets(path string, frameTimes []float64, frameLabels, boundary []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create targets file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(targetsHeader); err != nil {
		return fmt.Errorf("failed to write targets header: %w", err)
	}
	for i := range frameTimes {
		rec := []string{
			strconv.FormatFloat(frameTimes[i], 'f', -1, 64),
			strconv.Itoa(frameLabels[i]),
			strconv.Itoa(boundary[i]),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write targets row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush targets file %s: %w", path, err)
	}
	return nil
}
