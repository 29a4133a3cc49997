package prep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cmacbench/annot"
	"cmacbench/cache"
	"cmacbench/core/metrics"
	"cmacbench/logger"
	"cmacbench/model"
)

// DoQC runs quality control for each group: boundary-time checks for
// every group, then labelset checks for groups that have labelsets.
// A sample that fails any check for any unit is quarantined whole:
// the wav and the annotations of all units move together.
func (r *Runner) DoQC(ctx context.Context, groups []model.BiosoundGroup) error {
	for _, g := range groups {
		logger.Info("Doing quality control checks",
			logger.String("group", string(g)))
		if err := r.qcBoundaryTimes(ctx, g); err != nil {
			return err
		}
		if g.HasLabelsetQC() {
			for _, unit := range g.Units() {
				if err := r.qcLabelsInLabelset(ctx, g, unit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// qcBoundaryTimes checks that annotated boundary times are valid for
// every sample of a group.
func (r *Runner) qcBoundaryTimes(ctx context.Context, g model.BiosoundGroup) error {
	groupDir := GroupRoot(r.cfg, g)
	animalDirs, err := ListAnimalDirs(groupDir, g)
	if err != nil {
		return err
	}

	for _, animalDir := range animalDirs {
		logger.Info("QCing boundary times in annotations",
			logger.String("group", string(g)),
			logger.String("dir", filepath.Base(animalDir)))
		for _, unit := range g.Units() {
			if err := r.qcBoundaryTimesAnimalDir(ctx, g, animalDir, unit); err != nil {
				return err
			}
		}
	}
	return nil
}

// qcBoundaryTimesAnimalDir checks every sample of one unit in one
// animal directory, quarantining invalid samples.
func (r *Runner) qcBoundaryTimesAnimalDir(ctx context.Context, g model.BiosoundGroup, animalDir string, unit model.Unit) error {
	wavPaths, unitCSVPaths, err := censusAnimalDir(animalDir, g.Units())
	if err != nil {
		return err
	}
	csvPaths := unitCSVPaths[unit]

	counts := map[string]int{}
	noSegments := 0
	for i, wavPath := range wavPaths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		csvPath := csvPaths[i]
		verdict, cached, err := r.cachedVerdict(csvPath)
		if err != nil {
			return err
		}
		if !cached {
			a, err := annot.Read(csvPath)
			if err != nil {
				return err
			}
			if a.Empty() {
				noSegments++
				r.storeVerdict(csvPath, cache.VerdictOK)
				continue
			}
			verdict = boundaryVerdict(a)
			r.storeVerdict(csvPath, verdict)
		}
		if verdict == cache.VerdictOK || verdict == "" {
			continue
		}

		logger.Info("Annotation failed boundary QC",
			logger.String("file", filepath.Base(csvPath)),
			logger.String("reason", verdict))
		counts[verdict]++
		if err := r.quarantine(g, animalDir, unit, wavPath, allAnnotsFor(unitCSVPaths, i), verdict); err != nil {
			return err
		}
	}

	logger.Info("Boundary QC finished for unit",
		logger.String("dir", filepath.Base(animalDir)),
		logger.String("unit", string(unit)),
		logger.Int("firstOnsetLtZero", counts[model.ReasonFirstOnsetLtZero]),
		logger.Int("anyOnsetLtZero", counts[model.ReasonAnyOnsetLtZero]),
		logger.Int("anyOffsetLtZero", counts[model.ReasonAnyOffsetLtZero]),
		logger.Int("invalidStartsStops", counts[model.ReasonInvalidStartsStops]),
		logger.Int("noSegments", noSegments))
	return nil
}

// boundaryVerdict classifies an annotation's boundary times, returning
// a quarantine reason or VerdictOK.
func boundaryVerdict(a *model.Annotation) string {
	if a.Onsets[0] < 0 {
		return model.ReasonFirstOnsetLtZero
	}
	for _, onset := range a.Onsets[1:] {
		if onset < 0 {
			return model.ReasonAnyOnsetLtZero
		}
	}
	for _, offset := range a.Offsets {
		if offset < 0 {
			return model.ReasonAnyOffsetLtZero
		}
	}
	if _, err := metrics.ConcatStartsAndStops(a.Onsets, a.Offsets); err != nil {
		return model.ReasonInvalidStartsStops
	}
	return cache.VerdictOK
}

// qcLabelsInLabelset checks that every label of every annotation is in
// the labelset of its (unit, animal). The training data must only
// contain classes the benchmark defines for that animal.
func (r *Runner) qcLabelsInLabelset(ctx context.Context, g model.BiosoundGroup, unit model.Unit) error {
	groupDir := GroupRoot(r.cfg, g)
	labelsets, err := LoadLabelsets(MetadataDir(r.cfg, g), g)
	if err != nil {
		return err
	}
	byAnimal, ok := labelsets[string(unit)]
	if !ok {
		return fmt.Errorf("no labelsets for group %s unit %s; run the labels stage first", g, unit)
	}

	animalDirs, err := ListAnimalDirs(groupDir, g)
	if err != nil {
		return err
	}

	for animalID, labelset := range byAnimal {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		animalDir, err := FindAnimalDir(animalDirs, animalID)
		if err != nil {
			return err
		}

		wavPaths, unitCSVPaths, err := censusAnimalDir(animalDir, g.Units())
		if err != nil {
			return err
		}
		csvPaths := unitCSVPaths[unit]

		notInLabelset := 0
		noSegments := 0
		for i, wavPath := range wavPaths {
			a, err := annot.Read(csvPaths[i])
			if err != nil {
				return err
			}
			if a.Empty() {
				noSegments++
				continue
			}
			if off := labelNotInLabelset(a, labelset); off != "" {
				logger.Info("Annotation has label outside labelset",
					logger.String("file", filepath.Base(csvPaths[i])),
					logger.String("label", off))
				notInLabelset++
				if err := r.quarantine(g, animalDir, unit, wavPath, allAnnotsFor(unitCSVPaths, i), model.ReasonLabelNotInLabelset); err != nil {
					return err
				}
			}
		}

		logger.Info("Labelset QC finished for animal",
			logger.String("animalId", animalID),
			logger.String("unit", string(unit)),
			logger.Int("notInLabelset", notInLabelset),
			logger.Int("noSegments", noSegments))
	}
	return nil
}

func labelNotInLabelset(a *model.Annotation, ls *model.Labelset) string {
	for _, lbl := range a.Labels {
		if !ls.Contains(lbl) {
			return lbl
		}
	}
	return ""
}

// censusAnimalDir lists the wavs and per-unit annotation CSVs of one
// animal directory and checks that every unit has exactly one CSV per
// wav.
func censusAnimalDir(animalDir string, units []model.Unit) ([]string, map[model.Unit][]string, error) {
	wavPaths, err := FromDir(animalDir, ".wav")
	if err != nil {
		return nil, nil, err
	}
	unitCSVPaths := make(map[model.Unit][]string, len(units))
	for _, unit := range units {
		csvPaths, err := FromDir(animalDir, fmt.Sprintf(".%s.csv", unit))
		if err != nil {
			return nil, nil, err
		}
		unitCSVPaths[unit] = csvPaths
	}
	for unit, csvPaths := range unitCSVPaths {
		if len(csvPaths) != len(wavPaths) {
			return nil, nil, fmt.Errorf(
				"did not find csv paths for all units equal to the number of wav paths in %s: num wav paths %d, unit %s has %d",
				animalDir, len(wavPaths), unit, len(csvPaths))
		}
	}
	return wavPaths, unitCSVPaths, nil
}

// allAnnotsFor gathers the annotation files of every unit for sample i.
func allAnnotsFor(unitCSVPaths map[model.Unit][]string, i int) []string {
	var paths []string
	for _, csvPaths := range unitCSVPaths {
		paths = append(paths, csvPaths[i])
	}
	return paths
}

// quarantine moves a sample (wav plus all annotation files) into the
// reason-named subdirectory of its animal dir and records a QC report.
func (r *Runner) quarantine(g model.BiosoundGroup, animalDir string, unit model.Unit, wavPath string, annotPaths []string, reason string) error {
	dst := filepath.Join(animalDir, reason)
	if r.dryRun {
		logger.Info("Would quarantine sample",
			logger.String("wav", filepath.Base(wavPath)),
			logger.String("dst", dst))
		return nil
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to make quarantine directory %s: %w", dst, err)
	}
	for _, path := range append([]string{wavPath}, annotPaths...) {
		if err := os.Rename(path, filepath.Join(dst, filepath.Base(path))); err != nil {
			return fmt.Errorf("failed to quarantine %s: %w", path, err)
		}
	}
	r.run.FilesMoved++

	if r.reports != nil {
		report := &model.QCReport{
			Group:      string(g),
			AnimalID:   AnimalIDFromDir(filepath.Base(animalDir)),
			Unit:       string(unit),
			WavName:    filepath.Base(wavPath),
			Reason:     reason,
			Quarantine: reason,
			RunID:      r.run.ID,
		}
		if _, err := r.reports.CreateReport(report); err != nil {
			logger.Warn("Failed to record qc report",
				logger.String("wav", filepath.Base(wavPath)),
				logger.ErrorField(err))
		}
	}
	r.publish(string(StageQC), string(g), "quarantined "+filepath.Base(wavPath), r.run.FilesMoved, false)
	return nil
}

// cachedVerdict returns the cached QC verdict for a file when the
// cache is enabled and has a fresh entry.
func (r *Runner) cachedVerdict(path string) (string, bool, error) {
	if !r.useCache {
		return "", false, nil
	}
	key, err := cache.QCCacheKey(path)
	if err != nil {
		return "", false, err
	}
	verdict := cache.GetQCVerdict(key)
	return verdict, verdict != "", nil
}

func (r *Runner) storeVerdict(path, verdict string) {
	if !r.useCache {
		return
	}
	key, err := cache.QCCacheKey(path)
	if err != nil {
		return
	}
	_ = cache.SetQCVerdict(key, verdict)
}
