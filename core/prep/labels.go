package prep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cmacbench/annot"
	"cmacbench/config"
	"cmacbench/logger"
	"cmacbench/model"
)

// Labelset metadata file names, written into each group's metadata
// directory.
const (
	labelsetsFile = "labelsets.json"
	labelmapsFile = "labelmaps.json"
)

// GroupLabelsets maps unit -> animal ID -> sorted labels for one group.
type GroupLabelsets map[string]map[string][]string

// GroupLabelmaps maps unit -> animal ID -> label -> class index.
type GroupLabelmaps map[string]map[string]model.Labelmap

// MakeLabelsets scans the copied annotations of each group and writes
// labelset and labelmap metadata. The labelset of an animal is the set
// of labels that actually occur in its annotations.
func (r *Runner) MakeLabelsets(groups []model.BiosoundGroup) error {
	for _, g := range groups {
		if !g.HasLabelsetQC() {
			logger.Info("Group has no labelset metadata, skipping",
				logger.String("group", string(g)))
			continue
		}

		labelsets, err := collectLabelsets(r.cfg, g)
		if err != nil {
			return err
		}

		labelmaps := make(GroupLabelmaps, len(labelsets))
		for unit, byAnimal := range labelsets {
			labelmaps[unit] = make(map[string]model.Labelmap, len(byAnimal))
			for animalID, labels := range byAnimal {
				ls := &model.Labelset{Group: string(g), Unit: unit, AnimalID: animalID, Labels: labels}
				labelmaps[unit][animalID] = model.NewLabelmap(ls)
			}
		}

		metaDir := MetadataDir(r.cfg, g)
		logger.Info("Writing labelset metadata",
			logger.String("group", string(g)),
			logger.String("dir", metaDir))
		if r.dryRun {
			continue
		}
		if err := os.MkdirAll(metaDir, 0755); err != nil {
			return fmt.Errorf("failed to make metadata directory %s: %w", metaDir, err)
		}
		if err := writeJSON(filepath.Join(metaDir, labelsetsFile), labelsets); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(metaDir, labelmapsFile), labelmaps); err != nil {
			return err
		}
		r.publish(string(StageLabels), string(g), "labelset metadata written", 0, false)
	}
	return nil
}

// collectLabelsets walks one group's animal directories and gathers
// every label seen per (unit, animal).
func collectLabelsets(cfg *config.Config, g model.BiosoundGroup) (GroupLabelsets, error) {
	groupDir := GroupRoot(cfg, g)
	animalDirs, err := ListAnimalDirs(groupDir, g)
	if err != nil {
		return nil, err
	}

	labelsets := make(GroupLabelsets)
	for _, unit := range g.Units() {
		byAnimal := make(map[string][]string, len(animalDirs))
		for _, animalDir := range animalDirs {
			labels, err := gatherLabels(animalDir, unit)
			if err != nil {
				return nil, err
			}
			byAnimal[AnimalIDFromDir(filepath.Base(animalDir))] = labels
		}
		labelsets[string(unit)] = byAnimal
	}
	return labelsets, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadLabelsets reads a group's labelset metadata back as model
// objects keyed by (unit, animal ID).
func LoadLabelsets(metaDir string, g model.BiosoundGroup) (map[string]map[string]*model.Labelset, error) {
	var raw GroupLabelsets
	if err := readJSON(filepath.Join(metaDir, labelsetsFile), &raw); err != nil {
		return nil, err
	}
	out := make(map[string]map[string]*model.Labelset, len(raw))
	for unit, byAnimal := range raw {
		out[unit] = make(map[string]*model.Labelset, len(byAnimal))
		for animalID, labels := range byAnimal {
			sort.Strings(labels)
			out[unit][animalID] = &model.Labelset{
				Group: string(g), Unit: unit, AnimalID: animalID, Labels: labels,
			}
		}
	}
	return out, nil
}

// LoadLabelmaps reads a group's labelmap metadata.
func LoadLabelmaps(metaDir string) (GroupLabelmaps, error) {
	var maps GroupLabelmaps
	if err := readJSON(filepath.Join(metaDir, labelmapsFile), &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

// gatherLabels reads every annotation of one unit under an animal
// directory and returns the sorted set of labels.
func gatherLabels(animalDir string, unit model.Unit) ([]string, error) {
	csvPaths, err := FromDir(animalDir, fmt.Sprintf(".%s.csv", unit))
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, csvPath := range csvPaths {
		a, err := annot.Read(csvPath)
		if err != nil {
			return nil, err
		}
		for _, lbl := range a.Labels {
			seen[lbl] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for lbl := range seen {
		labels = append(labels, lbl)
	}
	sort.Strings(labels)
	return labels, nil
}
