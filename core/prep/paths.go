package prep

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cmacbench/config"
	"cmacbench/model"
)

// FromDir lists files in dir whose names end with suffix, sorted by
// name. Audio/annotation pairing relies on both listings sorting the
// same way.
func FromDir(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), suffix) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// GroupRoot returns the generated directory for a group: restricted
// groups live under the non-shareable root.
func GroupRoot(cfg *config.Config, group model.BiosoundGroup) string {
	if group.Restricted() {
		return filepath.Join(cfg.RestrictedRoot, string(group))
	}
	return filepath.Join(cfg.DatasetRoot, string(group))
}

// MetadataDir returns the metadata directory for a group, where
// labelsets, labelmaps and split manifests are written.
func MetadataDir(cfg *config.Config, group model.BiosoundGroup) string {
	return filepath.Join(GroupRoot(cfg, group), "metadata")
}

// AnimalIDFromDir parses the animal ID from a per-animal directory
// name; the ID is the last dash-separated token.
func AnimalIDFromDir(dirName string) string {
	parts := strings.Split(dirName, "-")
	return parts[len(parts)-1]
}

// ListAnimalDirs returns the per-animal directories of a group root.
// For human speech only Buckeye corpora participate; TIMIT data must
// never be picked up.
func ListAnimalDirs(groupDir string, group model.BiosoundGroup) ([]string, error) {
	entries, err := os.ReadDir(groupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read group directory %s: %w", groupDir, err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if isQuarantineDir(e.Name()) {
			continue
		}
		if group == model.HumanSpeech && !strings.HasPrefix(e.Name(), "Buckeye") {
			continue
		}
		dirs = append(dirs, filepath.Join(groupDir, e.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// FindAnimalDir resolves an animal ID to exactly one directory among
// candidates, matching on the directory name suffix.
func FindAnimalDir(candidates []string, animalID string) (string, error) {
	var matches []string
	for _, dir := range candidates {
		if strings.HasSuffix(filepath.Base(dir), animalID) {
			matches = append(matches, dir)
		}
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("did not find exactly one directory for id %q, found: %v", animalID, matches)
	}
	return matches[0], nil
}

func isQuarantineDir(name string) bool {
	switch name {
	case model.ReasonFirstOnsetLtZero,
		model.ReasonAnyOnsetLtZero,
		model.ReasonAnyOffsetLtZero,
		model.ReasonInvalidStartsStops,
		model.ReasonLabelNotInLabelset:
		return true
	}
	return false
}

// WavStem strips the .wav suffix from a path's base name.
func WavStem(wavPath string) string {
	return strings.TrimSuffix(filepath.Base(wavPath), ".wav")
}

// AnnotPathFor returns the annotation CSV path paired with a wav file
// for one unit: name.wav -> name.<unit>.csv in the same directory.
func AnnotPathFor(wavPath string, unit model.Unit) string {
	return filepath.Join(filepath.Dir(wavPath), fmt.Sprintf("%s.%s.csv", WavStem(wavPath), unit))
}
