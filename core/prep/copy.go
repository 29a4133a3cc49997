package prep

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cmacbench/annot"
	"cmacbench/logger"
	"cmacbench/model"

	"github.com/fsnotify/fsnotify"
)

// audio file extensions accepted in raw corpora; anything that is not
// wav gets converted.
var rawAudioExts = map[string]bool{
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".mp3":  true,
}

// copyTask copies one raw audio file and its annotations into the
// dataset layout.
type copyTask struct {
	group     model.BiosoundGroup
	srcAudio  string
	animalDir string // directory name, e.g. "bl26lb16"
}

// CopyAudioAndAnnot copies raw audio into the dataset layout and
// normalizes annotations, in parallel over files. With WithWatch the
// stage keeps watching the raw directories and picks up files that
// appear while it runs, until the context is cancelled.
func (r *Runner) CopyAudioAndAnnot(ctx context.Context, groups []model.BiosoundGroup) error {
	taskChan := make(chan *copyTask, 100)
	var wg sync.WaitGroup
	var copied, failed int32

	workers := r.cfg.CopyWorkers
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				if err := r.copyOne(ctx, task); err != nil {
					atomic.AddInt32(&failed, 1)
					logger.Error("Failed to copy sample",
						logger.String("group", string(task.group)),
						logger.String("src", task.srcAudio),
						logger.ErrorField(err))
					continue
				}
				atomic.AddInt32(&copied, 1)
			}
		}()
	}

	var walkErr error
	var watchDirs []string
	for _, g := range groups {
		rawGroupDir := filepath.Join(r.cfg.RawDataRoot, string(g))
		if _, err := os.Stat(rawGroupDir); os.IsNotExist(err) {
			logger.Warn("Raw data directory does not exist, skipping group",
				logger.String("group", string(g)),
				logger.String("dir", rawGroupDir))
			continue
		}

		animalDirs, err := ListAnimalDirs(rawGroupDir, g)
		if err != nil {
			walkErr = err
			break
		}
		for _, dir := range animalDirs {
			watchDirs = append(watchDirs, dir)
			if err := enqueueAudio(ctx, g, dir, taskChan); err != nil {
				walkErr = err
				break
			}
		}
		if walkErr != nil {
			break
		}
		r.publish(string(StageCopy), string(g), "raw files enqueued", len(animalDirs), false)
	}

	if walkErr == nil && r.watch {
		walkErr = r.watchRawDirs(ctx, groups, watchDirs, taskChan)
	}

	close(taskChan)
	wg.Wait()

	r.run.FilesSeen += int(atomic.LoadInt32(&copied))
	logger.Info("Copy stage finished",
		logger.Int("copied", int(atomic.LoadInt32(&copied))),
		logger.Int("failed", int(atomic.LoadInt32(&failed))))
	r.publish(string(StageCopy), "", "copy stage finished", int(atomic.LoadInt32(&copied)), false)

	if walkErr != nil {
		return walkErr
	}
	if n := atomic.LoadInt32(&failed); n > 0 {
		return fmt.Errorf("%d files failed to copy", n)
	}
	return nil
}

func enqueueAudio(ctx context.Context, g model.BiosoundGroup, animalDir string, taskChan chan<- *copyTask) error {
	entries, err := os.ReadDir(animalDir)
	if err != nil {
		return fmt.Errorf("failed to read raw animal directory %s: %w", animalDir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !rawAudioExts[filepath.Ext(e.Name())] {
			continue
		}
		task := &copyTask{
			group:     g,
			srcAudio:  filepath.Join(animalDir, e.Name()),
			animalDir: filepath.Base(animalDir),
		}
		select {
		case taskChan <- task:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// copyOne places one raw audio file and its annotation CSVs into the
// dataset layout, probing the result and recording it in the
// inventory.
func (r *Runner) copyOne(ctx context.Context, task *copyTask) error {
	dstDir := filepath.Join(GroupRoot(r.cfg, task.group), task.animalDir)
	stem := strings.TrimSuffix(filepath.Base(task.srcAudio), filepath.Ext(task.srcAudio))
	dstWav := filepath.Join(dstDir, stem+".wav")

	if r.dryRun {
		logger.Info("Would copy audio",
			logger.String("src", task.srcAudio),
			logger.String("dst", dstWav))
		return nil
	}

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("failed to make destination directory %s: %w", dstDir, err)
	}

	if filepath.Ext(task.srcAudio) == ".wav" {
		if err := copyFile(task.srcAudio, dstWav); err != nil {
			return err
		}
	} else {
		if err := r.convert.ToWav(ctx, task.srcAudio, dstWav, 0); err != nil {
			return err
		}
	}

	// Normalize annotations by parsing and re-writing them; this both
	// validates the CSV schema and strips format quirks of the source
	// corpora.
	numUnits := 0
	for _, unit := range task.group.Units() {
		srcAnnot := AnnotPathFor(task.srcAudio, unit)
		if _, err := os.Stat(srcAnnot); os.IsNotExist(err) {
			logger.Warn("Missing annotation file for unit",
				logger.String("wav", task.srcAudio),
				logger.String("unit", string(unit)))
			continue
		}
		a, err := annot.Read(srcAnnot)
		if err != nil {
			return err
		}
		if err := annot.Write(AnnotPathFor(dstWav, unit), a); err != nil {
			return err
		}
		numUnits++
	}

	info, err := r.prober.Probe(ctx, dstWav)
	if err != nil {
		return err
	}

	if r.samples != nil {
		sample := &model.Sample{
			Group:      string(task.group),
			AnimalID:   AnimalIDFromDir(task.animalDir),
			WavName:    filepath.Base(dstWav),
			WavPath:    dstWav,
			Duration:   info.Duration,
			SampleRate: info.SampleRate,
			NumUnits:   numUnits,
		}
		if err := r.samples.UpsertSample(sample); err != nil {
			// Inventory is bookkeeping; a failed upsert must not fail the copy.
			logger.Warn("Failed to record sample in inventory",
				logger.String("wav", dstWav),
				logger.ErrorField(err))
		}
	}
	return nil
}

// watchRawDirs keeps enqueueing audio files that appear in the raw
// directories until the context is cancelled. New files are held back
// until they have been stable for a moment, since a file may still be
// written when its create event arrives.
func (r *Runner) watchRawDirs(ctx context.Context, groups []model.BiosoundGroup, dirs []string, taskChan chan<- *copyTask) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create raw directory watcher: %w", err)
	}
	defer watcher.Close()

	groupFor := func(path string) (model.BiosoundGroup, bool) {
		for _, g := range groups {
			prefix := filepath.Join(r.cfg.RawDataRoot, string(g)) + string(os.PathSeparator)
			if strings.HasPrefix(path, prefix) {
				return g, true
			}
		}
		return "", false
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("Watching raw directories for new files", logger.Int("dirs", len(dirs)))

	pendingFiles := make(map[string]time.Time)
	checkTicker := time.NewTicker(200 * time.Millisecond)
	defer checkTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && rawAudioExts[filepath.Ext(event.Name)] {
				pendingFiles[event.Name] = time.Now()
			}

		case <-checkTicker.C:
			now := time.Now()
			for path, lastMod := range pendingFiles {
				if now.Sub(lastMod) < 500*time.Millisecond {
					continue // file may still be written
				}
				g, ok := groupFor(path)
				if !ok {
					delete(pendingFiles, path)
					continue
				}
				task := &copyTask{
					group:     g,
					srcAudio:  path,
					animalDir: filepath.Base(filepath.Dir(path)),
				}
				select {
				case taskChan <- task:
					logger.Debug("Detected new raw file", logger.String("path", path))
					delete(pendingFiles, path)
				default:
					// channel full, retry on the next tick
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Raw directory watcher error", logger.ErrorField(err))
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
