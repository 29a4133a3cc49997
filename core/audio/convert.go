package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Converter converts raw source audio to wav with ffmpeg. Some source
// corpora ship flac or proprietary formats; the benchmark stores
// everything as wav.
type Converter struct {
	ffmpegPath string
}

// NewConverter creates a Converter.
func NewConverter(ffmpegPath string) *Converter {
	return &Converter{ffmpegPath: ffmpegPath}
}

// ToWav converts inputFile to a 16-bit PCM wav at outputFile. When
// sampleRate is nonzero the audio is resampled.
func (c *Converter) ToWav(ctx context.Context, inputFile, outputFile string, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", outputFile, err)
	}

	args := []string{
		"-y",
		"-i", inputFile,
		"-c:a", "pcm_s16le",
	}
	if sampleRate > 0 {
		args = append(args, "-ar", fmt.Sprintf("%d", sampleRate))
	}
	args = append(args, outputFile)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg conversion failed for %s: %w\nFFmpeg Error: %s", inputFile, err, stderr.String())
	}
	return nil
}
