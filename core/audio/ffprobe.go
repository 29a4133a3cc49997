// Package audio probes and converts audio files by shelling out to
// ffprobe and ffmpeg.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Info describes one audio file as reported by ffprobe.
type Info struct {
	Codec      string
	SampleRate int
	Duration   float64 // seconds
}

// Prober reads audio metadata with ffprobe.
type Prober struct {
	ffprobePath string
}

// NewProber creates a Prober from the configured ffmpeg path; ffprobe
// ships alongside ffmpeg.
func NewProber(ffmpegPath string) *Prober {
	return &Prober{ffprobePath: strings.Replace(ffmpegPath, "ffmpeg", "ffprobe", 1)}
}

// Probe returns codec, sample rate and duration of the first audio
// stream in inputFile.
func (p *Prober) Probe(ctx context.Context, inputFile string) (Info, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name,sample_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		inputFile,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Info{}, fmt.Errorf("ffprobe execution failed for %s: %w\nFFprobe Error: %s", inputFile, err, stderr.String())
	}

	var probeData struct {
		Streams []struct {
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out.Bytes(), &probeData); err != nil {
		return Info{}, fmt.Errorf("failed to unmarshal ffprobe output: %w", err)
	}
	if len(probeData.Streams) == 0 {
		return Info{}, fmt.Errorf("no audio streams found in %s", inputFile)
	}

	info := Info{Codec: probeData.Streams[0].CodecName}
	if sr := probeData.Streams[0].SampleRate; sr != "" {
		rate, err := strconv.Atoi(sr)
		if err != nil {
			return Info{}, fmt.Errorf("failed to parse sample rate %q: %w", sr, err)
		}
		info.SampleRate = rate
	}
	if d := probeData.Format.Duration; d != "" {
		duration, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return Info{}, fmt.Errorf("failed to parse duration %q: %w", d, err)
		}
		info.Duration = duration
	}
	return info, nil
}
