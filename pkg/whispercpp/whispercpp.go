package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"video-analyzer/internal/types"
)

// output is the document written by `whisper-cli -oj`.
type output struct {
	Transcription []segment `json:"transcription"`
}

type segment struct {
	Offsets struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"offsets"`
	Text string `json:"text"`
}

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	if binPath == "" {
		binPath = "whisper-cli"
	}
	return &Adapter{bin: binPath, model: modelPath}
}

// Transcribe runs whisper.cpp over a 16 kHz mono WAV and returns its segments.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, workDir string) ([]types.TranscriptEntry, error) {
	outPrefix := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath)))
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}
	defer os.Remove(outPrefix + ".json")

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, err
	}
	return parseOutput(jb)
}

func parseOutput(data []byte) ([]types.TranscriptEntry, error) {
	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper.cpp output: %w", err)
	}
	entries := make([]types.TranscriptEntry, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		entries = append(entries, types.TranscriptEntry{
			Text:     text,
			Start:    float64(seg.Offsets.From) / 1000,
			Duration: float64(max(0, seg.Offsets.To-seg.Offsets.From)) / 1000,
		})
	}
	return entries, nil
}
