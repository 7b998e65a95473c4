package capture

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder captures one audio answer and returns the path of the WAV file.
// Capture blocks for the full duration: the respondent needs the time to
// answer.
type Recorder interface {
	Record(ctx context.Context, duration time.Duration) (string, error)
}

// CommandRecorder records from the default input device by shelling out to
// ffmpeg.
type CommandRecorder struct {
	dir    string
	logger *zap.Logger
}

func NewCommandRecorder(logger *zap.Logger) *CommandRecorder {
	return &CommandRecorder{
		dir:    os.TempDir(),
		logger: logger,
	}
}

// Record captures mono 16kHz audio for the given duration and writes it to
// a uniquely named temp file. The caller owns the file and is expected to
// remove it once transcription is done.
func (r *CommandRecorder) Record(ctx context.Context, duration time.Duration) (string, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("supplier_answer_%s.wav", uuid.New().String()))

	r.logger.Info("Recording answer",
		zap.Duration("duration", duration),
		zap.String("file", path))

	seconds := fmt.Sprintf("%d", int(duration.Seconds()))
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-f", "alsa", "-i", "default",
		"-t", seconds,
		"-ar", "16000", "-ac", "1",
		path)

	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("audio capture failed: %w: %s", err, string(out))
	}

	return path, nil
}
