package encoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Mux adds an audio track to a finished video, trimming to the shorter of
// the two streams. audioStartSec skips into the audio file. A mux failure
// never touches the input video; the caller keeps the silent version.
func Mux(ctx context.Context, ffmpegPath, videoPath, audioPath string, audioStartSec int, outPath string) error {
	bin := ffmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-y",
		"-i", videoPath,
		"-ss", strconv.Itoa(audioStartSec),
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if len(msg) > 400 {
			msg = msg[len(msg)-400:]
		}
		return fmt.Errorf("encoder: mux audio: %w; ffmpeg output: %s", err, msg)
	}
	return nil
}
