// Package encoder delivers finished frames to a video encoder. Frames must
// arrive strictly in order; the sink is released on every exit path so an
// aborted run never leaves an encoder process behind.
package encoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Sink accepts PNG-encoded frames in strictly increasing order. Close must
// be called exactly once on every exit path, including error paths.
type Sink interface {
	WriteFrame(png []byte) error
	Close() error
}

// Options configures an ffmpeg encoding process.
type Options struct {
	Path        string // output video file
	FPS         int
	BitrateKbps int    // 0 uses the reel default
	FFmpegPath  string // "" resolves ffmpeg from PATH
}

// FFmpeg pipes PNG frames into an ffmpeg subprocess producing an H.264 mp4.
type FFmpeg struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	closed bool
}

// StartFFmpeg launches the encoder process. Cancelling ctx kills it.
func StartFFmpeg(ctx context.Context, opts Options) (*FFmpeg, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("encoder: fps must be positive, got %d", opts.FPS)
	}
	if opts.Path == "" {
		return nil, errors.New("encoder: output path required")
	}
	bin := opts.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	bitrate := opts.BitrateKbps
	if bitrate <= 0 {
		bitrate = 8000
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin,
		"-y",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-framerate", strconv.Itoa(opts.FPS),
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-b:v", strconv.Itoa(bitrate)+"k",
		opts.Path,
	)
	f := &FFmpeg{cmd: cmd}
	cmd.Stderr = &f.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	f.stdin = stdin
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("encoder: start %s: %w", bin, err)
	}
	return f, nil
}

// WriteFrame feeds one PNG frame to the encoder.
func (f *FFmpeg) WriteFrame(png []byte) error {
	if f.closed {
		return errors.New("encoder: write after close")
	}
	if _, err := f.stdin.Write(png); err != nil {
		return fmt.Errorf("encoder: write frame: %w%s", err, f.stderrTail())
	}
	return nil
}

// Close signals end of input and waits for the encoder to finish. It is safe
// to call after a failed write; the process is reaped either way.
func (f *FFmpeg) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.stdin.Close()
	if err := f.cmd.Wait(); err != nil {
		return fmt.Errorf("encoder: ffmpeg: %w%s", err, f.stderrTail())
	}
	return nil
}

func (f *FFmpeg) stderrTail() string {
	s := f.stderr.String()
	if s == "" {
		return ""
	}
	if len(s) > 400 {
		s = s[len(s)-400:]
	}
	return "; ffmpeg output: " + s
}

// Null counts frames and discards them. Used by tests and dry runs.
type Null struct {
	Frames int
	closed bool
}

func (n *Null) WriteFrame(png []byte) error {
	if n.closed {
		return errors.New("encoder: write after close")
	}
	if len(png) == 0 {
		return errors.New("encoder: empty frame")
	}
	n.Frames++
	return nil
}

func (n *Null) Close() error {
	n.closed = true
	return nil
}

// Dir writes every frame as a numbered PNG file, for debugging a render
// without an encoder.
type Dir struct {
	Path string
	n    int
}

func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return &Dir{Path: path}, nil
}

func (d *Dir) WriteFrame(png []byte) error {
	name := filepath.Join(d.Path, fmt.Sprintf("frame_%05d.png", d.n))
	if err := os.WriteFile(name, png, 0o644); err != nil {
		return err
	}
	d.n++
	return nil
}

func (d *Dir) Close() error { return nil }
