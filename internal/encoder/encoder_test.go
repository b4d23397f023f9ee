package encoder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNullSink(t *testing.T) {
	n := &Null{}
	for i := 0; i < 3; i++ {
		if err := n.WriteFrame([]byte{0x89, 'P', 'N', 'G'}); err != nil {
			t.Fatal(err)
		}
	}
	if n.Frames != 3 {
		t.Errorf("Frames = %d, want 3", n.Frames)
	}
	if err := n.WriteFrame(nil); err == nil {
		t.Error("empty frame accepted")
	}
	if err := n.Close(); err != nil {
		t.Fatal(err)
	}
	if err := n.WriteFrame([]byte{1}); err == nil {
		t.Error("write after close accepted")
	}
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	d, err := NewDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	frames := [][]byte{{1}, {2, 2}, {3, 3, 3}}
	for _, f := range frames {
		if err := d.WriteFrame(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	for i, want := range frames {
		name := filepath.Join(dir, "frame_0000"+string(rune('0'+i))+".png")
		got, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if string(got) != string(want) {
			t.Errorf("frame %d content = %v, want %v", i, got, want)
		}
	}
}

func TestStartFFmpegValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := StartFFmpeg(ctx, Options{Path: "out.mp4", FPS: 0}); err == nil {
		t.Error("zero fps accepted")
	}
	if _, err := StartFFmpeg(ctx, Options{FPS: 30}); err == nil {
		t.Error("missing path accepted")
	}
}

func TestStartFFmpegMissingBinary(t *testing.T) {
	_, err := StartFFmpeg(context.Background(), Options{
		Path:       filepath.Join(t.TempDir(), "out.mp4"),
		FPS:        30,
		FFmpegPath: filepath.Join(t.TempDir(), "no-such-ffmpeg"),
	})
	if err == nil {
		t.Error("nonexistent encoder binary accepted")
	}
}
