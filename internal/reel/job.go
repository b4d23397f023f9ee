package reel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"sipreel/internal/anim"
	"sipreel/internal/encoder"
	"sipreel/internal/money"
	"sipreel/internal/render"
	"sipreel/internal/series"
	"sipreel/internal/sip"
)

// Job is a fully prepared rendering run: aligned data and valuation computed
// once, held read-only, reusable across encode attempts. A failed encode
// never invalidates the Job; calling RenderTo again replays identical
// frames without recomputing anything.
type Job struct {
	Preset     Preset
	Series     *series.Aligned
	Valuation  *sip.Valuation
	Controller *anim.Controller
	Renderer   *render.ChartRenderer
}

// Prepare fetches (or falls back to the cached CSV), aligns, clips and
// values the preset's assets, then builds the frame controller and renderer.
func Prepare(ctx context.Context, p Preset, cachePath string) (*Job, error) {
	aligned, err := loadSeries(ctx, p, cachePath)
	if err != nil {
		return nil, err
	}
	aligned, err = aligned.Clip(p.Start)
	if err != nil {
		return nil, err
	}
	log.Printf("reel: %s: %d months from %s to %s", p.Name, aligned.Len(),
		aligned.Months[0].Key(), aligned.Months[aligned.Len()-1].Key())

	valuation, err := sip.Compute(aligned, p.Contribution)
	if err != nil {
		return nil, err
	}

	tl, err := anim.NewTimeline(p.FPS, p.DurationSec, p.HoldSec)
	if err != nil {
		return nil, err
	}
	ctrl, err := anim.NewValuationController(tl, aligned.Months, valuation)
	if err != nil {
		return nil, err
	}

	yMax := 0.0
	for _, row := range valuation.Values {
		for _, v := range row {
			if v > yMax {
				yMax = v
			}
		}
	}
	yMax *= 1.1

	colors := make(map[string]string, len(p.Assets))
	for _, a := range p.Assets {
		colors[a.Name] = a.Color
	}
	subtitle := fmt.Sprintf("%s SIP every month since %s",
		p.Locale.Format(p.Contribution), aligned.Months[0].Label())

	xLabels := make([]string, aligned.Len())
	for i, m := range aligned.Months {
		xLabels[i] = m.Time().Format("Jan '06")
	}
	renderer, err := render.NewChartRenderer(p.Width, p.Height, p.Title, xLabels, 0, yMax, render.OverlayConfig{
		Subtitle: subtitle,
		Locale:   p.Locale,
		Colors:   colors,
		Points:   aligned.Len(),
		YMax:     yMax,
	})
	if err != nil {
		return nil, err
	}

	return &Job{
		Preset:     p,
		Series:     aligned,
		Valuation:  valuation,
		Controller: ctrl,
		Renderer:   renderer,
	}, nil
}

// loadSeries fetches all assets and rewrites the cache; if any fetch fails
// it falls back to the cached merged series from a previous run.
func loadSeries(ctx context.Context, p Preset, cachePath string) (*series.Aligned, error) {
	named := make([]series.Named, 0, len(p.Assets))
	var fetchErr error
	for _, a := range p.Assets {
		pts, err := a.Fetch(ctx)
		if err != nil {
			fetchErr = fmt.Errorf("%s: %w", a.Name, err)
			break
		}
		named = append(named, series.Named{Name: a.Name, Points: pts})
	}

	if fetchErr == nil {
		aligned, err := series.Merge(named...)
		if err != nil {
			return nil, err
		}
		if cachePath != "" {
			if err := aligned.SaveFile(cachePath); err != nil {
				log.Printf("reel: cache write %s: %v", cachePath, err)
			}
		}
		return aligned, nil
	}

	log.Printf("reel: fetch failed (%v), trying cache %s", fetchErr, cachePath)
	if cachePath == "" {
		return nil, fetchErr
	}
	aligned, err := series.LoadFile(cachePath)
	if err != nil {
		return nil, fmt.Errorf("reel: fetch failed (%v) and no usable cache: %w", fetchErr, err)
	}
	log.Printf("reel: using cached data (%d months)", aligned.Len())
	return aligned, nil
}

// Refresh fetches every asset and rewrites the cache. Unlike loadSeries it
// never falls back: a refresh that cannot reach the sources should fail.
func Refresh(ctx context.Context, p Preset, cachePath string) (*series.Aligned, error) {
	named := make([]series.Named, 0, len(p.Assets))
	for _, a := range p.Assets {
		pts, err := a.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("reel: refresh %s: %w", a.Name, err)
		}
		named = append(named, series.Named{Name: a.Name, Points: pts})
	}
	aligned, err := series.Merge(named...)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := aligned.SaveFile(cachePath); err != nil {
			return nil, err
		}
	}
	return aligned, nil
}

// Summary describes the final outcome in one line, for notifications and
// caption prompts.
func (j *Job) Summary() string {
	last, err := j.Controller.FrameAt(j.Controller.Timeline().TotalFrames() - 1)
	if err != nil {
		return j.Preset.Title
	}
	parts := make([]string, 0, len(last.Assets))
	for _, a := range last.Assets {
		parts = append(parts, fmt.Sprintf("%s %s (%s)",
			a.Name, j.Preset.Locale.Format(a.Value), money.Percent(a.Return)))
	}
	return fmt.Sprintf("%s monthly SIP since %s: %s",
		j.Preset.Locale.Format(j.Preset.Contribution),
		j.Series.Months[0].Label(), strings.Join(parts, ", "))
}

// RenderTo computes and delivers every frame to the sink in strictly
// increasing order, one at a time. The sink is closed on every exit path.
// Cancelling ctx aborts the remaining frames.
func (j *Job) RenderTo(ctx context.Context, sink encoder.Sink) (int, error) {
	return RenderFrames(ctx, j.Controller, j.Renderer, sink)
}

// RenderFrames drives any controller/renderer pair into a sink: strictly
// sequential, no skipping, sink closed on every exit path.
func RenderFrames(ctx context.Context, ctrl *anim.Controller, renderer *render.ChartRenderer, sink encoder.Sink) (frames int, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	for fs := range ctrl.Frames() {
		if cerr := ctx.Err(); cerr != nil {
			return frames, cerr
		}
		png, rerr := renderer.RenderFrame(fs)
		if rerr != nil {
			return frames, rerr
		}
		if werr := sink.WriteFrame(png); werr != nil {
			return frames, werr
		}
		frames++
	}
	return frames, nil
}

// RunOptions configures one encode of a prepared Job.
type RunOptions struct {
	Output     string
	FFmpegPath string
	AudioPath  string // "" skips the mux step
}

// Result reports what a run produced.
type Result struct {
	Output string // silent video, always present on success
	Muxed  string // audio version, "" when muxing was skipped or failed
	Frames int
	Points int
}

// Run encodes the job to a video file and, when an audio track is
// configured, muxes it in. The mux step is best-effort: its failure is
// logged and the silent video stands.
func (j *Job) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	sink, err := encoder.StartFFmpeg(ctx, encoder.Options{
		Path:        opts.Output,
		FPS:         j.Preset.FPS,
		BitrateKbps: j.Preset.BitrateKbps,
		FFmpegPath:  opts.FFmpegPath,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("reel: encoding %d frames to %s", j.Controller.Timeline().TotalFrames(), opts.Output)
	frames, err := j.RenderTo(ctx, sink)
	if err != nil {
		return nil, err
	}

	res := &Result{Output: opts.Output, Frames: frames, Points: j.Series.Len()}
	if opts.AudioPath != "" {
		if _, err := os.Stat(opts.AudioPath); err != nil {
			log.Printf("reel: audio file not found: %s", opts.AudioPath)
			return res, nil
		}
		muxed := muxedName(opts.Output)
		if err := encoder.Mux(ctx, opts.FFmpegPath, opts.Output, opts.AudioPath, j.Preset.AudioStartSec, muxed); err != nil {
			log.Printf("reel: %v; keeping silent video %s", err, opts.Output)
			return res, nil
		}
		res.Muxed = muxed
	}
	return res, nil
}

func muxedName(video string) string {
	if strings.HasSuffix(video, ".mp4") {
		return strings.TrimSuffix(video, ".mp4") + "_with_audio.mp4"
	}
	return video + ".with_audio.mp4"
}
