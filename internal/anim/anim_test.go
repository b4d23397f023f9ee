package anim

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"sipreel/internal/series"
	"sipreel/internal/sip"
)

func testController(t *testing.T, tl Timeline, points int) *Controller {
	t.Helper()
	labels := make([]string, points)
	row := make([]float64, points)
	invested := make([]float64, points)
	for i := 0; i < points; i++ {
		labels[i] = series.Month{Year: 2020, Mon: time.January}.Time().AddDate(0, i, 0).Format("2006 January")
		row[i] = float64(100 + i)
		invested[i] = float64(i+1) * 100
	}
	c, err := NewController(tl, labels, []string{"X"}, [][]float64{row}, invested)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustTimeline(t *testing.T, fps, dur, hold int) Timeline {
	t.Helper()
	tl, err := NewTimeline(fps, dur, hold)
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func TestTimelineFrameCounts(t *testing.T) {
	tl := mustTimeline(t, 30, 15, 3)
	if got := tl.AnimationFrames(); got != 450 {
		t.Errorf("AnimationFrames = %d, want 450", got)
	}
	if got := tl.TotalFrames(); got != 540 {
		t.Errorf("TotalFrames = %d, want 540", got)
	}
}

func TestTimelineValidation(t *testing.T) {
	tests := []struct {
		fps, dur, hold int
		ok             bool
	}{
		{30, 15, 3, true},
		{1, 1, 0, true},
		{0, 15, 3, false},
		{30, 0, 3, false},
		{30, 15, -1, false},
		{-1, 15, 3, false},
	}
	for _, tt := range tests {
		_, err := NewTimeline(tt.fps, tt.dur, tt.hold)
		if (err == nil) != tt.ok {
			t.Errorf("NewTimeline(%d,%d,%d) err = %v, want ok=%v", tt.fps, tt.dur, tt.hold, err, tt.ok)
		}
	}
}

func TestFrameAtReveal(t *testing.T) {
	// 30 animation frames over 10 points: every third frame reveals one
	// more point.
	tl := mustTimeline(t, 30, 1, 1)
	c := testController(t, tl, 10)

	first, err := c.FrameAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if first.NShow != 1 {
		t.Errorf("frame 0 NShow = %d, want 1", first.NShow)
	}
	if first.Phase != PhaseAnimating {
		t.Errorf("frame 0 phase = %v, want animating", first.Phase)
	}

	last, err := c.FrameAt(29)
	if err != nil {
		t.Fatal(err)
	}
	if last.NShow != 10 {
		t.Errorf("last animating frame NShow = %d, want 10", last.NShow)
	}
	if last.Phase != PhaseAnimating {
		t.Errorf("last animating frame phase = %v, want animating", last.Phase)
	}
	if last.Progress != 1 {
		t.Errorf("last animating frame progress = %v, want 1", last.Progress)
	}
}

func TestHoldFreezesState(t *testing.T) {
	tl := mustTimeline(t, 30, 1, 1)
	c := testController(t, tl, 10)

	last, err := c.FrameAt(29)
	if err != nil {
		t.Fatal(err)
	}
	for _, idx := range []int{30, 45, 59} {
		hold, err := c.FrameAt(idx)
		if err != nil {
			t.Fatal(err)
		}
		if hold.Phase != PhaseHolding {
			t.Errorf("frame %d phase = %v, want holding", idx, hold.Phase)
		}
		// Identical to the final animating frame apart from index and phase.
		hold.Index = last.Index
		hold.Phase = last.Phase
		if !reflect.DeepEqual(hold, last) {
			t.Errorf("frame %d state diverged from final animating frame", idx)
		}
	}
}

func TestNShowMonotonicAndBounded(t *testing.T) {
	for _, points := range []int{1, 7, 10, 450, 1000} {
		tl := mustTimeline(t, 30, 15, 3)
		c := testController(t, tl, points)
		prev := 0
		n := 0
		for fs := range c.Frames() {
			if fs.NShow < prev {
				t.Fatalf("points=%d frame %d: NShow %d < previous %d", points, fs.Index, fs.NShow, prev)
			}
			if fs.NShow < 1 || fs.NShow > points {
				t.Fatalf("points=%d frame %d: NShow %d out of [1,%d]", points, fs.Index, fs.NShow, points)
			}
			if len(fs.Assets[0].Visible) != fs.NShow {
				t.Fatalf("points=%d frame %d: %d visible values for NShow %d", points, fs.Index, len(fs.Assets[0].Visible), fs.NShow)
			}
			prev = fs.NShow
			n++
		}
		if n != tl.TotalFrames() {
			t.Errorf("points=%d: ranged %d frames, want %d", points, n, tl.TotalFrames())
		}
		if prev != points {
			t.Errorf("points=%d: final NShow = %d, want all points", points, prev)
		}
	}
}

func TestFrameAtIdempotent(t *testing.T) {
	tl := mustTimeline(t, 30, 1, 1)
	c := testController(t, tl, 10)
	for _, idx := range []int{0, 7, 29, 30, 59} {
		a, err := c.FrameAt(idx)
		if err != nil {
			t.Fatal(err)
		}
		b, err := c.FrameAt(idx)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("frame %d not deterministic", idx)
		}
	}
}

func TestFrameIndexErrors(t *testing.T) {
	tl := mustTimeline(t, 30, 1, 1)
	c := testController(t, tl, 10)
	for _, idx := range []int{-1, 60, 1000} {
		_, err := c.FrameAt(idx)
		var fie *FrameIndexError
		if !errors.As(err, &fie) {
			t.Errorf("FrameAt(%d) err = %v, want FrameIndexError", idx, err)
			continue
		}
		if fie.Index != idx || fie.Total != 60 {
			t.Errorf("FrameAt(%d) error fields = %+v", idx, fie)
		}
	}
}

func TestFramesRestartable(t *testing.T) {
	tl := mustTimeline(t, 5, 2, 1)
	c := testController(t, tl, 7)
	var first, second []FrameState
	for fs := range c.Frames() {
		first = append(first, fs)
	}
	for fs := range c.Frames() {
		second = append(second, fs)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("second pass over Frames() differs from the first")
	}
}

func TestFramesEarlyStop(t *testing.T) {
	tl := mustTimeline(t, 30, 1, 1)
	c := testController(t, tl, 10)
	n := 0
	for range c.Frames() {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("stopped after %d frames, want 5", n)
	}
}

// More animation frames than points: the reveal spends several frames per
// point but still touches every point exactly once in order.
func TestExtendedSchedule(t *testing.T) {
	tl := mustTimeline(t, 30, 15, 0)
	c := testController(t, tl, 5)
	seen := map[int]bool{}
	for fs := range c.Frames() {
		seen[fs.NShow] = true
	}
	for n := 1; n <= 5; n++ {
		if !seen[n] {
			t.Errorf("NShow %d never occurred", n)
		}
	}
}

// Fewer animation frames than points: some points are skipped within a
// frame step but the final frame still shows everything.
func TestCompressedSchedule(t *testing.T) {
	tl := mustTimeline(t, 2, 1, 0)
	c := testController(t, tl, 100)
	fs, err := c.FrameAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if fs.NShow != 100 {
		t.Errorf("final frame NShow = %d, want 100", fs.NShow)
	}
}

func TestInvestedAndReturn(t *testing.T) {
	tl := mustTimeline(t, 10, 1, 0)
	labels := []string{"a", "b"}
	rows := [][]float64{{100, 300}}
	invested := []float64{100, 200}
	c, err := NewController(tl, labels, []string{"X"}, rows, invested)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := c.FrameAt(9)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Invested != 200 {
		t.Errorf("Invested = %v, want 200", fs.Invested)
	}
	if got := fs.Assets[0].Return; got != 50 {
		t.Errorf("Return = %v, want 50", got)
	}
}

func TestRawModeHasNoInvested(t *testing.T) {
	tl := mustTimeline(t, 10, 1, 0)
	c, err := NewController(tl, []string{"a", "b"}, []string{"X"}, [][]float64{{1, 2}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := c.FrameAt(9)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Invested != 0 || fs.Assets[0].Return != 0 {
		t.Errorf("raw mode leaked valuation fields: %+v", fs)
	}
}

func TestNewControllerErrors(t *testing.T) {
	tl := mustTimeline(t, 30, 1, 0)
	if _, err := NewController(tl, nil, nil, nil, nil); !errors.Is(err, sip.ErrEmptySeries) {
		t.Errorf("empty labels: err = %v, want ErrEmptySeries", err)
	}
	_, err := NewController(tl, []string{"a", "b"}, []string{"X"}, [][]float64{{1}}, nil)
	var mse *sip.MisalignedSeriesError
	if !errors.As(err, &mse) {
		t.Errorf("short row: err = %v, want MisalignedSeriesError", err)
	}
	if _, err := NewController(tl, []string{"a"}, []string{"X", "Y"}, [][]float64{{1}}, nil); err == nil {
		t.Error("name/row count mismatch accepted")
	}
	if _, err := NewController(tl, []string{"a", "b"}, []string{"X"}, [][]float64{{1, 2}}, []float64{1}); err == nil {
		t.Error("short invested row accepted")
	}
}

func TestNewValuationController(t *testing.T) {
	months := []series.Month{
		{Year: 2024, Mon: time.January},
		{Year: 2024, Mon: time.February},
	}
	v := &sip.Valuation{
		Contribution: 100,
		Assets:       []string{"X"},
		Invested:     []float64{100, 200},
		Values:       [][]float64{{100, 210}},
	}
	tl := mustTimeline(t, 10, 1, 0)
	c, err := NewValuationController(tl, months, v)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := c.FrameAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Label != "2024 January" {
		t.Errorf("label = %q, want month label form", fs.Label)
	}
}
