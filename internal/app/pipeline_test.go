package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"knitpattern/internal/border"
	"knitpattern/internal/continuity"
	"knitpattern/internal/motif"
	"knitpattern/internal/project"
	"knitpattern/pkg/grid"
)

func bareJob() *project.File {
	job := project.New("test")
	job.Prune.Enabled = false
	return job
}

func TestSynthesizePruneOnly(t *testing.T) {
	base := grid.Filled(3, 3, 1)
	base.Set(1, 1, 4)
	job := bareJob()
	job.Prune.Enabled = true

	state := continuity.State{BackgroundRows: 4, Cutoff: 1}
	res, err := Synthesize(base, job, Motifs{}, state)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Pattern.Equal(grid.Filled(3, 3, 1)) {
		t.Errorf("pattern =\n%v", res.Pattern)
	}
	if base.At(1, 1) != 4 {
		t.Error("base was modified")
	}
	if res.Next != state {
		t.Errorf("Next = %+v, want unchanged %+v", res.Next, state)
	}
}

func TestSynthesizeBackground(t *testing.T) {
	base := grid.MustFromRows([][]int{
		{1, 1, 1, 1},
		{1, 4, 4, 1},
		{1, 4, 4, 1},
		{1, 1, 1, 1},
	})
	job := bareJob()
	job.Prune.Enabled = true
	motifs := Motifs{Background: motif.MustFromRows([][]int{{1, 0}, {0, 1}})}

	res, err := Synthesize(base, job, motifs, continuity.State{})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{
		{3, 1, 1, 2},
		{1, 4, 4, 1},
		{1, 4, 4, 1},
		{2, 1, 1, 3},
	}
	if d := cmp.Diff(want, res.Pattern.ToRows()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if res.Shift != 2 || res.Next != (continuity.State{BackgroundRows: 2, Cutoff: 0}) {
		t.Errorf("shift %d next %+v", res.Shift, res.Next)
	}
	if res.Stats.Border != 8 || res.Stats.Visited != 12 {
		t.Errorf("stats %+v", res.Stats)
	}
	if base.At(0, 0) != 1 {
		t.Error("base was modified")
	}
	if res.Blank || res.Feature != grid.P(2, 2) {
		t.Errorf("feature %v blank %v, want (2,2) found", res.Feature, res.Blank)
	}
}

func TestSynthesizeBlankCanvas(t *testing.T) {
	// a lone pixel is pruned, leaving nothing to frame
	base := grid.Filled(3, 3, 1)
	base.Set(0, 1, 4)
	job := bareJob()
	job.Prune.Enabled = true

	res, err := Synthesize(base, job, Motifs{}, continuity.State{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Blank {
		t.Errorf("Blank = false, feature %v", res.Feature)
	}

	job.Prune.Enabled = false
	if res, err = Synthesize(base, job, Motifs{}, continuity.State{}); err != nil {
		t.Fatal(err)
	}
	if res.Blank || res.Feature != grid.P(0, 1) {
		t.Errorf("feature %v blank %v, want (0,1) found", res.Feature, res.Blank)
	}
}

func TestSynthesizeChainsContinuity(t *testing.T) {
	job := bareJob()
	job.Background.Segment = job.Background.Segment.WithoutBorder()
	motifs := Motifs{Background: motif.MustFromRows([][]int{{1, 1}, {0, 0}})}
	base := grid.Filled(5, 2, 1)

	first, err := Synthesize(base, job, motifs, continuity.State{})
	if err != nil {
		t.Fatal(err)
	}
	if first.Shift != 1 || first.Next.Cutoff != 1 {
		t.Errorf("first: shift %d cutoff %d, want 1 and 1", first.Shift, first.Next.Cutoff)
	}
	second, err := Synthesize(base, job, motifs, first.Next)
	if err != nil {
		t.Fatal(err)
	}
	if second.Shift != 2 || second.Next.Cutoff != 0 {
		t.Errorf("second: shift %d cutoff %d, want 2 and 0", second.Shift, second.Next.Cutoff)
	}

	// second canvas sits on top of the first; rows alternate across the seam
	stack, err := grid.VStack(second.Pattern, first.Pattern)
	if err != nil {
		t.Fatal(err)
	}
	for r := 1; r < stack.Rows(); r++ {
		if stack.At(r, 0) == stack.At(r-1, 0) {
			t.Fatalf("seam at row %d:\n%v", r, stack)
		}
	}
}

func TestSynthesizeRestartsPhaseOnNewMotif(t *testing.T) {
	job := bareJob()
	motifs := Motifs{Background: motif.MustFromRows([][]int{{1}, {0}})}
	base := grid.Filled(3, 2, 1)

	fresh, err := Synthesize(base, job, motifs, continuity.State{})
	if err != nil {
		t.Fatal(err)
	}
	stale, err := Synthesize(base, job, motifs, continuity.State{BackgroundRows: 3, Cutoff: 2})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Shift != stale.Shift || fresh.Next != stale.Next || !fresh.Pattern.Equal(stale.Pattern) {
		t.Errorf("stale state not reset: %+v vs %+v", stale.Next, fresh.Next)
	}
}

func TestSynthesizeBorders(t *testing.T) {
	job := bareJob()
	job.FlatBorder = project.FlatBorder{Sides: border.AllSides(), Sizes: border.Uniform(1), Value: 1}
	job.MotifBorder.Sides = border.Sides{Top: true, Bottom: true}
	motifs := Motifs{Border: motif.MustFromRows([][]int{{1, 0}})}

	res, err := Synthesize(grid.Filled(2, 2, 4), job, motifs, continuity.State{})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{
		{2, 1, 2, 1},
		{1, 1, 1, 1},
		{1, 4, 4, 1},
		{1, 4, 4, 1},
		{1, 1, 1, 1},
		{2, 1, 2, 1},
	}
	if d := cmp.Diff(want, res.Pattern.ToRows()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestLoadMotifs(t *testing.T) {
	dir := t.TempDir()
	projPath := filepath.Join(dir, "job"+project.Ext)
	if err := os.WriteFile(filepath.Join(dir, "bg.txt"), []byte("1 0 0\n0 1 0\n0 0 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	job := project.New("job")
	job.SetBackground(projPath, filepath.Join(dir, "bg.txt"))
	job.Background.Trim = true

	m, err := LoadMotifs(job, projPath)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Border.IsZero() {
		t.Error("border motif loaded without a path")
	}
	if m.Background.Rows() != 2 || m.Background.Cols() != 2 {
		t.Errorf("trimmed background is %d×%d, want 2×2", m.Background.Rows(), m.Background.Cols())
	}

	job.SetMotifBorder(projPath, filepath.Join(dir, "missing.txt"))
	if _, err := LoadMotifs(job, projPath); err == nil {
		t.Error("missing border motif not reported")
	}
}
