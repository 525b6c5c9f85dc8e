package trackers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/masterygen/experiment/checkpointer"
	ts "github.com/samuelfneumann/masterygen/timestep"
	"gonum.org/v1/gonum/mat"
)

func transition(state []float64, action int, reward float64, next []float64,
	number int, end ts.EndType) ts.Transition {
	return ts.Transition{
		State:     mat.NewVecDense(len(state), state),
		Action:    action,
		Reward:    reward,
		NextState: mat.NewVecDense(len(next), next),
		Number:    number,
		EndType:   end,
	}
}

func episode() []ts.Transition {
	return []ts.Transition{
		transition([]float64{0.6, 0.6, 0.6}, 2, 1.2, []float64{0.6, 0.6, 0.7},
			0, ts.Running),
		transition([]float64{0.6, 0.6, 0.7}, 0, 0.2, []float64{0.7, 0.6, 0.7},
			1, ts.Running),
		transition([]float64{0.7, 0.6, 0.7}, 1, -0.1, []float64{0.7, 0.6, 0.7},
			2, ts.Timeout),
	}
}

func TestHeader(t *testing.T) {
	got := strings.Join(Header(2), ",")
	want := "mastery[0],mastery[1],action,reward,newMastery[0],newMastery[1]"
	if got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, 3, episode()); err != nil {
		t.Fatal(err)
	}

	want := "mastery[0],mastery[1],mastery[2],action,reward," +
		"newMastery[0],newMastery[1],newMastery[2]\n" +
		"0.6,0.6,0.6,2,1.2,0.6,0.6,0.7\n" +
		"0.6,0.6,0.7,0,0.2,0.7,0.6,0.7\n" +
		"0.7,0.6,0.7,1,-0.1,0.7,0.6,0.7\n"
	if buf.String() != want {
		t.Errorf("csv = \n%v\nwant\n%v", buf.String(), want)
	}
}

func TestWriteWrongConcepts(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, 2, episode()); err == nil {
		t.Error("expected an error for transitions of the wrong length")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk unavailable")
}

func TestWriteReportsIOErrors(t *testing.T) {
	if err := Write(failingWriter{}, 3, episode()); err == nil {
		t.Error("expected the write error to be reported")
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0.6:  "0.6",
		1:    "1",
		0:    "0",
		-2.1: "-2.1",
		0.9:  "0.9",
	}
	for v, want := range tests {
		if got := FormatFloat(v); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestTransitionsSaveEnumerated(t *testing.T) {
	dir := t.TempDir()
	tracker := NewTransitions(3, checkpointer.FilenameEnumerator(0,
		filepath.Join(dir, "episode"), ".csv"))

	for i := 0; i < 2; i++ {
		for _, tr := range episode() {
			tracker.Track(tr)
		}
	}
	if err := tracker.Save(); err != nil {
		t.Fatal(err)
	}

	// A second save with no new episodes writes nothing
	if err := tracker.Save(); err != nil {
		t.Fatal(err)
	}

	var want bytes.Buffer
	if err := Write(&want, 3, episode()); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"episode1.csv", "episode2.csv"} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want.String() {
			t.Errorf("%v = %q, want %q", name, got, want.String())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "episode3.csv")); err == nil {
		t.Error("only two episode files should have been written")
	}
}

func TestTransitionsSaveError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "out.csv")
	tracker := NewTransitions(3, checkpointer.Filename(dir))
	for _, tr := range episode() {
		tracker.Track(tr)
	}

	if err := tracker.Save(); err == nil {
		t.Error("saving into a missing directory should fail")
	}
}

func TestReturn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	tracker := NewReturn(filename)

	for i := 0; i < 2; i++ {
		for _, tr := range episode() {
			tracker.Track(tr)
		}
	}

	// The seed transition's reward is excluded
	data := tracker.Data()
	if len(data) != 2 {
		t.Fatalf("returns = %v, want 2 episodes", data)
	}
	for _, r := range data {
		if r < 0.0999 || r > 0.1001 {
			t.Errorf("return = %v, want 0.1", r)
		}
	}

	if err := tracker.Save(); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[0] != data[0] {
		t.Errorf("loaded = %v, want %v", loaded, data)
	}
}

func TestReturnWithoutSeed(t *testing.T) {
	tracker := NewReturn("")
	for _, tr := range episode()[1:] {
		tracker.Track(tr)
	}
	if len(tracker.Data()) != 1 {
		t.Errorf("returns = %v, want 1 episode", tracker.Data())
	}
	if err := tracker.Save(); err != nil {
		t.Errorf("save without filename should do nothing, got %v", err)
	}
}

func TestReturnPanicsOnGap(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("non-sequential transitions should panic")
		}
	}()

	tracker := NewReturn("")
	eps := episode()
	tracker.Track(eps[1])
	tracker.Track(eps[1])
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")
	tracker := NewEpisodeLength(filename)

	for _, tr := range episode() {
		tracker.Track(tr)
	}
	if data := tracker.Data(); len(data) != 1 || data[0] != 2 {
		t.Errorf("lengths = %v, want [2]", data)
	}

	if err := tracker.Save(); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadLengths(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0] != 2 {
		t.Errorf("loaded = %v, want [2]", loaded)
	}
}
