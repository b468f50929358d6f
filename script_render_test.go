package monosynth

import (
	"context"
	"math"
	"testing"

	"github.com/cbegin/monosynth-go/internal/envelope"
	"github.com/cbegin/monosynth-go/internal/script"
	"github.com/cbegin/monosynth-go/internal/waveform"
)

func TestScriptRendersOffline(t *testing.T) {
	r, err := NewRenderer(8000, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	wait := func(ctx context.Context, s float64) error {
		r.Render(s)
		return ctx.Err()
	}
	src := `
set("wave", "saw")
note_on(69)
wait(0.25)
note_off()
wait(0.5)
`
	if err := script.NewRunner(r, wait).RunString(context.Background(), "riff", src); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := r.Samples()
	if len(out) != 2*6000 {
		t.Fatalf("len = %d, want %d", len(out), 2*6000)
	}
	if r.Params().Wave != waveform.Saw {
		t.Fatalf("wave = %v", r.Params().Wave)
	}
	if st := r.Status(); st.Stage != envelope.Idle {
		t.Fatalf("stage = %v, want idle", st.Stage)
	}
	var peak float64
	for _, v := range out[:4000] {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if peak < 0.05 {
		t.Fatalf("held note peak = %f, want audible output", peak)
	}
	if last := math.Abs(float64(out[len(out)-1])); last > 1e-3 {
		t.Fatalf("tail = %f, want silence", last)
	}
}
