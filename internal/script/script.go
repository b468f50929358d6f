// Package script runs Lua control scripts against a synth. A script plays
// the part of the control surface: it edits parameters, gates notes and
// lets time pass with wait().
//
//	set("wave", "saw")
//	set("lfo_target", "vibrato")
//	note_on(60)
//	wait(0.5)
//	note_off()
package script

import (
	"context"
	"errors"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/cbegin/monosynth-go/internal/lfo"
	"github.com/cbegin/monosynth-go/internal/sequencer"
	"github.com/cbegin/monosynth-go/internal/synth"
	"github.com/cbegin/monosynth-go/internal/waveform"
)

var ErrUnknownParam = errors.New("unknown parameter")

// Error reports a failure inside a named script.
type Error struct {
	Script string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Control is the subset of a player or offline renderer a script drives.
type Control interface {
	NoteOn() error
	PlayNote(note int) error
	NoteOff() error
	StartSequencer() error
	StopSequencer() error
	ResetLFO() error
	Params() synth.Params
	UpdateParams(fn func(*synth.Params)) synth.Params
}

// WaitFunc lets seconds of synth time pass: sleeping for a live player,
// rendering for an offline one.
type WaitFunc func(ctx context.Context, seconds float64) error

// Runner executes scripts against one Control.
type Runner struct {
	ctl  Control
	wait WaitFunc
}

func NewRunner(ctl Control, wait WaitFunc) *Runner {
	return &Runner{ctl: ctl, wait: wait}
}

// RunString executes src; name is used in error messages.
func (r *Runner) RunString(ctx context.Context, name, src string) error {
	return r.run(ctx, name, func(L *lua.LState) error { return L.DoString(src) })
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func(L *lua.LState) error { return L.DoFile(path) })
}

func (r *Runner) run(ctx context.Context, name string, exec func(*lua.LState) error) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	r.register(L, ctx)
	if err := exec(L); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Script: name, Err: ctxErr}
		}
		return &Error{Script: name, Err: err}
	}
	return nil
}

func (r *Runner) register(L *lua.LState, ctx context.Context) {
	fns := map[string]lua.LGFunction{
		"note_on": func(L *lua.LState) int {
			var err error
			if L.GetTop() >= 1 && L.Get(1) != lua.LNil {
				err = r.ctl.PlayNote(L.CheckInt(1))
			} else {
				err = r.ctl.NoteOn()
			}
			raise(L, err)
			return 0
		},
		"note_off": func(L *lua.LState) int {
			raise(L, r.ctl.NoteOff())
			return 0
		},
		"seq_start": func(L *lua.LState) int {
			raise(L, r.ctl.StartSequencer())
			return 0
		},
		"seq_stop": func(L *lua.LState) int {
			raise(L, r.ctl.StopSequencer())
			return 0
		},
		"lfo_reset": func(L *lua.LState) int {
			raise(L, r.ctl.ResetLFO())
			return 0
		},
		"wait": func(L *lua.LState) int {
			secs := float64(L.CheckNumber(1))
			if secs < 0 {
				L.ArgError(1, "negative wait")
			}
			raise(L, r.wait(ctx, secs))
			return 0
		},
		"note_freq": func(L *lua.LState) int {
			L.Push(lua.LNumber(synth.NoteToFreq(L.CheckInt(1))))
			return 1
		},
		"step": func(L *lua.LState) int {
			i := L.CheckInt(1)
			if i < 1 || i > sequencer.Steps {
				L.ArgError(1, fmt.Sprintf("step must be 1..%d", sequencer.Steps))
			}
			note := L.OptInt(2, sequencer.Rest)
			length := float64(L.OptNumber(3, 0.25))
			r.ctl.UpdateParams(func(p *synth.Params) {
				p.Pattern[i-1] = sequencer.Step{Note: note, Length: length}
			})
			return 0
		},
		"set": func(L *lua.LState) int {
			name := L.CheckString(1)
			val := L.CheckAny(2)
			var setErr error
			r.ctl.UpdateParams(func(p *synth.Params) {
				setErr = setParam(p, name, val)
			})
			raise(L, setErr)
			return 0
		},
		"get": func(L *lua.LState) int {
			v, err := getParam(r.ctl.Params(), L.CheckString(1))
			raise(L, err)
			L.Push(v)
			return 1
		},
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func raise(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%v", err)
	}
}

type numberField struct {
	get func(*synth.Params) float64
	set func(*synth.Params, float64)
}

var numberFields = map[string]numberField{
	"freq":      {func(p *synth.Params) float64 { return p.Frequency }, func(p *synth.Params, v float64) { p.Frequency = v }},
	"amp":       {func(p *synth.Params) float64 { return p.Amplitude }, func(p *synth.Params, v float64) { p.Amplitude = v }},
	"attack":    {func(p *synth.Params) float64 { return p.Attack }, func(p *synth.Params, v float64) { p.Attack = v }},
	"decay":     {func(p *synth.Params) float64 { return p.Decay }, func(p *synth.Params, v float64) { p.Decay = v }},
	"sustain":   {func(p *synth.Params) float64 { return p.Sustain }, func(p *synth.Params, v float64) { p.Sustain = v }},
	"release":   {func(p *synth.Params) float64 { return p.Release }, func(p *synth.Params, v float64) { p.Release = v }},
	"cutoff":    {func(p *synth.Params) float64 { return p.Cutoff }, func(p *synth.Params, v float64) { p.Cutoff = v }},
	"lfo_rate":  {func(p *synth.Params) float64 { return p.LFORate }, func(p *synth.Params, v float64) { p.LFORate = v }},
	"lfo_depth": {func(p *synth.Params) float64 { return p.LFODepth }, func(p *synth.Params, v float64) { p.LFODepth = v }},
	"gate":      {func(p *synth.Params) float64 { return p.Gate }, func(p *synth.Params, v float64) { p.Gate = v }},
}

// ParamNames lists every name accepted by set() and get().
func ParamNames() []string {
	names := []string{"wave", "lfo_wave", "lfo_target", "lfo_retrigger"}
	for n := range numberFields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func setParam(p *synth.Params, name string, v lua.LValue) error {
	if f, ok := numberFields[name]; ok {
		n, ok := v.(lua.LNumber)
		if !ok {
			return fmt.Errorf("%s expects a number, got %s", name, v.Type())
		}
		f.set(p, float64(n))
		return nil
	}
	switch name {
	case "wave", "lfo_wave":
		k, ok := waveform.ParseKind(v.String())
		if !ok {
			return fmt.Errorf("%s: unknown waveform %q", name, v.String())
		}
		if name == "wave" {
			p.Wave = k
		} else {
			p.LFOWave = k
		}
	case "lfo_target":
		t, ok := lfo.ParseTarget(v.String())
		if !ok {
			return fmt.Errorf("lfo_target: unknown target %q", v.String())
		}
		p.LFOTarget = t
	case "lfo_retrigger":
		p.LFORetrigger = lua.LVAsBool(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

func getParam(p synth.Params, name string) (lua.LValue, error) {
	if f, ok := numberFields[name]; ok {
		return lua.LNumber(f.get(&p)), nil
	}
	switch name {
	case "wave":
		return lua.LString(p.Wave.String()), nil
	case "lfo_wave":
		return lua.LString(p.LFOWave.String()), nil
	case "lfo_target":
		return lua.LString(p.LFOTarget.String()), nil
	case "lfo_retrigger":
		return lua.LBool(p.LFORetrigger), nil
	}
	return lua.LNil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}
