package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbegin/monosynth-go"
	"github.com/cbegin/monosynth-go/internal/lfo"
	"github.com/cbegin/monosynth-go/internal/script"
	"github.com/cbegin/monosynth-go/internal/sequencer"
	"github.com/cbegin/monosynth-go/internal/waveform"
)

var (
	verbose     bool
	sampleRate  int
	backendName string

	outPath    string
	note       int
	gate       float64
	seconds    float64
	waveName   string
	targetName string
	cutoff     float64
	scriptPath string
	tail       float64

	hold        time.Duration
	patternSpec string
	stepLength  float64

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "monosynth",
	Short: "Monophonic real-time synthesizer",
	Long: `monosynth is a single-voice subtractive synth: one oscillator,
an ADSR envelope, a one-pole low-pass filter, an LFO and a
16-step sequencer.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a note or a script to a WAV file",
	Long: `Render offline to a 32-bit float stereo WAV file.

Examples:
  monosynth render --note 57 --wave saw --out a3.wav
  monosynth render --script riff.lua --out riff.wav`,
	RunE: runRender,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the synth from the terminal keyboard",
	Long: `Play live from the computer keyboard.

Keys:
  a w s e d f t g y h u j k   notes C4..C5
  x                           note off
  up/down                     frequency +/-10 Hz
  left/right                  filter cutoff
  space                       start/stop sequencer
  p o c                       record last note / rest into the next step, clear pattern
  1 2 3                       cycle wave, LFO target, LFO wave
  l r                         reset LFO, toggle LFO retrigger
  q esc                       quit`,
	RunE: runPlay,
}

var scriptCmd = &cobra.Command{
	Use:   "script <file.lua>",
	Short: "Run a Lua control script against the live synth",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List parameter names understood by set() and get()",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := monosynth.NewRenderer(sampleRate, monosynth.DefaultParams())
		if err != nil {
			return err
		}
		ctx := context.Background()
		for _, name := range script.ParamNames() {
			src := fmt.Sprintf("print(%q, get(%q))", name, name)
			if err := script.NewRunner(r, renderWait(r)).RunString(ctx, name, src); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().IntVar(&sampleRate, "sample-rate", 48000, "Output sample rate")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(paramsCmd)

	for _, c := range []*cobra.Command{renderCmd, playCmd} {
		c.Flags().StringVarP(&waveName, "wave", "w", "sine", "Oscillator waveform (sine, square, triangle, saw)")
		c.Flags().StringVar(&targetName, "lfo-target", "none", "LFO target (none, pitch, amp, filter)")
		c.Flags().Float64Var(&cutoff, "cutoff", 1000, "Filter cutoff in Hz")
	}

	renderCmd.Flags().StringVarP(&outPath, "out", "o", "monosynth.wav", "Output WAV file")
	renderCmd.Flags().IntVarP(&note, "note", "n", 69, "MIDI note to render")
	renderCmd.Flags().Float64Var(&gate, "gate", 0.5, "Seconds the note is held")
	renderCmd.Flags().Float64VarP(&seconds, "seconds", "s", 1.0, "Total seconds to render")
	renderCmd.Flags().StringVar(&scriptPath, "script", "", "Lua script to render instead of a single note")
	renderCmd.Flags().Float64Var(&tail, "tail", 0.5, "Seconds rendered after a script ends")

	for _, c := range []*cobra.Command{playCmd, scriptCmd} {
		c.Flags().StringVarP(&backendName, "backend", "b", string(monosynth.BackendEbiten), "Audio backend (ebiten, oto)")
	}
	playCmd.Flags().DurationVar(&hold, "hold", 300*time.Millisecond, "How long a key press holds the note")
	playCmd.Flags().StringVar(&patternSpec, "pattern", "", "Sequencer notes, comma separated, '-' for a rest (e.g. 60,64,67,-)")
	playCmd.Flags().Float64Var(&stepLength, "step-length", 0.25, "Seconds per sequencer step")
}

func patchFromFlags() (monosynth.Params, error) {
	p := monosynth.DefaultParams()
	k, ok := waveform.ParseKind(waveName)
	if !ok {
		return p, fmt.Errorf("invalid --wave %q", waveName)
	}
	t, ok := lfo.ParseTarget(targetName)
	if !ok {
		return p, fmt.Errorf("invalid --lfo-target %q", targetName)
	}
	p.Wave = k
	p.LFOTarget = t
	p.Cutoff = cutoff
	if patternSpec != "" {
		pat, err := parsePattern(patternSpec, stepLength)
		if err != nil {
			return p, err
		}
		p.Pattern = pat
	}
	return p.Sanitize(), nil
}

// parsePattern reads up to 16 comma-separated MIDI notes; "-" or an empty
// field is a rest. Steps not given are rests.
func parsePattern(s string, length float64) (sequencer.Pattern, error) {
	pat := sequencer.DefaultPattern()
	fields := strings.Split(s, ",")
	if len(fields) > sequencer.Steps {
		return pat, fmt.Errorf("pattern has %d steps, max %d", len(fields), sequencer.Steps)
	}
	for i := range pat {
		pat[i].Length = length
	}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || f == "-" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 127 {
			return pat, fmt.Errorf("pattern step %d: invalid note %q", i+1, f)
		}
		pat[i].Note = n
	}
	return pat, nil
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteName spells a MIDI note as e.g. "A4"; rests print as "-".
func noteName(n int) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprintf("%s%d", noteNames[n%12], n/12-1)
}

func renderWait(r *monosynth.Renderer) script.WaitFunc {
	return func(ctx context.Context, s float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Render(s)
		return nil
	}
}

func sleepWait(ctx context.Context, s float64) error {
	t := time.NewTimer(time.Duration(s * float64(time.Second)))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	params, err := patchFromFlags()
	if err != nil {
		return err
	}
	var samples []float32
	if scriptPath != "" {
		r, err := monosynth.NewRenderer(sampleRate, params)
		if err != nil {
			return err
		}
		logger.Debug("running script", slog.String("path", scriptPath))
		if err := script.NewRunner(r, renderWait(r)).RunFile(cmd.Context(), scriptPath); err != nil {
			return err
		}
		_ = r.NoteOff()
		r.Render(tail)
		samples = r.Samples()
	} else {
		samples, err = monosynth.RenderSamples(params, sampleRate, note, gate, seconds)
		if err != nil {
			return err
		}
	}
	if err := writeWAVFile(outPath, samples); err != nil {
		return err
	}
	logger.Info("rendered",
		slog.String("out", outPath),
		slog.Int("frames", len(samples)/2),
		slog.Int("sample_rate", sampleRate))
	return nil
}

func writeWAVFile(path string, samples []float32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return monosynth.WriteWAV(f, samples, sampleRate)
}

func runScript(cmd *cobra.Command, args []string) error {
	backend, err := monosynth.ParseBackend(backendName)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pl, err := monosynth.NewPlayer(sampleRate, monosynth.WithBackend(backend))
	if err != nil {
		return err
	}
	defer pl.Close()

	logger.Info("running script", slog.String("path", args[0]), slog.String("backend", string(backend)))
	runErr := script.NewRunner(pl, sleepWait).RunFile(ctx, args[0])
	_ = pl.StopSequencer()
	_ = pl.NoteOff()
	// let the release tail ring out
	_ = sleepWait(context.Background(), pl.Params().Release)
	if st := pl.Status(); st.DroppedTrigger > 0 {
		logger.Warn("triggers dropped", slog.Uint64("count", st.DroppedTrigger))
	}
	return runErr
}
