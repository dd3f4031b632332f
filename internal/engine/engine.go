package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/camrigs/internal/config"
	"github.com/ivlev/camrigs/internal/export"
	"github.com/ivlev/camrigs/internal/renderer"
	"github.com/ivlev/camrigs/internal/rig"
	"github.com/ivlev/camrigs/internal/scene"
	"github.com/ivlev/camrigs/internal/system"
	"github.com/ivlev/camrigs/internal/track"
)

var ErrFrameRange = errors.New("invalid frame range")

// maxFrames bounds a single run so a typo in -step cannot exhaust memory
const maxFrames = 10_000_000

// progressor is implemented by rigs that move around a loop
type progressor interface {
	Progress(frame float64) float64
}

type Project struct {
	Config    *config.Config
	Evaluator rig.Evaluator
	RigFile   *config.RigFile
	Stage     *scene.Stage

	// BenchmarkLog receives one line per run when Config.ShowStats is set
	BenchmarkLog string
}

// Result is everything a run produced
type Result struct {
	Track      *track.Track
	Violations []scene.Violation
	TrackPath  string
	GLTFPath   string
	PlotPath   string
	Elapsed    time.Duration
}

type Option func(*Project)

// WithRigFile records the rig description in the track header.
func WithRigFile(rf *config.RigFile) Option {
	return func(p *Project) { p.RigFile = rf }
}

// WithStage enables the clearance check against the stage.
func WithStage(s *scene.Stage) Option {
	return func(p *Project) { p.Stage = s }
}

func NewProject(cfg *config.Config, ev rig.Evaluator, opts ...Option) *Project {
	p := &Project{
		Config:       cfg,
		Evaluator:    ev,
		BenchmarkLog: "benchmark.log",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Frames lists start, start+step, ... up to and including end.
// Frames are computed by index so long ranges do not accumulate rounding.
func Frames(start, end, step float64) ([]float64, error) {
	if !rig.Finite(start, end, step) {
		return nil, fmt.Errorf("%w: values must be finite", ErrFrameRange)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %v must be > 0", ErrFrameRange, step)
	}
	if end < start {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrFrameRange, end, start)
	}

	// Tolerate an end that misses the grid by rounding error.
	// The count is checked as a float; huge ratios overflow int.
	count := math.Floor((end-start)/step+1e-9) + 1
	if math.IsInf(count, 0) || count > maxFrames {
		return nil, fmt.Errorf("%w: %g frames exceeds the limit of %d", ErrFrameRange, count, maxFrames)
	}
	n := int(count)

	frames := make([]float64, n)
	for i := range frames {
		frames[i] = start + float64(i)*step
	}
	return frames, nil
}

// Sample evaluates the rig at every frame in parallel. The result keeps frame order.
func (p *Project) Sample(ctx context.Context, frames []float64) ([]track.Sample, error) {
	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}

	samples := make([]track.Sample, len(frames))
	prog, _ := p.Evaluator.(progressor)

	// Several frames per goroutine; evaluating one pose is far cheaper than scheduling it
	chunk := (len(frames) + workers*4 - 1) / (workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(frames); lo += chunk {
		hi := min(lo+chunk, len(frames))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				f := frames[i]
				progress := 0.0
				if prog != nil {
					progress = prog.Progress(f)
				}
				samples[i] = track.NewSample(f, progress, p.Evaluator.Evaluate(f))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}

func (p *Project) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	cfg := p.Config

	frames, err := Frames(cfg.Start, cfg.End, cfg.Step)
	if err != nil {
		return nil, err
	}

	fmt.Println("--- [CAMRIGS: SAMPLING ENGINE] ---")
	fmt.Printf("[*] Rig: %s | Frames: %.2f..%.2f step %.2f (%d) | %.0f FPS\n", p.rigName(), cfg.Start, cfg.End, cfg.Step, len(frames), cfg.FPS)
	fmt.Println("----------------------------------")

	sampleStart := time.Now()
	samples, err := p.Sample(ctx, frames)
	if err != nil {
		return nil, fmt.Errorf("sampling interrupted: %w", err)
	}
	sampleTime := time.Since(sampleStart)
	fmt.Printf("[>] Sampled %d poses in %s\n", len(samples), sampleTime.Round(time.Microsecond))

	res := &Result{Track: p.newTrack(samples)}

	if p.Stage != nil {
		res.Violations = p.Stage.Check(samples)
		if len(res.Violations) == 0 {
			fmt.Println("[*] Stage check: camera path is clear")
		} else {
			fmt.Printf("[!] Stage check: %d problem(s)\n", len(res.Violations))
		}
	}

	writeStart := time.Now()
	if err := p.writeOutputs(res); err != nil {
		return res, err
	}
	writeTime := time.Since(writeStart)

	res.Elapsed = time.Since(startTime)

	if cfg.ShowStats {
		p.report(res, sampleTime, writeTime)
	}

	return res, nil
}

func (p *Project) newTrack(samples []track.Sample) *track.Track {
	tr := &track.Track{
		Version: track.Version,
		Rig:     p.rigName(),
		FPS:     p.Config.FPS,
		Samples: samples,
	}
	if rf := p.RigFile; rf != nil {
		tr.Preset = rf.Preset
		switch rf.Rig {
		case config.RigOrbit:
			o := rf.Orbit
			tr.Orbit = &o
			tr.Target = o.Target
		case config.RigIsometric:
			tr.Target = rf.Isometric.Target
		}
	}
	return tr
}

func (p *Project) rigName() string {
	if p.RigFile != nil && p.RigFile.Rig != "" {
		return p.RigFile.Rig
	}
	if p.Config.Rig != "" {
		return p.Config.Rig
	}
	return "rig"
}

func (p *Project) writeOutputs(res *Result) error {
	cfg := p.Config

	trackPath := cfg.OutputTrack
	if trackPath == "" && cfg.OutputDir != "" {
		trackPath = track.GenerateTrackPath(cfg.OutputDir, res.Track.Rig)
	}
	if trackPath != "" {
		if err := track.WriteTrack(res.Track, trackPath); err != nil {
			return fmt.Errorf("write track: %w", err)
		}
		res.TrackPath = trackPath
		fmt.Printf("[+++] Track saved: %s\n", trackPath)
	}

	if cfg.OutputGLTF != "" {
		opts := export.Options{AspectRatio: cfg.AspectRatio}
		if p.RigFile != nil {
			opts.OrthoScale = p.RigFile.Isometric.OrthoScale
		}
		if err := export.WriteGLTF(cfg.OutputGLTF, res.Track, opts); err != nil {
			return err
		}
		res.GLTFPath = cfg.OutputGLTF
		fmt.Printf("[+++] glTF animation saved: %s\n", cfg.OutputGLTF)
	}

	if cfg.OutputPlot != "" {
		opts := renderer.DefaultPlotOptions()
		opts.QRContent = p.summary(res.Track)
		img, err := renderer.Plot(res.Track, opts)
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		err = renderer.WritePNG(cfg.OutputPlot, img)
		system.PutImage(img)
		if err != nil {
			return err
		}
		res.PlotPath = cfg.OutputPlot
		fmt.Printf("[+++] Plot saved: %s\n", cfg.OutputPlot)
	}

	return nil
}

// summary is a one-line description of the run, stamped into the plot
func (p *Project) summary(tr *track.Track) string {
	parts := []string{"camrigs", tr.Rig}
	if tr.Preset != "" {
		parts = append(parts, tr.Preset)
	}
	if o := tr.Orbit; o != nil {
		parts = append(parts, fmt.Sprintf("r=%g h=%g f=%gmm d=%d s=%g %s", o.Radius, o.Height, o.FocalLength, o.DurationFrames, o.SpeedMultiplier, o.Easing))
	}
	if p.Config.BuildVersion != "" {
		parts = append(parts, p.Config.BuildVersion)
	}
	return strings.Join(parts, " ")
}

func (p *Project) report(res *Result, sampleTime, writeTime time.Duration) {
	n := len(res.Track.Samples)
	rate := float64(n) / math.Max(sampleTime.Seconds(), 1e-9)

	memory, err := system.MemoryReport()
	if err != nil {
		memory = "n/a"
	}

	trackSize := "-"
	if res.TrackPath != "" {
		if info, err := os.Stat(res.TrackPath); err == nil {
			trackSize = system.FormatSize(info.Size())
		}
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.3fs\n"+
			"Sampling: %.3fs\n"+
			"Writing: %.3fs\n"+
			"Poses/s: %.0f\n"+
			"Track Size: %s\n"+
			"Memory: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, res.Elapsed.Seconds(), sampleTime.Seconds(), writeTime.Seconds(), rate, trackSize, memory,
	)
	fmt.Print(report)

	if p.BenchmarkLog == "" {
		return
	}

	logEntry := fmt.Sprintf("[%s] Build: %s | Rig: %s | Samples: %d | Total: %.3fs | Sampling: %.3fs | Poses/s: %.0f | Track: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		res.Track.Rig,
		n,
		res.Elapsed.Seconds(),
		sampleTime.Seconds(),
		rate,
		filepath.Base(res.TrackPath),
	)

	if err := appendLog(p.BenchmarkLog, logEntry); err != nil {
		fmt.Printf("[!] Could not write %s: %v\n", p.BenchmarkLog, err)
	}
}

func appendLog(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
