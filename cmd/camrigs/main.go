package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/camrigs/internal/config"
	"github.com/ivlev/camrigs/internal/engine"
	"github.com/ivlev/camrigs/internal/orbit"
	"github.com/ivlev/camrigs/internal/renderer"
	"github.com/ivlev/camrigs/internal/rig"
	"github.com/ivlev/camrigs/internal/scene"
	"github.com/ivlev/camrigs/internal/scrub"
	"github.com/ivlev/camrigs/internal/stereo"
	"github.com/ivlev/camrigs/internal/system"
	"github.com/ivlev/camrigs/internal/track"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

const rigsDir = "rigs"

var con = newConsole()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "sample":
		err = runSample(ctx, args, false)
	case "check":
		err = runSample(ctx, args, true)
	case "plot":
		err = runPlot(args)
	case "presets":
		err = runPresets(args)
	case "stereo":
		err = runStereo(args)
	case "scrub":
		err = runScrub(ctx, args)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, errViolations):
		stop()
		os.Exit(1)
	case errors.Is(err, context.Canceled):
		con.Warn("Interrupted")
	case rig.IsConfigError(err):
		con.Fatal("Invalid rig: %v", err)
	default:
		con.Fatal("%v", err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `camrigs evaluates camera rigs frame by frame.

Usage:
  camrigs <command> [flags]

Commands:
  sample   evaluate a rig over a frame range and write track, glTF and plot
  check    sample a rig and check the path against the reference stage
  plot     draw the top-down plot of a saved track
  presets  list orbit presets
  stereo   print VR180 eye offsets for an IPD
  scrub    step through a rig interactively in the terminal
  version  print the build version

Run 'camrigs <command> -h' for the flags of a command.
`)
}

var errViolations = errors.New("stage check failed")

// rigFlags are shared by every command that builds a rig
type rigFlags struct {
	file   *string
	rig    *string
	preset *string
}

func addRigFlags(fs *flag.FlagSet) rigFlags {
	return rigFlags{
		file:   fs.String("rig-file", "", "YAML or TOML rig file (default: newest file in rigs/, if any)"),
		rig:    fs.String("rig", config.RigOrbit, "Rig when no file is used: "+strings.Join(config.RigNames(), ", ")),
		preset: fs.String("preset", "", "Orbit preset when no file is used: "+strings.Join(orbit.PresetNames(), ", ")),
	}
}

// load resolves the rig file: an explicit path, the newest file in rigs/, or
// the -rig/-preset defaults when neither exists.
func (f rigFlags) load() (*config.RigFile, string, error) {
	path := *f.file
	if path == "" && *f.preset == "" {
		if latest, err := system.FindLatestRig(rigsDir); err == nil {
			path = latest
			con.Info("Using rig file: %s", path)
		}
	}

	if path == "" {
		rf, err := config.NewRigFile(*f.rig, *f.preset)
		return rf, "", err
	}

	path, err := system.ExpandPath(path)
	if err != nil {
		return nil, "", err
	}
	rf, err := config.LoadRigFile(path)
	if err != nil {
		return nil, "", err
	}
	return rf, path, nil
}

func runSample(ctx context.Context, args []string, check bool) error {
	name := "sample"
	if check {
		name = "check"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	rf := addRigFlags(fs)

	def := config.Default()
	start := fs.Float64("start", def.Start, "First frame")
	end := fs.Float64("end", 0, "Last frame, inclusive (default: one full loop, or the start frame for static rigs)")
	step := fs.Float64("step", def.Step, "Frame step; fractional values sample sub-frames")
	fps := fs.Float64("fps", def.FPS, "Frames per second, used for glTF key times")
	workers := fs.Int("workers", system.DefaultWorkers(), "Sampling workers")
	outDir := fs.String("out-dir", def.OutputDir, "Directory for timestamped tracks when -track is empty")
	trackOut := fs.String("track", "", "Track output path (.yaml)")
	gltfOut := fs.String("gltf", "", "glTF animation output (.gltf or .glb)")
	plotOut := fs.String("plot", "", "Top-down plot output (.png)")
	aspect := fs.Float64("aspect", def.AspectRatio, "Aspect ratio of the exported camera")
	stats := fs.Bool("stats", false, "Print a performance report and append it to benchmark.log")
	watch := fs.Bool("watch", false, "Sample again whenever the rig file changes")

	if err := fs.Parse(args); err != nil {
		return err
	}
	endSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "end" {
			endSet = true
		}
	})

	paths := []*string{outDir, trackOut, gltfOut, plotOut}
	for _, p := range paths {
		expanded, err := system.ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	cfg := &config.Config{
		Start:        *start,
		End:          *end,
		Loop:         !endSet,
		Step:         *step,
		FPS:          *fps,
		Workers:      *workers,
		OutputDir:    *outDir,
		OutputTrack:  *trackOut,
		OutputGLTF:   *gltfOut,
		OutputPlot:   *plotOut,
		AspectRatio:  *aspect,
		Check:        check,
		ShowStats:    *stats,
		Watch:        *watch,
		BuildVersion: version,
	}
	if check && *trackOut == "" {
		cfg.OutputDir = ""
	}

	run := func() error {
		rigFile, path, err := rf.load()
		if err != nil {
			return err
		}
		cfg.RigPath, cfg.Rig, cfg.Preset = path, rigFile.Rig, rigFile.Preset
		return sampleOnce(ctx, cfg, rigFile)
	}

	if !cfg.Watch {
		return run()
	}

	if err := run(); err != nil && !errors.Is(err, errViolations) {
		con.Warn("%v", err)
	}
	if cfg.RigPath == "" {
		return fmt.Errorf("-watch needs a rig file")
	}
	con.Info("Watching %s (Ctrl+C to stop)", cfg.RigPath)
	err := system.Watch(ctx, cfg.RigPath, system.DefaultDebounce, func() error {
		con.Step("Rig file changed, sampling again")
		if err := run(); err != nil && !errors.Is(err, errViolations) {
			return err
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func sampleOnce(ctx context.Context, base *config.Config, rf *config.RigFile) error {
	ev, err := rf.Evaluator()
	if err != nil {
		return err
	}

	cfg := *base
	if cfg.Loop {
		cfg.End = cfg.Start
		// One loop; the frame at start+period repeats the first pose
		if period := rf.Period(); period > cfg.Step {
			cfg.End = cfg.Start + period - cfg.Step
		}
	}

	opts := []engine.Option{engine.WithRigFile(rf)}
	if cfg.Check {
		stage, err := scene.New(rf.Stage)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithStage(stage))
	}

	res, err := engine.NewProject(&cfg, ev, opts...).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Check {
		for _, v := range res.Violations {
			con.Warn("%s", v)
		}
		if len(res.Violations) > 0 {
			return fmt.Errorf("%w: %d problem(s)", errViolations, len(res.Violations))
		}
		con.Success("Camera path clears the %s stage", strings.ToLower(rf.Stage.Cyclorama.String()))
	}
	return nil
}

func runPlot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	in := fs.String("track", "", "Track to plot (default: newest in tracks/)")
	out := fs.String("out", "", "PNG output (default: next to the track)")
	size := fs.Int("size", 1024, "Image width and height in pixels")
	qr := fs.Bool("qr", true, "Stamp a QR code with the rig summary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *in
	if path == "" {
		latest, err := track.FindLatestTrack(track.DefaultDir)
		if err != nil {
			return err
		}
		path = latest
		con.Info("Selected track: %s", path)
	}
	path, err := system.ExpandPath(path)
	if err != nil {
		return err
	}

	tr, err := track.ReadTrack(path)
	if err != nil {
		return err
	}

	opts := renderer.DefaultPlotOptions()
	opts.Width, opts.Height = *size, *size
	if *qr {
		opts.QRContent = fmt.Sprintf("camrigs %s %s samples=%d", tr.Rig, tr.Preset, len(tr.Samples))
	}

	img, err := renderer.Plot(tr, opts)
	if err != nil {
		return err
	}
	defer system.PutImage(img)

	target := *out
	if target == "" {
		target = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}
	if err := renderer.WritePNG(target, img); err != nil {
		return err
	}
	con.Success("Plot saved: %s", target)
	return nil
}

func runPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDESCRIPTION\tRADIUS\tHEIGHT\tFOCAL\tDURATION\tEASING")
	for _, name := range orbit.PresetNames() {
		cfg, err := orbit.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%gmm\t%d\t%s\n",
			name, orbit.PresetDescription(name), cfg.Radius, cfg.Height, cfg.FocalLength, cfg.DurationFrames, cfg.Easing)
	}
	return w.Flush()
}

func runStereo(args []string) error {
	fs := flag.NewFlagSet("stereo", flag.ContinueOnError)
	ipd := fs.Float64("ipd", stereo.DefaultIPD, "Interpupillary distance in millimetres")
	height := fs.Float64("height", stereo.DefaultEyeHeight, "Eye height in metres")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := stereo.DefaultVR180Config()
	cfg.IPD = *ipd
	cfg.Location[2] = *height
	r, err := stereo.NewVR180(cfg)
	if err != nil {
		return err
	}

	left, right := r.Eyes()
	con.Info("VR180 %s, %.0f° FOV, %.1fmm lens", r.Panorama(), stereo.FisheyeFOV, stereo.FisheyeLens)
	fmt.Printf("IPD:      %.1f mm\n", r.IPD())
	fmt.Printf("Left X:   %+.4f m  -> (%.4f, %.4f, %.4f)\n", r.LeftX(), left[0], left[1], left[2])
	fmt.Printf("Right X:  %+.4f m  -> (%.4f, %.4f, %.4f)\n", r.RightX(), right[0], right[1], right[2])
	fmt.Printf("Baseline: %.4f m\n", r.Baseline())
	return nil
}

func runScrub(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scrub", flag.ContinueOnError)
	rf := addRigFlags(fs)
	frame := fs.Float64("frame", 0, "Starting frame")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rigFile, _, err := rf.load()
	if err != nil {
		return err
	}
	ev, err := rigFile.Evaluator()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	title := rigFile.Rig
	if rigFile.Preset != "" {
		title += " " + rigFile.Preset
	}
	v := &scrub.Viewer{
		Evaluator: ev,
		Period:    rigFile.Period(),
		Title:     title,
		Screen:    screen,
		Frame:     *frame,
	}
	switch rigFile.Rig {
	case config.RigOrbit:
		v.Target = rigFile.Orbit.Target
	case config.RigIsometric:
		v.Target = rigFile.Isometric.Target
	}
	return v.Run(ctx)
}
