// Command rectloop renders animated instanced rectangles in a window or
// offscreen.
//
//	rectloop                         # best available host
//	rectloop -backend noop -frames 120
//	rectloop -backend headless -frames 1 -snapshot frame.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/gogpu/rectloop"
	"github.com/gogpu/rectloop/app"
	"github.com/gogpu/rectloop/backend"
	"github.com/gogpu/rectloop/backend/headless"
	"github.com/gogpu/rectloop/backend/probe"
	_ "github.com/gogpu/rectloop/backend/window"
	"github.com/gogpu/rectloop/internal/anim"
	"github.com/gogpu/rectloop/internal/config"
	"github.com/gogpu/rectloop/internal/image"
	"github.com/gogpu/rectloop/pipelines/rect"
	"github.com/gogpu/rectloop/render"
)

// defaultHeadlessFrames bounds offscreen runs that set no frame limit, since
// nothing can close an offscreen host.
const defaultHeadlessFrames = 60

func init() {
	// GLFW and the window surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rectloop:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rectloop", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "TOML configuration file")
		backendArg = fs.String("backend", "", "host: "+strings.Join(backend.Available(), ", ")+" (default: best available)")
		width      = fs.Uint("width", 0, "initial width in pixels")
		height     = fs.Uint("height", 0, "initial height in pixels")
		frames     = fs.Uint64("frames", 0, "stop after this many frames (0 = until closed)")
		snapshot   = fs.String("snapshot", "", "write the last offscreen frame to this file (.png, .jpg, .bmp, .tiff)")
		spirv      = fs.Bool("spirv", false, "compile shaders to SPIR-V with naga (HAL hosts)")
		scene      = fs.String("scene", "", "scene mode: grid or orbit")
		logLevel   = fs.String("log-level", "", "debug, info, warn or error")
		list       = fs.Bool("list", false, "list available hosts and exit")
		probeGPU   = fs.Bool("probe", false, "print the wgpu-native adapter and exit")
		version    = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *version {
		fmt.Println("rectloop", rectloop.Version)
		return nil
	}
	if *probeGPU {
		info, err := probe.Adapter()
		if err != nil {
			return err
		}
		fmt.Println(info)
		return nil
	}
	if *list {
		for _, name := range backend.Available() {
			fmt.Println(name)
		}
		return nil
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backendArg
		case "width":
			cfg.Window.Width = uint32(*width)
		case "height":
			cfg.Window.Height = uint32(*height)
		case "frames":
			cfg.Headless.Frames = *frames
		case "snapshot":
			cfg.Headless.Snapshot = *snapshot
		case "spirv":
			cfg.Headless.SPIRV = *spirv
		case "scene":
			cfg.Scene.Mode = *scene
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	rectloop.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runLoop(ctx, cfg, logger)
}

func runLoop(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	present, _ := cfg.PresentMode()
	opts := backend.Options{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		SPIRV:       cfg.Headless.SPIRV,
		PresentMode: present,
	}

	var (
		host backend.Host
		err  error
	)
	if cfg.Backend == "" {
		host, err = backend.Default(opts)
	} else {
		host, err = backend.Open(cfg.Backend, opts)
	}
	if err != nil {
		return err
	}
	defer host.Close()
	logger.Info("host opened", "host", host.Name(), "adapter", host.Device().Info().Name)

	clear, _ := cfg.ClearColor()
	r, err := render.New(host.Device(), host.Surface(),
		render.WithClearColor(clear),
		render.WithLogger(logger))
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.AddPipeline(rect.Builder); err != nil {
		return err
	}

	var source app.TickSource
	if cfg.Scene.Mode == config.SceneGrid {
		source = anim.NewGrid(cfg.Scene.Columns, cfg.Scene.Rows, cfg.Scene.Speed)
	} else {
		source = anim.NewOrbit(cfg.Scene.Speed)
	}

	offscreen, _ := host.(*headless.Host)
	maxFrames := cfg.Headless.Frames
	if offscreen != nil && maxFrames == 0 {
		maxFrames = defaultHeadlessFrames
	}

	err = app.Run(ctx, host, r, source, app.WithMaxFrames(maxFrames), app.WithLogger(logger))
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	st := r.Stats()
	logger.Info("stopped",
		"frames", st.Frames,
		"skipped", st.Skipped,
		"reconfigurations", st.Reconfigurations)
	if err != nil {
		return err
	}

	if cfg.Headless.Snapshot == "" {
		return nil
	}
	if offscreen == nil {
		logger.Warn("snapshot needs an offscreen host", "host", host.Name())
		return nil
	}
	img, err := offscreen.Offscreen().Snapshot()
	if err != nil {
		return err
	}
	if err := image.Save(cfg.Headless.Snapshot, img); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", cfg.Headless.Snapshot)
	return nil
}
