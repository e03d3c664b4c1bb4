// Package config loads the rectloop command configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	stdcolor "image/color"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/colornames"

	"github.com/gogpu/rectloop/internal/color"
	"github.com/gogpu/rectloop/internal/image"
	"github.com/gogpu/rectloop/render"
	"github.com/gogpu/rectloop/surface"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Scene modes.
const (
	SceneGrid  = "grid"
	SceneOrbit = "orbit"
)

// Config is the full command configuration.
type Config struct {
	// Backend is a registered host name, or empty to pick the best one.
	Backend  string   `toml:"backend"`
	LogLevel string   `toml:"log_level"`
	Window   Window   `toml:"window"`
	Render   Render   `toml:"render"`
	Scene    Scene    `toml:"scene"`
	Headless Headless `toml:"headless"`
}

type Window struct {
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	Title  string `toml:"title"`
}

type Render struct {
	// Clear is a CSS colour name or #rgb / #rrggbb / #rrggbbaa. Empty keeps
	// the renderer default.
	Clear       string `toml:"clear"`
	PresentMode string `toml:"present_mode"`

	// Linear converts a named or hex clear colour from sRGB to linear
	// before it reaches the render pass, for sRGB swapchain formats.
	Linear bool `toml:"linear"`
}

type Scene struct {
	// Mode is "grid" or "orbit".
	Mode    string  `toml:"mode"`
	Columns int     `toml:"columns"`
	Rows    int     `toml:"rows"`
	Speed   float32 `toml:"speed"`
}

type Headless struct {
	// Frames bounds the run; zero renders until the host closes.
	Frames uint64 `toml:"frames"`

	// Snapshot is written after the last frame. The extension picks the
	// encoding: .png, .jpg, .bmp or .tiff.
	Snapshot string `toml:"snapshot"`
	SPIRV    bool   `toml:"spirv"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window:   Window{Width: 800, Height: 600, Title: "rectloop"},
		Render:   Render{PresentMode: surface.PresentModeFifo.String()},
		Scene:    Scene{Mode: SceneOrbit, Columns: 8, Rows: 6, Speed: 1},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that has a restricted domain.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case "", "window", "headless", "noop":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.PresentMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ClearColor(); err != nil {
		errs = append(errs, err)
	}
	switch c.Scene.Mode {
	case SceneGrid, SceneOrbit:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown scene mode %q", ErrInvalid, c.Scene.Mode))
	}
	if c.Headless.Snapshot != "" {
		if _, err := image.FormatFor(c.Headless.Snapshot); err != nil {
			errs = append(errs, fmt.Errorf("%w: snapshot: %w", ErrInvalid, err))
		}
	}
	if c.Scene.Columns < 0 || c.Scene.Rows < 0 {
		errs = append(errs, fmt.Errorf("%w: negative grid %dx%d", ErrInvalid, c.Scene.Columns, c.Scene.Rows))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// PresentMode parses Render.PresentMode. Empty means fifo.
func (c Config) PresentMode() (surface.PresentMode, error) {
	if c.Render.PresentMode == "" {
		return surface.PresentModeFifo, nil
	}
	m, ok := surface.ParsePresentMode(c.Render.PresentMode)
	if !ok {
		return 0, fmt.Errorf("%w: present mode %q", ErrInvalid, c.Render.PresentMode)
	}
	return m, nil
}

// ClearColor parses Render.Clear into components in [0, 1], linearized
// when Render.Linear is set. The renderer default is never converted.
func (c Config) ClearColor() (gputypes.Color, error) {
	v, err := ParseColor(c.Render.Clear)
	if err != nil || !c.Render.Linear || strings.TrimSpace(c.Render.Clear) == "" {
		return v, err
	}
	return color.Linearize(v), nil
}

// ParseColor accepts a CSS colour name, #rgb, #rrggbb or #rrggbbaa. The
// empty string yields render.DefaultClearColor.
func ParseColor(s string) (gputypes.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return render.DefaultClearColor, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	rgba, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return gputypes.Color{}, fmt.Errorf("%w: colour name %q", ErrInvalid, s)
	}
	return color.FromRGBA(rgba), nil
}

func parseHex(x string) (gputypes.Color, error) {
	bad := fmt.Errorf("%w: hex colour %q", ErrInvalid, "#"+x)
	if n := len(x); n != 3 && n != 6 && n != 8 {
		return gputypes.Color{}, bad
	}
	v, err := strconv.ParseUint(x, 16, 32)
	if err != nil {
		return gputypes.Color{}, bad
	}
	c := stdcolor.RGBA{A: 255}
	switch len(x) {
	case 3:
		nib := func(shift uint) uint8 {
			n := uint8(v>>shift) & 0xf
			return n | n<<4
		}
		c.R, c.G, c.B = nib(8), nib(4), nib(0)
	case 6:
		c.R, c.G, c.B = uint8(v>>16), uint8(v>>8), uint8(v)
	case 8:
		c.R, c.G, c.B, c.A = uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)
	}
	return color.FromRGBA(c), nil
}
