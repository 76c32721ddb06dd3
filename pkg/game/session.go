package game

import (
	"fmt"
	"image"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/loaders"
	"github.com/df07/go-surface-raycaster/pkg/renderer"
	"github.com/df07/go-surface-raycaster/pkg/scene"
)

// SessionConfig holds display and render settings
type SessionConfig struct {
	Width   int // Display width
	Height  int // Display height
	Step    int // Block size of one ray
	Workers int // Render goroutines; 1 renders on the calling goroutine

	// Governor adapts the render scale to the frame rate. Nil renders at
	// display size.
	Governor *Governor
}

// DefaultSessionConfig returns a 320x180 display rendered at full scale,
// one ray per pixel
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Width:   320,
		Height:  180,
		Step:    1,
		Workers: 1,
	}
}

// withScene fills settings left at zero from the scene file, then from the
// defaults
func (c SessionConfig) withScene(r loaders.RenderSpec) SessionConfig {
	def := DefaultSessionConfig()
	pick := func(v, fromScene, fallback int) int {
		switch {
		case v > 0:
			return v
		case fromScene > 0:
			return fromScene
		}
		return fallback
	}
	c.Width = pick(c.Width, r.Width, def.Width)
	c.Height = pick(c.Height, r.Height, def.Height)
	c.Step = pick(c.Step, r.Step, def.Step)
	c.Workers = pick(c.Workers, r.Workers, def.Workers)
	return c
}

// Frame is the result of one tick
type Frame struct {
	Number  uint64               // 1 for the first frame
	Image   *image.RGBA          // Display image; reused by the next tick
	Scale   float64              // Render scale used
	Dynamic int                  // Dynamic surfaces registered for the frame
	Stats   renderer.RenderStats // Statistics of the render pass
}

// Session runs the frame loop of one player in one room
type Session struct {
	room     *Room
	player   *Player
	renderer *renderer.FrameRenderer
	config   SessionConfig
	scene    *loaders.SceneFile
	logger   core.Logger

	frame   uint64
	surface *image.RGBA
	display *image.RGBA
}

// NewSession creates a session rendering room from the player's eyes
func NewSession(room *Room, player *Player, config SessionConfig, logger core.Logger) (*Session, error) {
	if config.Width < 1 || config.Height < 1 {
		return nil, fmt.Errorf("%w: display size must be positive, got %dx%d", core.ErrInvalidArgument, config.Width, config.Height)
	}
	if config.Step < 1 {
		return nil, fmt.Errorf("%w: step must be at least 1, got %d", core.ErrInvalidArgument, config.Step)
	}

	logger = core.OrNop(logger)
	fr := renderer.NewFrameRenderer(room.Registry(), logger)
	if config.Workers != 1 {
		fr.SetWorkers(config.Workers)
	}

	return &Session{
		room:     room,
		player:   player,
		renderer: fr,
		config:   config,
		logger:   logger,
		display:  image.NewRGBA(image.Rect(0, 0, config.Width, config.Height)),
	}, nil
}

// LoadSession opens a scene file and places a new player in it. Zero
// settings in config are taken from the scene's render section. The
// scene's fov and view distance override the player's.
func LoadSession(filename string, config SessionConfig, logger core.Logger) (*Session, error) {
	sf, err := loaders.LoadScene(filename)
	if err != nil {
		return nil, err
	}

	room, err := LoadRoom(sf, scene.NewRegistry(logger), logger)
	if err != nil {
		return nil, err
	}

	player := NewPlayer()
	player.Apply(sf.Player)
	if sf.Render.FOV > 0 {
		player.FOV = sf.Render.FOV
	}
	if sf.Render.ViewDistance > 0 {
		player.ViewDistance = sf.Render.ViewDistance
	}

	s, err := NewSession(room, player, config.withScene(sf.Render), logger)
	if err != nil {
		room.Close()
		return nil, err
	}
	s.scene = sf
	return s, nil
}

// Tick runs one frame: adapt the render scale to fps, clear the render
// surface, place the dynamic surfaces, render, move the player with in
// and stretch the render surface over the display.
// delta is the time since the previous frame in seconds.
func (s *Session) Tick(in Input, delta, fps float64) (Frame, error) {
	s.frame++
	frame := Frame{Number: s.frame, Scale: 1}

	w, h := s.config.Width, s.config.Height
	if s.config.Governor != nil {
		frame.Scale = s.config.Governor.Adjust(fps)
		w, h = s.config.Governor.Size(w, h)
	}

	if s.surface == nil || s.surface.Rect.Dx() != w || s.surface.Rect.Dy() != h {
		s.surface = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	Clear(s.surface)

	dynamic, err := s.room.PrepareFrame(s.frame)
	if err != nil {
		s.room.Registry().Sweep()
		return frame, err
	}
	frame.Dynamic = dynamic

	stats, err := s.renderer.Render(s.surface, s.player.Camera(), s.config.Step)
	if err != nil {
		s.room.Registry().Sweep()
		return frame, fmt.Errorf("failed to render frame %d: %w", s.frame, err)
	}
	frame.Stats = stats

	s.player.Move(in, delta, s.room.Collisions())

	Upscale(s.display, s.surface)
	frame.Image = s.display
	return frame, nil
}

// SetFrame makes the next Tick render frame n. Values below 1 restart at 1.
func (s *Session) SetFrame(n uint64) {
	if n > 0 {
		n--
	}
	s.frame = n
}

// FrameNumber returns the number of the last rendered frame
func (s *Session) FrameNumber() uint64 {
	return s.frame
}

// Player returns the session's player
func (s *Session) Player() *Player {
	return s.player
}

// Room returns the session's room
func (s *Session) Room() *Room {
	return s.room
}

// Scene returns the scene file the session was loaded from, if any
func (s *Session) Scene() *loaders.SceneFile {
	return s.scene
}

// Config returns the session settings
func (s *Session) Config() SessionConfig {
	return s.config
}

// Close releases the room's surfaces
func (s *Session) Close() {
	s.room.Close()
}
