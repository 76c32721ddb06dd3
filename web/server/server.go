package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/game"
	"github.com/df07/go-surface-raycaster/pkg/scene"
	"github.com/rs/zerolog/log"
)

// Parameter limits shared by the frame and stream endpoints
const (
	maxDimension = 2000
	maxStep      = 64
	maxWorkers   = 64
)

// Server serves rendered frames of the scenes in a directory
type Server struct {
	port      int
	scenesDir string
	staticDir string
}

// NewServer creates a new web server for the scene files in scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		staticDir: "static/",
	}
}

// SetStaticDir changes the directory served at /
func (s *Server) SetStaticDir(dir string) {
	s.staticDir = dir
}

// FrameRequest holds the parameters of a single frame render
type FrameRequest struct {
	Scene   string
	Width   int
	Height  int
	Step    int
	Workers int
	Frame   int

	// Camera overrides; nil keeps the scene's player pose
	X, Y, Z      *float64
	Yaw, Pitch   *float64
	FOV          *float64
	ViewDistance *float64
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/frame", s.handleFrame)
	mux.HandleFunc("/ws", s.handleStream)

	return withCORS(mux)
}

// Start starts the web server
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Info().Str("addr", srv.Addr).Str("scenes", s.scenesDir).Msg("HTTP server starting")
	return srv.ListenAndServe()
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the scene files grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleFrame renders one frame of a scene as PNG
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	req, err := parseFrameRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	session, err := s.openSession(req.Scene, game.SessionConfig{
		Width:   req.Width,
		Height:  req.Height,
		Step:    req.Step,
		Workers: req.Workers,
	}, core.NopLogger())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	defer session.Close()

	applyCamera(session.Player(), req)
	session.SetFrame(uint64(req.Frame))

	frame, err := session.Tick(game.Input{}, 0, 0)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	log.Debug().
		Str("scene", req.Scene).
		Int("width", frame.Image.Rect.Dx()).
		Int("height", frame.Image.Rect.Dy()).
		Int("rays", frame.Stats.RaysCast).
		Dur("duration", frame.Stats.Duration).
		Msg("frame rendered")

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Rays-Cast", strconv.Itoa(frame.Stats.RaysCast))
	w.Header().Set("X-Pixels-Written", strconv.Itoa(frame.Stats.PixelsWritten))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// errSceneNotFound marks lookups of unknown scene IDs
var errSceneNotFound = errors.New("scene not found")

// openSession loads the scene with the given ID
func (s *Server) openSession(id string, cfg game.SessionConfig, logger core.Logger) (*game.Session, error) {
	info, err := scene.FindScene(s.scenesDir, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errSceneNotFound, err)
	}
	return game.LoadSession(info.FilePath, cfg, logger)
}

// applyCamera overrides the player's pose with the request's camera values
func applyCamera(p *game.Player, req *FrameRequest) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Position.X, req.X)
	set(&p.Position.Y, req.Y)
	set(&p.Position.Z, req.Z)
	set(&p.Yaw, req.Yaw)
	set(&p.Pitch, req.Pitch)
	set(&p.FOV, req.FOV)
	set(&p.ViewDistance, req.ViewDistance)
	p.Look(0, 0)
}

// parseFrameRequest parses and validates frame parameters
func parseFrameRequest(values url.Values) (*FrameRequest, error) {
	req := &FrameRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "bedroom" // Default scene
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 320, 1, maxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 180, 1, maxDimension); err != nil {
		return nil, err
	}
	if req.Step, err = parseIntParam(values, "step", 1, 1, maxStep); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 1, 1, maxWorkers); err != nil {
		return nil, err
	}
	if req.Frame, err = parseIntParam(values, "frame", 1, 1, 1_000_000); err != nil {
		return nil, err
	}

	floats := []struct {
		key      string
		dst      **float64
		min, max float64
	}{
		{"x", &req.X, -1e6, 1e6},
		{"y", &req.Y, -1e6, 1e6},
		{"z", &req.Z, -1e6, 1e6},
		{"yaw", &req.Yaw, -360, 360},
		{"pitch", &req.Pitch, -game.MaxPitch, game.MaxPitch},
		{"fov", &req.FOV, 1, 179},
		{"viewDistance", &req.ViewDistance, 0.01, 1e6},
	}
	for _, f := range floats {
		if values.Get(f.key) == "" {
			continue
		}
		v, err := parseFloatParam(values, f.key, 0, f.min, f.max)
		if err != nil {
			return nil, err
		}
		*f.dst = &v
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeSessionError maps session failures to HTTP statuses
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errSceneNotFound), errors.Is(err, os.ErrNotExist):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("session failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// encodePNG encodes img for a websocket frame
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
