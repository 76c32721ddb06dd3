package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-surface-raycaster/pkg/core"
	"github.com/df07/go-surface-raycaster/pkg/game"
	"github.com/df07/go-surface-raycaster/pkg/loaders"
	"github.com/df07/go-surface-raycaster/pkg/scene"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// frameDelta is the simulated time between frames in seconds
const frameDelta = 1.0 / 60

func main() {
	// Parse command line flags
	sceneName := flag.String("scene", "bedroom", "Scene ID in the scenes directory, or a path to a .yaml scene file")
	scenesDir := flag.String("scenes", "scenes", "Directory of scene files")
	width := flag.Int("width", 0, "Output width (0 uses the scene's setting)")
	height := flag.Int("height", 0, "Output height (0 uses the scene's setting)")
	step := flag.Int("step", 0, "Block size of one ray (0 uses the scene's setting)")
	workers := flag.Int("workers", 0, "Render goroutines (0 uses the scene's setting)")
	frames := flag.Int("frames", 1, "Number of frames to render")
	outDir := flag.String("out", "output", "Output directory")
	debug := flag.Bool("debug", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		printHelp(os.Stdout, *scenesDir, *outDir)
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	path, err := resolveScene(*scenesDir, *sceneName)
	if err != nil {
		log.Error().Err(err).Msg("Error finding scene")
		os.Exit(1)
	}

	cfg := game.SessionConfig{Width: *width, Height: *height, Step: *step, Workers: *workers}
	outputDir := filepath.Join(*outDir, sceneID(path))

	startTime := time.Now()
	written, err := renderFrames(path, cfg, *frames, outputDir, core.NewZerologLogger(log.Logger))
	if err != nil {
		log.Error().Err(err).Msg("Error rendering")
		os.Exit(1)
	}

	log.Info().Int("frames", len(written)).Dur("duration", time.Since(startTime)).Msg("Render completed")
	for _, filename := range written {
		fmt.Printf("Frame saved as %s\n", filename)
	}
}

// printHelp writes usage, the scenes found in scenesDir and where frames go
func printHelp(w io.Writer, scenesDir, outDir string) {
	fmt.Fprintln(w, "Surface Raycaster")
	fmt.Fprintln(w, "Usage: raycaster [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	scenes, _ := scene.ListScenes(scenesDir)
	for _, s := range scenes {
		fmt.Fprintf(w, "  %-16s %s\n", s.ID, s.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Output will be saved to %s\n", filepath.Join(outDir, "<scene>", "frame_<n>_<timestamp>.png"))
}

// resolveScene returns the scene file for name: a path to a .yaml or .yml
// file, or a scene ID in scenesDir
func resolveScene(scenesDir, name string) (string, error) {
	if name == "" {
		return "", errors.New("scene name is empty")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("scene file not found: %s", name)
		}
		return name, nil
	}

	info, err := scene.FindScene(scenesDir, name)
	if err != nil {
		return "", err
	}
	return info.FilePath, nil
}

// sceneID names the output directory of a scene file
func sceneID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// renderFrames runs a session with no input for the given number of frames
// and saves each one as PNG in outputDir
func renderFrames(path string, cfg game.SessionConfig, frames int, outputDir string, logger core.Logger) ([]string, error) {
	if frames < 1 {
		return nil, fmt.Errorf("%w: frames must be at least 1, got %d", core.ErrInvalidArgument, frames)
	}

	session, err := game.LoadSession(path, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	// Create output directory for this scene
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	var written []string
	for i := 0; i < frames; i++ {
		frame, err := session.Tick(game.Input{}, frameDelta, 0)
		if err != nil {
			return written, err
		}
		log.Debug().
			Uint64("frame", frame.Number).
			Int("rays", frame.Stats.RaysCast).
			Int("pixels", frame.Stats.PixelsWritten).
			Dur("duration", frame.Stats.Duration).
			Msg("frame rendered")

		filename := filepath.Join(outputDir, fmt.Sprintf("frame_%d_%s.png", frame.Number, timestamp))
		if err := loaders.SavePNG(filename, frame.Image); err != nil {
			return written, err
		}
		written = append(written, filename)
	}
	return written, nil
}
