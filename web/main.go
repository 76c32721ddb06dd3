package main

import (
	"flag"
	"os"
	"time"

	"github.com/df07/go-surface-raycaster/web/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of scene files")
	staticDir := flag.String("static", "static/", "Directory of static web files")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Create and start web server
	webServer := server.NewServer(*port, *scenesDir)
	webServer.SetStaticDir(*staticDir)

	log.Info().Msg("Surface Raycaster Web Server")
	log.Info().Msgf("Visit http://localhost:%d to start walking", *port)

	if err := webServer.Start(); err != nil {
		log.Error().Err(err).Msg("Error starting server")
		os.Exit(1)
	}
}
