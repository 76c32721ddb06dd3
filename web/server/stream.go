package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/df07/go-surface-raycaster/pkg/game"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// maxDelta caps the movement time of one frame, in seconds
const maxDelta = 0.25

var sessionCounter atomic.Uint64

// InputMessage is sent by the client to request the next frame
type InputMessage struct {
	Input game.Input `json:"input"`
	Delta float64    `json:"delta"` // Seconds since the previous frame
	FPS   float64    `json:"fps"`   // Frame rate measured by the client
}

// FrameStats describes a frame sent over the stream
type FrameStats struct {
	Frame         uint64  `json:"frame"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Scale         float64 `json:"scale"`
	Dynamic       int     `json:"dynamic"`
	RaysCast      int     `json:"raysCast"`
	PixelsWritten int     `json:"pixelsWritten"`
	DurationMs    float64 `json:"durationMs"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Z             float64 `json:"z"`
	Yaw           float64 `json:"yaw"`
	Pitch         float64 `json:"pitch"`
}

// StreamMessage is a text message sent to the client
type StreamMessage struct {
	Type    string          `json:"type"` // "stats", "console", "error"
	Stats   *FrameStats     `json:"stats,omitempty"`
	Console *ConsoleMessage `json:"console,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// handleStream runs an interactive session over a websocket. Every input
// message renders one frame, answered with a binary PNG followed by a stats
// message.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	sceneID := values.Get("scene")
	if sceneID == "" {
		sceneID = "bedroom"
	}
	cfg, adaptive, err := parseStreamConfig(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := fmt.Sprintf("session-%d", sessionCounter.Add(1))
	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewWebLogger(sessionID, consoleChan)

	if adaptive {
		cfg.Governor = game.NewGovernor(game.DefaultScale)
	}
	session, err := s.openSession(sceneID, cfg, logger)
	if err != nil {
		sendMessage(conn, StreamMessage{Type: "error", Error: err.Error()})
		return
	}
	defer session.Close()
	log.Info().Str("session", sessionID).Str("scene", sceneID).Msg("stream opened")

	if err := flushConsole(conn, consoleChan); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info().Str("session", sessionID).Uint64("frames", session.FrameNumber()).Msg("stream closed")
			return
		}

		var msg InputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if sendMessage(conn, StreamMessage{Type: "error", Error: fmt.Sprintf("invalid input: %v", err)}) != nil {
				return
			}
			continue
		}

		delta := msg.Delta
		if delta < 0 {
			delta = 0
		} else if delta > maxDelta {
			delta = maxDelta
		}

		frame, err := session.Tick(msg.Input, delta, msg.FPS)
		if err != nil {
			sendMessage(conn, StreamMessage{Type: "error", Error: err.Error()})
			return
		}

		png, err := encodePNG(frame.Image)
		if err != nil {
			sendMessage(conn, StreamMessage{Type: "error", Error: err.Error()})
			return
		}
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.BinaryMessage, png); err != nil {
			log.Debug().Err(err).Msg("frame write failed")
			return
		}

		p := session.Player()
		stats := &FrameStats{
			Frame:         frame.Number,
			Width:         frame.Stats.Width,
			Height:        frame.Stats.Height,
			Scale:         frame.Scale,
			Dynamic:       frame.Dynamic,
			RaysCast:      frame.Stats.RaysCast,
			PixelsWritten: frame.Stats.PixelsWritten,
			DurationMs:    float64(frame.Stats.Duration) / float64(time.Millisecond),
			X:             p.Position.X,
			Y:             p.Position.Y,
			Z:             p.Position.Z,
			Yaw:           p.Yaw,
			Pitch:         p.Pitch,
		}
		if err := sendMessage(conn, StreamMessage{Type: "stats", Stats: stats}); err != nil {
			return
		}
		if err := flushConsole(conn, consoleChan); err != nil {
			return
		}
	}
}

// parseStreamConfig reads the session settings of a stream request
func parseStreamConfig(values url.Values) (game.SessionConfig, bool, error) {
	var cfg game.SessionConfig
	var err error
	if cfg.Width, err = parseIntParam(values, "width", 320, 1, maxDimension); err != nil {
		return cfg, false, err
	}
	if cfg.Height, err = parseIntParam(values, "height", 180, 1, maxDimension); err != nil {
		return cfg, false, err
	}
	if cfg.Step, err = parseIntParam(values, "step", 1, 1, maxStep); err != nil {
		return cfg, false, err
	}
	if cfg.Workers, err = parseIntParam(values, "workers", 1, 1, maxWorkers); err != nil {
		return cfg, false, err
	}
	adaptive, err := parseBoolParam(values, "adaptive", false)
	if err != nil {
		return cfg, false, err
	}
	return cfg, adaptive, nil
}

// flushConsole forwards queued log lines without blocking
func flushConsole(conn *websocket.Conn, consoleChan <-chan ConsoleMessage) error {
	for {
		select {
		case msg := <-consoleChan:
			if err := sendMessage(conn, StreamMessage{Type: "console", Console: &msg}); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func sendMessage(conn *websocket.Conn, msg StreamMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Debug().Err(err).Msg("stream write failed")
		return err
	}
	return nil
}
