package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luketas/soccer-ai/internal/config"
	"github.com/luketas/soccer-ai/internal/shared/logger"
	"github.com/luketas/soccer-ai/internal/shared/types"
	"github.com/luketas/soccer-ai/internal/simulation"
	"github.com/luketas/soccer-ai/internal/telemetry"
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

type server struct {
	log      logger.Logger
	world    *simulation.World
	store    *telemetry.Store
	settings config.Settings
	upgrader websocket.Upgrader

	mu         sync.RWMutex
	clients    map[string]*client
	controller string
}

func main() {
	flags := pflag.NewFlagSet("matchserver", pflag.ExitOnError)
	cfgPath := flags.String("config", "", "path to a json, yaml or toml config file")
	flags.String("server.addr", ":9003", "listen address")
	flags.String("difficulty", "medium", "opponent difficulty: easy|medium|hard")
	flags.Bool("humanControl", true, "let the first websocket client steer the self team")
	flags.Uint64("seed", 1, "random seed")
	_ = flags.Parse(os.Args[1:])

	log := logger.New("matchserver")
	if err := config.Load(*cfgPath); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	viper.SetDefault("humanControl", true)
	if err := viper.BindPFlags(flags); err != nil {
		log.Fatal().Err(err).Msg("binding flags")
	}
	settings := config.Current(log)
	if !logger.SetLevel(settings.LogLevel) {
		log.Warn().Str("level", settings.LogLevel).Msg("unknown log level, using info")
	}
	params, err := config.Tuning()
	if err != nil {
		log.Fatal().Err(err).Msg("tuning")
	}

	matchID := uuid.NewString()
	store := telemetry.NewStore(telemetry.DefaultCapacity)
	world := simulation.NewWorld(matchID, settings.MatchDuration, simulation.Config{
		Params:             params,
		SelfDifficulty:     settings.TeamDifficulty,
		OpponentDifficulty: settings.Difficulty,
		HumanControl:       settings.HumanControl,
		Seed:               settings.Seed,
		MaxFrameDelta:      settings.MaxFrameDelta,
		Celebration:        settings.Celebration,
	}, log, simulation.WithSink(telemetry.MatchSink{MatchID: matchID, Store: store, Log: log}))

	s := &server{
		log:      log,
		world:    world,
		store:    store,
		settings: settings,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[string]*client),
	}

	go s.runSimulationLoop()
	go s.runReplicationLoop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/metrics", s.handleMetrics)

	httpServer := &http.Server{
		Addr:              settings.ServerAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().
		Str("addr", settings.ServerAddr).
		Str("match", matchID).
		Stringer("difficulty", settings.Difficulty).
		Msg("match server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"finished": s.world.Finished(),
	})
}

func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
		return
	}
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_limit"})
			return
		}
		limit = n
	}
	recent := s.store.Recent(limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(recent),
		"events": recent,
	})
}

func (s *server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	if err := s.store.WriteMetrics(w); err != nil {
		s.log.Warn().Err(err).Msg("writing metrics")
	}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, 64)}
	controls := s.register(c)

	s.log.Info().Str("client", c.id).Bool("controls", controls).Str("remote", r.RemoteAddr).Msg("client connected")
	msg := "spectating"
	if controls {
		msg = "controlling"
	}
	state := s.world.Snapshot()
	s.enqueue(c, types.ServerEnvelope{
		Type:     "welcome",
		State:    &state,
		ServerMS: time.Now().UTC().UnixMilli(),
		Message:  msg,
	})

	go s.writePump(c)
	s.readPump(c)
}

func (s *server) readPump(c *client) {
	defer func() {
		s.unregister(c.id)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Info().Str("client", c.id).Msg("client disconnected")
				return
			}
			s.log.Warn().Err(err).Str("client", c.id).Msg("read error")
			return
		}

		var in types.ClientEnvelope
		if err := json.Unmarshal(msg, &in); err != nil {
			s.enqueue(c, types.ServerEnvelope{Type: "error", Message: "bad_payload"})
			continue
		}

		switch in.Type {
		case "input":
			if in.Input == nil {
				s.enqueue(c, types.ServerEnvelope{Type: "error", Message: "missing_input"})
				continue
			}
			if !s.isController(c.id) {
				s.enqueue(c, types.ServerEnvelope{Type: "error", Message: "spectator"})
				continue
			}
			s.world.ApplyInput(*in.Input)
			s.enqueue(c, types.ServerEnvelope{Type: "ack", AckSeq: in.Input.Sequence})
		case "ping":
			s.enqueue(c, types.ServerEnvelope{Type: "pong", ServerMS: time.Now().UTC().UnixMilli()})
		default:
			s.enqueue(c, types.ServerEnvelope{Type: "error", Message: "unsupported_message_type"})
		}
	}
}

func (s *server) writePump(c *client) {
	ticker := time.NewTicker(20 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				return
			}
		}
	}
}

// register adds c and reports whether it took the controller seat.
func (s *server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.id] = c
	if s.controller == "" && s.settings.HumanControl {
		s.controller = c.id
		return true
	}
	return false
}

func (s *server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[id]; ok {
		close(c.send)
		delete(s.clients, id)
	}
	if s.controller != id {
		return
	}
	s.controller = ""
	s.world.ApplyInput(types.HumanInput{})
	for next := range s.clients {
		s.controller = next
		break
	}
}

func (s *server) isController(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controller == id
}

func (s *server) enqueue(c *client, env types.ServerEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		s.log.Error().Err(err).Str("type", env.Type).Msg("marshal envelope failed")
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (s *server) runSimulationLoop() {
	rate := s.settings.TickRate
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	dt := 1.0 / float64(rate)

	for range ticker.C {
		s.world.Tick(dt)
		if s.world.Finished() {
			s.log.Info().Msg("match finished, simulation loop stopped")
			return
		}
	}
}

func (s *server) runReplicationLoop() {
	ticker := time.NewTicker(time.Second / time.Duration(s.settings.BroadcastRate))
	defer ticker.Stop()

	for range ticker.C {
		state := s.world.Snapshot()
		payload, err := json.Marshal(types.ServerEnvelope{
			Type:     "state",
			Tick:     state.Tick,
			State:    &state,
			ServerMS: time.Now().UTC().UnixMilli(),
		})
		if err != nil {
			s.log.Error().Err(err).Msg("marshal state failed")
			continue
		}

		s.mu.RLock()
		for _, c := range s.clients {
			select {
			case c.send <- payload:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "encode response:", err)
	}
}
