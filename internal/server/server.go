package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pefman/spell-duel/internal/game"
	"github.com/pefman/spell-duel/internal/models"
	"github.com/pefman/spell-duel/internal/stats"
)

const maxBody = 4096

// Options tunes the HTTP surface.
type Options struct {
	AllowedOrigin string
	StaticDir     string
	Version       string
	BuildTime     string
}

// Server exposes one duel session over HTTP.
type Server struct {
	// pubMu orders resolve-and-broadcast and ws registration so that the
	// last frame a subscriber sees is the current state.
	pubMu sync.Mutex

	session *game.Session
	tracker *stats.Tracker
	hub     *Hub
	log     *zap.Logger
	opts    Options
}

func New(session *game.Session, tracker *stats.Tracker, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}
	return &Server{session: session, tracker: tracker, hub: NewHub(log), log: log, opts: opts}
}

// Handler returns the routed handler wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/spell", s.handleSpell).Methods(http.MethodPost)
	r.HandleFunc("/api/enemy_turn", s.handleEnemyTurn).Methods(http.MethodPost)
	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/max-attack/today", s.handleMaxAttackToday).Methods(http.MethodGet)

	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"version": s.opts.Version, "build_time": s.opts.BuildTime})
	}).Methods(http.MethodGet)
	if s.opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.opts.StaticDir)))
	}
	return withRequestLog(s.log, withCORS(s.opts.AllowedOrigin, r))
}

// Hub exposes the state push hub.
func (s *Server) Hub() *Hub { return s.hub }

// GET /api/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.session.State())
}

// POST /api/spell
// Body: { "spell": "<name>" }. A missing key or empty body casts nothing.
func (s *Server) handleSpell(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	var req models.SpellRequest
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
	}
	writeJSON(w, s.publish(func() game.Result { return s.session.ApplyPlayerAction(req.Spell) }))
}

// POST /api/enemy_turn
func (s *Server) handleEnemyTurn(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.publish(s.session.ApplyEnemyAction))
}

// publish runs resolve, records the event and pushes the outcome to
// subscribers in the order the session applied it.
func (s *Server) publish(resolve func() game.Result) models.Outcome {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	res := resolve()
	s.tracker.Record(res.Event)
	if !res.Event.Rejected {
		s.hub.Broadcast(res.Outcome)
	}
	return res.Outcome
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.tracker.Summary())
}

// GET /api/stats/max-attack/today
func (s *Server) handleMaxAttackToday(w http.ResponseWriter, r *http.Request) {
	m, ok := s.tracker.MaxAttackToday()
	if !ok {
		writeJSON(w, map[string]any{})
		return
	}
	writeJSON(w, m)
}

// GET /ws
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	st := s.session.State()
	s.hub.ServeWS(w, r, models.Outcome{Player: st.Player, Enemy: st.Enemy, Turn: st.Turn})
}
