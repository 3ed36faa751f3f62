package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pefman/spell-duel/internal/models"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type subscriber struct {
	id   string
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) send(m models.WsMsg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(m)
}

// Hub pushes duel state to every connected /ws client. Clients only listen;
// anything they send is read and dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
	log  *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{subs: map[*subscriber]struct{}{}, log: log}
}

// ServeWS upgrades the request and sends the subscriber its id followed by
// the current state. The subscriber is registered before ServeWS returns.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, current models.Outcome) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws: upgrade failed", zap.Error(err))
		return
	}
	sub := &subscriber{id: uuid.NewString(), conn: conn}
	h.log.Info("ws: connect", zap.String("id", sub.id), zap.String("from", r.RemoteAddr))
	if err := sub.send(models.WsMsg{Type: "you", Data: map[string]string{"id": sub.id}}); err != nil {
		h.drop(sub, err)
		return
	}
	if err := sub.send(models.WsMsg{Type: "state", Data: current}); err != nil {
		h.drop(sub, err)
		return
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	go h.drain(sub)
}

func (h *Hub) drain(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.drop(sub, err)
			return
		}
	}
}

func (h *Hub) drop(sub *subscriber, err error) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	_ = sub.conn.Close()
	if ok {
		h.log.Info("ws: closed", zap.String("id", sub.id), zap.Error(err))
	}
}

// Broadcast sends o to every subscriber, dropping the ones that fail.
func (h *Hub) Broadcast(o models.Outcome) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()
	msg := models.WsMsg{Type: "state", Data: o}
	for _, s := range subs {
		if err := s.send(msg); err != nil {
			h.log.Warn("ws: write error", zap.String("id", s.id), zap.Error(err))
			h.drop(s, err)
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
