package internal

import (
	"log"
	"time"

	"github.com/kwkoo/go-quizlive/internal/common"
	"github.com/kwkoo/go-quizlive/internal/config"
	"github.com/kwkoo/go-quizlive/internal/messaging"
	"github.com/kwkoo/go-quizlive/internal/shutdown"
)

const reaperInterval = 60

// Hub ties the session registry, the per-session event buses and the
// configuration together. The REST API and the WebSocket handlers both hang
// off it.
type Hub struct {
	registry *SessionRegistry
	buses    *messaging.BusRegistry
	cfg      *config.Config
}

func NewHub(cfg *config.Config) *Hub {
	return &Hub{
		registry: NewSessionRegistry(cfg.MaxSessions),
		buses:    messaging.NewBusRegistry(),
		cfg:      cfg,
	}
}

func (h *Hub) StoreQuiz(id string, quiz common.Quiz) {
	h.registry.StoreQuiz(id, quiz)
}

func (h *Hub) GetQuiz(id string) (common.Quiz, bool) {
	return h.registry.GetQuiz(id)
}

func (h *Hub) CreateSession(quiz common.Quiz) (*common.GameSession, error) {
	return h.registry.CreateSession(quiz)
}

func (h *Hub) GetSession(joinCode string) *common.GameSession {
	return h.registry.GetSession(joinCode)
}

func (h *Hub) DefaultTimeLimit() int {
	return h.cfg.QuestionTimeSec
}

func (h *Hub) MaxPlayers() int {
	return h.cfg.MaxPlayers
}

func (h *Hub) reconnectWindow() time.Duration {
	return time.Duration(h.cfg.ReconnectTimeout) * time.Second
}

// RunReaper periodically sweeps finished sessions whose host never came
// back to detach, evicting session and bus both. Runs until shutdown.
func (h *Hub) RunReaper() {
	shutdownChan := shutdown.GetShutdownChan()
	timeout := time.After(reaperInterval * time.Second)
	for {
		select {
		case <-shutdownChan:
			log.Printf("shutting down session reaper")
			shutdown.NotifyShutdownComplete()
			return
		case <-timeout:
			h.reapFinishedSessions()
			timeout = time.After(reaperInterval * time.Second)
		}
	}
}

func (h *Hub) reapFinishedSessions() {
	for _, code := range h.registry.FinishedSessions() {
		log.Printf("reaping finished session %s", code)
		h.buses.Remove(code)
		h.registry.RemoveSession(code)
	}
}
