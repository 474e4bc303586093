package internal

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/kwkoo/go-quizlive/internal/common"
	"github.com/kwkoo/go-quizlive/internal/messaging"
)

// ServeHostWS attaches the host connection for a session. The host owns the
// session's event bus: the bus is created here and the game can only start
// from here.
func (h *Hub) ServeHostWS(w http.ResponseWriter, r *http.Request) {
	joinCode := strings.ToUpper(mux.Vars(r)["join_code"])
	session := h.registry.GetSession(joinCode)
	if session == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("could not upgrade host connection for %s: %v", joinCode, err)
		return
	}

	hostID := uuid.NewString()
	session.Lock()
	session.HostID = hostID
	resuming := session.Status == common.StatusPaused
	if resuming {
		session.Status = common.StatusActive
	}
	session.Unlock()

	bus := h.buses.Ensure(joinCode)
	sub := bus.Subscribe()

	if resuming {
		log.Printf("session %s: host reconnected, resuming", joinCode)
		bus.Broadcast(common.MustEvent("game_resumed", common.GameResumed{Reason: "host_reconnected"}))
	}

	go runWritePump(conn, sub, func(event messaging.GameEvent) bool {
		return event.Scope != messaging.ScopePlayerOnly
	})

	h.hostReadLoop(conn, session, bus)

	bus.Unsubscribe(sub)
	h.hostDetached(session, bus, joinCode)
}

func (h *Hub) hostReadLoop(conn *websocket.Conn, session *common.GameSession, bus *messaging.Bus) {
	configureReader(conn)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd ClientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}

		switch cmd.Type {
		case "start_game":
			session.Lock()
			canStart := session.Status == common.StatusLobby && session.TotalPlayerCount() > 0
			session.Unlock()
			if canStart {
				go NewEngine(session, bus).Start()
			}
		case "set_scoring_rule":
			var payload SetScoringRulePayload
			if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
				continue
			}
			rule, ok := common.ParseScoringRule(payload.Rule)
			if !ok {
				continue
			}
			session.Lock()
			inLobby := session.Status == common.StatusLobby
			if inLobby {
				session.Rule = rule
			}
			session.Unlock()
			if inLobby {
				bus.Broadcast(common.MustEvent("scoring_rule_set", common.ScoringRuleSet{Rule: rule}))
			}
		case "end_game":
			session.Lock()
			session.Status = common.StatusFinished
			session.Unlock()
			return
		}
	}
}

// hostDetached pauses an active game and arms the reconnection window. If
// the host never returns the session is terminated and torn down; a host
// leaving a non-active session tears it down right away.
func (h *Hub) hostDetached(session *common.GameSession, bus *messaging.Bus, joinCode string) {
	session.Lock()
	wasActive := session.Status == common.StatusActive
	if wasActive {
		session.Status = common.StatusPaused
	}
	session.Unlock()

	if !wasActive {
		h.buses.Remove(joinCode)
		session.RLock()
		finished := session.Status == common.StatusFinished
		session.RUnlock()
		if finished {
			h.registry.RemoveSession(joinCode)
		}
		return
	}

	log.Printf("session %s: host disconnected, game paused", joinCode)
	bus.Broadcast(common.MustEvent("game_paused", common.GamePaused{Reason: "host_disconnected"}))

	time.AfterFunc(h.reconnectWindow(), func() {
		session.Lock()
		if session.Status != common.StatusPaused {
			session.Unlock()
			return
		}
		session.Status = common.StatusFinished
		leaderboard := common.ComputeLeaderboard(session.PlayersSlice(), true)
		total := session.TotalQuestions()
		session.Unlock()

		log.Printf("session %s: host never returned, terminating", joinCode)
		bus.Broadcast(common.MustEvent("game_terminated", common.GameTerminated{
			Reason:         "host_timeout",
			Leaderboard:    leaderboard,
			TotalQuestions: total,
		}))
		h.buses.Remove(joinCode)
		h.registry.RemoveSession(joinCode)
	})
}
