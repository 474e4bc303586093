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

const (
	busWaitAttempts = 50
	busWaitInterval = 100 * time.Millisecond
)

// ServePlayerWS attaches a player connection. Players identify themselves
// with the name query parameter; a disconnected player returning with the
// same name inside the reprieve window picks up their old seat.
func (h *Hub) ServePlayerWS(w http.ResponseWriter, r *http.Request) {
	joinCode := strings.ToUpper(mux.Vars(r)["join_code"])
	session := h.registry.GetSession(joinCode)
	if session == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("could not upgrade player connection for %s: %v", joinCode, err)
		return
	}

	// The host creates the bus; give it a moment if it hasn't attached yet.
	var bus *messaging.Bus
	for attempt := 0; attempt < busWaitAttempts; attempt++ {
		if bus = h.buses.Get(joinCode); bus != nil {
			break
		}
		time.Sleep(busWaitInterval)
	}
	if bus == nil {
		conn.Close()
		return
	}

	requestedName := r.URL.Query().Get("name")
	if requestedName == "" {
		requestedName = "Player"
	}
	avatar := r.URL.Query().Get("avatar")

	// Subscribe before touching the session so the player sees their own
	// join or reconnect event.
	sub := bus.Subscribe()

	var playerID, displayName string
	session.Lock()
	if player := session.FindReconnectable(requestedName, h.reconnectWindow()); player != nil {
		player.Status = common.Connected
		player.DisconnectedAt = time.Time{}
		playerID = player.ID
		displayName = player.DisplayName
		count := session.ConnectedPlayerCount()
		session.Unlock()

		log.Printf("session %s: player %s reconnected", joinCode, displayName)
		bus.Broadcast(common.MustEvent("player_reconnected", common.PlayerReconnected{
			PlayerID:    playerID,
			DisplayName: displayName,
			PlayerCount: count,
		}))
	} else {
		if !session.IsJoinable() || session.ConnectedPlayerCount() >= h.MaxPlayers() {
			session.Unlock()
			bus.Unsubscribe(sub)
			conn.Close()
			return
		}
		displayName = session.UniqueDisplayName(requestedName)
		playerID = uuid.NewString()
		player := common.NewPlayer(playerID, displayName, avatar)
		session.Players[playerID] = player
		avatar = player.Avatar
		count := session.ConnectedPlayerCount()
		session.Unlock()

		if displayName != requestedName {
			bus.PlayerOnly(playerID, common.MustEvent("name_assigned", common.NameAssigned{
				RequestedName: requestedName,
				AssignedName:  displayName,
			}))
		}
		log.Printf("session %s: player %s joined", joinCode, displayName)
		bus.Broadcast(common.MustEvent("player_joined", common.PlayerJoined{
			PlayerID:    playerID,
			DisplayName: displayName,
			Avatar:      avatar,
			PlayerCount: count,
		}))
	}

	go runWritePump(conn, sub, func(event messaging.GameEvent) bool {
		switch event.Scope {
		case messaging.ScopeBroadcast:
			return true
		case messaging.ScopePlayerOnly:
			return event.PlayerID == playerID
		}
		return false
	})

	h.playerReadLoop(conn, session, bus, playerID)

	bus.Unsubscribe(sub)
	h.playerDetached(session, bus, playerID, displayName)
}

func (h *Hub) playerReadLoop(conn *websocket.Conn, session *common.GameSession, bus *messaging.Bus, playerID string) {
	configureReader(conn)
	engine := NewEngine(session, bus)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd ClientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}
		if cmd.Type != "submit_answer" {
			continue
		}
		var payload SubmitAnswerPayload
		if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
			continue
		}
		engine.HandleAnswer(playerID, payload.QuestionIndex, payload.SelectedIndex)
	}
}

// playerDetached marks the player disconnected and arms their reprieve
// window; if they never come back they are removed for good.
func (h *Hub) playerDetached(session *common.GameSession, bus *messaging.Bus, playerID, displayName string) {
	session.Lock()
	if player, ok := session.Players[playerID]; ok && player.Status == common.Connected {
		player.Status = common.Disconnected
		player.DisconnectedAt = time.Now()
	}
	count := session.ConnectedPlayerCount()
	session.Unlock()

	bus.Broadcast(common.MustEvent("player_left", common.PlayerLeft{
		PlayerID:    playerID,
		DisplayName: displayName,
		PlayerCount: count,
		Reason:      "disconnected",
	}))

	time.AfterFunc(h.reconnectWindow(), func() {
		session.Lock()
		player, ok := session.Players[playerID]
		if !ok || player.Status != common.Disconnected {
			session.Unlock()
			return
		}
		name := player.DisplayName
		delete(session.Players, playerID)
		count := session.ConnectedPlayerCount()
		session.Unlock()

		bus.Broadcast(common.MustEvent("player_left", common.PlayerLeft{
			PlayerID:    playerID,
			DisplayName: name,
			PlayerCount: count,
			Reason:      "timeout",
		}))
	})
}
