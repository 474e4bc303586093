package common

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

type SessionStatus string

const (
	StatusLobby    SessionStatus = "lobby"
	StatusActive   SessionStatus = "active"
	StatusPaused   SessionStatus = "paused"
	StatusFinished SessionStatus = "finished"
)

// GameSession is the mutable state of one running quiz session. The embedded
// RWMutex guards every field; handlers and the engine lock it for the
// duration of a state transition and release it before publishing events or
// sleeping.
type GameSession struct {
	sync.RWMutex

	JoinCode        string
	Quiz            Quiz
	Players         map[string]*Player
	HostID          string
	CurrentQuestion int
	LastEnded       int
	Status          SessionStatus
	QuestionStarted time.Time
	CreatedAt       time.Time
	Rule            ScoringRule
}

func NewGameSession(joinCode string, quiz Quiz) *GameSession {
	return &GameSession{
		JoinCode:        joinCode,
		Quiz:            quiz,
		Players:         make(map[string]*Player),
		CurrentQuestion: -1,
		LastEnded:       -1,
		Status:          StatusLobby,
		CreatedAt:       time.Now(),
		Rule:            SteppedDecay,
	}
}

// ConnectedPlayerCount returns the number of connected players. Caller holds
// the lock.
func (s *GameSession) ConnectedPlayerCount() int {
	count := 0
	for _, p := range s.Players {
		if p.Status == Connected {
			count++
		}
	}
	return count
}

// TotalPlayerCount returns the number of tracked players, connected or not.
// Caller holds the lock.
func (s *GameSession) TotalPlayerCount() int {
	return len(s.Players)
}

// IsJoinable reports whether new players may still join. Only lobby
// sessions accept new players; a disconnected player rejoining mid-game
// goes through the reconnect path instead. Caller holds the lock.
func (s *GameSession) IsJoinable() bool {
	return s.Status == StatusLobby
}

func (s *GameSession) TotalQuestions() int {
	return s.Quiz.NumQuestions()
}

// PlayersSlice returns the players in a stable order. Caller holds the lock.
func (s *GameSession) PlayersSlice() []*Player {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players
}

// FindReconnectable returns a disconnected player with the given display
// name whose reprieve window has not yet elapsed. Caller holds the lock.
func (s *GameSession) FindReconnectable(displayName string, window time.Duration) *Player {
	for _, p := range s.Players {
		if p.Status != Disconnected || p.DisplayName != displayName {
			continue
		}
		if time.Since(p.DisconnectedAt) < window {
			return p
		}
	}
	return nil
}

// UniqueDisplayName resolves name collisions by appending a numeric suffix:
// "Name", "Name 2", "Name 3", ... Names held by disconnected players are up
// for grabs once their reprieve window is spent. Caller holds the lock.
func (s *GameSession) UniqueDisplayName(requested string) string {
	taken := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		if p.Status == Disconnected {
			continue
		}
		taken[p.DisplayName] = true
	}
	if !taken[requested] {
		return requested
	}
	for n := 2; ; n++ {
		candidate := requested + " " + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}
