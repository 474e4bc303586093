package internal

import (
	"testing"

	"github.com/kwkoo/go-quizlive/internal/common"
	"github.com/kwkoo/go-quizlive/internal/config"
)

func TestReapFinishedSessions(t *testing.T) {
	hub := NewHub(&config.Config{MaxSessions: 10, MaxPlayers: 50, QuestionTimeSec: 20, ReconnectTimeout: 120})

	live, err := hub.CreateSession(registryTestQuiz())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done, err := hub.CreateSession(registryTestQuiz())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done.Lock()
	done.Status = common.StatusFinished
	done.Unlock()

	bus := hub.buses.Ensure(done.JoinCode)
	sub := bus.Subscribe()

	hub.reapFinishedSessions()

	if hub.GetSession(live.JoinCode) == nil {
		t.Error("expected the live session to survive the reaper")
	}
	if hub.GetSession(done.JoinCode) != nil {
		t.Error("expected the finished session to be reaped")
	}
	if _, open := <-sub.C; open {
		t.Error("expected the finished session's bus to be closed")
	}
	if hub.buses.Get(done.JoinCode) != nil {
		t.Error("expected the finished session's bus to be evicted")
	}
}
