package internal

import (
	"log"
	"time"

	"github.com/kwkoo/go-quizlive/internal/common"
	"github.com/kwkoo/go-quizlive/internal/messaging"
)

// Engine drives one session through countdown, question and reveal phases.
// Each phase runs on its own goroutine; the session lock is always released
// before publishing to the bus or sleeping.
type Engine struct {
	session     *common.GameSession
	bus         *messaging.Bus
	countdown   time.Duration
	revealDelay time.Duration
}

func NewEngine(session *common.GameSession, bus *messaging.Bus) *Engine {
	return &Engine{
		session:     session,
		bus:         bus,
		countdown:   3 * time.Second,
		revealDelay: 500 * time.Millisecond,
	}
}

// Start moves the session out of the lobby and schedules the first
// question after the countdown.
func (e *Engine) Start() {
	s := e.session
	s.Lock()
	if s.Status != common.StatusLobby {
		s.Unlock()
		return
	}
	s.Status = common.StatusActive
	total := s.TotalQuestions()
	s.Unlock()

	log.Printf("session %s: game starting with %d questions", s.JoinCode, total)
	e.bus.Broadcast(common.MustEvent("game_starting", common.GameStarting{
		CountdownSec:   int(e.countdown / time.Second),
		TotalQuestions: total,
	}))

	time.Sleep(e.countdown)
	e.advance()
}

// advance moves to the next question, or finishes the game when none are
// left.
func (e *Engine) advance() {
	s := e.session
	s.Lock()
	if s.Status == common.StatusFinished {
		s.Unlock()
		return
	}
	s.CurrentQuestion++
	idx := s.CurrentQuestion
	total := s.TotalQuestions()

	if idx >= total {
		s.Status = common.StatusFinished
		leaderboard := common.ComputeLeaderboard(s.PlayersSlice(), true)
		s.Unlock()
		log.Printf("session %s: game finished", s.JoinCode)
		e.bus.Broadcast(common.MustEvent("game_finished", common.GameFinished{
			Leaderboard:    leaderboard,
			TotalQuestions: total,
		}))
		return
	}

	question := s.Quiz.Questions[idx]
	s.QuestionStarted = time.Now()
	s.Unlock()

	e.bus.Broadcast(common.MustEvent("question", common.QuestionPayload{
		QuestionIndex:  idx,
		TotalQuestions: total,
		Text:           question.Text,
		Options:        question.Options,
		TimeLimitSec:   question.TimeLimitSec,
	}))

	go func() {
		time.Sleep(time.Duration(question.TimeLimitSec) * time.Second)
		e.endQuestion(idx)
	}()
}

// endQuestion closes the question at idx, reveals the answer and schedules
// the next advance. LastEnded makes it a no-op for a question that already
// ended, so the timer and the all-answered path cannot both fire for the
// same question.
func (e *Engine) endQuestion(idx int) {
	s := e.session
	s.Lock()
	if s.CurrentQuestion != idx || s.LastEnded >= idx {
		s.Unlock()
		return
	}
	s.LastEnded = idx
	question := s.Quiz.Questions[idx]
	leaderboard := common.ComputeLeaderboard(s.PlayersSlice(), false)
	s.Unlock()

	e.bus.Broadcast(common.MustEvent("question_ended", common.QuestionEnded{
		CorrectIndex: question.CorrectIndex,
		CorrectText:  question.Options[question.CorrectIndex],
		Leaderboard:  leaderboard,
	}))

	time.Sleep(e.revealDelay)
	e.advance()
}

// HandleAnswer arbitrates one submission: first answer per player per
// question wins, scored by the session's rule against the question clock.
// Answers are accepted as long as questionIndex is still the current
// question, including during the reveal window after it ended.
func (e *Engine) HandleAnswer(playerID string, questionIndex, selectedIndex int) {
	s := e.session
	s.Lock()

	if s.CurrentQuestion != questionIndex {
		s.Unlock()
		e.bus.PlayerOnly(playerID, common.MustEvent("error", common.ErrorPayload{
			Code:    "wrong_question",
			Message: "Not the current question",
		}))
		return
	}

	player, ok := s.Players[playerID]
	if !ok {
		s.Unlock()
		return
	}

	if player.HasAnswered(questionIndex) {
		s.Unlock()
		e.bus.PlayerOnly(playerID, common.MustEvent("error", common.ErrorPayload{
			Code:    "already_answered",
			Message: "You have already submitted an answer for this question",
		}))
		return
	}

	question := s.Quiz.Questions[questionIndex]
	correct := selectedIndex == question.CorrectIndex
	var timeTaken int64
	if !s.QuestionStarted.IsZero() {
		timeTaken = time.Since(s.QuestionStarted).Milliseconds()
	}
	points := s.Rule.Points(correct, timeTaken, question.TimeLimitSec)

	player.Answers = append(player.Answers, common.Answer{
		QuestionIndex: questionIndex,
		SelectedIndex: selectedIndex,
		TimeTakenMs:   timeTaken,
		PointsAwarded: points,
	})
	if correct {
		player.CorrectCount++
	}
	player.Score += points

	answered := 0
	total := 0
	for _, p := range s.Players {
		if p.Status != common.Connected {
			continue
		}
		total++
		if p.HasAnswered(questionIndex) {
			answered++
		}
	}
	s.Unlock()

	e.bus.PlayerOnly(playerID, common.MustEvent("answer_result", common.AnswerResult{
		Correct:       correct,
		PointsAwarded: points,
		CorrectIndex:  question.CorrectIndex,
	}))
	e.bus.HostOnly(common.MustEvent("answer_count", common.AnswerCount{
		Answered: answered,
		Total:    total,
	}))

	if total > 0 && answered == total {
		go e.endQuestion(questionIndex)
	}
}
