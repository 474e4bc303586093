package internal

import (
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"sync"

	"github.com/kwkoo/go-quizlive/internal/common"
)

// ErrMaxSessionsReached is returned when the session cap is hit.
var ErrMaxSessionsReached = errors.New("maximum number of concurrent sessions reached")

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const joinCodeLength = 6

// SessionRegistry tracks uploaded quizzes and live sessions. Quizzes are
// write-once; sessions come and go as hosts run games.
type SessionRegistry struct {
	sync.RWMutex
	sessions    map[string]*common.GameSession
	quizzes     map[string]common.Quiz
	maxSessions int
}

func NewSessionRegistry(maxSessions int) *SessionRegistry {
	return &SessionRegistry{
		sessions:    make(map[string]*common.GameSession),
		quizzes:     make(map[string]common.Quiz),
		maxSessions: maxSessions,
	}
}

func (r *SessionRegistry) StoreQuiz(id string, quiz common.Quiz) {
	r.Lock()
	defer r.Unlock()
	r.quizzes[id] = quiz
}

func (r *SessionRegistry) GetQuiz(id string) (common.Quiz, bool) {
	r.RLock()
	defer r.RUnlock()
	quiz, ok := r.quizzes[id]
	return quiz, ok
}

// CreateSession allocates a join code and registers a new lobby session for
// the quiz.
func (r *SessionRegistry) CreateSession(quiz common.Quiz) (*common.GameSession, error) {
	r.Lock()
	defer r.Unlock()
	if len(r.sessions) >= r.maxSessions {
		return nil, ErrMaxSessionsReached
	}
	code := r.generateJoinCode()
	session := common.NewGameSession(code, quiz)
	r.sessions[code] = session
	log.Printf("created session %s for quiz %q", code, quiz.Title)
	return session, nil
}

func (r *SessionRegistry) GetSession(joinCode string) *common.GameSession {
	r.RLock()
	defer r.RUnlock()
	return r.sessions[joinCode]
}

func (r *SessionRegistry) RemoveSession(joinCode string) {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.sessions[joinCode]; ok {
		delete(r.sessions, joinCode)
		log.Printf("removed session %s", joinCode)
	}
}

func (r *SessionRegistry) SessionCount() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.sessions)
}

// FinishedSessions returns the join codes of sessions that have run to
// completion.
func (r *SessionRegistry) FinishedSessions() []string {
	r.RLock()
	defer r.RUnlock()
	var codes []string
	for code, session := range r.sessions {
		session.RLock()
		finished := session.Status == common.StatusFinished
		session.RUnlock()
		if finished {
			codes = append(codes, code)
		}
	}
	return codes
}

// generateJoinCode draws 6 characters from the uppercase alphanumeric
// alphabet, retrying on the unlikely collision. Caller holds the lock.
func (r *SessionRegistry) generateJoinCode() string {
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for {
		code := make([]byte, joinCodeLength)
		for i := range code {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				log.Fatalf("could not generate join code: %v", err)
			}
			code[i] = joinCodeAlphabet[n.Int64()]
		}
		if _, exists := r.sessions[string(code)]; !exists {
			return string(code)
		}
	}
}
