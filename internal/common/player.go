package common

import "time"

// DefaultAvatar is used when a player joins without picking one.
const DefaultAvatar = "🙂"

type ConnectionStatus string

const (
	Connected    ConnectionStatus = "connected"
	Disconnected ConnectionStatus = "disconnected"
	Left         ConnectionStatus = "left"
)

// Answer records one scored submission for one question.
type Answer struct {
	QuestionIndex int   `json:"question_index"`
	SelectedIndex int   `json:"selected_index"`
	TimeTakenMs   int64 `json:"time_taken_ms"`
	PointsAwarded int   `json:"points_awarded"`
}

type Player struct {
	ID             string           `json:"id"`
	DisplayName    string           `json:"display_name"`
	Avatar         string           `json:"avatar"`
	Score          int              `json:"score"`
	CorrectCount   int              `json:"correct_count"`
	Answers        []Answer         `json:"answers"`
	Status         ConnectionStatus `json:"connection_status"`
	DisconnectedAt time.Time        `json:"-"`
}

func NewPlayer(id, displayName, avatar string) *Player {
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &Player{
		ID:          id,
		DisplayName: displayName,
		Avatar:      avatar,
		Status:      Connected,
	}
}

// HasAnswered reports whether the player already holds an answer for the
// given question index.
func (p *Player) HasAnswered(questionIndex int) bool {
	for _, a := range p.Answers {
		if a.QuestionIndex == questionIndex {
			return true
		}
	}
	return false
}
