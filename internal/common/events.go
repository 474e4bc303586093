package common

import (
	"bytes"
	"encoding/json"
)

// Event is the wire envelope for every server to client message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func ConvertToJSON(input interface{}) (string, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	if err := enc.Encode(input); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustEvent marshals an event envelope, returning the empty string when the
// payload cannot be encoded.
func MustEvent(eventType string, payload interface{}) string {
	s, err := ConvertToJSON(Event{Type: eventType, Payload: payload})
	if err != nil {
		return ""
	}
	return s
}

type GameStarting struct {
	CountdownSec   int `json:"countdown_sec"`
	TotalQuestions int `json:"total_questions"`
}

type QuestionPayload struct {
	QuestionIndex  int      `json:"question_index"`
	TotalQuestions int      `json:"total_questions"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	TimeLimitSec   int      `json:"time_limit_sec"`
}

type AnswerResult struct {
	Correct       bool `json:"correct"`
	PointsAwarded int  `json:"points_awarded"`
	CorrectIndex  int  `json:"correct_index"`
}

type AnswerCount struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type QuestionEnded struct {
	CorrectIndex int                `json:"correct_index"`
	CorrectText  string             `json:"correct_text"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
}

type GameFinished struct {
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	TotalQuestions int                `json:"total_questions"`
}

type GamePaused struct {
	Reason string `json:"reason"`
}

type GameResumed struct {
	Reason string `json:"reason"`
}

type GameTerminated struct {
	Reason         string             `json:"reason"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	TotalQuestions int                `json:"total_questions"`
}

type ScoringRuleSet struct {
	Rule ScoringRule `json:"rule"`
}

type PlayerJoined struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	PlayerCount int    `json:"player_count"`
}

type PlayerReconnected struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	PlayerCount int    `json:"player_count"`
}

type PlayerLeft struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	PlayerCount int    `json:"player_count"`
	Reason      string `json:"reason"`
}

type NameAssigned struct {
	RequestedName string `json:"requested_name"`
	AssignedName  string `json:"assigned_name"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
