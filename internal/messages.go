package internal

import "encoding/json"

// ClientCommand is the envelope for frames arriving from hosts and players.
// Unrecognized or malformed commands are ignored.
type ClientCommand struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type SubmitAnswerPayload struct {
	QuestionIndex int `json:"question_index"`
	SelectedIndex int `json:"selected_index"`
}

type SetScoringRulePayload struct {
	Rule string `json:"rule"`
}
