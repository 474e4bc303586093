package common

import "fmt"

// Quiz is immutable once parsed - sessions hold their own copy.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	TimeLimitSec int      `json:"time_limit_sec"`
}

func (q Question) NumOptions() int {
	return len(q.Options)
}

func (q Quiz) NumQuestions() int {
	return len(q.Questions)
}

func (q Quiz) GetQuestion(i int) (Question, error) {
	if i < 0 || i >= len(q.Questions) {
		return Question{}, fmt.Errorf("%d is an invalid question index", i)
	}
	return q.Questions[i], nil
}
