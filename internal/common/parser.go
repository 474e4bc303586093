package common

import (
	"fmt"
	"strings"
)

// ParseError points at a single offending line in an uploaded quiz file.
type ParseError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParseQuiz reads the line-oriented quiz format:
//
//	# Title          quiz title (first occurrence wins)
//	? Question text  begins a new question
//	- Option text    incorrect answer
//	* Option text    correct answer (exactly one per question)
//	//               comment, ignored
//
// Blank lines are ignored. Questions get defaultTimeLimit seconds each.
// The quiz is returned only when the error list comes back empty.
func ParseQuiz(content string, defaultTimeLimit int) (Quiz, []ParseError) {
	var (
		title     string
		questions []Question
		errs      []ParseError
	)

	var (
		curText    string
		curOptions []string
		curCorrect []bool
		inQuestion bool
		startLine  int
	)

	finalize := func() {
		correctCount := 0
		correctIndex := 0
		for i, c := range curCorrect {
			if c {
				correctCount++
				correctIndex = i
			}
		}
		if correctCount == 0 {
			errs = append(errs, ParseError{startLine, "Question has no correct answer (no line starting with *)"})
		} else if correctCount > 1 {
			errs = append(errs, ParseError{startLine, "Question has multiple correct answers (only one * allowed)"})
		}
		if len(curOptions) < 2 {
			errs = append(errs, ParseError{startLine, fmt.Sprintf("Question has %d option(s), minimum is 2", len(curOptions))})
		}
		if len(curOptions) > 4 {
			errs = append(errs, ParseError{startLine, fmt.Sprintf("Question has %d options, maximum is 4", len(curOptions))})
		}
		if correctCount == 1 && len(curOptions) >= 2 && len(curOptions) <= 4 {
			questions = append(questions, Question{
				Text:         curText,
				Options:      curOptions,
				CorrectIndex: correctIndex,
				TimeLimitSec: defaultTimeLimit,
			})
		}
	}

	for lineNum, raw := range strings.Split(content, "\n") {
		lineNum++ // 1-based
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if title == "" {
				title = strings.TrimSpace(strings.TrimLeft(line, "#"))
			}
			continue
		}

		if strings.HasPrefix(line, "?") {
			if inQuestion {
				finalize()
			}
			curText = strings.TrimSpace(strings.TrimLeft(line, "?"))
			curOptions = nil
			curCorrect = nil
			inQuestion = true
			startLine = lineNum
			continue
		}

		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			correct := strings.HasPrefix(line, "*")
			text := strings.TrimSpace(line[1:])
			if text == "" {
				errs = append(errs, ParseError{lineNum, "Option text is empty"})
			} else if inQuestion {
				curOptions = append(curOptions, text)
				curCorrect = append(curCorrect, correct)
			} else {
				errs = append(errs, ParseError{lineNum, "Option found before any question"})
			}
			continue
		}

		errs = append(errs, ParseError{lineNum, "Unrecognized line format: expected #, ?, -, *, or //"})
	}

	if inQuestion {
		finalize()
	}

	if title == "" {
		errs = append(errs, ParseError{1, "Quiz has no title (expected a line starting with #)"})
	}
	if len(questions) == 0 && len(errs) == 0 {
		errs = append(errs, ParseError{1, "Quiz has no valid questions"})
	}

	if len(errs) > 0 {
		return Quiz{}, errs
	}
	return Quiz{Title: title, Questions: questions}, nil
}
