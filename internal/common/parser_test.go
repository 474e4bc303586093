package common

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseQuiz(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		title    string
		count    int
		errLines []int
	}{
		{
			name: "valid quiz",
			content: `# Capitals
// warm-up
? Capital of France?
- London
* Paris
- Berlin

? Capital of Japan?
* Tokyo
- Kyoto`,
			title: "Capitals",
			count: 2,
		},
		{
			name: "no correct answer",
			content: `# Broken
? Pick one
- a
- b`,
			errLines: []int{2},
		},
		{
			name: "multiple correct answers",
			content: `# Broken
? Pick one
* a
* b`,
			errLines: []int{2},
		},
		{
			name: "too few options",
			content: `# Broken
? Pick one
* only`,
			errLines: []int{2},
		},
		{
			name: "too many options",
			content: `# Broken
? Pick one
* a
- b
- c
- d
- e`,
			errLines: []int{2},
		},
		{
			name: "orphan option",
			content: `# Broken
- stray
? Pick one
* a
- b`,
			errLines: []int{2},
		},
		{
			name: "empty option text",
			content: `# Broken
? Pick one
* a
-`,
			errLines: []int{4, 2},
		},
		{
			name: "unrecognized line",
			content: `# Broken
what is this
? Pick one
* a
- b`,
			errLines: []int{2},
		},
		{
			name:     "missing title",
			content:  "? Pick one\n* a\n- b",
			errLines: []int{1},
		},
		{
			name:     "no questions",
			content:  "# Empty quiz",
			errLines: []int{1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			quiz, errs := ParseQuiz(test.content, 20)
			if len(test.errLines) == 0 {
				if len(errs) > 0 {
					t.Fatalf("unexpected parse errors: %v", errs)
				}
				if quiz.Title != test.title {
					t.Errorf("expected title %q but got %q", test.title, quiz.Title)
				}
				if quiz.NumQuestions() != test.count {
					t.Errorf("expected %d questions but got %d", test.count, quiz.NumQuestions())
				}
				return
			}
			if len(errs) != len(test.errLines) {
				t.Fatalf("expected %d errors but got %d: %v", len(test.errLines), len(errs), errs)
			}
			for i, line := range test.errLines {
				if errs[i].Line != line {
					t.Errorf("error %d: expected line %d but got %d (%s)", i, line, errs[i].Line, errs[i].Message)
				}
			}
		})
	}
}

func TestParseQuizTitleFirstWins(t *testing.T) {
	content := `## First title
# Second title
? Pick one
* a
- b`
	quiz, errs := ParseQuiz(content, 20)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if quiz.Title != "First title" {
		t.Errorf("expected title %q but got %q", "First title", quiz.Title)
	}
}

func TestParseQuizInvalidQuestionExcluded(t *testing.T) {
	content := `# Mixed
? Good question
* a
- b
? Bad question
- a
- b`
	_, errs := ParseQuiz(content, 20)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error but got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 5 {
		t.Errorf("expected error at line 5 but got %d", errs[0].Line)
	}
}

func TestParseQuizDefaultTimeLimit(t *testing.T) {
	quiz, errs := ParseQuiz("# Q\n? One\n* a\n- b", 42)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if quiz.Questions[0].TimeLimitSec != 42 {
		t.Errorf("expected time limit 42 but got %d", quiz.Questions[0].TimeLimitSec)
	}
}

// Rendering a quiz back into the text format and reparsing it must give the
// same quiz.
func TestParseQuizRoundTrip(t *testing.T) {
	orig := Quiz{
		Title: "Round trip",
		Questions: []Question{
			{
				Text:         "First?",
				Options:      []string{"a", "b", "c"},
				CorrectIndex: 1,
				TimeLimitSec: 20,
			},
			{
				Text:         "Second?",
				Options:      []string{"x", "y"},
				CorrectIndex: 0,
				TimeLimitSec: 20,
			},
		},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", orig.Title)
	for _, q := range orig.Questions {
		fmt.Fprintf(&b, "? %s\n", q.Text)
		for i, opt := range q.Options {
			marker := "-"
			if i == q.CorrectIndex {
				marker = "*"
			}
			fmt.Fprintf(&b, "%s %s\n", marker, opt)
		}
	}

	parsed, errs := ParseQuiz(b.String(), 20)
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if parsed.Title != orig.Title {
		t.Errorf("expected title %q but got %q", orig.Title, parsed.Title)
	}
	if len(parsed.Questions) != len(orig.Questions) {
		t.Fatalf("expected %d questions but got %d", len(orig.Questions), len(parsed.Questions))
	}
	for i, q := range parsed.Questions {
		want := orig.Questions[i]
		if q.Text != want.Text || q.CorrectIndex != want.CorrectIndex {
			t.Errorf("question %d: expected %v but got %v", i, want, q)
		}
		if len(q.Options) != len(want.Options) {
			t.Errorf("question %d: expected %d options but got %d", i, len(want.Options), len(q.Options))
		}
	}
}
