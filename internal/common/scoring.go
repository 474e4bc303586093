package common

// MaxScore is the ceiling for a single correct answer.
const MaxScore = 1000

// ScoringRule selects how points decay with elapsed time. The host may
// change the rule while the session is still in the lobby.
type ScoringRule string

const (
	SteppedDecay ScoringRule = "stepped_decay"
	LinearDecay  ScoringRule = "linear_decay"
	FixedScore   ScoringRule = "fixed_score"
)

// ParseScoringRule returns the rule named by s, or false when s names no
// known rule.
func ParseScoringRule(s string) (ScoringRule, bool) {
	switch ScoringRule(s) {
	case SteppedDecay, LinearDecay, FixedScore:
		return ScoringRule(s), true
	}
	return "", false
}

// Points awards points for an answer under the rule. Incorrect answers
// always award 0; correct answers never award less than 1.
func (r ScoringRule) Points(correct bool, timeTakenMs int64, timeLimitSec int) int {
	if !correct {
		return 0
	}
	switch r {
	case LinearDecay:
		stepSize := MaxScore / int64(timeLimitSec)
		if stepSize < 1 {
			stepSize = 1
		}
		elapsedSec := timeTakenMs / 1000
		return clampScore(MaxScore - elapsedSec*stepSize)
	case FixedScore:
		return MaxScore
	default: // stepped decay, 5 second buckets
		steps := int64(timeLimitSec) / 5
		if steps < 1 {
			steps = 1
		}
		stepSize := MaxScore / steps
		elapsedSteps := timeTakenMs / 5000
		return clampScore(MaxScore - elapsedSteps*stepSize)
	}
}

func clampScore(raw int64) int {
	if raw < 1 {
		return 1
	}
	if raw > MaxScore {
		return MaxScore
	}
	return int(raw)
}

// tieredPoints is the original flat-tier formula: full marks in the first
// third of the time limit, then 500, then 250, then nothing.
func tieredPoints(correct bool, timeTakenMs int64, timeLimitSec int) int {
	if !correct {
		return 0
	}
	limitMs := int64(timeLimitSec) * 1000
	third := limitMs / 3
	switch {
	case timeTakenMs <= third:
		return MaxScore
	case timeTakenMs <= 2*third:
		return 500
	case timeTakenMs <= limitMs:
		return 250
	default:
		return 0
	}
}
