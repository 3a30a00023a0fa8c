package quiz_test

import (
	"testing"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/quiz"
)

func TestEvaluateAnswer(t *testing.T) {
	correct := func(ids ...string) map[string]struct{} {
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		return set
	}

	tests := []struct {
		name      string
		qType     string
		correct   map[string]struct{}
		submitted []string
		want      bool
	}{
		{"single choice correct", quiz.TypeSingleChoice, correct("a"), []string{"a"}, true},
		{"single choice wrong", quiz.TypeSingleChoice, correct("a"), []string{"b"}, false},
		{"single choice no answer", quiz.TypeSingleChoice, correct("a"), nil, false},
		{"single choice multiple submitted", quiz.TypeSingleChoice, correct("a"), []string{"a", "b"}, false},

		{"true/false correct", quiz.TypeTrueFalse, correct("t"), []string{"t"}, true},
		{"true/false wrong", quiz.TypeTrueFalse, correct("t"), []string{"f"}, false},
		{"true/false both submitted", quiz.TypeTrueFalse, correct("t"), []string{"t", "f"}, false},

		{"multiple choice exact match", quiz.TypeMultipleChoice, correct("a", "c"), []string{"a", "c"}, true},
		{"multiple choice order ignored", quiz.TypeMultipleChoice, correct("a", "c"), []string{"c", "a"}, true},
		{"multiple choice subset", quiz.TypeMultipleChoice, correct("a", "c"), []string{"a"}, false},
		{"multiple choice superset", quiz.TypeMultipleChoice, correct("a", "c"), []string{"a", "b", "c"}, false},
		{"multiple choice disjoint", quiz.TypeMultipleChoice, correct("a", "c"), []string{"b", "d"}, false},
		{"multiple choice empty submitted", quiz.TypeMultipleChoice, correct("a"), nil, false},
		{"multiple choice duplicates collapse", quiz.TypeMultipleChoice, correct("a", "c"), []string{"a", "a", "c"}, true},

		{"unknown type fails closed", "ESSAY", correct("a"), []string{"a"}, false},
		{"no correct options single", quiz.TypeSingleChoice, correct(), []string{"a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quiz.EvaluateAnswer(tt.qType, tt.correct, tt.submitted); got != tt.want {
				t.Errorf("EvaluateAnswer() = %v; want %v", got, tt.want)
			}
		})
	}
}
