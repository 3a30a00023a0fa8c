package quiz

// EvaluateAnswer decides whether the submitted option IDs answer a question
// of the given type correctly.
//
// Single-choice and true/false questions require exactly one submitted ID,
// and that ID must be in the correct set. Multiple-choice questions compare
// submitted IDs against the correct set as sets: duplicates collapse, order
// is ignored, and any subset or superset is incorrect. Unknown question
// types evaluate to incorrect so that grading always completes.
func EvaluateAnswer(questionType string, correctIDs map[string]struct{}, submittedIDs []string) bool {
	switch questionType {
	case TypeSingleChoice, TypeTrueFalse:
		if len(submittedIDs) != 1 {
			return false
		}
		_, ok := correctIDs[submittedIDs[0]]
		return ok
	case TypeMultipleChoice:
		submitted := make(map[string]struct{}, len(submittedIDs))
		for _, id := range submittedIDs {
			submitted[id] = struct{}{}
		}
		if len(submitted) != len(correctIDs) {
			return false
		}
		for id := range submitted {
			if _, ok := correctIDs[id]; !ok {
				return false
			}
		}
		return true
	}
	return false
}
