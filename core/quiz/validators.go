package quiz

import (
	"github.com/go-playground/validator/v10"

	"github.com/Evgeniy2001Poluhin/learning-platform/core"
)

var (
	questionTypeTag  = "questiontype"
	questionTypeText = "invalid question type"
)

func init() {
	_ = core.Validate.RegisterValidation(questionTypeTag, questionTypeValidation)
	core.RegisterCustomTranslation(questionTypeTag, questionTypeText)
}

// questionTypeValidation checks that the provided type is in QuestionTypes.
func questionTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, typ := range QuestionTypes {
		if val == typ {
			return true
		}
	}
	return false
}
