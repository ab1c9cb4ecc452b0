package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/neptune-academy/reportcards/core"
)

var (
	genderTag  = "gender"
	genderText = "gender must be M or F"

	yobTag  = "yob"
	yobText = "year of birth must be a 4-digit year"
)

// InitValidators registers the student validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(genderTag, genderValidation)
	core.RegisterCustomTranslation(validate, translator, genderTag, genderText)

	_ = validate.RegisterValidation(yobTag, yobValidation)
	core.RegisterCustomTranslation(validate, translator, yobTag, yobText)
}

func genderValidation(fl validator.FieldLevel) bool {
	g := fl.Field().String()
	return g == GenderMale || g == GenderFemale
}

func yobValidation(fl validator.FieldLevel) bool {
	yob := fl.Field().Int()
	return yob >= 1000 && yob <= 9999
}
