package exam

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/neptune-academy/reportcards/core"
)

// ValidateSubjects checks every subject of the roster and that subject codes are unique.
func ValidateSubjects(validate *validator.Validate, subjects []Subject) error {
	codes := make(map[int]string, len(subjects))
	for i, subj := range subjects {
		if err := validate.Struct(subj); err != nil {
			return err
		}
		if name, ok := codes[subj.Code]; ok {
			return core.NewValidationError(
				fmt.Errorf("subject %d: code %d already used by %s", i+1, subj.Code, name),
				core.FieldError{Field: "code", Error: "subject codes must be unique"},
			)
		}
		codes[subj.Code] = subj.Name
	}
	return nil
}
