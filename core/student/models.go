package student

import (
	"strings"
	"time"

	"github.com/neptune-academy/reportcards/core"
)

// Genders
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

type Student struct {
	Adm       string    `json:"adm" db:"adm"` // admission number
	Name      string    `json:"name" db:"name"`
	Gender    string    `json:"gender" db:"gender"`
	YOB       int       `json:"yob" db:"yob"` // year of birth
	Dorm      string    `json:"dorm" db:"dorm"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Adm    string `json:"adm" validate:"required,alphanum_"`
	Name   string `json:"name" validate:"required"`
	Gender string `json:"gender" validate:"required,gender"`
	YOB    int    `json:"yob" validate:"required,yob"`
	Dorm   string `json:"dorm" validate:"required"`
}

func (ns *NewStudent) clean() {
	ns.Adm = core.CleanString(ns.Adm)
	ns.Name = core.CleanString(ns.Name)
	ns.Gender = strings.ToUpper(core.CleanString(ns.Gender))
	ns.Dorm = core.CleanString(ns.Dorm)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	Name   string `json:"name"`
	Gender string `json:"gender" validate:"omitempty,gender"`
	YOB    int    `json:"yob" validate:"omitempty,yob"`
	Dorm   string `json:"dorm"`
}

func (us *UpdateStudent) clean(orig Student) {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if gender := strings.ToUpper(core.CleanString(us.Gender)); gender != "" {
		us.Gender = gender
	} else {
		us.Gender = orig.Gender
	}
	if us.YOB == 0 {
		us.YOB = orig.YOB
	}
	if dorm := core.CleanString(us.Dorm); dorm != "" {
		us.Dorm = dorm
	} else {
		us.Dorm = orig.Dorm
	}
}
