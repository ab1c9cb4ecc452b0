package student

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound  = errors.New("student not found")
	ErrAdmExists = errors.New("a student with this admission number already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// GetStudent returns ErrNotFound when no student has the admission number.
		GetStudent(ctx context.Context, adm string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, adm string) error
		// QueryAllStudents orders by admission number unless told otherwise.
		QueryAllStudents(ctx context.Context, ordering ...core.DBOrdering) ([]Student, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	InitValidators(validate, translator)
	return &Service{
		repo:       repo,
		validate:   validate,
		translator: translator,
	}
}

func (svc *Service) validateStruct(s interface{}) error {
	return core.TranslateErrors(svc.validate.Struct(s), svc.translator)
}

// Add registers a new student. Admission numbers are unique.
func (svc *Service) Add(ctx context.Context, ns NewStudent) (Student, error) {
	ns.clean()
	if err := svc.validateStruct(ns); err != nil {
		return Student{}, err
	}

	if _, err := svc.repo.GetStudent(ctx, ns.Adm); err == nil {
		return Student{}, admExistsError()
	} else if errors.Cause(err) != ErrNotFound {
		return Student{}, err
	}

	now := NowFunc().UTC()
	std, err := svc.repo.CreateStudent(ctx, Student{
		Adm:       ns.Adm,
		Name:      ns.Name,
		Gender:    ns.Gender,
		YOB:       ns.YOB,
		Dorm:      ns.Dorm,
		CreatedAt: now,
		UpdatedAt: now,
	})
	// another caller may have taken the admission number since the check above
	if errors.Cause(err) == ErrAdmExists {
		return Student{}, admExistsError()
	}
	return std, err
}

func admExistsError() error {
	return core.NewValidationError(ErrAdmExists, core.FieldError{Field: "adm", Error: ErrAdmExists.Error()})
}

func (svc *Service) Find(ctx context.Context, adm string) (Student, error) {
	adm = core.CleanString(adm)
	if adm == "" {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetStudent(ctx, adm)
}

func (svc *Service) Update(ctx context.Context, adm string, us UpdateStudent) (Student, error) {
	orig, err := svc.Find(ctx, adm)
	if err != nil {
		return Student{}, err
	}
	us.clean(orig)
	if err = svc.validateStruct(us); err != nil {
		return Student{}, err
	}

	orig.Name = us.Name
	orig.Gender = us.Gender
	orig.YOB = us.YOB
	orig.Dorm = us.Dorm
	orig.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateStudent(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, adm string) error {
	if _, err := svc.Find(ctx, adm); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(ctx, core.CleanString(adm))
}

func (svc *Service) All(ctx context.Context, ordering ...core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx, ordering...)
}

// Names maps admission numbers to student names.
func (svc *Service) Names(ctx context.Context) (map[string]string, error) {
	students, err := svc.All(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(students))
	for _, std := range students {
		names[std.Adm] = std.Name
	}
	return names, nil
}
