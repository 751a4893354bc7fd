package submission

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ntic/scicon/core"
)

var (
	statusTag  = "submission_status"
	statusText = "invalid submission status"

	statusFilterTag  = "status_filter"
	statusFilterText = fmt.Sprintf("must be %s or a submission status", AllValue)

	typeTag  = "presentation_type"
	typeText = "presentation type must be one of: oral, poster, display"

	typeFilterTag  = "type_filter"
	typeFilterText = fmt.Sprintf("must be %s or a presentation type", AllValue)

	kwMaxCount = 10
	kwMaxLen   = 40
	kwTag      = "keywords"
	kwText     = fmt.Sprintf("at most %d keywords of at most %d characters each", kwMaxCount, kwMaxLen)
)

// InitValidators registers the submission validators on validate.
// core.InitValidators must have run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(statusFilterTag, statusFilterValidation)
	core.RegisterCustomTranslation(validate, translator, statusFilterTag, statusFilterText)

	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)

	_ = validate.RegisterValidation(typeFilterTag, typeFilterValidation)
	core.RegisterCustomTranslation(validate, translator, typeFilterTag, typeFilterText)

	_ = validate.RegisterValidation(kwTag, keywordsValidation)
	core.RegisterCustomTranslation(validate, translator, kwTag, kwText)
}

// Validate cleans ns, checks its fields then the title uniqueness within its event.
func (ns *NewSubmission) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	ns.Clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckTitleUniqueness(ctx, ns.EventID, ns.Title)
}

// Validate cleans us and checks it against the submission it will be applied to.
func (us *UpdateSubmission) Validate(ctx context.Context, validate *validator.Validate, svc Service, sub Submission) error {
	us.Clean()
	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Title == "" || us.Title == sub.Title {
		return nil
	}
	return svc.CheckTitleUniqueness(ctx, sub.EventID, us.Title, sub.ID)
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Clean()
	return validate.Struct(qf)
}

// Custom Validators

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}

func statusFilterValidation(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return strings.EqualFold(v, AllValue) || Status(v).Valid()
}

func typeValidation(fl validator.FieldLevel) bool {
	return Type(fl.Field().String()).Valid()
}

func typeFilterValidation(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return strings.EqualFold(v, AllValue) || Type(v).Valid()
}

// keywordsValidation bounds the number and the length of keywords
func keywordsValidation(fl validator.FieldLevel) bool {
	kws, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	if len(kws) > kwMaxCount {
		return false
	}
	for _, kw := range kws {
		if strings.TrimSpace(kw) == "" || utf8.RuneCountInString(kw) > kwMaxLen {
			return false
		}
	}
	return true
}
