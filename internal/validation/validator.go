package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"quiz-sentinel/internal/domain"

	"github.com/go-playground/validator/v10"
)

const (
	MaxQuizCount      = 50
	MaxTopicLength    = 200
	MaxAnswerLength   = 500
	MaxPasscodeLength = 64
)

var (
	ulidPattern     = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	categoryPattern = regexp.MustCompile(`^[\p{L}\p{N} _/&+.-]{1,60}$`)
)

// Validator checks request payloads before they reach the services.
type Validator struct {
	structs *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{structs: v}
}

// ValidateStruct runs the `validate` tags of a request DTO.
func (v *Validator) ValidateStruct(s interface{}) domain.ValidationErrors {
	err := v.structs.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{{Field: "body", Message: err.Error()}}
	}

	errs := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			errs = append(errs, domain.NewMissingFieldError(fe.Field()))
		case "gte", "min":
			errs = append(errs, domain.FieldError{Field: fe.Field(), Message: fmt.Sprintf("must be at least %s", fe.Param()), Value: fe.Value()})
		case "lte", "max":
			errs = append(errs, domain.FieldError{Field: fe.Field(), Message: fmt.Sprintf("must be at most %s", fe.Param()), Value: fe.Value()})
		default:
			errs = append(errs, domain.NewInvalidFormatError(fe.Field(), fe.Value()))
		}
	}
	return errs
}

// ValidateQuizConfig checks a generation request.
func (v *Validator) ValidateQuizConfig(cfg domain.QuizConfig) domain.ValidationErrors {
	var errs domain.ValidationErrors

	topic := strings.TrimSpace(cfg.Topic)
	switch {
	case topic == "":
		errs = append(errs, domain.NewMissingFieldError("topic"))
	case len(topic) > MaxTopicLength:
		errs = append(errs, domain.NewOutOfRangeError("topic", len(topic), 1, MaxTopicLength))
	case !domain.IsMeaningfulTopic(topic):
		errs = append(errs, domain.NewInvalidFormatError("topic", cfg.Topic))
	}

	if cfg.QuizCount <= 0 || cfg.QuizCount > MaxQuizCount {
		errs = append(errs, domain.NewOutOfRangeError("quiz_count", cfg.QuizCount, 1, MaxQuizCount))
	}

	for _, cat := range cfg.FocusCategories {
		if strings.TrimSpace(cat) == "" {
			continue
		}
		if !categoryPattern.MatchString(strings.TrimSpace(cat)) {
			errs = append(errs, domain.NewInvalidFormatError("focus_categories", cat))
		}
	}
	return errs
}

// ValidateGradeRequest checks that questions and answers line up.
func (v *Validator) ValidateGradeRequest(req domain.GradeRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if req.SessionID != "" && !IsValidULID(req.SessionID) {
		errs = append(errs, domain.NewInvalidFormatError("session_id", req.SessionID))
	}
	if len(req.Questions) == 0 {
		errs = append(errs, domain.NewMissingFieldError("questions"))
	}
	for i, q := range req.Questions {
		if q == nil || strings.TrimSpace(q.CorrectAnswer) == "" {
			errs = append(errs, domain.FieldError{Field: "questions", Message: "every question needs an answer", Value: i})
			break
		}
	}
	if len(req.Answers) == 0 {
		errs = append(errs, domain.NewMissingFieldError("answers"))
	}
	for _, a := range req.Answers {
		if len(a) > MaxAnswerLength {
			errs = append(errs, domain.NewOutOfRangeError("answers", len(a), 0, MaxAnswerLength))
			break
		}
	}
	return errs
}

// ValidateSessionID checks a session identifier taken from the path.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("session_id")}
	}
	if !IsValidULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("session_id", id)}
	}
	return nil
}

// ValidatePasscode rejects blank and oversized passcodes.
func (v *Validator) ValidatePasscode(passcode string) domain.ValidationErrors {
	if strings.TrimSpace(passcode) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("passcode")}
	}
	if len(passcode) > MaxPasscodeLength {
		return domain.ValidationErrors{domain.NewOutOfRangeError("passcode", len(passcode), 1, MaxPasscodeLength)}
	}
	return nil
}

// IsValidULID reports whether s is a 26 character Crockford base32 ULID.
func IsValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
