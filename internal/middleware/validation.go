package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/skillshare/internal/app/models/dto"
	"github.com/yigit/skillshare/internal/pkg/logger"
	"github.com/yigit/skillshare/internal/pkg/validation"
)

// RegisterValidation installs the custom binding tags and makes validator report fields
// by their json or form names.
func RegisterValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := validation.Register(v); err != nil {
		logger.Error().Err(err).Msg("Failed to register custom validation rules")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

// bindingErrorDetail converts errors from gin's ShouldBind* into an error detail.
func bindingErrorDetail(err error) (*dto.ErrorDetail, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{Field: fieldPath(fe), Message: formatValidationError(fe)})
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(fields)
		if len(fields) == 1 {
			detail.WithField(fields[0].Field)
		}
		return detail, true
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Malformed JSON body"), true
	case errors.Is(err, io.EOF):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Request body is required"), true
	case errors.As(err, &typeErr):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Wrong type for field "+typeErr.Field).
			WithField(typeErr.Field), true
	}
	return nil, false
}

// fieldPath drops the top-level struct name and embedded struct names:
// "CreateSkillRequest.SkillContentRequest.modules[0].title" becomes "modules[0].title".
func fieldPath(fe validator.FieldError) string {
	segments := strings.Split(fe.Namespace(), ".")
	if len(segments) < 2 {
		return fe.Field()
	}
	kept := segments[:0]
	for _, seg := range segments[1:] {
		if seg != "" && seg[0] >= 'A' && seg[0] <= 'Z' {
			continue
		}
		kept = append(kept, seg)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	case "uuid":
		return e.Field() + " must be a valid id"
	default:
		if msg := validation.Message(e.Field(), e.Tag()); msg != "" {
			return msg
		}
		return e.Field() + " validation failed: " + e.Tag()
	}
}
