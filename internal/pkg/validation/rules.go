package validation

import (
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/skillshare/internal/app/models"
)

// Custom binding tags
const (
	TagNotBlank      = "notblank"
	TagSkillCategory = "skillcategory"
	TagSkillLevel    = "skilllevel"
)

// Rules maps each custom tag to its check
var Rules = map[string]validator.Func{
	TagNotBlank:      notBlank,
	TagSkillCategory: skillCategory,
	TagSkillLevel:    skillLevel,
}

// Register installs the custom tags on v.
func Register(v *validator.Validate) error {
	for tag, fn := range Rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Message returns the user-facing text for a custom tag, or "" for tags it does not own.
func Message(field, tag string) string {
	switch tag {
	case TagNotBlank:
		return field + " must not be blank"
	case TagSkillCategory:
		return field + " must be one of: " + joinValues(models.Categories)
	case TagSkillLevel:
		return field + " must be one of: " + joinValues(models.Levels)
	default:
		return ""
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func skillCategory(fl validator.FieldLevel) bool {
	return slices.Contains(models.Categories, models.Category(fl.Field().String()))
}

func skillLevel(fl validator.FieldLevel) bool {
	return slices.Contains(models.Levels, models.Level(fl.Field().String()))
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}
