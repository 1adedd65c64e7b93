package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `validate:"notblank"`
	Category string `validate:"omitempty,skillcategory"`
	Level    string `validate:"omitempty,skilllevel"`
}

func TestRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	tests := []struct {
		name    string
		in      sample
		failTag string
	}{
		{"valid", sample{Name: "Go", Category: "programming", Level: "advanced"}, ""},
		{"optional enums may be empty", sample{Name: "Go"}, ""},
		{"blank name", sample{Name: "   "}, TagNotBlank},
		{"unknown category", sample{Name: "Go", Category: "cooking"}, TagSkillCategory},
		{"unknown level", sample{Name: "Go", Level: "expert"}, TagSkillLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.failTag == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.failTag, verrs[0].Tag())
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "name must not be blank", Message("name", TagNotBlank))
	assert.Contains(t, Message("category", TagSkillCategory), "programming")
	assert.Contains(t, Message("level", TagSkillLevel), "intermediate")
	assert.Empty(t, Message("name", "required"))
}
