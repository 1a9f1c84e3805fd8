package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParsedResume(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantField string
	}{
		{
			name:  "minimal document",
			input: `{"personalInfo":{}}`,
		},
		{
			name: "full document",
			input: `{
				"personalInfo": {"fullName": "Ada Lovelace", "email": "ada@example.com"},
				"professionalSummary": "Engineer",
				"workExperience": [{"company": "Acme", "position": "Dev", "current": true, "responsibilities": ["Ship"]}],
				"education": [{"institution": "MIT", "graduationYear": "2019"}],
				"skills": [{"name": "Go", "category": "technical", "level": "Expert"}],
				"certifications": [{"name": "CKA"}],
				"languages": [{"name": "French", "proficiency": "Fluent"}]
			}`,
		},
		{
			name:      "missing personal info",
			input:     `{"skills": []}`,
			wantErr:   true,
			wantField: "(root)",
		},
		{
			name:      "unknown skill level",
			input:     `{"personalInfo":{}, "skills": [{"name": "Go", "level": "Guru"}]}`,
			wantErr:   true,
			wantField: "skills.0.level",
		},
		{
			name:      "work entry without company",
			input:     `{"personalInfo":{}, "workExperience": [{"position": "Dev"}]}`,
			wantErr:   true,
			wantField: "workExperience.0",
		},
		{
			name:      "not json",
			input:     `the model said hello`,
			wantErr:   true,
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParsedResume(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.wantField, ve.Errors[0].Field)
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", `{}`)
	var le *SchemaLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "missing.schema.json", le.Path)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["id"],"properties":{"id":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"id":"1"}`))

	err := ValidateJSONString(schema, `{"id":1}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "id", ve.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "skills.0.level", Message: "must be one of the enum values"},
		{Field: "(root)", Message: "personalInfo is required"},
	}}
	assert.Equal(t,
		"validation failed:\n  1. skills.0.level: must be one of the enum values\n  2. (root): personalInfo is required\n",
		ve.Error())
}
