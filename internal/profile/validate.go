package profile

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance reports field names by their json tag
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// messages maps field and failed tag to the text shown next to the form field
var messages = map[string]map[string]string{
	"fullName":         {"required": "Full name is required"},
	"email":            {"required": "Email is required", "email": "Please enter a valid email address"},
	"location":         {"required": "Location is required"},
	"name":             {"required": "Please enter a skill name"},
	"company":          {"required": "Company name is required"},
	"position":         {"required": "Position is required"},
	"duration":         {"required": "Duration is required"},
	"responsibilities": {"required": "Responsibilities are required"},
	"institution":      {"required": "Institution name is required"},
	"degree":           {"required": "Degree is required"},
	"field":            {"required": "Field of study is required"},
	"graduationYear": {
		"required": "Graduation year is required",
		"numeric":  "Graduation year must be a number",
		"len":      "Graduation year must have four digits",
	},
}

// check runs struct validation and converts failures into a *ValidationError
func check(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	seen := map[string]bool{}
	for _, fe := range verrs {
		field := fe.Field()
		if seen[field] {
			continue
		}
		seen[field] = true
		msg := messages[field][fe.Tag()]
		if msg == "" {
			msg = "Invalid value"
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: msg})
	}
	return out
}
