// Package profile implements the profile editing operations.
//
// Every operation takes the current profile, leaves it untouched and returns
// a new profile ready to be dispatched with state.SetUser.
package profile

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/jobswipe/internal/types"
)

// DefaultUserID is assigned when basics are saved before any profile exists
const DefaultUserID = "1"

// newID generates entry ids
var newID = uuid.NewString

// BasicsInput is the basic information form
type BasicsInput struct {
	FullName       string `json:"fullName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Location       string `json:"location" validate:"required"`
	ExpectedSalary string `json:"expectedSalary"`
	Bio            string `json:"bio"`
}

// Validate trims the input and checks required fields
func (in *BasicsInput) Validate() error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Location = strings.TrimSpace(in.Location)
	in.ExpectedSalary = strings.TrimSpace(in.ExpectedSalary)
	in.Bio = strings.TrimSpace(in.Bio)
	return check(in)
}

// SkillInput is the add-skill form
type SkillInput struct {
	Name string `json:"name" validate:"required"`
}

// WorkExperienceInput is the add-experience form. Responsibilities holds one item per line.
type WorkExperienceInput struct {
	Company          string `json:"company" validate:"required"`
	Position         string `json:"position" validate:"required"`
	Duration         string `json:"duration" validate:"required"`
	Responsibilities string `json:"responsibilities" validate:"required"`
	Current          bool   `json:"current"`
}

// Validate trims the input and checks required fields
func (in *WorkExperienceInput) Validate() error {
	in.Company = strings.TrimSpace(in.Company)
	in.Position = strings.TrimSpace(in.Position)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Responsibilities = strings.TrimSpace(in.Responsibilities)
	return check(in)
}

// EducationInput is the add-education form. Achievements holds one item per line.
type EducationInput struct {
	Institution    string `json:"institution" validate:"required"`
	Degree         string `json:"degree" validate:"required"`
	Field          string `json:"field" validate:"required"`
	GraduationYear string `json:"graduationYear" validate:"required,numeric,len=4"`
	GPA            string `json:"gpa"`
	Achievements   string `json:"achievements"`
}

// Validate trims the input and checks required fields
func (in *EducationInput) Validate() error {
	in.Institution = strings.TrimSpace(in.Institution)
	in.Degree = strings.TrimSpace(in.Degree)
	in.Field = strings.TrimSpace(in.Field)
	in.GraduationYear = strings.TrimSpace(in.GraduationYear)
	in.GPA = strings.TrimSpace(in.GPA)
	in.Achievements = strings.TrimSpace(in.Achievements)
	return check(in)
}

// UpdateBasics replaces the basic fields and keeps the lists and picture
func UpdateBasics(cur *types.UserProfile, in BasicsInput) (*types.UserProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out := ensure(cur)
	out.FullName = in.FullName
	out.Email = in.Email
	out.Location = in.Location
	out.ExpectedSalary = in.ExpectedSalary
	out.Bio = in.Bio
	return out, nil
}

// AddSkill appends a skill at Intermediate level with no endorsements
func AddSkill(cur *types.UserProfile, name string) (*types.UserProfile, error) {
	in := SkillInput{Name: strings.TrimSpace(name)}
	if err := check(&in); err != nil {
		return nil, err
	}
	out := ensure(cur)
	out.Skills = append(out.Skills, types.Skill{
		ID:           newID(),
		Name:         in.Name,
		Level:        types.SkillIntermediate,
		Endorsements: 0,
	})
	return out, nil
}

// RemoveSkill drops the skill with id. It reports false when no skill matched.
func RemoveSkill(cur *types.UserProfile, id string) (*types.UserProfile, bool) {
	out := ensure(cur)
	kept := out.Skills[:0]
	found := false
	for _, s := range out.Skills {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	out.Skills = kept
	return out, found
}

// AddWorkExperience appends a work history entry
func AddWorkExperience(cur *types.UserProfile, in WorkExperienceInput) (*types.UserProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	out := ensure(cur)
	out.WorkExperience = append(out.WorkExperience, types.WorkExperience{
		ID:               newID(),
		Company:          in.Company,
		Position:         in.Position,
		Duration:         in.Duration,
		Responsibilities: splitLines(in.Responsibilities),
		Current:          in.Current,
	})
	return out, nil
}

// RemoveWorkExperience drops the entry with id. It reports false when nothing matched.
func RemoveWorkExperience(cur *types.UserProfile, id string) (*types.UserProfile, bool) {
	out := ensure(cur)
	kept := out.WorkExperience[:0]
	found := false
	for _, w := range out.WorkExperience {
		if w.ID == id {
			found = true
			continue
		}
		kept = append(kept, w)
	}
	out.WorkExperience = kept
	return out, found
}

// AddEducation appends an education entry
func AddEducation(cur *types.UserProfile, in EducationInput) (*types.UserProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	year, err := strconv.Atoi(in.GraduationYear)
	if err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "graduationYear", Message: messages["graduationYear"]["numeric"]}}}
	}
	out := ensure(cur)
	out.Education = append(out.Education, types.Education{
		ID:             newID(),
		Institution:    in.Institution,
		Degree:         in.Degree,
		Field:          in.Field,
		GraduationYear: year,
		GPA:            in.GPA,
		Achievements:   splitLines(in.Achievements),
	})
	return out, nil
}

// RemoveEducation drops the entry with id. It reports false when nothing matched.
func RemoveEducation(cur *types.UserProfile, id string) (*types.UserProfile, bool) {
	out := ensure(cur)
	kept := out.Education[:0]
	found := false
	for _, e := range out.Education {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	out.Education = kept
	return out, found
}

// ensure returns a deep copy of cur, or a new empty profile, with non-nil lists
func ensure(cur *types.UserProfile) *types.UserProfile {
	out := cur.Clone()
	if out == nil {
		out = &types.UserProfile{ID: DefaultUserID}
	}
	if out.ID == "" {
		out.ID = DefaultUserID
	}
	if out.Skills == nil {
		out.Skills = []types.Skill{}
	}
	if out.WorkExperience == nil {
		out.WorkExperience = []types.WorkExperience{}
	}
	if out.Education == nil {
		out.Education = []types.Education{}
	}
	return out
}

// splitLines splits text into trimmed, non-empty lines
func splitLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
