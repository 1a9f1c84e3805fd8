// Package resume turns parsed resume data into profile patches and talks to
// the resume parsing service.
package resume

import (
	"fmt"
	"strings"
)

// Section names a top-level part of a parsed resume
type Section string

// Sections of a parsed resume, in the order they are applied
const (
	SectionPersonalInfo        Section = "personalInfo"
	SectionProfessionalSummary Section = "professionalSummary"
	SectionWorkExperience      Section = "workExperience"
	SectionEducation           Section = "education"
	SectionSkills              Section = "skills"
	SectionCertifications      Section = "certifications"
	SectionLanguages           Section = "languages"
)

// AllSections lists every section a user can toggle
var AllSections = []Section{
	SectionPersonalInfo,
	SectionProfessionalSummary,
	SectionWorkExperience,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
	SectionLanguages,
}

// Toggles selects which sections of a parsed resume are imported
type Toggles struct {
	PersonalInfo        bool `json:"personalInfo"`
	ProfessionalSummary bool `json:"professionalSummary"`
	WorkExperience      bool `json:"workExperience"`
	Education           bool `json:"education"`
	Skills              bool `json:"skills"`
	Certifications      bool `json:"certifications"`
	Languages           bool `json:"languages"`
}

// DefaultToggles has every section selected
func DefaultToggles() Toggles {
	return Toggles{
		PersonalInfo:        true,
		ProfessionalSummary: true,
		WorkExperience:      true,
		Education:           true,
		Skills:              true,
		Certifications:      true,
		Languages:           true,
	}
}

// Enabled reports whether sec is selected
func (t Toggles) Enabled(sec Section) bool {
	switch sec {
	case SectionPersonalInfo:
		return t.PersonalInfo
	case SectionProfessionalSummary:
		return t.ProfessionalSummary
	case SectionWorkExperience:
		return t.WorkExperience
	case SectionEducation:
		return t.Education
	case SectionSkills:
		return t.Skills
	case SectionCertifications:
		return t.Certifications
	case SectionLanguages:
		return t.Languages
	}
	return false
}

// TogglesFor selects exactly the named sections. Names are matched case-insensitively;
// "summary" and "experience" are accepted as short forms.
func TogglesFor(names []string) (Toggles, error) {
	var t Toggles
	for _, raw := range names {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "personalinfo", "personal":
			t.PersonalInfo = true
		case "professionalsummary", "summary":
			t.ProfessionalSummary = true
		case "workexperience", "experience":
			t.WorkExperience = true
		case "education":
			t.Education = true
		case "skills":
			t.Skills = true
		case "certifications":
			t.Certifications = true
		case "languages":
			t.Languages = true
		case "":
		default:
			return Toggles{}, fmt.Errorf("unknown resume section %q", raw)
		}
	}
	return t, nil
}
