//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParsedResumeData is the structured output of the resume parsing service.
// It is transient: selected sections are merged into a UserProfile and then discarded.
type ParsedResumeData struct {
	PersonalInfo        PersonalInfo         `json:"personalInfo"`
	ProfessionalSummary string               `json:"professionalSummary,omitempty"`
	WorkExperience      []WorkExperienceItem `json:"workExperience"`
	Education           []EducationItem      `json:"education"`
	Skills              []SkillItem          `json:"skills"`
	Certifications      []CertificationItem  `json:"certifications"`
	Languages           []LanguageItem       `json:"languages"`
}

// PersonalInfo holds contact details extracted from a resume
type PersonalInfo struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// WorkExperienceItem is a parsed work history entry with explicit dates
type WorkExperienceItem struct {
	ID               string   `json:"id"`
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Current          bool     `json:"current"`
	Responsibilities []string `json:"responsibilities"`
	Location         string   `json:"location,omitempty"`
}

// EducationItem is a parsed education entry
type EducationItem struct {
	ID             string   `json:"id"`
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	Field          string   `json:"field"`
	GraduationYear FlexInt  `json:"graduationYear"`
	GPA            string   `json:"gpa,omitempty"`
	Achievements   []string `json:"achievements"`
}

// SkillCategory classifies a parsed skill
type SkillCategory string

// SkillCategory constants
const (
	SkillCategoryTechnical SkillCategory = "technical"
	SkillCategorySoft      SkillCategory = "soft"
	SkillCategoryLanguage  SkillCategory = "language"
	SkillCategoryOther     SkillCategory = "other"
)

// SkillItem is a parsed skill; Level is empty when the parser could not infer it
type SkillItem struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
	Level    SkillLevel    `json:"level,omitempty"`
}

// CertificationItem is a parsed certification
type CertificationItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

// LanguageItem is a parsed spoken language
type LanguageItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// ResumeParsingResult is the response envelope of the /parse endpoint
type ResumeParsingResult struct {
	Success    bool              `json:"success"`
	Data       *ParsedResumeData `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Confidence float64           `json:"confidence"`
	Warnings   []string          `json:"warnings"`
}

// FlexInt is an integer that also accepts a quoted number or an empty string in JSON.
// Model output is not consistent about year fields.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var n json.Number
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n = json.Number(s)
	} else {
		n = json.Number(data)
	}

	if i, err := n.Int64(); err == nil {
		*f = FlexInt(i)
		return nil
	}
	fl, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return fmt.Errorf("invalid integer value %s", string(data))
	}
	*f = FlexInt(int(fl))
	return nil
}
