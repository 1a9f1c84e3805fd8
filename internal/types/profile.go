//nolint:revive // types is a standard Go package name pattern
package types

// SkillLevel is the self-assessed proficiency of a skill
type SkillLevel string

// SkillLevel constants
const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillExpert       SkillLevel = "Expert"
)

// UserProfile is the mutable profile aggregate owned by the application state.
type UserProfile struct {
	ID             string           `json:"id"`
	FullName       string           `json:"fullName"`
	Email          string           `json:"email"`
	Location       string           `json:"location"`
	ExpectedSalary string           `json:"expectedSalary"`
	Bio            string           `json:"bio"`
	Phone          string           `json:"phone,omitempty"`
	Website        string           `json:"website,omitempty"`
	LinkedIn       string           `json:"linkedin,omitempty"`
	ProfilePicture *string          `json:"profilePicture,omitempty"`
	Skills         []Skill          `json:"skills"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
}

// Skill is a single entry of the profile's skill list
type Skill struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Level        SkillLevel `json:"level"`
	Endorsements int        `json:"endorsements"`
}

// WorkExperience is a single entry of the profile's work history
type WorkExperience struct {
	ID               string   `json:"id"`
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Current          bool     `json:"current"`
}

// Education is a single entry of the profile's education history
type Education struct {
	ID             string   `json:"id"`
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	Field          string   `json:"field"`
	GraduationYear int      `json:"graduationYear"`
	GPA            string   `json:"gpa,omitempty"`
	Achievements   []string `json:"achievements"`
}

// Clone returns a deep copy of the profile. A nil receiver returns nil.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	if p.ProfilePicture != nil {
		pic := *p.ProfilePicture
		c.ProfilePicture = &pic
	}
	if p.Skills != nil {
		c.Skills = make([]Skill, len(p.Skills))
		copy(c.Skills, p.Skills)
	}
	if p.WorkExperience != nil {
		c.WorkExperience = make([]WorkExperience, len(p.WorkExperience))
		for i, w := range p.WorkExperience {
			w.Responsibilities = cloneStrings(w.Responsibilities)
			c.WorkExperience[i] = w
		}
	}
	if p.Education != nil {
		c.Education = make([]Education, len(p.Education))
		for i, e := range p.Education {
			e.Achievements = cloneStrings(e.Achievements)
			c.Education[i] = e
		}
	}
	return &c
}
