package resume

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/jobswipe/internal/types"
)

// idNamespace seeds name-based ids for parsed entries that arrive without one
var idNamespace = uuid.MustParse("6f1c8e0a-3b7d-5e2f-9a41-2c5d7b8e9f10")

// MergeOption configures Merge
type MergeOption func(*mergeConfig)

type mergeConfig struct {
	listMode ListMode
}

// WithListMode sets how list sections combine with the existing profile. The default is Replace.
func WithListMode(mode ListMode) MergeOption {
	return func(c *mergeConfig) {
		c.listMode = mode
	}
}

// Merge builds a patch from the toggled sections of data.
//
// Scalar fields are only set when the parsed value is non-empty and differs
// from current. Certifications and languages have no profile field and are
// reported in Patch.Unmerged instead. Merge is deterministic: entries without
// an id get one derived from their content.
func Merge(data *types.ParsedResumeData, toggles Toggles, current *types.UserProfile, opts ...MergeOption) Patch {
	cfg := mergeConfig{listMode: Replace}
	for _, opt := range opts {
		opt(&cfg)
	}

	var patch Patch
	if data == nil {
		return patch
	}
	cur := current
	if cur == nil {
		cur = &types.UserProfile{}
	}

	if toggles.PersonalInfo {
		pi := data.PersonalInfo
		pp := &PersonalPatch{
			FullName: changed(pi.FullName, cur.FullName),
			Email:    changed(pi.Email, cur.Email),
			Phone:    changed(pi.Phone, cur.Phone),
			Location: changed(pi.Location, cur.Location),
			Website:  changed(pi.Website, cur.Website),
			LinkedIn: changed(pi.LinkedIn, cur.LinkedIn),
		}
		if !pp.empty() {
			patch.Personal = pp
		}
	}

	if toggles.ProfessionalSummary {
		patch.Bio = changed(data.ProfessionalSummary, cur.Bio)
	}

	if toggles.WorkExperience && len(data.WorkExperience) > 0 {
		items := make([]types.WorkExperience, 0, len(data.WorkExperience))
		for i, w := range data.WorkExperience {
			items = append(items, convertWork(i, w))
		}
		patch.WorkExperience = &ListPatch[types.WorkExperience]{Mode: cfg.listMode, Items: items}
	}

	if toggles.Education && len(data.Education) > 0 {
		items := make([]types.Education, 0, len(data.Education))
		for i, e := range data.Education {
			items = append(items, convertEducation(i, e))
		}
		patch.Education = &ListPatch[types.Education]{Mode: cfg.listMode, Items: items}
	}

	if toggles.Skills && len(data.Skills) > 0 {
		items := make([]types.Skill, 0, len(data.Skills))
		for i, s := range data.Skills {
			items = append(items, convertSkill(i, s))
		}
		patch.Skills = &ListPatch[types.Skill]{Mode: cfg.listMode, Items: items}
	}

	if toggles.Certifications && len(data.Certifications) > 0 {
		patch.Unmerged = append(patch.Unmerged, SectionCertifications)
	}
	if toggles.Languages && len(data.Languages) > 0 {
		patch.Unmerged = append(patch.Unmerged, SectionLanguages)
	}

	return patch
}

// changed returns the trimmed parsed value when it is non-empty and differs from cur
func changed(parsed, cur string) *string {
	v := strings.TrimSpace(parsed)
	if v == "" || v == cur {
		return nil
	}
	return &v
}

// Duration renders a parsed date range the way profile entries store it
func Duration(startDate, endDate string, current bool) string {
	if current {
		return fmt.Sprintf("%s - Present", startDate)
	}
	return fmt.Sprintf("%s - %s", startDate, endDate)
}

func convertWork(i int, w types.WorkExperienceItem) types.WorkExperience {
	resp := make([]string, 0, len(w.Responsibilities))
	resp = append(resp, w.Responsibilities...)
	return types.WorkExperience{
		ID:               entryID(w.ID, SectionWorkExperience, i, w.Company, w.Position, w.StartDate),
		Company:          w.Company,
		Position:         w.Position,
		Duration:         Duration(w.StartDate, w.EndDate, w.Current),
		Responsibilities: resp,
		Current:          w.Current,
	}
}

func convertEducation(i int, e types.EducationItem) types.Education {
	achievements := make([]string, 0, len(e.Achievements))
	achievements = append(achievements, e.Achievements...)
	return types.Education{
		ID:             entryID(e.ID, SectionEducation, i, e.Institution, e.Degree, e.Field),
		Institution:    e.Institution,
		Degree:         e.Degree,
		Field:          e.Field,
		GraduationYear: int(e.GraduationYear),
		GPA:            e.GPA,
		Achievements:   achievements,
	}
}

func convertSkill(i int, s types.SkillItem) types.Skill {
	level := s.Level
	if level == "" {
		level = types.SkillIntermediate
	}
	return types.Skill{
		ID:           entryID(s.ID, SectionSkills, i, s.Name),
		Name:         s.Name,
		Level:        level,
		Endorsements: 0,
	}
}

// entryID keeps a parsed id, or derives a stable one from the entry's content
func entryID(parsed string, sec Section, index int, parts ...string) string {
	if id := strings.TrimSpace(parsed); id != "" {
		return id
	}
	name := fmt.Sprintf("%s|%d|%s", sec, index, strings.Join(parts, "|"))
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}
