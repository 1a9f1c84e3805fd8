package resume

import "github.com/jonathan/jobswipe/internal/types"

// ListMode says how a list section combines with the existing profile list
type ListMode int

const (
	// Replace discards the existing entries
	Replace ListMode = iota
	// Append keeps the existing entries and adds new ones whose id is not already present
	Append
)

func (m ListMode) String() string {
	if m == Append {
		return "append"
	}
	return "replace"
}

// ListPatch is the new content of one profile list
type ListPatch[T any] struct {
	Mode  ListMode
	Items []T
}

// PersonalPatch holds the scalar profile fields to overwrite. Nil fields are left alone.
type PersonalPatch struct {
	FullName *string
	Email    *string
	Phone    *string
	Location *string
	Website  *string
	LinkedIn *string
}

func (p *PersonalPatch) empty() bool {
	return p == nil || (p.FullName == nil && p.Email == nil && p.Phone == nil &&
		p.Location == nil && p.Website == nil && p.LinkedIn == nil)
}

// Patch is the typed result of merging a parsed resume into a profile.
// Nil sections are not applied.
type Patch struct {
	Personal       *PersonalPatch
	Bio            *string
	WorkExperience *ListPatch[types.WorkExperience]
	Education      *ListPatch[types.Education]
	Skills         *ListPatch[types.Skill]

	// Unmerged lists toggled sections that have no profile field
	Unmerged []Section
}

// Sections returns the non-empty sections in application order
func (p Patch) Sections() []Section {
	var out []Section
	if !p.Personal.empty() {
		out = append(out, SectionPersonalInfo)
	}
	if p.Bio != nil {
		out = append(out, SectionProfessionalSummary)
	}
	if p.WorkExperience != nil && len(p.WorkExperience.Items) > 0 {
		out = append(out, SectionWorkExperience)
	}
	if p.Education != nil && len(p.Education.Items) > 0 {
		out = append(out, SectionEducation)
	}
	if p.Skills != nil && len(p.Skills.Items) > 0 {
		out = append(out, SectionSkills)
	}
	return out
}

// Empty reports whether applying the patch would change nothing
func (p Patch) Empty() bool {
	return len(p.Sections()) == 0
}

// ApplySection returns a copy of base with one section applied. base is not modified.
func (p Patch) ApplySection(base *types.UserProfile, sec Section) *types.UserProfile {
	out := base.Clone()
	if out == nil {
		out = &types.UserProfile{}
	}

	switch sec {
	case SectionPersonalInfo:
		if pp := p.Personal; pp != nil {
			setIf(&out.FullName, pp.FullName)
			setIf(&out.Email, pp.Email)
			setIf(&out.Phone, pp.Phone)
			setIf(&out.Location, pp.Location)
			setIf(&out.Website, pp.Website)
			setIf(&out.LinkedIn, pp.LinkedIn)
		}
	case SectionProfessionalSummary:
		setIf(&out.Bio, p.Bio)
	case SectionWorkExperience:
		if p.WorkExperience != nil {
			out.WorkExperience = combine(out.WorkExperience, *p.WorkExperience,
				func(w types.WorkExperience) string { return w.ID })
		}
	case SectionEducation:
		if p.Education != nil {
			out.Education = combine(out.Education, *p.Education,
				func(e types.Education) string { return e.ID })
		}
	case SectionSkills:
		if p.Skills != nil {
			out.Skills = combine(out.Skills, *p.Skills,
				func(s types.Skill) string { return s.ID })
		}
	}
	return out
}

// Apply returns a copy of base with every section applied
func (p Patch) Apply(base *types.UserProfile) *types.UserProfile {
	out := base.Clone()
	for _, sec := range p.Sections() {
		out = p.ApplySection(out, sec)
	}
	if out == nil {
		out = &types.UserProfile{}
	}
	return out
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func combine[T any](existing []T, lp ListPatch[T], id func(T) string) []T {
	if lp.Mode == Replace {
		out := make([]T, len(lp.Items))
		copy(out, lp.Items)
		return out
	}

	seen := make(map[string]bool, len(existing))
	out := make([]T, 0, len(existing)+len(lp.Items))
	for _, e := range existing {
		seen[id(e)] = true
		out = append(out, e)
	}
	for _, item := range lp.Items {
		if seen[id(item)] {
			continue
		}
		seen[id(item)] = true
		out = append(out, item)
	}
	return out
}
