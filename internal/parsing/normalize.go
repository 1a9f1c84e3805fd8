package parsing

import (
	"strings"

	"github.com/jonathan/jobswipe/internal/types"
)

// skillNormalizations maps common skill spellings to canonical names
var skillNormalizations = map[string]string{
	"golang":       "Go",
	"go lang":      "Go",
	"javascript":   "JavaScript",
	"js":           "JavaScript",
	"typescript":   "TypeScript",
	"ts":           "TypeScript",
	"k8s":          "Kubernetes",
	"kubernetes":   "Kubernetes",
	"react.js":     "React",
	"reactjs":      "React",
	"react native": "React Native",
	"vue.js":       "Vue",
	"vuejs":        "Vue",
	"node.js":      "Node.js",
	"nodejs":       "Node.js",
	"node":         "Node.js",
	"postgres":     "PostgreSQL",
	"postgresql":   "PostgreSQL",
	"python3":      "Python",
}

// NormalizeSkillName returns the canonical spelling of a skill.
// Single lowercase words are capitalized; mixed case is kept as written.
func NormalizeSkillName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}
	if name == lower && !strings.Contains(name, " ") {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

// NormalizeSkills canonicalizes skill names and drops empty and duplicate entries.
// The first occurrence wins, but a later entry may fill in a missing level.
func NormalizeSkills(skills []types.SkillItem) []types.SkillItem {
	out := make([]types.SkillItem, 0, len(skills))
	seen := make(map[string]int, len(skills))

	for _, s := range skills {
		s.Name = NormalizeSkillName(s.Name)
		if s.Name == "" {
			continue
		}
		if !validLevel(s.Level) {
			s.Level = ""
		}
		switch s.Category {
		case types.SkillCategoryTechnical, types.SkillCategorySoft, types.SkillCategoryLanguage, types.SkillCategoryOther:
		default:
			s.Category = types.SkillCategoryOther
		}

		key := strings.ToLower(s.Name)
		if idx, ok := seen[key]; ok {
			if out[idx].Level == "" {
				out[idx].Level = s.Level
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, s)
	}
	return out
}

func validLevel(l types.SkillLevel) bool {
	switch l {
	case types.SkillBeginner, types.SkillIntermediate, types.SkillAdvanced, types.SkillExpert:
		return true
	}
	return false
}

// trimAll trims every entry and drops the ones left empty
func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
