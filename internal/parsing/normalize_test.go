package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobswipe/internal/types"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "golang", want: "Go"},
		{input: "GoLang", want: "Go"},
		{input: "  k8s ", want: "Kubernetes"},
		{input: "react   native", want: "React Native"},
		{input: "python", want: "Python"},
		{input: "machine learning", want: "machine learning"},
		{input: "GraphQL", want: "GraphQL"},
		{input: "SQL", want: "SQL"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	in := []types.SkillItem{
		{Name: "js", Category: "technical"},
		{Name: "JavaScript", Category: "technical", Level: types.SkillAdvanced},
		{Name: "Teamwork", Category: "interpersonal", Level: "Great"},
		{Name: "", Category: "technical"},
	}

	out := NormalizeSkills(in)
	assert.Equal(t, []types.SkillItem{
		{Name: "JavaScript", Category: types.SkillCategoryTechnical, Level: types.SkillAdvanced},
		{Name: "Teamwork", Category: types.SkillCategoryOther},
	}, out)

	assert.Empty(t, NormalizeSkills(nil))
}
