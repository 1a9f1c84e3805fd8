// Package parsing turns resume text into ParsedResumeData with an LLM.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/jobswipe/internal/llm"
	"github.com/jonathan/jobswipe/internal/prompts"
	"github.com/jonathan/jobswipe/internal/schemas"
	"github.com/jonathan/jobswipe/internal/types"
)

// MaxResumeChars bounds the text sent to the model
const MaxResumeChars = 60000

// ResumeParser extracts structured data from resume text
type ResumeParser interface {
	ParseResume(ctx context.Context, text string) (*types.ParsedResumeData, error)
}

// Parser implements ResumeParser on top of an llm.Client
type Parser struct {
	client llm.Client
	logger *zap.Logger
}

// NewParser creates a parser. A nil logger discards output.
func NewParser(client llm.Client, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{client: client, logger: logger}
}

// ParseResume implements ResumeParser
func (p *Parser) ParseResume(ctx context.Context, text string) (*types.ParsedResumeData, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "text", Message: "resume text is empty"}
	}
	if len(text) > MaxResumeChars {
		text = truncate(text, MaxResumeChars)
		p.logger.Debug("resume text truncated", zap.Int("limit", MaxResumeChars))
	}

	system, err := prompts.Get(prompts.ResumeFile, "system")
	if err != nil {
		return nil, err
	}
	template, err := prompts.Get(prompts.ResumeFile, "extract-resume")
	if err != nil {
		return nil, err
	}

	responseText, err := p.client.GenerateJSON(ctx, llm.Request{
		System: system,
		Prompt: prompts.Format(template, map[string]string{"ResumeText": text}),
		Tier:   llm.TierStandard,
	})
	if err != nil {
		return nil, &APICallError{Message: "failed to generate content from LLM", Cause: err}
	}

	return DecodeResume(responseText)
}

// DecodeResume validates model output against the parsed resume schema and decodes it
func DecodeResume(responseText string) (*types.ParsedResumeData, error) {
	responseText = llm.CleanJSONBlock(responseText)

	if err := schemas.ValidateParsedResume(responseText); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) && len(ve.Errors) > 0 {
			first := ve.Errors[0]
			return nil, &ValidationError{Field: first.Field, Message: first.Message, Cause: err}
		}
		return nil, &ValidationError{Message: "response does not match schema", Cause: err}
	}

	var data types.ParsedResumeData
	if err := json.Unmarshal([]byte(responseText), &data); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}
	postProcess(&data)
	return &data, nil
}

func postProcess(data *types.ParsedResumeData) {
	pi := &data.PersonalInfo
	pi.FullName = strings.TrimSpace(pi.FullName)
	pi.Email = strings.TrimSpace(pi.Email)
	pi.Phone = strings.TrimSpace(pi.Phone)
	pi.Location = strings.TrimSpace(pi.Location)
	pi.Website = strings.TrimSpace(pi.Website)
	pi.LinkedIn = strings.TrimSpace(pi.LinkedIn)
	data.ProfessionalSummary = strings.TrimSpace(data.ProfessionalSummary)

	work := make([]types.WorkExperienceItem, 0, len(data.WorkExperience))
	for _, w := range data.WorkExperience {
		w.Company = strings.TrimSpace(w.Company)
		w.Position = strings.TrimSpace(w.Position)
		if w.Company == "" && w.Position == "" {
			continue
		}
		w.Responsibilities = trimAll(w.Responsibilities)
		if w.Current {
			w.EndDate = ""
		}
		work = append(work, w)
	}
	data.WorkExperience = work

	edu := make([]types.EducationItem, 0, len(data.Education))
	for _, e := range data.Education {
		e.Institution = strings.TrimSpace(e.Institution)
		if e.Institution == "" {
			continue
		}
		e.Achievements = trimAll(e.Achievements)
		edu = append(edu, e)
	}
	data.Education = edu

	data.Skills = NormalizeSkills(data.Skills)

	if data.Certifications == nil {
		data.Certifications = []types.CertificationItem{}
	}
	if data.Languages == nil {
		data.Languages = []types.LanguageItem{}
	}
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
