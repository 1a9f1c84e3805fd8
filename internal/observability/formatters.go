// Package observability renders application state for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobswipe/internal/ranking"
	"github.com/jonathan/jobswipe/internal/resume"
	"github.com/jonathan/jobswipe/internal/state"
	"github.com/jonathan/jobswipe/internal/types"
)

const (
	// boxWidth is the outer width of a rendered box
	boxWidth = 60
	// maxItemsToShow caps list sections inside a box
	maxItemsToShow = 5
)

// Printer writes boxed, human-readable summaries
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

//nolint:errcheck // terminal output; nothing to recover
func (p *Printer) printBox(title, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to exactly width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		r := []rune(s)
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func listMore(sb *strings.Builder, items []string, limit int) {
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintStatus shows the swipe position and the current job
func (p *Printer) PrintStatus(s state.AppState) {
	var sb strings.Builder
	switch {
	case s.Loading:
		sb.WriteString("Loading jobs...\n")
	case s.Error != "":
		fmt.Fprintf(&sb, "Error: %s\n", s.Error)
	case !s.HasMoreJobs():
		fmt.Fprintf(&sb, "You've seen all %d jobs. Run 'jobswipe reset' to start over.\n", len(s.Jobs))
	default:
		fmt.Fprintf(&sb, "Job %d of %d (%d remaining)\n", s.CurrentIndex+1, len(s.Jobs), s.Remaining())
	}
	fmt.Fprintf(&sb, "Saved: %d  Applied: %d", len(s.SavedJobs), s.AppliedCount())
	p.printBox("JOBSWIPE", sb.String())

	if job, ok := s.CurrentJob(); ok && !s.Loading {
		p.PrintJob(job, s.IsSaved(job.ID))
	}
}

// PrintJob renders a single job card
func (p *Printer) PrintJob(job types.Job, saved bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", job.Company)
	fmt.Fprintf(&sb, "%s · %s\n", job.Location, job.Type)
	if job.Salary != "" {
		fmt.Fprintf(&sb, "Salary: %s\n", job.Salary)
	}
	if job.MatchPercentage > 0 {
		fmt.Fprintf(&sb, "Match:  %d%%\n", job.MatchPercentage)
	}
	if job.Deadline != "" {
		fmt.Fprintf(&sb, "Apply by %s\n", job.Deadline)
	}
	if len(job.Skills) > 0 {
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(job.Skills, ", "))
	}
	if job.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", job.Description)
	}
	if saved {
		sb.WriteString("\n★ saved\n")
	}
	p.printBox(fmt.Sprintf("[%s] %s", job.ID, job.Title), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDebug dumps counters, the current job and the indexed job list
func (p *Printer) PrintDebug(s state.AppState) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total Jobs:    %d\n", len(s.Jobs))
	fmt.Fprintf(&sb, "Current Index: %d\n", s.CurrentIndex)
	fmt.Fprintf(&sb, "Saved Jobs:    %d\n", len(s.SavedJobs))
	fmt.Fprintf(&sb, "Loading:       %s\n", yesNo(s.Loading))
	errText := s.Error
	if errText == "" {
		errText = "None"
	}
	fmt.Fprintf(&sb, "Error:         %s\n", errText)
	user := "none"
	if s.User != nil {
		user = s.User.ID
	}
	fmt.Fprintf(&sb, "User:          %s\n\n", user)

	if job, ok := s.CurrentJob(); ok {
		fmt.Fprintf(&sb, "Current Job\n  ID: %s\n  Title: %s\n  Company: %s\n\n", job.ID, job.Title, job.Company)
	} else {
		sb.WriteString("No current job available\n\n")
	}

	sb.WriteString("All Jobs\n")
	for i, job := range s.Jobs {
		fmt.Fprintf(&sb, "  %d: %s at %s\n", i, job.Title, job.Company)
	}
	p.printBox("DEBUG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSavedJobs lists saved jobs with their application status
func (p *Printer) PrintSavedJobs(saved []types.SavedJob) {
	if len(saved) == 0 {
		p.printBox("SAVED JOBS", "No saved jobs yet. Swipe right with 'jobswipe like'.")
		return
	}
	var sb strings.Builder
	for _, j := range saved {
		status := "saved"
		if j.Applied {
			status = "applied"
		}
		fmt.Fprintf(&sb, "[%s] %s at %s\n", j.ID, j.Title, j.Company)
		fmt.Fprintf(&sb, "    %s %s\n", status, j.SavedDate.Format("Jan 2, 2006"))
	}
	p.printBox(fmt.Sprintf("SAVED JOBS (%d)", len(saved)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile renders the user profile
func (p *Printer) PrintProfile(u *types.UserProfile) {
	if u == nil {
		p.printBox("PROFILE", "No profile yet. Create one with 'jobswipe profile set'.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:     %s\n", u.FullName)
	fmt.Fprintf(&sb, "Email:    %s\n", u.Email)
	fmt.Fprintf(&sb, "Location: %s\n", u.Location)
	if u.ExpectedSalary != "" {
		fmt.Fprintf(&sb, "Salary:   %s\n", u.ExpectedSalary)
	}
	if u.Bio != "" {
		fmt.Fprintf(&sb, "\n%s\n", u.Bio)
	}

	if len(u.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		for _, s := range u.Skills {
			fmt.Fprintf(&sb, "  [%s] %s (%s)\n", s.ID, s.Name, s.Level)
		}
	}
	if len(u.WorkExperience) > 0 {
		sb.WriteString("\nExperience:\n")
		for _, w := range u.WorkExperience {
			fmt.Fprintf(&sb, "  [%s] %s, %s\n", w.ID, w.Position, w.Company)
			fmt.Fprintf(&sb, "      %s\n", w.Duration)
		}
	}
	if len(u.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, e := range u.Education {
			fmt.Fprintf(&sb, "  [%s] %s in %s, %s (%d)\n", e.ID, e.Degree, e.Field, e.Institution, e.GraduationYear)
		}
	}
	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanked lists ranked jobs with their score breakdown
func (p *Printer) PrintRanked(ranked []ranking.Ranked) {
	if len(ranked) == 0 {
		p.printBox("BEST MATCHES", "No jobs to rank.")
		return
	}
	var sb strings.Builder
	for i, r := range ranked {
		fmt.Fprintf(&sb, "#%d  %3d%%  [%s] %s at %s\n", i+1, r.Score.Percentage(), r.Job.ID, r.Job.Title, r.Job.Company)
		if len(r.Score.MatchedSkills) > 0 {
			fmt.Fprintf(&sb, "          skills: %s\n", strings.Join(r.Score.MatchedSkills, ", "))
		}
	}
	p.printBox("BEST MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImportPreview summarizes parsed resume data and what will be applied
func (p *Printer) PrintImportPreview(res types.ResumeParsingResult, patch resume.Patch) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Confidence: %.0f%%\n", res.Confidence*100)
	for _, w := range res.Warnings {
		fmt.Fprintf(&sb, "! %s\n", w)
	}

	if d := res.Data; d != nil {
		sb.WriteString("\n")
		if d.PersonalInfo.FullName != "" {
			fmt.Fprintf(&sb, "Name: %s\n", d.PersonalInfo.FullName)
		}
		if d.PersonalInfo.Email != "" {
			fmt.Fprintf(&sb, "Email: %s\n", d.PersonalInfo.Email)
		}
		fmt.Fprintf(&sb, "Work entries: %d  Education: %d  Skills: %d\n",
			len(d.WorkExperience), len(d.Education), len(d.Skills))
		if len(d.Skills) > 0 {
			names := make([]string, len(d.Skills))
			for i, s := range d.Skills {
				names[i] = s.Name
			}
			listMore(&sb, names, maxItemsToShow)
		}
	}

	sb.WriteString("\n")
	if patch.Empty() {
		sb.WriteString("Nothing to apply.\n")
	} else {
		names := make([]string, 0, len(patch.Sections()))
		for _, sec := range patch.Sections() {
			names = append(names, string(sec))
		}
		fmt.Fprintf(&sb, "Applying: %s\n", strings.Join(names, ", "))
	}
	if len(patch.Unmerged) > 0 {
		names := make([]string, len(patch.Unmerged))
		for i, sec := range patch.Unmerged {
			names[i] = string(sec)
		}
		fmt.Fprintf(&sb, "Not stored in the profile: %s\n", strings.Join(names, ", "))
	}
	p.printBox("RESUME IMPORT", strings.TrimSuffix(sb.String(), "\n"))
}
