package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobswipe/internal/profile"
	"github.com/jonathan/jobswipe/internal/state"
	"github.com/jonathan/jobswipe/internal/types"
)

var (
	basicsName     string
	basicsEmail    string
	basicsLocation string
	basicsSalary   string
	basicsBio      string

	expCompany          string
	expPosition         string
	expDuration         string
	expResponsibilities []string
	expCurrent          bool

	eduInstitution  string
	eduDegree       string
	eduField        string
	eduYear         string
	eduGPA          string
	eduAchievements []string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update basic information",
	Long: `Update basic information. Flags that are not given keep their current value.

Example:
  jobswipe profile set --name "Ada Lovelace" --email ada@example.com --location "London, Remote"`,
	Args: cobra.NoArgs,
	RunE: runProfileSet,
}

var profileAddSkillCmd = &cobra.Command{
	Use:   "add-skill <name>",
	Short: "Add a skill at Intermediate level",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAddSkill,
}

var profileRemoveSkillCmd = &cobra.Command{
	Use:   "remove-skill <id>",
	Short: "Remove a skill",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove(profile.RemoveSkill, "skill"),
}

var profileAddExperienceCmd = &cobra.Command{
	Use:   "add-experience",
	Short: "Add a work experience entry",
	Long: `Add a work experience entry. Repeat --responsibility for each item.

Example:
  jobswipe profile add-experience --company Acme --position Engineer \
    --duration "2021 - Present" --current --responsibility "Built the API"`,
	Args: cobra.NoArgs,
	RunE: runProfileAddExperience,
}

var profileRemoveExperienceCmd = &cobra.Command{
	Use:   "remove-experience <id>",
	Short: "Remove a work experience entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove(profile.RemoveWorkExperience, "work experience"),
}

var profileAddEducationCmd = &cobra.Command{
	Use:   "add-education",
	Short: "Add an education entry",
	Args:  cobra.NoArgs,
	RunE:  runProfileAddEducation,
}

var profileRemoveEducationCmd = &cobra.Command{
	Use:   "remove-education <id>",
	Short: "Remove an education entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove(profile.RemoveEducation, "education"),
}

func init() {
	f := profileSetCmd.Flags()
	f.StringVar(&basicsName, "name", "", "Full name")
	f.StringVar(&basicsEmail, "email", "", "Email address")
	f.StringVar(&basicsLocation, "location", "", "Location (include \"Remote\" to prefer remote jobs)")
	f.StringVar(&basicsSalary, "salary", "", "Expected salary")
	f.StringVar(&basicsBio, "bio", "", "Short bio")

	f = profileAddExperienceCmd.Flags()
	f.StringVar(&expCompany, "company", "", "Company name")
	f.StringVar(&expPosition, "position", "", "Job title")
	f.StringVar(&expDuration, "duration", "", "Duration, e.g. \"Jan 2020 - Present\"")
	f.StringArrayVar(&expResponsibilities, "responsibility", nil, "Responsibility (repeatable)")
	f.BoolVar(&expCurrent, "current", false, "This is your current role")

	f = profileAddEducationCmd.Flags()
	f.StringVar(&eduInstitution, "institution", "", "School or university")
	f.StringVar(&eduDegree, "degree", "", "Degree")
	f.StringVar(&eduField, "field", "", "Field of study")
	f.StringVar(&eduYear, "year", "", "Graduation year")
	f.StringVar(&eduGPA, "gpa", "", "GPA")
	f.StringArrayVar(&eduAchievements, "achievement", nil, "Achievement (repeatable)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileAddSkillCmd)
	profileCmd.AddCommand(profileRemoveSkillCmd)
	profileCmd.AddCommand(profileAddExperienceCmd)
	profileCmd.AddCommand(profileRemoveExperienceCmd)
	profileCmd.AddCommand(profileAddEducationCmd)
	profileCmd.AddCommand(profileRemoveEducationCmd)
	rootCmd.AddCommand(profileCmd)
}

// editProfile applies edit to the latest profile in one dispatch.
// A failed edit leaves the state untouched.
func editProfile(s *session, edit func(cur *types.UserProfile) (*types.UserProfile, error)) (state.AppState, error) {
	var editErr error
	st := s.store.DispatchFunc(func(cur state.AppState) state.Intent {
		next, err := edit(cur.User)
		if err != nil {
			editErr = err
			return nil
		}
		return state.SetUser{User: next}
	})
	return st, editErr
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		s.printer.PrintProfile(s.store.GetState().User)
		return nil
	})
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	return withSession(cmd, func(s *session) error {
		st, err := editProfile(s, func(cur *types.UserProfile) (*types.UserProfile, error) {
			in := profile.BasicsInput{}
			if cur != nil {
				in = profile.BasicsInput{
					FullName:       cur.FullName,
					Email:          cur.Email,
					Location:       cur.Location,
					ExpectedSalary: cur.ExpectedSalary,
					Bio:            cur.Bio,
				}
			}
			if flags.Changed("name") {
				in.FullName = basicsName
			}
			if flags.Changed("email") {
				in.Email = basicsEmail
			}
			if flags.Changed("location") {
				in.Location = basicsLocation
			}
			if flags.Changed("salary") {
				in.ExpectedSalary = basicsSalary
			}
			if flags.Changed("bio") {
				in.Bio = basicsBio
			}
			return profile.UpdateBasics(cur, in)
		})
		if err != nil {
			return err
		}
		s.printer.PrintProfile(st.User)
		return nil
	})
}

func runProfileAddSkill(cmd *cobra.Command, args []string) error {
	name := args[0]
	return withSession(cmd, func(s *session) error {
		st, err := editProfile(s, func(cur *types.UserProfile) (*types.UserProfile, error) {
			return profile.AddSkill(cur, name)
		})
		if err != nil {
			return err
		}
		s.printer.PrintProfile(st.User)
		return nil
	})
}

func runProfileAddExperience(cmd *cobra.Command, args []string) error {
	in := profile.WorkExperienceInput{
		Company:          expCompany,
		Position:         expPosition,
		Duration:         expDuration,
		Responsibilities: strings.Join(expResponsibilities, "\n"),
		Current:          expCurrent,
	}
	return withSession(cmd, func(s *session) error {
		st, err := editProfile(s, func(cur *types.UserProfile) (*types.UserProfile, error) {
			return profile.AddWorkExperience(cur, in)
		})
		if err != nil {
			return err
		}
		s.printer.PrintProfile(st.User)
		return nil
	})
}

func runProfileAddEducation(cmd *cobra.Command, args []string) error {
	in := profile.EducationInput{
		Institution:    eduInstitution,
		Degree:         eduDegree,
		Field:          eduField,
		GraduationYear: eduYear,
		GPA:            eduGPA,
		Achievements:   strings.Join(eduAchievements, "\n"),
	}
	return withSession(cmd, func(s *session) error {
		st, err := editProfile(s, func(cur *types.UserProfile) (*types.UserProfile, error) {
			return profile.AddEducation(cur, in)
		})
		if err != nil {
			return err
		}
		s.printer.PrintProfile(st.User)
		return nil
	})
}

// runProfileRemove builds the RunE of a remove-by-id command
func runProfileRemove(remove func(*types.UserProfile, string) (*types.UserProfile, bool), what string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withSession(cmd, func(s *session) error {
			st, err := editProfile(s, func(cur *types.UserProfile) (*types.UserProfile, error) {
				next, ok := remove(cur, id)
				if !ok {
					return nil, fmt.Errorf("no %s with id %q", what, id)
				}
				return next, nil
			})
			if err != nil {
				return err
			}
			s.printer.PrintProfile(st.User)
			return nil
		})
	}
}
