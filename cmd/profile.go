package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobhunter/internal/app"
	"github.com/khrees2412/jobhunter/internal/ui"
	"github.com/khrees2412/jobhunter/internal/validation"
	"github.com/khrees2412/jobhunter/pkg/models"
)

var profileFlags = []string{
	"name", "email", "summary", "skills", "keywords", "experience", "linkedin",
	"location", "remote-only", "salary-min", "salary-max", "auto-scan",
}

var resumeExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
	Long:  "View and update the profile the backend matches jobs against",
}

var showProfileCmd = &cobra.Command{
	Use:   "show",
	Short: "Display your profile information",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		user, savedAt, err := a.LoadProfile(cmd.Context(), userID)
		if err != nil {
			return err
		}
		printStale(cmd, a, savedAt)
		cmd.Println(ui.RenderProfile(user))
		return nil
	},
}

var setProfileCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Example: `  jobhunter profile set --name "Ada Lovelace" --experience 7
  jobhunter profile set --skills go,postgres,kubernetes --keywords "backend engineer"
  jobhunter profile set --location Berlin --remote-only=false --auto-scan`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		changed := false
		for _, name := range profileFlags {
			changed = changed || flags.Changed(name)
		}
		if !changed {
			return invalidArg("no fields to update; use flags like --name or --skills")
		}

		return updateProfile(cmd, func(user *models.User, p *models.UserProfile) error {
			if flags.Changed("email") {
				user.Email, _ = flags.GetString("email")
			}
			if flags.Changed("name") {
				p.Name, _ = flags.GetString("name")
			}
			if flags.Changed("summary") {
				p.Summary, _ = flags.GetString("summary")
			}
			if flags.Changed("skills") {
				p.Skills, _ = flags.GetStringSlice("skills")
			}
			if flags.Changed("keywords") {
				p.Keywords, _ = flags.GetStringSlice("keywords")
			}
			if flags.Changed("experience") {
				p.ExperienceYears, _ = flags.GetInt("experience")
			}
			if flags.Changed("linkedin") {
				p.LinkedInURL, _ = flags.GetString("linkedin")
			}
			if flags.Changed("location") {
				p.Preferences.Location, _ = flags.GetString("location")
			}
			if flags.Changed("remote-only") {
				p.Preferences.RemoteOnly, _ = flags.GetBool("remote-only")
			}
			if flags.Changed("salary-min") {
				p.Preferences.SalaryMin, _ = flags.GetInt("salary-min")
			}
			if flags.Changed("salary-max") {
				p.Preferences.SalaryMax, _ = flags.GetInt("salary-max")
			}
			if flags.Changed("auto-scan") {
				p.Preferences.AutoScanEnabled, _ = flags.GetBool("auto-scan")
			}
			return nil
		})
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit",
	Short: "Interactively edit your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateProfile(cmd, func(user *models.User, p *models.UserProfile) error {
			cmd.Println(ui.Title("Edit Profile"))
			cmd.Println("Press Enter to keep current value, or type a new value")

			pr := &prompter{r: bufio.NewReader(cmd.InOrStdin()), w: cmd.OutOrStdout()}
			p.Name = pr.text("Full Name", p.Name)
			user.Email = pr.text("Email", user.Email)
			p.Summary = pr.text("Summary", p.Summary)
			p.Skills = pr.list("Skills (comma separated)", p.Skills)
			p.Keywords = pr.list("Search keywords (comma separated)", p.Keywords)
			p.LinkedInURL = pr.text("LinkedIn URL", p.LinkedInURL)
			p.Preferences.Location = pr.text("Preferred location", p.Preferences.Location)

			years, err := pr.number("Years of experience", p.ExperienceYears)
			if err != nil {
				return err
			}
			p.ExperienceYears = years
			p.Preferences.RemoteOnly = pr.yesNo("Remote only", p.Preferences.RemoteOnly)
			p.Preferences.AutoScanEnabled = pr.yesNo("Scan automatically", p.Preferences.AutoScanEnabled)
			return pr.err
		})
	},
}

var resumeProfileCmd = &cobra.Command{
	Use:   "resume <file-path>",
	Short: "Upload a resume for the backend to parse",
	Args:  cobra.ExactArgs(1),
	Example: `  jobhunter profile resume ~/Documents/resume.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		filePath := args[0]
		if ext := strings.ToLower(filepath.Ext(filePath)); !resumeExtensions[ext] {
			return invalidArg("resume must be a .pdf, .docx or .txt file")
		}

		f, err := os.Open(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				return invalidArg("file not found: %s", filePath)
			}
			return fmt.Errorf("open resume: %w", err)
		}
		defer f.Close()

		uploaded, err := a.Client.UploadResume(cmd.Context(), userID, filepath.Base(filePath), f)
		if err != nil {
			return err
		}
		cmd.Println(ui.Success(uploaded.Message))
		if uploaded.ResumeFileURL != "" {
			cmd.Printf("%s %s\n", ui.Label("Stored at:"), uploaded.ResumeFileURL)
		}
		return nil
	},
}

// updateProfile loads the current profile, or the defaults when none is
// saved, lets mutate change it, validates and saves it.
func updateProfile(cmd *cobra.Command, mutate func(*models.User, *models.UserProfile) error) error {
	ctx := cmd.Context()
	a, userID, err := session(cmd)
	if err != nil {
		return err
	}
	if a.Offline {
		return invalidArg("saving the profile needs the backend; drop --offline")
	}

	current, _, err := a.LoadProfile(ctx, userID)
	if err != nil {
		return err
	}

	user := models.User{UserID: userID, Email: a.Config.Email}
	if current != nil {
		user = *current
	}
	p := current.ProfileOrDefault()
	if err := mutate(&user, &p); err != nil {
		return err
	}
	if err := a.Validator.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", app.ErrInvalidArgument, validation.Humanize(err))
	}

	a.Profile.Update(func(u *models.User) {
		*u = user
		u.UserID = userID
		u.Profile = &p
	})
	saved, _ := a.Profile.Profile()
	if _, err := a.Client.SaveProfile(ctx, *saved); err != nil {
		return err
	}

	cmd.Println(ui.Success("Profile updated successfully!"))
	return nil
}

type prompter struct {
	r   *bufio.Reader
	w   io.Writer
	err error
}

func (p *prompter) ask(label, current string) string {
	fmt.Fprintf(p.w, "%s [%s]: ", ui.Label(label), current)
	line, err := p.r.ReadString('\n')
	if err != nil && err != io.EOF && p.err == nil {
		p.err = err
	}
	return strings.TrimSpace(line)
}

func (p *prompter) text(label, current string) string {
	if v := p.ask(label, current); v != "" {
		return v
	}
	return current
}

func (p *prompter) list(label string, current []string) []string {
	v := p.ask(label, strings.Join(current, ", "))
	if v == "" {
		return current
	}
	return splitList(v)
}

func (p *prompter) number(label string, current int) (int, error) {
	v := p.ask(label, strconv.Itoa(current))
	if v == "" {
		return current, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalidArg("%s must be a number", strings.ToLower(label))
	}
	return n, nil
}

func (p *prompter) yesNo(label string, current bool) bool {
	def := "n"
	if current {
		def = "y"
	}
	switch strings.ToLower(p.ask(label+" (y/n)", def)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return current
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(showProfileCmd, setProfileCmd, editProfileCmd, resumeProfileCmd)

	setProfileCmd.Flags().String("name", "", "Full name")
	setProfileCmd.Flags().String("email", "", "Contact email")
	setProfileCmd.Flags().String("summary", "", "Professional summary")
	setProfileCmd.Flags().StringSlice("skills", nil, "Skills, comma separated")
	setProfileCmd.Flags().StringSlice("keywords", nil, "Search keywords, comma separated")
	setProfileCmd.Flags().Int("experience", 0, "Years of experience")
	setProfileCmd.Flags().String("linkedin", "", "LinkedIn URL")
	setProfileCmd.Flags().String("location", "", "Preferred location")
	setProfileCmd.Flags().Bool("remote-only", false, "Only remote jobs")
	setProfileCmd.Flags().Int("salary-min", 0, "Minimum salary")
	setProfileCmd.Flags().Int("salary-max", 0, "Maximum salary")
	setProfileCmd.Flags().Bool("auto-scan", false, "Let the agent scan on its schedule")
}
