package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobhunter/internal/app"
	"github.com/khrees2412/jobhunter/internal/ui"
	"github.com/khrees2412/jobhunter/internal/validation"
	"github.com/khrees2412/jobhunter/pkg/models"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template", "tmpl"},
	Short:   "Manage outreach templates",
	Long: `Manage the message skeletons used for outreach. Bodies and subjects may use
the placeholders {{company_name}}, {{job_title}}, {{hiring_manager}},
{{my_name}} and {{my_skills}}.`,
}

var listTemplatesCmd = &cobra.Command{
	Use:   "list",
	Short: "List your templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		list, err := a.Client.ListTemplates(cmd.Context(), userID)
		if err != nil {
			return err
		}
		cmd.Println(ui.RenderTemplates(list))
		return nil
	},
}

var showTemplateCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		t, err := a.Client.GetTemplate(cmd.Context(), args[0], userID)
		if err != nil {
			return err
		}
		cmd.Println(ui.RenderTemplate(*t))
		return nil
	},
}

var createTemplateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a template",
	Example: `  jobhunter templates create --name Intro --subject "{{job_title}} at {{company_name}}" --body-file intro.txt
  jobhunter templates create --name "Nudge" --type follow_up --body "Hi {{hiring_manager}}, following up..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}

		in := models.TemplateInput{UserID: userID, Type: models.TemplateInitial}
		if err := templateInputFromFlags(cmd, &in); err != nil {
			return err
		}
		if err := validateTemplate(a, in); err != nil {
			return err
		}

		created, err := a.Client.CreateTemplate(cmd.Context(), in)
		if err != nil {
			return err
		}
		cmd.Println(ui.Success(fmt.Sprintf("Template %q created (%s)", in.Name, created.ID)))
		return nil
	},
}

var updateTemplateCmd = &cobra.Command{
	Use:   "update <template-id>",
	Short: "Update a template; unset flags keep their current value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}

		current, err := a.Client.GetTemplate(ctx, args[0], userID)
		if err != nil {
			return err
		}
		in := models.TemplateInput{
			UserID:  userID,
			Name:    current.Name,
			Type:    current.Type,
			Subject: current.Subject,
			Body:    current.Body,
		}
		if err := templateInputFromFlags(cmd, &in); err != nil {
			return err
		}
		if err := validateTemplate(a, in); err != nil {
			return err
		}

		if err := a.Client.UpdateTemplate(ctx, args[0], in); err != nil {
			return err
		}
		cmd.Println(ui.Success("Template updated"))
		return nil
	},
}

var deleteTemplateCmd = &cobra.Command{
	Use:   "delete <template-id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		if err := a.Client.DeleteTemplate(cmd.Context(), args[0], userID); err != nil {
			return err
		}
		cmd.Println(ui.Success("Template deleted"))
		return nil
	},
}

var duplicateTemplateCmd = &cobra.Command{
	Use:   "duplicate <template-id>",
	Short: "Copy a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, userID, err := session(cmd)
		if err != nil {
			return err
		}
		created, err := a.Client.DuplicateTemplate(cmd.Context(), args[0], userID)
		if err != nil {
			return err
		}
		cmd.Println(ui.Success("Template copied as " + created.ID))
		return nil
	},
}

func templateInputFromFlags(cmd *cobra.Command, in *models.TemplateInput) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name, _ = flags.GetString("name")
	}
	if flags.Changed("type") {
		t, _ := flags.GetString("type")
		in.Type = models.TemplateType(t)
	}
	if flags.Changed("subject") {
		in.Subject, _ = flags.GetString("subject")
	}
	if flags.Changed("body") && flags.Changed("body-file") {
		return invalidArg("use either --body or --body-file")
	}
	if flags.Changed("body") {
		in.Body, _ = flags.GetString("body")
	}
	if flags.Changed("body-file") {
		path, _ := flags.GetString("body-file")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read body file: %w", err)
		}
		in.Body = string(data)
	}
	return nil
}

func validateTemplate(a *app.App, in models.TemplateInput) error {
	if err := a.Validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", app.ErrInvalidArgument, validation.Humanize(err))
	}
	return nil
}

func addTemplateFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Template name")
	cmd.Flags().String("type", string(models.TemplateInitial), "initial or follow_up")
	cmd.Flags().String("subject", "", "Email subject")
	cmd.Flags().String("body", "", "Message body")
	cmd.Flags().String("body-file", "", "Read the message body from a file")
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(listTemplatesCmd, showTemplateCmd, createTemplateCmd,
		updateTemplateCmd, deleteTemplateCmd, duplicateTemplateCmd)

	addTemplateFlags(createTemplateCmd)
	addTemplateFlags(updateTemplateCmd)
}
