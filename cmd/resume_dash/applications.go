package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jmartin/resume-dash/internal/api"
	"github.com/jmartin/resume-dash/internal/types"
)

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "Track job applications",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		apps, err := cli.client.ListApplications(cmd.Context())
		if err != nil {
			return err
		}
		if len(apps) == 0 {
			fmt.Println("No applications logged.")
			return nil
		}
		for _, app := range apps {
			fmt.Printf("%s  %-12s %-20s %-20s %s\n",
				app.ID, app.Status, app.Company, app.Role, app.AppliedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var (
	appLogRole   string
	appLogURL    string
	appLogNotes  string
	appLogPreset string
)

var applicationsLogCmd = &cobra.Command{
	Use:   "log <company>",
	Short: "Log an application manually",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		req := api.CreateApplicationRequest{
			Company: args[0],
			Role:    appLogRole,
			JobURL:  appLogURL,
			Notes:   appLogNotes,
		}
		if appLogPreset != "" {
			preset, err := findPreset(cmd, cli, appLogPreset)
			if err != nil {
				return err
			}
			req.ResumeConfig = preset.ResumeConfig
		}
		app, err := cli.client.CreateApplication(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("Logged application %s (%s at %s)\n", app.ID, app.Role, app.Company)
		return nil
	},
}

var applicationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid application id %q", args[0])
		}
		app, err := cli.client.GetApplication(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("%s at %s\n", app.Role, app.Company)
		fmt.Printf("  status:   %s\n", app.Status)
		fmt.Printf("  applied:  %s\n", app.AppliedAt.Format("2006-01-02"))
		if app.JobURL != "" {
			fmt.Printf("  url:      %s\n", app.JobURL)
		}
		if app.Notes != "" {
			fmt.Printf("  notes:    %s\n", app.Notes)
		}
		if app.ResumeConfig.Skills != "" || len(app.ResumeConfig.Experiences) > 0 {
			fmt.Printf("  resume:   skills=%s experiences=%v projects=%v\n",
				app.ResumeConfig.Skills, app.ResumeConfig.Experiences, app.ResumeConfig.Projects)
		}
		return nil
	},
}

var applicationsSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Update an application's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid application id %q", args[0])
		}
		status := types.Status(args[1])
		if !status.Valid() {
			return fmt.Errorf("invalid status %q", args[1])
		}
		app, err := cli.client.UpdateApplication(cmd.Context(), id, api.UpdateApplicationRequest{Status: &status})
		if err != nil {
			return err
		}
		fmt.Printf("%s at %s is now %s\n", app.Role, app.Company, app.Status)
		return nil
	},
}

var applicationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid application id %q", args[0])
		}
		if err := cli.client.DeleteApplication(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	applicationsLogCmd.Flags().StringVar(&appLogRole, "role", "", "Role title")
	applicationsLogCmd.MarkFlagRequired("role")
	applicationsLogCmd.Flags().StringVar(&appLogURL, "url", "", "Job posting URL")
	applicationsLogCmd.Flags().StringVar(&appLogNotes, "notes", "", "Free-form notes")
	applicationsLogCmd.Flags().StringVar(&appLogPreset, "preset", "", "Attach the resume config of a saved preset")

	applicationsCmd.AddCommand(applicationsListCmd, applicationsLogCmd, applicationsShowCmd, applicationsSetStatusCmd, applicationsDeleteCmd)
	rootCmd.AddCommand(applicationsCmd)
}

func findPreset(cmd *cobra.Command, cli *cliContext, name string) (*types.Preset, error) {
	presets, err := cli.client.ListPresets(cmd.Context())
	if err != nil {
		return nil, err
	}
	for i := range presets {
		if presets[i].Name == name {
			return &presets[i], nil
		}
	}
	return nil, fmt.Errorf("preset not found: %s", name)
}
