package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved resume configurations",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		presets, err := cli.client.ListPresets(cmd.Context())
		if err != nil {
			return err
		}
		if len(presets) == 0 {
			fmt.Println("No presets saved.")
			return nil
		}
		for _, p := range presets {
			fmt.Printf("%-25s skills=%s experiences=%d projects=%d\n",
				p.Name, p.ResumeConfig.Skills, len(p.ResumeConfig.Experiences), len(p.ResumeConfig.Projects))
		}
		return nil
	},
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the config given by --skills/--exp/--proj under a name",
	Long:  "Save a resume configuration as a named preset. Saving an existing name overwrites its config.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		cfg, err := buildConfigFromFlags()
		if err != nil {
			return err
		}
		preset, err := cli.client.SavePreset(cmd.Context(), args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Saved preset %q\n", preset.Name)
		return nil
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a preset by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		preset, err := findPreset(cmd, cli, args[0])
		if err != nil {
			return err
		}
		if err := cli.client.DeletePreset(cmd.Context(), preset.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted preset %q\n", args[0])
		return nil
	},
}

func init() {
	addConfigFlags(presetsSaveCmd)
	presetsCmd.AddCommand(presetsListCmd, presetsSaveCmd, presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}
