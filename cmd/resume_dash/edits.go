package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/tempedit"
)

var editsCmd = &cobra.Command{
	Use:   "edits",
	Short: "Manage temporary content edits",
	Long: `Temporary edits override a flavor's content for display and generation
without creating library versions. They live in local client state until
cleared, saved to the library, or consumed by a successful generate.`,
}

var editsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending temporary edits",
	RunE: func(_ *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		store := tempedit.NewStore(cli.store)
		edits := store.Sorted()
		if len(edits) == 0 {
			fmt.Println("No temporary edits.")
			return nil
		}
		for _, e := range edits {
			fmt.Printf("%-40s over v%s\n", e.ID(), e.OriginalVersion)
		}
		fmt.Println("\nThese edits are not saved to the library. Use 'edits save-all' to version them, or 'edits clear' to drop them.")
		return nil
	},
}

var editSetContent string

var editsSetCmd = &cobra.Command{
	Use:   "set <type> <key> <flavor>",
	Short: "Stage edited content for a flavor",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := parseSectionID(args)
		if err != nil {
			return err
		}
		content, err := readContentFile(editSetContent)
		if err != nil {
			return err
		}

		// record which version the edit shadows
		current, err := currentVersion(cmd, cli, id)
		if err != nil {
			return err
		}

		store := tempedit.NewStore(cli.store)
		if err := store.AddOrReplace(id, current, content); err != nil {
			return err
		}
		fmt.Printf("Staged edit for %s (over v%s). Not saved to the library.\n", id, current)
		return nil
	},
}

var editsRmCmd = &cobra.Command{
	Use:   "rm <type> <key> <flavor>",
	Short: "Discard one temporary edit",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := parseSectionID(args)
		if err != nil {
			return err
		}
		store := tempedit.NewStore(cli.store)
		if _, ok := store.Get(id); !ok {
			return fmt.Errorf("no temporary edit for %s", id)
		}
		if err := store.Remove(id); err != nil {
			return err
		}
		fmt.Printf("Discarded edit for %s\n", id)
		return nil
	},
}

var editsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard all temporary edits",
	RunE: func(_ *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		store := tempedit.NewStore(cli.store)
		n := store.Count()
		if err := store.ClearAll(); err != nil {
			return err
		}
		fmt.Printf("Discarded %d edit(s)\n", n)
		return nil
	},
}

var editsSaveAllCmd = &cobra.Command{
	Use:   "save-all",
	Short: "Save every temporary edit as a new library version",
	Long: `Save each pending edit as the next version of its flavor. Edits are
saved independently: successes are removed from local state as they land,
failures stay staged and are reported at the end.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		store := tempedit.NewStore(cli.store)
		if !store.HasAny() {
			fmt.Println("No temporary edits to save.")
			return nil
		}

		r := &resume.Reconciler{Edits: store, Library: cli.client}
		err = r.SaveAll(cmd.Context(), nil)

		var saveErr *resume.SaveAllError
		if errors.As(err, &saveErr) {
			for _, f := range saveErr.Failures {
				fmt.Printf("FAILED %s: %v\n", f.ID, f.Err)
			}
			return fmt.Errorf("%d edit(s) not saved; they remain staged", len(saveErr.Failures))
		}
		if err != nil {
			return err
		}
		fmt.Println("All edits saved to the library.")
		return nil
	},
}

func init() {
	editsSetCmd.Flags().StringVar(&editSetContent, "content", "", "Path to JSON content file (- for stdin)")
	editsSetCmd.MarkFlagRequired("content")

	editsCmd.AddCommand(editsListCmd, editsSetCmd, editsRmCmd, editsClearCmd, editsSaveAllCmd)
	rootCmd.AddCommand(editsCmd)
}

// currentVersion looks up the current library version of a flavor.
func currentVersion(cmd *cobra.Command, cli *cliContext, id section.ID) (string, error) {
	sections, err := cli.client.ListSections(cmd.Context())
	if err != nil {
		return "", err
	}
	for _, s := range sections {
		if s.Type == id.Type && s.Key == id.Key && s.Flavor == id.Flavor {
			return s.Version, nil
		}
	}
	return "", fmt.Errorf("section not found in library: %s", id)
}
