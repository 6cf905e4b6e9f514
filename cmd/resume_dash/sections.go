package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmartin/resume-dash/internal/api"
	"github.com/jmartin/resume-dash/internal/section"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Manage the section library",
}

var sectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List current section versions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		sections, err := cli.client.ListSections(cmd.Context())
		if err != nil {
			return err
		}
		if len(sections) == 0 {
			fmt.Println("No sections in the library.")
			return nil
		}
		for _, s := range sections {
			tags := ""
			if len(s.Tags) > 0 {
				tags = "  [" + strings.Join(s.Tags, ", ") + "]"
			}
			fmt.Printf("%-10s %-20s %-15s v%s%s\n", s.Type, s.Key, s.Flavor, s.Version, tags)
		}
		return nil
	},
}

var (
	sectionCreateContent string
	sectionCreateTags    []string
)

var sectionsCreateCmd = &cobra.Command{
	Use:   "create <type> <key> <flavor>",
	Short: "Create a new section flavor from a JSON content file",
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
		content, err := readContentFile(sectionCreateContent)
		if err != nil {
			return err
		}
		created, err := cli.client.CreateSection(cmd.Context(), id, content, sectionCreateTags)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s at version %s\n", id, created.Version)
		return nil
	},
}

var sectionsVersionsCmd = &cobra.Command{
	Use:   "versions <type> <key> <flavor>",
	Short: "Show all versions of a flavor",
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
		versions, err := cli.client.ListSectionVersions(cmd.Context(), id)
		if err != nil {
			return err
		}
		for _, s := range versions {
			marker := " "
			if s.IsCurrent {
				marker = "*"
			}
			fmt.Printf("%s v%-8s %s\n", marker, s.Version, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sectionsUpdateCmd = &cobra.Command{
	Use:   "update <type> <key> <flavor>",
	Short: "Save new content as the next version",
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
		content, err := readContentFile(sectionCreateContent)
		if err != nil {
			return err
		}
		updated, err := cli.client.UpdateSection(cmd.Context(), id, content)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s as version %s\n", id, updated.Version)
		return nil
	},
}

var sectionsDeleteVersionCmd = &cobra.Command{
	Use:   "delete-version <type> <key> <flavor> <version>",
	Short: "Delete one stored version",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		id, err := parseSectionID(args)
		if err != nil {
			return err
		}
		if err := cli.client.DeleteSectionVersion(cmd.Context(), id, args[3]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s v%s\n", id, args[3])
		return nil
	},
}

var sectionsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-import sections from a JSON array file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read import file: %w", err)
		}
		var items []api.BulkImportItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("failed to parse import file: expected a JSON array of sections: %w", err)
		}
		result, err := cli.client.BulkImportSections(cmd.Context(), items)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d sections, %d failed\n", result.Success, result.Failed)
		for _, f := range result.Failures {
			fmt.Printf("  item %d (%s): %s\n", f.Index, f.Key, f.Detail)
		}
		if result.Success == 0 && result.Failed > 0 {
			return errors.New("no sections were imported")
		}
		return nil
	},
}

var sectionsConfigsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Show per-key matcher behavior",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		configs, err := cli.client.ListSectionConfigs(cmd.Context())
		if err != nil {
			return err
		}
		if len(configs) == 0 {
			fmt.Println("No section configs set.")
			return nil
		}
		for _, c := range configs {
			flavor := ""
			if c.FixedFlavor != "" {
				flavor = "  flavor=" + c.FixedFlavor
			}
			fmt.Printf("%-10s %-20s %s%s\n", c.SectionType, c.SectionKey, c.Priority, flavor)
		}
		return nil
	},
}

var setPriorityFlavor string

var sectionsSetPriorityCmd = &cobra.Command{
	Use:   "set-priority <type> <key> <always|normal|never>",
	Short: "Control how the matcher treats a key",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newCLIContext()
		if err != nil {
			return err
		}
		typ := section.Type(args[0])
		if !typ.Valid() {
			return fmt.Errorf("invalid section type %q", args[0])
		}
		priority := section.Priority(args[2])
		if !priority.Valid() {
			return fmt.Errorf("invalid priority %q (want always, normal, or never)", args[2])
		}
		if priority == section.PriorityNormal && setPriorityFlavor == "" {
			// normal with no fixed flavor is the default; just drop the row
			if err := cli.client.DeleteSectionConfig(cmd.Context(), typ, args[1]); err != nil {
				var apiErr *api.Error
				if !errors.As(err, &apiErr) || apiErr.Status != 404 {
					return err
				}
			}
			fmt.Printf("%s %q reset to default behavior\n", typ, args[1])
			return nil
		}
		if _, err := cli.client.UpsertSectionConfig(cmd.Context(), typ, args[1], priority, setPriorityFlavor); err != nil {
			return err
		}
		fmt.Printf("%s %q set to %s\n", typ, args[1], priority)
		return nil
	},
}

func init() {
	sectionsSetPriorityCmd.Flags().StringVar(&setPriorityFlavor, "flavor", "", "Lock suggestions for this key to one flavor")

	sectionsCreateCmd.Flags().StringVar(&sectionCreateContent, "content", "", "Path to JSON content file (- for stdin)")
	sectionsCreateCmd.MarkFlagRequired("content")
	sectionsCreateCmd.Flags().StringSliceVar(&sectionCreateTags, "tag", nil, "Tags to attach (repeatable)")
	sectionsUpdateCmd.Flags().StringVar(&sectionCreateContent, "content", "", "Path to JSON content file (- for stdin)")
	sectionsUpdateCmd.MarkFlagRequired("content")

	sectionsCmd.AddCommand(sectionsListCmd, sectionsCreateCmd, sectionsImportCmd, sectionsVersionsCmd, sectionsUpdateCmd, sectionsDeleteVersionCmd, sectionsConfigsCmd, sectionsSetPriorityCmd)
	rootCmd.AddCommand(sectionsCmd)
}

func parseSectionID(args []string) (section.ID, error) {
	typ := section.Type(args[0])
	if !typ.Valid() {
		return section.ID{}, fmt.Errorf("invalid section type %q (want experience, project, or skills)", args[0])
	}
	return section.ID{Type: typ, Key: args[1], Flavor: args[2]}, nil
}

func readContentFile(path string) (section.Content, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return section.Content{}, fmt.Errorf("failed to read content file: %w", err)
	}
	var content section.Content
	if err := json.Unmarshal(data, &content); err != nil {
		return section.Content{}, fmt.Errorf("failed to parse content JSON: %w", err)
	}
	return content, nil
}
