package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmartin/resume-dash/internal/fetch"
	"github.com/jmartin/resume-dash/internal/jd"
	"github.com/jmartin/resume-dash/internal/resume"
	"github.com/jmartin/resume-dash/internal/types"
)

var (
	matchJDFile       string
	matchURL          string
	matchInstructions string
	matchGenerate     bool
	matchOut          string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match the section library against a job description",
	Long: `Analyze a job description and print the suggested resume configuration
and the keywords it misses. The description comes from --jd (a file, - for
stdin) or --url (fetched and extracted, with a headless-browser fallback
for script-rendered postings). With --generate the suggested configuration
is rendered to a PDF immediately.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchJDFile, "jd", "", "Path to a job description text file (- for stdin)")
	matchCmd.Flags().StringVar(&matchURL, "url", "", "Job posting URL to fetch")
	matchCmd.Flags().StringVar(&matchInstructions, "instructions", "", "Extra guidance for the matcher")
	matchCmd.Flags().BoolVar(&matchGenerate, "generate", false, "Render the suggested configuration to a PDF")
	matchCmd.Flags().StringVar(&matchOut, "out", "resume.pdf", "Output PDF path for --generate")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if (matchJDFile == "") == (matchURL == "") {
		return fmt.Errorf("exactly one of --jd or --url is required")
	}

	cli, err := newCLIContext()
	if err != nil {
		return err
	}

	var jobDescription string
	var posting *fetch.Posting
	if matchURL != "" {
		posting, err = fetch.New().JobPosting(cmd.Context(), matchURL)
		if err != nil {
			return err
		}
		jobDescription = posting.Description
		fmt.Printf("Fetched %d characters from %s (%s)\n", len(jobDescription), matchURL, posting.Platform)
	} else {
		path := matchJDFile
		if path == "-" {
			path = "/dev/stdin"
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(data)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return fmt.Errorf("job description is empty")
	}

	analysis, err := cli.client.AnalyzeJD(cmd.Context(), jobDescription, matchInstructions)
	if err != nil {
		return err
	}

	printSuggestions(analysis)

	if !matchGenerate {
		return nil
	}

	cfg := suggestedConfig(analysis.Suggestions)
	var job *types.JobInfo
	if posting != nil {
		job = &types.JobInfo{Company: posting.Title, JobURL: posting.URL, JobDescription: jobDescription}
	}
	pdf, err := cli.client.Generate(cmd.Context(), cfg, job, nil)
	if err != nil {
		return err
	}
	if err := os.WriteFile(matchOut, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", matchOut, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", matchOut, len(pdf))
	return nil
}

func printSuggestions(analysis *jd.AnalyzeResponse) {
	s := analysis.Suggestions
	fmt.Println("Suggested configuration:")
	if s.SkillsFlavor != "" {
		fmt.Printf("  skills: %s\n", s.SkillsFlavor)
	}
	for _, sug := range s.Experiences {
		fmt.Printf("  exp:    %s:%s:%s (score %.2f)\n", sug.Key, sug.Flavor, sug.Version, sug.Score)
	}
	for _, sug := range s.Projects {
		fmt.Printf("  proj:   %s:%s:%s (score %.2f)\n", sug.Key, sug.Flavor, sug.Version, sug.Score)
	}
	if len(analysis.MissingKeywords) > 0 {
		fmt.Printf("Missing keywords: %s\n", strings.Join(analysis.MissingKeywords, ", "))
	}
}

func suggestedConfig(s jd.Suggestions) resume.Config {
	cfg := resume.Config{Experiences: []string{}, Projects: []string{}}
	if s.SkillsFlavor != "" {
		cfg.Skills = s.SkillsFlavor + ":" + resume.SkillsVersion
	}
	for _, sug := range s.Experiences {
		cfg.Experiences = append(cfg.Experiences, sug.Key+":"+sug.Flavor+":"+sug.Version)
	}
	for _, sug := range s.Projects {
		cfg.Projects = append(cfg.Projects, sug.Key+":"+sug.Flavor+":"+sug.Version)
	}
	return cfg
}
