// Package main is the entry point for the resume dashboard CLI: the API
// server plus terminal equivalents of the dashboard pages.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagUserID string
	flagServer string
)

var rootCmd = &cobra.Command{
	Use:   "resume_dash",
	Short: "Resume dashboard server and CLI",
	Long:  "resume_dash manages a versioned resume section library, builds tailored resume PDFs, and tracks job applications and recruiter outreach.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagUserID, "user", "", "User id (UUID) to act as")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Base URL of the dashboard server")
}
