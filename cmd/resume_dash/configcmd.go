package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jmartin/resume-dash/internal/localstore"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored client state",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <gemini-api-key>",
	Short: "Store the Gemini API key in client state",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := openStateStore()
		if err != nil {
			return err
		}
		if err := store.SetString(localstore.KeyGeminiAPIKey, args[0]); err != nil {
			return err
		}
		fmt.Println("API key stored.")
		return nil
	},
}

var configSetUserCmd = &cobra.Command{
	Use:   "set-user <uuid>",
	Short: "Store the user id to act as",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		store, err := openStateStore()
		if err != nil {
			return err
		}
		if err := store.SetString(localstore.KeyUserID, id.String()); err != nil {
			return err
		}
		fmt.Printf("Acting as user %s.\n", id)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored client state",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openStateStore()
		if err != nil {
			return err
		}
		user := store.GetString(localstore.KeyUserID)
		if user == "" {
			user = "(default)"
		}
		key := "(not set)"
		if store.GetString(localstore.KeyGeminiAPIKey) != "" {
			key = "(set)"
		}
		fmt.Printf("user id: %s\napi key: %s\n", user, key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetKeyCmd, configSetUserCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func openStateStore() (*localstore.Store, error) {
	path, err := localstore.DefaultPath()
	if err != nil {
		return nil, err
	}
	return localstore.Open(path), nil
}
