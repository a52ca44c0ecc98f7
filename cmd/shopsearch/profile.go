// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/shopsearch/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles for personalization",
	Long: `Profile manages the SQLite store of user preferences that the
personalization stage reads. Use subcommands to import profiles from YAML,
inspect a stored profile, or create the built-in demo profile.`,
}

var profileImportCmd = &cobra.Command{
	Use:   "import file.yaml",
	Short: "Import a user profile from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileImport,
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	store, err := profile.NewStore(cfg.Profile)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.ImportYAML(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported profile %s from %s\n", p.UserID, args[0])
	return nil
}

var profileShowCmd = &cobra.Command{
	Use:   "show user-id",
	Short: "Show a stored user profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	store, err := profile.NewStore(cfg.Profile)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

var profileDemoCmd = &cobra.Command{
	Use:   "demo user-id",
	Short: "Store the built-in demo profile under the given user id",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDemo,
}

func runProfileDemo(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	store, err := profile.NewStore(cfg.Profile)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Put(cmd.Context(), profile.DemoProfile(args[0])); err != nil {
		return err
	}
	fmt.Printf("Stored demo profile for %s\n", args[0])
	return nil
}

func init() {
	profileCmd.AddCommand(profileImportCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileDemoCmd)

	rootCmd.AddCommand(profileCmd)
}
