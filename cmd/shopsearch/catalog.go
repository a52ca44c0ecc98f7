// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/shopsearch/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local product catalog",
	Long: `Catalog manages the SQLite product catalog backing the keyword-fallback
and structured retrieval sources. Use subcommands to seed products and list
what is stored.`,
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed [file.yaml]",
	Short: "Load products into the catalog from YAML or the built-in demo set",
	RunE:  runCatalogSeed,
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	demo, _ := cmd.Flags().GetBool("demo")
	switch {
	case demo:
		n, err := store.Seed(cmd.Context(), catalog.DemoProducts(), os.Stderr)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d demo products\n", n)
	case len(args) == 1:
		n, err := store.SeedFromYAML(cmd.Context(), args[0], os.Stderr)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d products from %s\n", n, args[0])
	default:
		return fmt.Errorf("provide a YAML file or --demo")
	}
	return nil
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products in the catalog",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	products, err := store.All(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	}

	if len(products) == 0 {
		fmt.Println("Catalog is empty. Seed it with: shopsearch catalog seed --demo")
		return nil
	}
	for _, p := range products {
		fmt.Printf("%-12s  %-24s  $%9.2f  %s\n", p.ID, p.Name, p.Price, p.Category)
	}
	fmt.Printf("\n%d products\n", len(products))
	return nil
}

func init() {
	catalogSeedCmd.Flags().Bool("demo", false, "seed the built-in demo products")
	catalogListCmd.Flags().Bool("json", false, "output products as JSON")

	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rootCmd.AddCommand(catalogCmd)
}
