package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hytale-tools/modlate"
	"github.com/hytale-tools/modlate/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the translation cache",
	}
	cmd.AddCommand(newCacheExportCmd(), newCacheImportCmd(), newCachePurgeCmd())
	return cmd
}

// openSQLiteCache opens the configured cache database for the cache
// subcommands. They operate on the persistent store only.
func openSQLiteCache() (*cache.SQLiteCache, error) {
	cfg, err := LoadConfig(modsDir)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(modsDir)
	return cache.OpenSQLite(cfg.CachePath)
}

func newCacheExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the translation cache to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openSQLiteCache()
			if err != nil {
				return err
			}
			defer c.Close()

			if out == "" {
				out = filepath.Join(modsDir, "translation-cache.json")
			}
			meta := map[string]string{"tool": modlate.Name + " " + modlate.Version}
			if err := cache.ExportToFile(context.Background(), c, out, meta); err != nil {
				return err
			}
			fmt.Printf("exported cache to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default <mods>/translation-cache.json)")
	return cmd
}

func newCacheImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import translations from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openSQLiteCache()
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := cache.ImportFromFile(context.Background(), c, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("imported %d records (%d failed)\n", result.Imported, result.Failed)
			return nil
		},
	}
}

func newCachePurgeCmd() *cobra.Command {
	var providerName string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached translations from one provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if providerName == "" {
				return fmt.Errorf("--provider is required")
			}
			c, err := openSQLiteCache()
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.PurgeProvider(context.Background(), providerName)
			if err != nil {
				return err
			}
			fmt.Printf("purged %d records from %s\n", n, providerName)
			return nil
		},
	}
	cmd.Flags().StringVar(&providerName, "provider", "", "Provider identifier (e.g. openai:gpt-4o-mini)")
	return cmd
}
