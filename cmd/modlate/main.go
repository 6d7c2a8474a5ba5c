// Command modlate translates Hytale mods: it scans a mods directory,
// extracts archives, runs their translatable files through the translation
// pipeline, and repacks the results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hytale-tools/modlate"
	"github.com/hytale-tools/modlate/cache"
	"github.com/hytale-tools/modlate/modpack"
	"github.com/hytale-tools/modlate/provider"
)

var (
	modsDir string
	verbose bool
	log     *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "modlate",
		Short: "Translate Hytale mods with cached AI translations",
		Long: `modlate is a Hytale mod translator.

Scans a mods directory for .jar/.zip archives, extracts them, translates
the player-facing text (.lang, .ui, JSON, manifests, bundled HTML) through
an AI or REST provider with a persistent translation cache, and repacks
the archives. File structure and untranslated content are preserved byte
for byte.

Commands:
  scan        List mod archives and extracted mods
  extract     Extract mod archives for translation
  translate   Translate extracted mods
  pack        Repack extracted mods into archives
  cache       Export, import, or purge the translation cache
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				log, err = zap.NewDevelopment()
			} else {
				cfg := zap.NewProductionConfig()
				cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
				log, err = cfg.Build()
			}
			return err
		},
	}

	root.PersistentFlags().StringVar(&modsDir, "mods", "mods", "Mods directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(
		newScanCmd(),
		newExtractCmd(),
		newTranslateCmd(),
		newPackCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)
	return root
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List mod archives and extracted mods",
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := modpack.Scan(modsDir)
			if err != nil {
				return err
			}
			if len(mods) == 0 {
				fmt.Println("no mod archives found")
			}
			for _, m := range mods {
				fmt.Printf("%-30s %-4s %s\n", m.Name, m.Type, m.Path)
			}

			extracted, err := modpack.ListExtracted(modsDir)
			if err != nil {
				return err
			}
			if len(extracted) > 0 {
				fmt.Println("\nextracted:")
				for _, e := range extracted {
					fmt.Printf("%-30s %s\n", e.Name, e.Path)
				}
			}
			return nil
		},
	}
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [mod...]",
		Short: "Extract mod archives into mods/.extracted/",
		Long:  "Extracts the named mods (by display name or file name), or every mod when none are named.",
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := modpack.Scan(modsDir)
			if err != nil {
				return err
			}
			selected, err := selectMods(mods, args)
			if err != nil {
				return err
			}

			for _, m := range selected {
				dest, err := modpack.Extract(m.Path, modsDir, m.Name)
				if err != nil {
					return fmt.Errorf("extract %s: %w", m.Name, err)
				}
				fmt.Printf("extracted %s -> %s\n", m.Name, dest)
			}
			return nil
		},
	}
}

func newPackCmd() *cobra.Command {
	var noBackup bool
	cmd := &cobra.Command{
		Use:   "pack [extracted-name...]",
		Short: "Repack extracted mods into .jar archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			extracted, err := modpack.ListExtracted(modsDir)
			if err != nil {
				return err
			}
			byName := make(map[string]modpack.Extracted, len(extracted))
			for _, e := range extracted {
				byName[e.Name] = e
			}

			targets := extracted
			if len(args) > 0 {
				targets = targets[:0]
				for _, name := range args {
					e, ok := byName[name]
					if !ok {
						return fmt.Errorf("no extracted mod named %q", name)
					}
					targets = append(targets, e)
				}
			}

			for _, e := range targets {
				out := filepath.Join(modsDir, e.Name+".jar")
				if err := modpack.Pack(e.Path, out, !noBackup); err != nil {
					return fmt.Errorf("pack %s: %w", e.Name, err)
				}
				fmt.Printf("packed %s -> %s\n", e.Name, out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not back up existing archives")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(modlate.FullVersion())
		},
	}
}

// selectMods filters scanned mods by name or archive file name. With no
// args, every mod is selected.
func selectMods(mods []modpack.Mod, args []string) ([]modpack.Mod, error) {
	if len(args) == 0 {
		return mods, nil
	}
	var out []modpack.Mod
	for _, arg := range args {
		found := false
		for _, m := range mods {
			if m.Name == arg || filepath.Base(m.Path) == arg {
				out = append(out, m)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no mod named %q", arg)
		}
	}
	return out, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM plus a
// callback wiring the signal to cooperative pipeline cancellation.
func signalContext(parent context.Context, onSignal func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			fmt.Fprintln(os.Stderr, "interrupt: finishing in-flight requests, press Ctrl+C again to abort")
			onSignal()
			select {
			case <-ch:
				cancel()
			case <-ctx.Done():
			}
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}

// langFileTarget maps a source-locale .lang path to the target-locale
// output path: assets/lang/en-US.lang -> assets/lang/es-ES.lang. Other
// files keep their names.
func langFileTarget(relPath, sourceLang, targetLang string) string {
	if strings.ToLower(filepath.Ext(relPath)) != ".lang" {
		return relPath
	}
	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	if !strings.EqualFold(base, modlate.LocaleDirName(sourceLang)) &&
		!strings.EqualFold(base, modlate.NormalizeLocale(sourceLang)) {
		return relPath
	}
	dir := filepath.Dir(relPath)
	return filepath.Join(dir, modlate.LocaleDirName(targetLang)+".lang")
}

// buildProvider constructs the configured translation backend.
func buildProvider(cfg Config, apiKey string) (modlate.Provider, error) {
	switch cfg.Provider {
	case "openai":
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider needs --api-key or OPENAI_API_KEY")
		}
		return provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  apiKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}), nil
	case "libretranslate":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("libretranslate provider needs base_url")
		}
		return provider.NewRESTProvider(provider.RESTConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  apiKey,
		}), nil
	case "mock":
		return provider.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// buildCache opens the configured cache backend. Open failures degrade to
// an in-memory cache with a warning so a translation run is never blocked
// by cache trouble.
func buildCache(cfg Config) (modlate.Cache, func()) {
	if cfg.RedisURL != "" {
		c, err := cache.NewRedisCache(cache.RedisConfig{URL: cfg.RedisURL})
		if err == nil {
			return c, func() { _ = c.Close() }
		}
		log.Warn("redis cache unavailable, falling back to memory", zap.Error(err))
		return cache.NewMemoryCache(), func() {}
	}

	c, err := cache.OpenSQLite(cfg.CachePath)
	if err != nil {
		log.Warn("sqlite cache unavailable, falling back to memory", zap.Error(err))
		return cache.NewMemoryCache(), func() {}
	}
	return c, func() { _ = c.Close() }
}
