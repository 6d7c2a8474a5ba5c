package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hytale-tools/modlate"
	"github.com/hytale-tools/modlate/format"
	"github.com/hytale-tools/modlate/modpack"
)

func newTranslateCmd() *cobra.Command {
	var (
		targetLang string
		sourceLang string
		providerID string
		model      string
		baseURL    string
		apiKey     string
		workers    int
		rpm        int
		dryRun     bool
		doPack     bool
	)

	cmd := &cobra.Command{
		Use:   "translate [extracted-name...]",
		Short: "Translate extracted mods",
		Long: `Translates the translatable files of extracted mods in place.

Mods must be extracted first (modlate extract). With --pack the translated
mods are repacked into their archives afterwards. A Ctrl+C lets in-flight
provider requests finish; files already translated are still written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(modsDir)
			if err != nil {
				return err
			}
			// Flags override the config file.
			if targetLang != "" {
				cfg.TargetLang = targetLang
			}
			if sourceLang != "" {
				cfg.SourceLang = sourceLang
			}
			if providerID != "" {
				cfg.Provider = providerID
			}
			if model != "" {
				cfg.Model = model
			}
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			if rpm > 0 {
				cfg.RequestsPerMinute = rpm
			}
			cfg.applyDefaults(modsDir)

			if cfg.TargetLang == "" {
				return fmt.Errorf("--lang is required")
			}
			if !modlate.KnownLanguage(cfg.TargetLang) {
				return fmt.Errorf("unknown target language %q", cfg.TargetLang)
			}

			extracted, err := modpack.ListExtracted(modsDir)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				byName := make(map[string]modpack.Extracted, len(extracted))
				for _, e := range extracted {
					byName[e.Name] = e
				}
				extracted = extracted[:0]
				for _, name := range args {
					e, ok := byName[name]
					if !ok {
						return fmt.Errorf("no extracted mod named %q (run: modlate extract)", name)
					}
					extracted = append(extracted, e)
				}
			}
			if len(extracted) == 0 {
				return fmt.Errorf("nothing to translate; run: modlate extract")
			}

			if dryRun {
				return runDryRun(extracted, cfg)
			}

			prov, err := buildProvider(cfg, apiKey)
			if err != nil {
				return err
			}
			store, closeCache := buildCache(cfg)
			defer closeCache()

			clientCfg := modlate.DefaultClientConfig()
			clientCfg.RateLimit.RequestsPerMinute = cfg.RequestsPerMinute
			client := modlate.NewClient(prov, clientCfg, modlate.WithClientLogger(log))

			pipeline := modlate.NewPipeline(cfg.SourceLang, cfg.TargetLang, client,
				modlate.WithCache(store),
				modlate.WithFormats(format.All()...),
				modlate.WithWorkers(cfg.Workers),
				modlate.WithLogger(log),
			)

			ctx, cancel := signalContext(context.Background(), pipeline.Cancel)
			defer cancel()

			for _, e := range extracted {
				if pipeline.Cancelled() {
					break
				}
				if err := translateMod(ctx, pipeline, e, cfg); err != nil {
					return err
				}
				if doPack && !pipeline.Cancelled() {
					out := filepath.Join(modsDir, e.Name+".jar")
					if err := modpack.Pack(e.Path, out, true); err != nil {
						return fmt.Errorf("pack %s: %w", e.Name, err)
					}
					fmt.Printf("packed %s -> %s\n", e.Name, out)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language code (e.g. es_ES, ja_JP)")
	cmd.Flags().StringVar(&sourceLang, "source", "", "Source language code (default en_US)")
	cmd.Flags().StringVar(&providerID, "provider", "", "Provider: openai, libretranslate, mock")
	cmd.Flags().StringVar(&model, "model", "", "Model for AI providers")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Custom provider base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key (default: OPENAI_API_KEY env)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent file workers")
	cmd.Flags().IntVar(&rpm, "rpm", 0, "Provider requests per minute")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List translatable units without calling the provider")
	cmd.Flags().BoolVar(&doPack, "pack", false, "Repack each mod after translating")
	return cmd
}

// translateMod runs one extracted mod through the pipeline and writes the
// merged files back into the extraction directory.
func translateMod(ctx context.Context, pipeline *modlate.Pipeline, mod modpack.Extracted, cfg Config) error {
	jobs, err := collectJobs(mod.Path)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Printf("%s: no translatable files\n", mod.Name)
		return nil
	}

	outputs, report, err := pipeline.Run(ctx, jobs)
	if err != nil {
		return fmt.Errorf("translate %s: %w", mod.Name, err)
	}

	for _, out := range outputs {
		target := langFileTarget(out.Name, cfg.SourceLang, cfg.TargetLang)
		dest := filepath.Join(mod.Path, filepath.FromSlash(target))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		data := out.Data
		if strings.HasSuffix(target, ".lang") {
			// Keep entries a previous run (or the mod author) already put
			// in the target file.
			existing, _ := os.ReadFile(dest)
			data = format.MergeLang(existing, data)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}

	printReport(mod.Name, report)
	return nil
}

// collectJobs gathers the translatable files of an extracted mod.
func collectJobs(root string) ([]modlate.FileJob, error) {
	registry := format.NewRegistry(format.All()...)
	files, err := modpack.CollectFiles(root)
	if err != nil {
		return nil, err
	}

	var jobs []modlate.FileJob
	for _, rel := range files {
		f, ok := registry.Detect(rel)
		if !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel))) // #nosec G304 - walking the extraction dir
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		jobs = append(jobs, modlate.FileJob{Name: rel, Format: f.Name(), Data: data})
	}
	return jobs, nil
}

// runDryRun extracts units and reports what a real run would translate.
func runDryRun(extracted []modpack.Extracted, cfg Config) error {
	registry := format.NewRegistry(format.All()...)
	for _, mod := range extracted {
		files, err := modpack.CollectFiles(mod.Path)
		if err != nil {
			return err
		}

		total, skipped := 0, 0
		fmt.Printf("%s:\n", mod.Name)
		for _, rel := range files {
			f, ok := registry.Detect(rel)
			if !ok {
				continue
			}
			data, err := os.ReadFile(filepath.Join(mod.Path, filepath.FromSlash(rel))) // #nosec G304
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}
			_, units, err := f.Extract(data)
			if err != nil {
				fmt.Printf("  %-40s error: %v\n", rel, err)
				continue
			}
			n, s := len(units), 0
			for _, u := range units {
				if u.Skip {
					s++
				}
			}
			total += n
			skipped += s
			fmt.Printf("  %-40s %3d units (%d skipped)\n", rel, n, s)
		}
		fmt.Printf("  total: %d units, %d skipped, %s -> %s\n",
			total, skipped, cfg.SourceLang, cfg.TargetLang)
	}
	return nil
}

func printReport(name string, report *modlate.JobReport) {
	fmt.Printf("%s: %d files done, %d failed; %d cached, %d translated, %d failed, %d skipped (%s)\n",
		name, report.FilesDone, report.FilesFailed,
		report.Cached, report.Translated, report.Failed, report.Skipped,
		report.Elapsed.Round(10*time.Millisecond))

	for _, f := range report.Files {
		if f.State == modlate.StateFailed {
			fmt.Printf("  FAILED %s: %s\n", f.Name, f.Error)
		} else if f.Failed > 0 {
			fmt.Printf("  partial %s: %d units kept source text\n", f.Name, f.Failed)
		}
	}
	if report.CacheWarning != "" {
		log.Warn("cache degraded during run", zap.String("warning", report.CacheWarning))
	}
}
