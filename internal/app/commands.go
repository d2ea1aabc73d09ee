package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mailsift/internal/app/bootstrap"
	"mailsift/internal/classifier"
	"mailsift/internal/config"
	"mailsift/internal/database"
	"mailsift/internal/denylist"
	"mailsift/internal/domain"
	"mailsift/internal/enrich"
	"mailsift/internal/threatdb"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mailsift",
		Short:         "Classify sign-up email domains and build IP threat tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "classify",
		Short: "Label every address of the email export with its domain category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClassify(cmd.Context(), config.GetConfig())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "merge",
		Short: "Merge threat intelligence tables into the IP lookup literal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd.Context(), config.GetConfig())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "enrich",
		Short: "Annotate IP columns of an event export with country and threat tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnrich(cmd.Context(), config.GetConfig())
		},
	})

	return cmd
}

func runClassify(ctx context.Context, cfg config.Config) error {
	result := bootstrap.DenylistLoader(ctx, cfg).Load(ctx)
	if result.Degraded() {
		log.Warn("Remote denylist unavailable, classifying with the curated list only", "source", result.Source, "error", result.Err)
	} else if result.Err != nil {
		log.Warn("Remote denylist fetch failed, using stored snapshot", "source", result.Source, "domains", result.Domains.Len(), "error", result.Err)
	} else {
		log.Info("Remote denylist loaded", "source", result.Source, "domains", result.Domains.Len())
	}

	runner := classifier.NewRunner(classifier.DefaultRules(denylist.Build(result)), cfg.Classifier.BatchSize)
	stats, err := runner.RunFile(ctx, cfg.Classifier.InputPath, cfg.Classifier.OutputPath)
	if err != nil {
		return fmt.Errorf("classify %s: %w", cfg.Classifier.InputPath, err)
	}

	log.Info("Classification finished", "rows", stats.Rows, "batches", stats.Batches, "skipped", stats.Skipped, "output", cfg.Classifier.OutputPath)
	for _, category := range []domain.Category{domain.CategoryCompany, domain.CategoryAnonymous, domain.CategoryPortal} {
		log.Info("Category total", "category", category, "rows", stats.ByCategory[category])
	}
	return nil
}

func runMerge(ctx context.Context, cfg config.Config) error {
	table, _ := threatdb.MergeFiles(cfg.Merger.Sources, threatdb.MergeOptions{})

	if err := threatdb.WriteFile(cfg.Merger.OutputPath, table, cfg.Merger.ExportName); err != nil {
		return err
	}
	log.Info("Threat table written", "path", cfg.Merger.OutputPath, "entries", table.Len())

	if bootstrap.ExportDatabase(cfg) {
		stored, err := database.UpsertThreatEntries(ctx, table.ThreatEntries())
		if err != nil {
			log.Warn("Threat database export failed", "error", err)
		} else {
			log.Info("Threat database export finished", "entries", stored)
		}
	}
	return nil
}

func runEnrich(ctx context.Context, cfg config.Config) error {
	table, err := threatdb.ReadFile(cfg.Enrich.ThreatTablePath)
	if err != nil {
		log.Warn("Threat table unavailable, enriching without threat tags", "path", cfg.Enrich.ThreatTablePath, "error", err)
		table = nil
	}

	countries := bootstrap.CountryReader(cfg)
	defer func() {
		if err := countries.Close(); err != nil {
			log.Warn("error closing GeoLite database", "error", err)
		}
	}()

	var lookup enrich.CountryLookup
	if countries != nil {
		lookup = countries
	}

	stats, err := enrich.NewEnricher(table, lookup).RunFile(ctx, cfg.Enrich.InputPath, cfg.Enrich.OutputPath)
	if err != nil {
		return fmt.Errorf("enrich %s: %w", cfg.Enrich.InputPath, err)
	}
	log.Info("Enriched export written", "path", cfg.Enrich.OutputPath, "rows", stats.Rows)
	return nil
}
