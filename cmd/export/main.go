package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"site-content-be/internal/config"
	"site-content-be/internal/dto"
	"site-content-be/internal/exporter"
	"site-content-be/internal/pkg/logger"
	"site-content-be/internal/repository/unitofwork"
	"site-content-be/internal/service"
	"site-content-be/pkg/assets"
	"site-content-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	outDir       string
	formatFlag   string
	localeFlag   string
	assetBaseURL string
	workers      int
)

var rootCmd = &cobra.Command{
	Use:          "export",
	Short:        "Render stored documents to static HTML and Markdown",
	SilenceUsage: true,
}

var fileCmd = &cobra.Command{
	Use:   "file [document.json]",
	Short: "Render one serialized document file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Render every stored document",
	Long:  `Loads every document from the database (DB_CONNECTION_STRING) and renders it to <out>/<locale>/<slug>.<ext>.`,
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "dist", "Output directory")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "both", "Output formats: html, md or both")
	rootCmd.PersistentFlags().StringVarP(&localeFlag, "locale", "l", "", "Locale to render (default: configured default, or every locale for 'all')")
	rootCmd.PersistentFlags().StringVar(&assetBaseURL, "asset-base-url", "", "Base URL for images and fonts (default: ASSET_BASE_URL)")
	allCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Documents rendered in parallel")

	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(allCmd)
}

func contentConfig(cfg *config.Config) config.ContentConfig {
	c := cfg.Content
	if assetBaseURL != "" {
		c.AssetBaseURL = assetBaseURL
	}
	return c
}

func runFile(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	contentCfg := contentConfig(cfg)

	formats, err := exporter.ParseFormats(formatFlag)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	locale := strings.ToLower(localeFlag)
	if locale == "" {
		locale = contentCfg.DefaultLocale
	}
	slug := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	key := dto.ContentKey{Slug: slug, Locale: locale}

	rendered, fallback, err := exporter.RenderBody(contentCfg, assets.NewBaseURLResolver(contentCfg.AssetBaseURL), string(raw), locale, formats)
	if err != nil {
		return err
	}
	if fallback {
		color.Yellow("⚠ %s is not a valid document, exported as plain text", args[0])
	}

	files, err := exporter.Write(outDir, key, rendered)
	if err != nil {
		return err
	}
	for _, f := range files {
		color.Green("✔ %s", f)
	}
	return nil
}

func runAll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	contentCfg := contentConfig(cfg)

	formats, err := exporter.ParseFormats(formatFlag)
	if err != nil {
		return err
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	resolver := assets.NewBaseURLResolver(contentCfg.AssetBaseURL)
	content := service.NewContentService(
		unitofwork.NewRepositoryFactory(db),
		nil, nil,
		resolver,
		nil, nil,
		contentCfg,
		logger.NewNopLogger(),
	)

	e := &exporter.Exporter{
		Source:  content,
		Config:  contentCfg,
		Assets:  resolver,
		OutDir:  outDir,
		Formats: formats,
		Workers: workers,
	}

	color.Cyan("Exporting to %s", outDir)
	var exported atomic.Int64
	err = e.ExportAll(context.Background(), strings.ToLower(localeFlag), func(res exporter.Result, err error) {
		switch {
		case err != nil:
			color.Red("✘ %v", err)
		case res.Fallback:
			exported.Add(1)
			color.Yellow("⚠ %s/%s exported as plain text", res.Key.Locale, res.Key.Slug)
		default:
			exported.Add(1)
			color.Green("✔ %s/%s", res.Key.Locale, res.Key.Slug)
		}
	})
	color.Cyan("%d documents exported", exported.Load())
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
