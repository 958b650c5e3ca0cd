package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cv-builder/internal/config"
	"cv-builder/internal/domain"
	"cv-builder/internal/logger"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	"cv-builder/internal/usecase"
	infra "cv-builder/pkg/infrastructure"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV state file offline",
	Long: "Renders a saved AppState (or the example CV) with the chosen template and writes " +
		"HTML, a print view, PDF, PNG or JPEG depending on the output extension.",
	RunE: runRender,
}

var (
	renderStateFile string
	renderTemplate  string
	renderOutFile   string
	renderPrint     bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderStateFile, "state", "s", "", "Path to an AppState JSON file (defaults to the example CV)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template override: classic, modern or creative")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "resume-data/generated/cv.html", "Output file (.html, .pdf, .png, .jpg or .jpeg)")
	renderCmd.Flags().BoolVar(&renderPrint, "print", false, "Write the print view instead of the preview for .html output")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}
	logger.Init(cfg.Logger)

	st := domain.ExampleState()
	if renderStateFile != "" {
		b, err := os.ReadFile(renderStateFile)
		if err != nil {
			return fmt.Errorf("read state: %w", err)
		}
		if st, err = model.DecodeState(b); err != nil {
			return fmt.Errorf("state %s: %w", renderStateFile, err)
		}
	}
	if renderTemplate != "" {
		st.Settings.Template = renderTemplate
	}

	html, err := render.New()
	if err != nil {
		return err
	}
	docs := infra.NewChromedpRenderer(infra.ChromeOptions{
		ExecPath: cfg.Chrome.Path,
		Timeout:  cfg.Chrome.Timeout(),
	})
	exporter := usecase.NewExporter(html, docs, nil, nil, cfg.Export.Attempts)

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
	defer cancel()

	out, err := renderOutput(ctx, exporter, st, strings.ToLower(strings.TrimPrefix(filepath.Ext(renderOutFile), ".")))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(renderOutFile), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(renderOutFile, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("wrote %s (%d bytes, template %s)\n", renderOutFile, len(out), render.TemplateName(st.Settings.Template))
	return nil
}

func renderOutput(ctx context.Context, exporter *usecase.Exporter, st domain.AppState, ext string) ([]byte, error) {
	switch ext {
	case "html", "htm":
		if renderPrint {
			s, err := exporter.PrintView(st)
			return []byte(s), err
		}
		s, err := exporter.Preview(st)
		return []byte(s), err
	case "pdf":
		art, err := exporter.ExportPDF(ctx, st)
		return art.Data, err
	case "png":
		art, err := exporter.ExportImage(ctx, st, domain.FormatPNG)
		return art.Data, err
	case "jpg", "jpeg":
		art, err := exporter.ExportImage(ctx, st, domain.FormatJPEG)
		return art.Data, err
	default:
		return nil, fmt.Errorf("unsupported output extension %q", ext)
	}
}
