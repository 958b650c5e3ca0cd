package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cv-builder/internal/domain"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// A4 at 96 DPI.
const (
	PageWidthPx  = 794
	PageHeightPx = 1123

	imageScale   = 2
	jpegQuality  = 95
	a4WidthInch  = 8.27
	a4HeightInch = 11.69
)

type ChromeOptions struct {
	ExecPath      string
	MaxConcurrent int64
	Timeout       time.Duration
}

// ChromedpRenderer drives a headless Chrome per call. The number of browsers
// alive at once is bounded by MaxConcurrent.
type ChromedpRenderer struct {
	opts  ChromeOptions
	slots *semaphore.Weighted
}

func NewChromedpRenderer(opts ChromeOptions) *ChromedpRenderer {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.ExecPath == "" {
		opts.ExecPath = os.Getenv("CHROME_PATH")
	}
	return &ChromedpRenderer{opts: opts, slots: semaphore.NewWeighted(opts.MaxConcurrent)}
}

// RenderPDF prints html on A4 paper with backgrounds.
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	var pdfBuf []byte
	err := r.run(ctx, html, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
			WithPaperWidth(a4WidthInch).
			WithPaperHeight(a4HeightInch).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// RenderImage captures the first page-sized area of html at twice the CSS
// pixel density.
func (r *ChromedpRenderer) RenderImage(ctx context.Context, html string, format domain.ExportFormat) ([]byte, error) {
	var shot []byte
	err := r.run(ctx, html,
		emulation.SetDeviceMetricsOverride(PageWidthPx, PageHeightPx, imageScale, false),
		chromedp.ActionFunc(func(ctx context.Context) error {
			capture := page.CaptureScreenshot().
				WithCaptureBeyondViewport(false).
				WithClip(&page.Viewport{X: 0, Y: 0, Width: PageWidthPx, Height: PageHeightPx, Scale: 1})
			if format == domain.FormatJPEG {
				capture = capture.WithFormat(page.CaptureScreenshotFormatJpeg).WithQuality(jpegQuality)
			} else {
				capture = capture.WithFormat(page.CaptureScreenshotFormatPng)
			}
			var err error
			shot, err = capture.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return shot, nil
}

func (r *ChromedpRenderer) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	if err := r.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for chrome slot: %w", err)
	}
	defer r.slots.Release(1)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(PageWidthPx, PageHeightPx),
	)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.opts.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "cv-export-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return err
	}

	start := time.Now()
	all := append([]chromedp.Action{
		chromedp.Navigate("file://" + htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}, actions...)
	if err := chromedp.Run(runCtx, all...); err != nil {
		return fmt.Errorf("chrome render: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Int("html_bytes", len(html)).Msg("chrome render finished")
	return nil
}
