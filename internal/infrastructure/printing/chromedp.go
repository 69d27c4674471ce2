package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second

	// A4 in millimetres
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
	marginMM   = 10.0
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools websocket URL of a running Chrome.
	// Empty launches a local headless browser.
	RemoteURL string
	// ExecPath overrides the local Chrome binary
	ExecPath string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer. The browser
// starts lazily on the first render.
func NewChromedpRenderer(config *ChromedpConfig) *ChromedpRenderer {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: config, logger: logger}
	r.allocCtx, r.allocCancel = r.newAllocator()
	return r
}

func (r *ChromedpRenderer) newAllocator() (context.Context, context.CancelFunc) {
	if r.config.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecPath))
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render converts HTML content to an A4 PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	start := time.Now()
	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Tie the browser tab to the caller's deadline as well as our own.
	runCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	doc := wrapDocument(req)
	params := printParams(req)

	var pdfData []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if ctx.Err() != nil {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdfData,
		PageCount:      estimatePageCount(pdfData),
		RenderDuration: time.Since(start),
	}
	r.logger.Info("PDF rendered",
		zap.String("title", req.Title),
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

func printParams(req *RenderRequest) *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPreferCSSPageSize(true).
		WithPaperWidth(mmToInches(a4WidthMM)).
		WithPaperHeight(mmToInches(a4HeightMM)).
		WithMarginTop(mmToInches(marginMM)).
		WithMarginRight(mmToInches(marginMM)).
		WithMarginBottom(mmToInches(marginMM)).
		WithMarginLeft(mmToInches(marginMM)).
		WithLandscape(req.Landscape)
}

// wrapDocument returns complete documents untouched and wraps fragments
func wrapDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(html.EscapeString(req.Title))
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// estimatePageCount counts page objects in the PDF body
func estimatePageCount(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	if n < 1 {
		return 1
	}
	return n
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
