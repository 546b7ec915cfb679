package rendering

import (
	"context"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/profile2pdf/internal/types"
)

const (
	// A4 in inches
	paperWidth  = 8.27
	paperHeight = 11.69

	// DefaultPDFTimeout bounds one headless Chrome print
	DefaultPDFTimeout = 60 * time.Second
)

// PDFRenderer prints HTML documents to PDF with headless Chrome.
type PDFRenderer struct {
	ExecPath string        // Chrome binary, CHROME_PATH or chromedp's lookup when empty
	Timeout  time.Duration // DefaultPDFTimeout when zero
}

// NewPDFRenderer creates a PDFRenderer that honors CHROME_PATH.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{ExecPath: os.Getenv("CHROME_PATH"), Timeout: DefaultPDFTimeout}
}

// Render prints html to an A4 PDF.
func (r *PDFRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "headless chrome failed to print PDF", Cause: err}
	}
	return pdf, nil
}

// RenderResume renders record to HTML and prints it.
func (r *PDFRenderer) RenderResume(ctx context.Context, record *types.ResumeRecord, createdAt time.Time) ([]byte, error) {
	html, err := RenderHTML(record, createdAt)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, html)
}
