package rendering

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chromePath returns a usable Chrome binary or skips the test.
func chromePath(t *testing.T) string {
	t.Helper()
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("Chrome not available")
	return ""
}

func TestPDFRenderer_RenderResume(t *testing.T) {
	r := &PDFRenderer{ExecPath: chromePath(t), Timeout: 30 * time.Second}

	pdf, err := r.RenderResume(context.Background(), sampleResume(), created)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestPDFRenderer_MissingBinary(t *testing.T) {
	r := &PDFRenderer{ExecPath: "/nonexistent/chrome", Timeout: 5 * time.Second}

	_, err := r.Render(context.Background(), "<html><body>hi</body></html>")
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestPDFRenderer_TemplateErrorBeforeChrome(t *testing.T) {
	r := &PDFRenderer{ExecPath: "/nonexistent/chrome"}

	_, err := r.RenderResume(context.Background(), nil, created)
	var tmplErr *TemplateError
	assert.ErrorAs(t, err, &tmplErr)
}
