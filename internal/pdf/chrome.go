// =============================================================================
// I&C Cargo Billing Tool - Headless Chrome PDF Engine
// =============================================================================
//
// This module implements the invoice.Engine interface on top of a headless
// Chrome/Chromium instance driven through the DevTools protocol. One browser
// is launched per run and a fresh page is used per invoice, so one corrupt
// invoice cannot poison the next.
//
// =============================================================================

package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// A4 paper size in inches.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
)

// Chrome renders HTML to PDF through a headless browser.
type Chrome struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewChrome launches a headless browser. binPath may point to an explicit
// Chrome/Chromium binary; when empty the launcher resolves one itself.
func NewChrome(binPath string) (*Chrome, error) {
	l := launcher.New().Headless(true)
	if binPath != "" {
		l = l.Bin(binPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Chrome{launcher: l, browser: browser}, nil
}

// Render prints the given HTML document to PDF bytes.
func (c *Chrome) Render(ctx context.Context, html string) ([]byte, error) {
	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for document: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      f64(paperWidthIn),
		PaperHeight:     f64(paperHeightIn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print page: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf stream: %w", err)
	}
	return data, nil
}

// Close shuts the browser down and cleans up the launcher's resources.
func (c *Chrome) Close() error {
	err := c.browser.Close()
	c.launcher.Cleanup()
	return err
}

func f64(v float64) *float64 { return &v }
