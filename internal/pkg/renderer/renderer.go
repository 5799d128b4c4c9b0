// Package renderer turns certificate markup into printable PDF documents.
package renderer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
	"github.com/yigit/certdesk/internal/pkg/logger"
)

// Renderer converts an HTML document to PDF bytes
type Renderer interface {
	Render(ctx context.Context, markup string) ([]byte, error)
}

// Config controls the headless browser
type Config struct {
	ChromeBin string
	Headless  bool
	Timeout   time.Duration
	Paper     string
}

// paper sizes in inches
var paperSizes = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"LEGAL":  {8.5, 14},
	"LETTER": {8.5, 11},
}

// PaperSize returns width and height in inches, falling back to A4
func PaperSize(name string) (float64, float64) {
	size, ok := paperSizes[strings.ToUpper(name)]
	if !ok {
		size = paperSizes["A4"]
	}
	return size[0], size[1]
}

// RodRenderer prints pages with a lazily launched headless Chromium
type RodRenderer struct {
	cfg Config

	mu      sync.Mutex
	launch  *launcher.Launcher
	browser *rod.Browser
}

// NewRodRenderer creates a renderer; the browser starts on first use
func NewRodRenderer(cfg Config) *RodRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &RodRenderer{cfg: cfg}
}

func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New().Headless(r.cfg.Headless)
	if r.cfg.ChromeBin != "" {
		l = l.Bin(r.cfg.ChromeBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	logger.Info().Str("controlURL", controlURL).Msg("Renderer browser started")
	r.launch = l
	r.browser = browser
	return browser, nil
}

// Render loads markup into a fresh page and prints it
func (r *RodRenderer) Render(ctx context.Context, markup string) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRenderFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: open page: %v", apperrors.ErrRenderFailed, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(markup); err != nil {
		return nil, fmt.Errorf("%w: load markup: %v", apperrors.ErrRenderFailed, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: wait for load: %v", apperrors.ErrRenderFailed, err)
	}

	width, height := PaperSize(r.cfg.Paper)
	margin := 0.4
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: print: %v", apperrors.ErrRenderFailed, err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: read pdf stream: %v", apperrors.ErrRenderFailed, err)
	}
	return pdf, nil
}

// Close shuts the browser down
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.launch.Kill()
	r.browser = nil
	r.launch = nil
	return err
}
