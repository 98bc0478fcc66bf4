package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Viewport used for every story session.
const (
	viewportWidth  = 1280
	viewportHeight = 720
)

// Options tunes the Playwright driver.
type Options struct {
	Headless bool
	// NavigationTimeout bounds page loads and required actions.
	NavigationTimeout float64
	// SettleTimeout bounds best-effort network-idle waits.
	SettleTimeout float64
}

// playwrightDriver starts one Chromium process lazily on first use and keeps
// it for the worker's lifetime. Sessions are isolated browser contexts.
type playwrightDriver struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	log     *zap.Logger
}

// NewPlaywrightDriver creates the driver without starting the browser; the
// process launches on the first NewSession call.
func NewPlaywrightDriver(opts Options, log *zap.Logger) Driver {
	return &playwrightDriver{
		opts: opts,
		log:  log.Named("browser"),
	}
}

func (d *playwrightDriver) ensureBrowser() (playwright.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser != nil && d.browser.IsConnected() {
		return d.browser, nil
	}

	if d.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start playwright: %w", err)
		}
		d.pw = pw
	}

	browser, err := d.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}
	d.browser = browser
	d.log.Info("chromium launched", zap.Bool("headless", d.opts.Headless))
	return browser, nil
}

func (d *playwrightDriver) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := d.ensureBrowser()
	if err != nil {
		return nil, err
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	sess := &playwrightSession{
		ctx:  browserCtx,
		page: page,
		opts: d.opts,
	}
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		if msg.Type() == "error" {
			sess.mu.Lock()
			sess.consoleErrors = append(sess.consoleErrors, msg.Text())
			sess.mu.Unlock()
		}
	})

	return sess, nil
}

func (d *playwrightDriver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close browser: %w", err)
		}
		d.browser = nil
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
		d.pw = nil
	}
	return firstErr
}

type playwrightSession struct {
	ctx  playwright.BrowserContext
	page playwright.Page
	opts Options

	mu            sync.Mutex
	consoleErrors []string
}

func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(s.opts.NavigationTimeout),
	})
	return err
}

func (s *playwrightSession) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Click(selector)
}

func (s *playwrightSession) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Fill(selector, value)
}

func (s *playwrightSession) SelectOption(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.SelectOption(selector, playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	return err
}

func (s *playwrightSession) Check(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Check(selector)
}

func (s *playwrightSession) Uncheck(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Uncheck(selector)
}

func (s *playwrightSession) Hover(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Hover(selector)
}

func (s *playwrightSession) Focus(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Focus(selector)
}

func (s *playwrightSession) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Keyboard().Press(key)
}

func (s *playwrightSession) ScrollIntoView(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.Locator(selector).ScrollIntoViewIfNeeded()
}

func (s *playwrightSession) ScrollBy(ctx context.Context, pixels int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", pixels))
	return err
}

func (s *playwrightSession) WaitMillis(ctx context.Context, ms int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.page.WaitForTimeout(float64(ms))
	return nil
}

func (s *playwrightSession) WaitForNetworkIdle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(s.opts.SettleTimeout),
	})
}

func (s *playwrightSession) URL() string {
	return s.page.URL()
}

func (s *playwrightSession) IsVisible(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.page.Locator(selector).First().IsVisible()
}

func (s *playwrightSession) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Content()
}

func (s *playwrightSession) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.page.Screenshot()
}

func (s *playwrightSession) ConsoleErrors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.consoleErrors))
	copy(out, s.consoleErrors)
	return out
}

func (s *playwrightSession) Close() error {
	return s.ctx.Close()
}
