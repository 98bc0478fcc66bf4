package browser

import "context"

// Driver owns the browser process and hands out isolated sessions. The
// process is started lazily on the first session and must be released with
// Shutdown when the worker stops.
type Driver interface {
	// NewSession opens an isolated browser context with a fixed viewport.
	// The caller must Close the session on every exit path.
	NewSession(ctx context.Context) (Session, error)
	Shutdown() error
}

// Session is the capability surface the engine needs from one browser page.
// Action methods block until the driver settles or its internal timeout
// fires; a timeout during an action surfaces as an error.
type Session interface {
	// Navigate loads the URL and waits for network idle.
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	SelectOption(ctx context.Context, selector, value string) error
	Check(ctx context.Context, selector string) error
	Uncheck(ctx context.Context, selector string) error
	Hover(ctx context.Context, selector string) error
	Focus(ctx context.Context, selector string) error
	Press(ctx context.Context, key string) error
	ScrollIntoView(ctx context.Context, selector string) error
	ScrollBy(ctx context.Context, pixels int) error
	WaitMillis(ctx context.Context, ms int) error

	// WaitForNetworkIdle waits for in-flight network activity to settle,
	// bounded by the driver's settle timeout.
	WaitForNetworkIdle(ctx context.Context) error

	URL() string
	// IsVisible reports whether the first match of the selector is visible.
	IsVisible(ctx context.Context, selector string) (bool, error)
	// Content returns the current page HTML.
	Content(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)

	// ConsoleErrors returns the console error messages collected since the
	// session was opened.
	ConsoleErrors() []string

	Close() error
}
