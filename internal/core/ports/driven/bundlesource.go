package driven

import "context"

// BundleSource fetches the player bundle from its remote origin.
type BundleSource interface {
	// PlayerURL discovers the current versioned bundle URL by scraping
	// the entry page.
	PlayerURL(ctx context.Context) (string, error)

	// Fetch downloads the bundle at the given URL and returns its
	// source text. Fails on non-2xx status or a non-JavaScript
	// content type.
	Fetch(ctx context.Context, url string) (string, error)
}
