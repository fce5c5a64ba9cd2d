// Package browser opens URLs in the user's default web browser.
package browser

import (
	"context"
	"fmt"
	"io"

	pkgbrowser "github.com/pkg/browser"
)

// Opener opens a URL for the operator.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// System opens URLs with the platform launcher (xdg-open, open, rundll32).
type System struct{}

// NewSystem returns an Opener backed by the platform launcher. The
// launcher's own output is discarded.
func NewSystem() *System {
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
	return &System{}
}

// Open launches url. Context cancellation is checked before launching only;
// the launcher itself exits as soon as the browser is handed the URL.
func (s *System) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pkgbrowser.OpenURL(url); err != nil {
		return fmt.Errorf("browser: open %s: %w", url, err)
	}
	return nil
}
