package browser

import (
	"context"
	"errors"
	"testing"
)

var _ Opener = (*System)(nil)

func TestSystem_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSystem().Open(ctx, "http://localhost:8443")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Open() error = %v, want context.Canceled", err)
	}
}
