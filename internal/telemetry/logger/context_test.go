package logger

import (
	"context"
	"testing"
)

func TestRequestIDFromContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "01J9Z3")
	if got := RequestIDFromContext(ctx); got != "01J9Z3" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "01J9Z3")
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
}
