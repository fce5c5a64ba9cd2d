package devserver

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	// ErrContentDirMissing is returned when the content root does not exist
	// or is not a directory.
	ErrContentDirMissing = errors.New("devserver: content directory missing")

	// ErrPortInUse is returned when another process holds the port.
	ErrPortInUse = errors.New("devserver: port already in use")

	// ErrBind is returned for any other listener failure.
	ErrBind = errors.New("devserver: cannot bind listener")
)

// BindError describes a failed listener bind. Kind is ErrPortInUse or ErrBind.
type BindError struct {
	Addr string
	Kind error
	Err  error
}

func newBindError(addr string, err error) *BindError {
	kind := ErrBind
	if isAddrInUse(err) {
		kind = ErrPortInUse
	}
	return &BindError{Addr: addr, Kind: kind, Err: err}
}

func (e *BindError) Error() string {
	if e.Kind == ErrPortInUse {
		return fmt.Sprintf("devserver: port already in use: %s", e.Addr)
	}
	return fmt.Sprintf("devserver: bind %s: %v", e.Addr, e.Err)
}

// Unwrap exposes both the kind and the underlying network error to errors.Is.
func (e *BindError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func isAddrInUse(err error) bool {
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Windows reports WSAEADDRINUSE, which is not syscall.EADDRINUSE.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "only one usage of each socket address")
}
