package devserver

// Mode is the protocol the server ended up serving.
type Mode int

const (
	ModePlain Mode = iota
	ModeTLS
)

func (m Mode) String() string {
	if m == ModeTLS {
		return "HTTPS"
	}
	return "HTTP"
}

// Scheme returns the URL scheme for the mode.
func (m Mode) Scheme() string {
	if m == ModeTLS {
		return "https"
	}
	return "http"
}

// State is the bootstrapper lifecycle state.
type State int32

const (
	StateInit State = iota
	StateCertReady
	StateCertUnavailable
	StateServingTLS
	StateServingPlain
	StateStopped
)

var stateNames = [...]string{
	StateInit:            "init",
	StateCertReady:       "cert_ready",
	StateCertUnavailable: "cert_unavailable",
	StateServingTLS:      "serving_tls",
	StateServingPlain:    "serving_plain",
	StateStopped:         "stopped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
