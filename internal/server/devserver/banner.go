package devserver

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 60)

// writeBanner prints the startup notice for the operator.
func writeBanner(w io.Writer, mode Mode, url, root string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "devserve local server started (%s)\n", mode)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "URL:       %s\n", url)
	fmt.Fprintf(w, "Directory: %s\n", root)
	fmt.Fprintln(w, rule)

	if mode == ModeTLS {
		fmt.Fprintln(w, "Note: the browser will show a security warning (self-signed certificate).")
		fmt.Fprintln(w, `      Click "Advanced" -> "Proceed" to continue.`)
	} else {
		fmt.Fprintln(w, "Note: running over HTTP, some browser features are restricted.")
		fmt.Fprintln(w, "      Web Serial API and MediaStream API require HTTPS.")
		fmt.Fprintln(w, "      Use HTTPS mode for full functionality.")
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Press Ctrl+C to stop the server")
	fmt.Fprintln(w)
}

func writeInstallHints(w io.Writer, hints []string) {
	for _, line := range hints {
		fmt.Fprintln(w, line)
	}
}
