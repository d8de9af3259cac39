package internal

import (
	"fmt"
	"os"
	"strings"
)

// Fatal reports an unrecoverable CLI error through Echo and exits with code 1.
func Fatal(msg string, args ...any) {
	Echo(msg, args...)
	os.Exit(1)
}

// Echo writes a newline-terminated message to stderr with no logging
// decoration, keeping stdout free for payload data.
func Echo(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = fmt.Fprintf(os.Stderr, msg, args...)
}
