package main

import (
	"fmt"
	"io"

	"winnow/internal/services"
)

// printFailure renders an error with its remediation hint when one is
// attached, instead of a bare error chain.
func printFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	if hint, ok := services.HintOf(err); ok {
		fmt.Fprintf(w, "\nTo fix this: %s\n", hint)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
