// Command descfmt checks and converts listing description documents from the
// shell: validate, normalize, render to HTML and convert to or from
// markdown. Input is a file name or "-" for stdin.
package main

import (
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
