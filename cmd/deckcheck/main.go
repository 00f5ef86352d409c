// deckcheck compiles every deck named on the command line and prints
// their diagnostics. It exits non-zero when any deck carries an
// error-severity diagnostic, so it fits in a pre-commit hook.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/deckfold/deckfold/internal/models"
	"github.com/deckfold/deckfold/internal/service"
)

func main() {
	quiet := flag.Bool("quiet", false, "Print only decks with diagnostics")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: deckcheck [--quiet] <deck.md>...")
		os.Exit(2)
	}

	svc, err := service.NewService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing service: %v\n", err)
		os.Exit(2)
	}

	failed := false
	for _, path := range paths {
		deck, err := svc.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}

		if len(deck.Diagnostics) == 0 {
			if !*quiet {
				fmt.Printf("%s: %d slides, clean\n", path, len(deck.Slides))
			}
			continue
		}

		fmt.Printf("%s: %d slides, %d diagnostics\n", path, len(deck.Slides), len(deck.Diagnostics))
		for _, d := range deck.Diagnostics {
			fmt.Printf("  %s\n", d.String())
			if d.Severity == models.DiagError {
				failed = true
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}
