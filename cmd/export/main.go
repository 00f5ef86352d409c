// export writes a deck as a static HTML site: an interactive
// index.html plus one fully revealed page per slide.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/deckfold/deckfold/internal/export"
	"github.com/deckfold/deckfold/internal/service"
)

func main() {
	outDir := flag.String("output", "deckfold-site", "Output directory")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: export [--output dir] <deck.md>")
		os.Exit(2)
	}

	svc, err := service.NewService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing service: %v\n", err)
		os.Exit(1)
	}

	deck, err := svc.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := export.WriteSite(deck, svc.Registry(), *outDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d slides to %s\n", len(deck.Slides), *outDir)
	for _, d := range deck.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s\n", d.String())
	}
}
