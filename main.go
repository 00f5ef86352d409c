package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/deckfold/deckfold/internal/cli"
	"github.com/deckfold/deckfold/internal/server"
	"github.com/deckfold/deckfold/internal/service"
	"github.com/deckfold/deckfold/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var version = "0.1.0"

// cliCommands names the subcommands handled headlessly; anything else
// on the command line is treated as a deck file to present.
var cliCommands = map[string]bool{
	"list": true, "ls": true,
	"build": true, "check": true,
	"render": true, "show": true,
	"export": true,
	"import": true,
	"copy":   true,
	"help":   true,
}

func printHelp() {
	fmt.Printf(`deckfold - terminal presentations from annotated markdown

USAGE:
    deckfold [OPTIONS] <deck.md>
    deckfold [OPTIONS] <COMMAND> [ARGS]

OPTIONS:
    --help       Show this help information
    --version    Print version information
    --init       Initialize a deck library
    --serve      Serve the deck over HTTP instead of the TUI
    --port       Port for the HTTP server (default from config)
    --no-watch   Disable rebuilding when the deck file changes

COMMANDS:
    (deck file)            Present the deck in the terminal
    list, ls               List decks in the library
    build <file>           Compile a deck and print its shape
    render <file> <n>      Print one slide as HTML, fully revealed
    export <file>          Write the deck as a static HTML site
    import <file>          Convert plain markdown into a deck
    copy <file> <n>        Copy a slide's text to the clipboard
    help                   Show CLI command help

EXAMPLES:
    deckfold talk.md                     # Present in the terminal
    deckfold --serve talk.md             # Serve at http://localhost:8787
    deckfold build talk.md --format json # Inspect the compiled deck
    deckfold export talk.md --output out # Static HTML export

STORAGE:
    Default directory: ~/.deckfold
    Override with: DECKFOLD_DIR=<path>
`)
}

func main() {
	var showVersion bool
	var initLib bool
	var showHelp bool
	var serve bool
	var port int
	var noWatch bool

	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&initLib, "init", false, "Initialize a deck library")
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&serve, "serve", false, "Serve the deck over HTTP")
	flag.IntVar(&port, "port", 0, "Port for the HTTP server")
	flag.BoolVar(&noWatch, "no-watch", false, "Disable deck file watching")
	flag.Parse()

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("deckfold version %s\n", version)
		os.Exit(0)
	}

	svc, err := service.NewService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if initLib {
		if err := svc.InitLibrary(); err != nil {
			fmt.Fprintln(os.Stderr, "Error initializing library:", err)
			os.Exit(1)
		}
		fmt.Println("Initialized deck library")
		return
	}

	args := flag.Args()
	if len(args) > 0 && cliCommands[args[0]] {
		cliHandler := cli.NewCLI(svc)
		if err := cliHandler.ExecuteCommand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "deckfold: a deck file or command is required; see --help")
		os.Exit(1)
	}

	if _, err := svc.Open(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if serve {
		if port == 0 {
			port = svc.Config().Port()
		}
		srv := server.NewDeckServer(svc, port)
		srv.SetWatch(!noWatch)
		if err := srv.Start(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
			os.Exit(1)
		}
		return
	}

	model, err := ui.NewModel(svc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
