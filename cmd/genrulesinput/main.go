package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/gamecenter-tools/matchrules/internal/config"
	"github.com/gamecenter-tools/matchrules/internal/errors"
	"github.com/gamecenter-tools/matchrules/internal/expand"
	"github.com/gamecenter-tools/matchrules/internal/models"
	"github.com/gamecenter-tools/matchrules/internal/parser"
	"github.com/gamecenter-tools/matchrules/internal/render"
)

// CLI defines the command-line interface
var CLI struct {
	Input   string `help:"Path to a compact request file. If not specified, reads from stdin." short:"i" type:"path"`
	Output  string `help:"Path to the output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config  string `help:"Path to a config file. If not specified, .matchrules.yml is searched for upwards." short:"c" type:"path"`
	Debug   bool   `help:"Enable debug logging." short:"d"`
	Version bool   `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	cliParser := kong.Must(&CLI,
		kong.Name("genrulesinput"),
		kong.Description("Expand compact match requests into a matchmaking playground document"),
		kong.UsageOnError(),
	)

	_, err := cliParser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("genrulesinput version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: genrulesinput --help\n")

		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	// A .env file is optional, so a missing one is not an error
	_ = godotenv.Load()

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Debug || cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// 1. Parse the compact input
	doc, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}
	logrus.Debugf("parsed %d request(s)", len(doc.Requests))

	// 2. Expand into the playground document
	playground, err := expand.NewExpander(cfg).PlaygroundDocument(doc)
	if err != nil {
		return err
	}
	logrus.Debugf("playground document: %s", render.Compact(playground))

	// 3. Render and write the result
	out, err := render.JSON(playground)
	if err != nil {
		return err
	}
	return writeOutput(out)
}

// parseInput reads the compact document from file or stdin
func parseInput() (models.CompactDocument, error) {
	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.CompactDocument{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped) and no input file was given
		return models.CompactDocument{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.CompactDocument{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.CompactDocument{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the document to file or stdout
func writeOutput(data []byte) error {
	if err := render.Write(CLI.Output, data); err != nil {
		return err
	}
	if CLI.Output != "" {
		fmt.Fprintf(os.Stderr, "Playground document written to %s\n", CLI.Output)
	}
	return nil
}
