package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/gamecenter-tools/matchrules/internal/asc"
	"github.com/gamecenter-tools/matchrules/internal/config"
	"github.com/gamecenter-tools/matchrules/internal/errors"
	"github.com/gamecenter-tools/matchrules/internal/expand"
	"github.com/gamecenter-tools/matchrules/internal/models"
	"github.com/gamecenter-tools/matchrules/internal/parser"
	"github.com/gamecenter-tools/matchrules/internal/render"
)

// CLI defines the command-line interface. The -i short flag belongs to the
// rule set id, so the input file flag is long-only.
var CLI struct {
	Auth      string `help:"App Store Connect API token. Defaults to the ASC_API_TOKEN environment variable." short:"a"`
	RuleSetID string `help:"Id of the matchmaking rule set to test. Defaults to the RULESET_ID environment variable." name:"rulesetid" short:"i"`
	URL       string `help:"Rule set test endpoint URL. Defaults to the ASC_API_URL environment variable, then the production endpoint." short:"u"`
	Input     string `help:"Path to a compact request file. If not specified, reads from stdin." type:"path"`
	Output    string `help:"Path to the output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config    string `help:"Path to a config file. If not specified, .matchrules.yml is searched for upwards." short:"c" type:"path"`
	Debug     bool   `help:"Enable debug logging." short:"d"`
	Version   bool   `help:"Show version information."`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	cliParser := kong.Must(&CLI,
		kong.Name("testrules"),
		kong.Description("Expand compact match requests and run them against a Game Center matchmaking rule set"),
		kong.UsageOnError(),
	)

	_, err := cliParser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("testrules version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: testrules --help\n")

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

	// Flags win over the environment, the environment over the config file.
	// Both credentials are checked before any input is read so a missing
	// token never costs the user a network round trip.
	token := CLI.Auth
	if token == "" {
		token = cfg.API.Token
	}
	if token == "" {
		return errors.NewConfigError("no App Store Connect API token: pass --auth or set ASC_API_TOKEN", errors.ErrMissingAuthToken)
	}

	ruleSetID := CLI.RuleSetID
	if ruleSetID == "" {
		ruleSetID = cfg.API.RuleSetID
	}
	if ruleSetID == "" {
		return errors.NewConfigError("no rule set id: pass --rulesetid or set RULESET_ID", errors.ErrMissingRuleSetID)
	}

	url := CLI.URL
	if url == "" {
		url = cfg.API.URL
	}

	// 1. Parse the compact input
	doc, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}
	if len(doc.Requests) == 0 {
		return errors.NewInputError("input contains no match requests", errors.ErrNoRequests)
	}
	logrus.Debugf("parsed %d request(s)", len(doc.Requests))

	// 2. Expand into the rule set test request body
	body, err := expand.NewExpander(cfg).RuleSetTest(doc, ruleSetID)
	if err != nil {
		return err
	}
	logrus.Debugf("request body: %s", render.Compact(body))

	// 3. Submit the test and print the match results
	client := asc.NewClient(url, cfg.Timeout())
	results, err := client.TestRuleSet(context.Background(), token, body)
	if err != nil {
		var apiErr *asc.APIError
		if stderrors.As(err, &apiErr) {
			// The API answered with an error payload. Print it where the
			// results would have gone so the caller can inspect it, then
			// fail.
			out, ierr := render.Indent(apiErr.Payload)
			if ierr == nil {
				if werr := writeOutput(out); werr != nil {
					return werr
				}
			}
		}
		return err
	}

	out, err := render.Indent(results)
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

// writeOutput writes the result payload to file or stdout
func writeOutput(data []byte) error {
	if err := render.Write(CLI.Output, data); err != nil {
		return err
	}
	if CLI.Output != "" {
		fmt.Fprintf(os.Stderr, "Results written to %s\n", CLI.Output)
	}
	return nil
}
