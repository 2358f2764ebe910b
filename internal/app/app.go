// Package app implements the dexie command line interface on top of the
// pkg/dexie client.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dexie-space/dexie-go/internal/config"
	"github.com/dexie-space/dexie-go/internal/profiles"
	"github.com/dexie-space/dexie-go/pkg/dexie"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
)

// Params carries the runtime dependencies of the CLI.
type Params struct {
	Version string
	Out     io.Writer
	ErrOut  io.Writer
}

// App dispatches CLI commands to the dexie client.
type App struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	out     io.Writer
	errOut  io.Writer
	version string
}

// New builds the CLI runtime from config.
func New(cfg *config.Config, log *zap.SugaredLogger, p Params) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}

	return &App{
		cfg:     cfg,
		log:     log,
		out:     out,
		errOut:  errOut,
		version: p.Version,
	}, nil
}

// Run parses args and executes the selected command. The first non-flag
// argument names the command; everything after it belongs to that command.
func (a *App) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dexie", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	profileID := fs.String("profile", a.cfg.Profile, "endpoint profile to use")
	profilesFile := fs.String("profiles-file", a.cfg.ProfilesFile, "path to the profiles file")
	fs.Usage = func() { a.printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		a.printUsage(fs)
		return fmt.Errorf("no command given")
	}
	cmd, cmdArgs := rest[0], rest[1:]

	switch cmd {
	case "version":
		fmt.Fprintf(a.out, "dexie %s\n", a.version)
		return nil
	case "help":
		a.printUsage(fs)
		return nil
	}

	runners := map[string]func(context.Context, *dexie.Client, []string) error{
		"assets":    a.runAssets,
		"search":    a.runSearch,
		"offer":     a.runOffer,
		"submit":    a.runSubmit,
		"pairs":     a.runPairs,
		"tickers":   a.runTickers,
		"orderbook": a.runOrderBook,
		"trades":    a.runTrades,
	}
	runner, ok := runners[cmd]
	if !ok {
		a.printUsage(fs)
		return fmt.Errorf("unknown command %q", cmd)
	}

	client, err := a.buildClient(*profileID, *profilesFile)
	if err != nil {
		return err
	}

	if err := runner(ctx, client, cmdArgs); err != nil {
		// -h on a subcommand prints its usage and is not a failure.
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return nil
}

// buildClient resolves the endpoint profile and constructs a dexie client
// from it. A missing profiles file falls back to the built-in profiles.
func (a *App) buildClient(profileID, profilesFile string) (*dexie.Client, error) {
	reg, err := profiles.LoadRegistry(profilesFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load profiles registry: %w", err)
		}
		a.log.Debugw("profiles file not found, using built-in profiles", "path", profilesFile)
		reg = profiles.Builtin()
	}

	profile, ok := reg.ByID(profileID)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (known: %s)", profileID, strings.Join(reg.IDs(), ", "))
	}

	opts := []dexie.Option{
		dexie.WithBaseURL(profile.BaseURL),
		dexie.WithPricesBaseURL(profile.PricesBaseURL),
		dexie.WithTimeout(profile.Timeout(a.cfg.HTTPTimeout)),
		dexie.WithLogger(a.log),
	}
	if retry := profile.Retry(); retry != nil {
		opts = append(opts, dexie.WithRetryPolicy(*retry))
	}

	a.log.Debugw("client configured",
		"profile", profile.ID,
		"base_url", profile.BaseURL,
		"prices_base_url", profile.PricesBaseURL,
	)
	return dexie.New(opts...), nil
}

// render pretty-prints the raw response body to the output writer.
func (a *App) render(resp *dexie.Response) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := a.out.Write(buf.Bytes())
	return err
}

func (a *App) printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(a.errOut, "%s\n\n", aurora.Bold("dexie - query the dexie.space exchange API"))
	fmt.Fprintf(a.errOut, "%s\n  dexie [global flags] <command> [command flags]\n\n", aurora.Bold("Usage:"))
	fmt.Fprintf(a.errOut, "%s\n", aurora.Bold("Commands:"))
	fmt.Fprint(a.errOut, `  assets      list assets (CATs, NFTs) traded on dexie
  search      search offers
  offer       inspect a single offer by id
  submit      submit an offer file to the market
  pairs       list trading pairs
  tickers     ticker snapshots for trading pairs
  orderbook   order book for a trading pair
  trades      historical trades for a trading pair
  version     print version
  help        print this help
`)
	if fs != nil {
		fmt.Fprintf(a.errOut, "\n%s\n", aurora.Bold("Global flags:"))
		fs.PrintDefaults()
	}
}
