package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skekre98/iliasjump/config"
	"github.com/skekre98/iliasjump/logging"
	"github.com/skekre98/iliasjump/redirect"
)

// Exit codes of the resolve command.
const (
	exitRedirect = 0
	exitNotFound = 1
	exitInvalid  = 2
)

type resolveResult struct {
	Outcome  string          `json:"outcome"`
	Location string          `json:"location,omitempty"`
	Phase    string          `json:"phase,omitempty"`
	Error    string          `json:"error,omitempty"`
	Errors   redirect.Issues `json:"errors,omitempty"`
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve --db <json|@file> --search <term> --redirect-home <true|false>",
		Short: "Resolve one search offline and print the result as JSON",
		Long: `Runs the same validation and matching as the HTTP endpoint and prints
{"outcome", "location"|"error"|"errors"}. Exits 0 on a redirect, 1 when
nothing matched and 2 on invalid input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts)
		},
	}
	cmd.Flags().String("db", "", "Module catalog as JSON, or @path to read it from a file")
	cmd.Flags().String("search", "", "Search term")
	cmd.Flags().String("redirect-home", "", "Fall back to the ILIAS home page on a miss (true|false)")
	return cmd
}

func runResolve(cmd *cobra.Command, opts *rootOptions) error {
	logger := logging.New(config.LoggingConfig{Level: "warn"}, cmd.ErrOrStderr())
	mgr, err := loadConfig(opts, false, logger)
	if err != nil {
		return err
	}
	cfg := config.Snapshot[config.Root](mgr)

	targets, err := redirect.NewTargets(cfg.Redirect)
	if err != nil {
		return err
	}

	p, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	svc := redirect.NewService(targets, logging.New(cfg.Logging, cmd.ErrOrStderr()), nil)
	out := svc.Resolve(cmd.Context(), p)

	res := resolveResult{Outcome: out.Kind.String()}
	code := exitRedirect
	switch out.Kind {
	case redirect.KindValidationFailed:
		res.Errors = out.Issues
		code = exitInvalid
	case redirect.KindNotFound:
		res.Error = redirect.NotFoundMessage
		code = exitNotFound
	default:
		res.Location, _ = targets.Location(out)
		if out.Kind == redirect.KindRedirectTo {
			res.Phase = out.Phase.String()
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if code != exitRedirect {
		return &exitError{code: code}
	}
	return nil
}

// resolveParams maps flags to Params. Flags that were not given stay nil
// so they are reported as missing.
func resolveParams(cmd *cobra.Command) (redirect.Params, error) {
	var p redirect.Params
	flags := cmd.Flags()

	if flags.Changed("db") {
		db, _ := flags.GetString("db")
		if path, ok := strings.CutPrefix(db, "@"); ok {
			data, err := readCatalogFile(path, cmd.InOrStdin())
			if err != nil {
				return p, err
			}
			db = string(data)
		}
		p.DB = &db
	}
	if flags.Changed("search") {
		s, _ := flags.GetString("search")
		p.Search = &s
	}
	if flags.Changed("redirect-home") {
		h, _ := flags.GetString("redirect-home")
		p.RedirectHome = &h
	}
	return p, nil
}

// readCatalogFile reads path, or stdin when path is "-".
func readCatalogFile(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read catalog from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return data, nil
}
