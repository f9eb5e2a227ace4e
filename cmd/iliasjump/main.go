package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// exitError carries a process exit code through cobra without printing.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type rootOptions struct {
	configDir string
	profile   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "iliasjump",
		Short:         "Redirect course searches into ILIAS",
		Long:          "iliasjump resolves a search string against a caller supplied module catalog and redirects to the matching ILIAS repository page.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "Directory holding application.yaml")
	root.PersistentFlags().StringVar(&opts.profile, "profile", os.Getenv("APP_PROFILE"), "Config profile overlay (application.<profile>.yaml)")

	root.AddCommand(newServeCmd(opts), newResolveCmd(opts))
	return root
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
