package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Execute runs the gen-swagger-client CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gen-swagger-client",
		Short:         "Generate typed API clients from Swagger 2.0 documents",
		Long:          "gen-swagger-client compiles a Swagger 2.0 document into a Flow-annotated JavaScript client or a Go client.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetFlagErrorFunc(flagError)

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")

	g := newGenerateCmd()
	g.SetFlagErrorFunc(flagError)
	cmd.AddCommand(g)

	v := newValidateCmd()
	v.SetFlagErrorFunc(flagError)
	cmd.AddCommand(v)

	return cmd
}

// newLogger builds the stderr logger, at debug level when --verbose is set
func newLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
