package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benjaminmcdonald/gen-swagger-javascript-client/pkg/openapi"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a Swagger 2.0 document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := trimmed(cmd.Flags(), "input")
			if err != nil {
				return err
			}
			if input == "" {
				return newUsageError("validate: --input is required")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := openapi.ValidateDocument(ctx, input); err != nil {
				return err
			}
			newLogger(cmd, cmd.ErrOrStderr()).Debug("document is valid", "input", input)
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", input)
			return nil
		},
	}
	cmd.Flags().String("input", "", "Swagger 2.0 document (yaml/json), file path or URL")
	return cmd
}
