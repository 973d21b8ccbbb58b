package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrUsage marks errors caused by invalid command-line input
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// flagError turns cobra flag errors into usage errors carrying the command's help text
func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}
