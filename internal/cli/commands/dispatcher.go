package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"BrainrotKeeper/internal/config"
)

// Dispatch runs one CLI command and returns the process exit code:
// 0 on success, 1 when the command failed, 2 on a usage problem.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	switch name {
	case "help", "--help", "-h":
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		unknown(name)
		return 2
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return 1
	}
}

// help печатает общую справку или справку по одной команде.
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 0
	}
	c, ok := Get(strings.ToLower(args[0]))
	if !ok {
		unknown(args[0])
		return 2
	}
	fmt.Fprintf(Out, "%s\n\nUsage: %s\n", c.Description(), c.Usage())
	return 0
}

func unknown(name string) {
	fmt.Fprintf(Out, "Unknown command: %s\n", name)
	if similar := Suggest(name); len(similar) > 0 {
		fmt.Fprintf(Out, "Did you mean: %s?\n", strings.Join(similar, ", "))
	}
	fmt.Fprintln(Out)
	fmt.Fprint(Out, FormatGlobalUsage())
}
