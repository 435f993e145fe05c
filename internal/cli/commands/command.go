package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"BrainrotKeeper/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command is one brkcli subcommand.
type Command interface {
	// Name is what the user types, e.g. "item-add".
	Name() string
	Description() string
	// Usage is the full argument synopsis, e.g. "item-move <profile> <item-id> <account>".
	Usage() string
	// Run gets the arguments after the command name.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out — общий writer для вывода CLI, в тестах подменяется.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry; commands call it from init().
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Suggest returns registered command names that share a prefix with name or contain it.
func Suggest(name string) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	var out []string
	for _, c := range List() {
		n := c.Name()
		if strings.HasPrefix(n, name) || strings.HasPrefix(name, n) || strings.Contains(n, name) {
			out = append(out, n)
		}
	}
	return out
}

// FormatGlobalUsage builds the help text listing every command.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("BrainrotKeeper CLI\n\n")
	b.WriteString("Usage:\n")
	b.WriteString("  brkcli [--base-url <host:port>] [--https] [--token-file <path>] <command> [args]\n")
	b.WriteString("  brkcli help <command>\n\n")
	b.WriteString("Commands:\n")
	for _, c := range List() {
		fmt.Fprintf(&b, "  %-60s %s\n", c.Usage(), c.Description())
	}
	return b.String()
}
