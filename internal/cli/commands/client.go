package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"BrainrotKeeper/internal/cli/api"
	"BrainrotKeeper/internal/cli/auth"
	"BrainrotKeeper/internal/config"
)

func tokenStore(cfg *config.Config) auth.FileStore {
	return auth.NewFileStore(cfg.TokenFile)
}

// authedClient returns an API client carrying the stored token.
func authedClient(cfg *config.Config) (*api.Client, error) {
	tok, err := tokenStore(cfg).Load()
	if errors.Is(err, auth.ErrNoToken) {
		return nil, errors.New("not logged in: run `login` first")
	}
	if err != nil {
		return nil, err
	}
	return api.New(cfg.ServerURL, tok), nil
}

// profilePath builds /api/profiles/<profile>[/<part>...] with escaped segments.
func profilePath(profile string, parts ...string) string {
	var b strings.Builder
	b.WriteString("/api/profiles/")
	b.WriteString(url.PathEscape(profile))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

// explain turns an auth failure into a hint; other errors pass through.
func explain(err error) error {
	if api.StatusOf(err) == http.StatusUnauthorized {
		return errors.New("session expired or not logged in: run `login`")
	}
	return err
}

// parseFlags parses command-local flags. Flags go before positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, ErrUsage
	}
	return fs.Args(), nil
}

// listFlag collects a repeatable string flag; values may also be comma-separated.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func confirmed(args []string) ([]string, bool) {
	out := args[:0:0]
	yes := false
	for _, a := range args {
		if a == "--yes" || a == "-y" {
			yes = true
			continue
		}
		out = append(out, a)
	}
	return out, yes
}

func requireYes(yes bool, what string) error {
	if !yes {
		return fmt.Errorf("refusing to delete %s without --yes", what)
	}
	return nil
}
