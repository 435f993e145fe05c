package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"BrainrotKeeper/internal/config"
)

type importCmd struct{}

func (importCmd) Name() string        { return "import" }
func (importCmd) Description() string { return "Import items from a CSV export" }
func (importCmd) Usage() string       { return "import <profile> <file.csv>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	_, body, err := c.Raw(ctx, http.MethodPost, profilePath(args[0], "import"), nil, "text/csv", bytes.NewReader(data))
	if err != nil {
		return explain(err)
	}
	var resp struct {
		Imported int `json:"imported"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(Out, "Imported %d item(s) into %q\n", resp.Imported, args[0])
	return nil
}

type exportCmd struct{}

func (exportCmd) Name() string        { return "export" }
func (exportCmd) Description() string { return "Export items to CSV or XLSX" }
func (exportCmd) Usage() string {
	return "export [--format csv|xlsx] [--sort <key>] [--account <name>] <profile> <file>"
}

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "", "csv or xlsx (default: from file extension)")
	sortKey := fs.String("sort", "", "sort order")
	account := fs.String("account", "", "export only this account")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return ErrUsage
	}
	target := rest[1]
	if *format == "" {
		*format = "csv"
		if strings.HasSuffix(strings.ToLower(target), ".xlsx") {
			*format = "xlsx"
		}
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	q := url.Values{"format": {*format}}
	if *sortKey != "" {
		q.Set("sort", *sortKey)
	}
	if *account != "" {
		q.Set("account", *account)
	}
	_, body, err := c.Raw(ctx, http.MethodGet, profilePath(rest[0], "export"), q, "", nil)
	if err != nil {
		return explain(err)
	}
	if err := os.WriteFile(target, body, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Wrote %s (%d bytes)\n", target, len(body))
	return nil
}

func init() {
	RegisterCmd(importCmd{})
	RegisterCmd(exportCmd{})
}
