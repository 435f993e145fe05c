package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"

	"BrainrotKeeper/internal/cli/model"
	"BrainrotKeeper/internal/config"
)

type itemsCmd struct{}

func (itemsCmd) Name() string        { return "items" }
func (itemsCmd) Description() string { return "List items of a profile" }
func (itemsCmd) Usage() string {
	return "items [--sort total_desc|total_asc|account_asc|account_desc|name_asc|account_total] [--account <name>] <profile>"
}

func (itemsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	sortKey := fs.String("sort", "", "sort order")
	account := fs.String("account", "", "show only this account")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	q := url.Values{}
	if *sortKey != "" {
		q.Set("sort", *sortKey)
	}
	if *account != "" {
		q.Set("account", *account)
	}
	var list model.ItemList
	if err := c.Do(ctx, http.MethodGet, profilePath(rest[0], "items"), q, nil, &list); err != nil {
		return explain(err)
	}
	printItems(Out, list.Items, list.Summary)
	return nil
}

type itemAddRequest struct {
	CatalogName   string   `json:"catalog_name"`
	ColorName     string   `json:"color_name,omitempty"`
	MutationNames []string `json:"mutation_names,omitempty"`
	AccountName   string   `json:"account_name,omitempty"`
}

type itemAddCmd struct{}

func (itemAddCmd) Name() string        { return "item-add" }
func (itemAddCmd) Description() string { return "Value an item by the catalog and add it" }
func (itemAddCmd) Usage() string {
	return "item-add [--color <name>] [--mutation <name>]... [--account <name>] <profile> <item>"
}

func (itemAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("item-add", flag.ContinueOnError)
	color := fs.String("color", "", "color modifier")
	account := fs.String("account", "", "account to put the item on")
	var mutations listFlag
	fs.Var(&mutations, "mutation", "mutation (repeatable or comma-separated)")
	rest, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 || rest[1] == "" {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	req := itemAddRequest{
		CatalogName:   rest[1],
		ColorName:     *color,
		MutationNames: mutations,
		AccountName:   *account,
	}
	var it model.Item
	if err := c.Do(ctx, http.MethodPost, profilePath(rest[0], "items"), nil, req, &it); err != nil {
		return explain(err)
	}
	fmt.Fprintln(Out, "Added:")
	printItem(Out, it)
	return nil
}

type itemRemoveCmd struct{}

func (itemRemoveCmd) Name() string        { return "item-remove" }
func (itemRemoveCmd) Description() string { return "Remove one item by id" }
func (itemRemoveCmd) Usage() string       { return "item-remove <profile> <id>" }

func (itemRemoveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	if err := c.Do(ctx, http.MethodDelete, profilePath(args[0], "items", args[1]), nil, nil, nil); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Removed item %s\n", args[1])
	return nil
}

type itemMoveCmd struct{}

func (itemMoveCmd) Name() string        { return "item-move" }
func (itemMoveCmd) Description() string { return "Move an item to another account" }
func (itemMoveCmd) Usage() string       { return "item-move <profile> <id> <account>" }

func (itemMoveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var it model.Item
	body := map[string]string{"account_name": args[2]}
	if err := c.Do(ctx, http.MethodPatch, profilePath(args[0], "items", args[1]), nil, body, &it); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Moved %s to %s\n", it.ID, it.AccountName)
	return nil
}

func init() {
	RegisterCmd(itemsCmd{})
	RegisterCmd(itemAddCmd{})
	RegisterCmd(itemRemoveCmd{})
	RegisterCmd(itemMoveCmd{})
}
