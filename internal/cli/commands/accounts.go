package commands

import (
	"context"
	"fmt"
	"net/http"

	"BrainrotKeeper/internal/cli/model"
	"BrainrotKeeper/internal/config"
)

type accountAddCmd struct{}

func (accountAddCmd) Name() string        { return "account-add" }
func (accountAddCmd) Description() string { return "Add an account to a profile" }
func (accountAddCmd) Usage() string       { return "account-add <profile> <account>" }

func (accountAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var p model.Profile
	if err := c.Do(ctx, http.MethodPost, profilePath(args[0], "accounts"), nil, map[string]string{"name": args[1]}, &p); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Accounts: %v\n", p.Accounts)
	return nil
}

type accountRemoveCmd struct{}

func (accountRemoveCmd) Name() string { return "account-remove" }
func (accountRemoveCmd) Description() string {
	return "Remove an account; its items become unassigned"
}
func (accountRemoveCmd) Usage() string { return "account-remove <profile> <account> --yes" }

func (accountRemoveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	args, yes := confirmed(args)
	if len(args) != 2 {
		return ErrUsage
	}
	if err := requireYes(yes, fmt.Sprintf("account %q", args[1])); err != nil {
		return err
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var resp struct {
		Profile    model.Profile `json:"profile"`
		Reassigned int           `json:"reassigned"`
	}
	if err := c.Do(ctx, http.MethodDelete, profilePath(args[0], "accounts", args[1]), nil, nil, &resp); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Removed account %q, %d item(s) moved to unassigned\n", args[1], resp.Reassigned)
	fmt.Fprintf(Out, "Accounts: %v\n", resp.Profile.Accounts)
	return nil
}

func init() {
	RegisterCmd(accountAddCmd{})
	RegisterCmd(accountRemoveCmd{})
}
