package commands

import (
	"context"
	"fmt"
	"net/http"

	"BrainrotKeeper/internal/cli/model"
	"BrainrotKeeper/internal/config"
)

type profilesCmd struct{}

func (profilesCmd) Name() string        { return "profiles" }
func (profilesCmd) Description() string { return "List your profiles" }
func (profilesCmd) Usage() string       { return "profiles" }

func (profilesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var resp struct {
		Profiles []string `json:"profiles"`
	}
	if err := c.Do(ctx, http.MethodGet, "/api/profiles", nil, nil, &resp); err != nil {
		return explain(err)
	}
	if len(resp.Profiles) == 0 {
		fmt.Fprintln(Out, "No profiles")
		return nil
	}
	for _, p := range resp.Profiles {
		fmt.Fprintf(Out, "- %s\n", p)
	}
	return nil
}

type profileCreateCmd struct{}

func (profileCreateCmd) Name() string        { return "profile-create" }
func (profileCreateCmd) Description() string { return "Create a profile with the default accounts" }
func (profileCreateCmd) Usage() string       { return "profile-create <name>" }

func (profileCreateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var p model.Profile
	if err := c.Do(ctx, http.MethodPost, "/api/profiles", nil, map[string]string{"name": args[0]}, &p); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Created profile %q with accounts: %v\n", p.Name, p.Accounts)
	return nil
}

type profileDeleteCmd struct{}

func (profileDeleteCmd) Name() string { return "profile-delete" }
func (profileDeleteCmd) Description() string {
	return "Delete a profile with all its items (irreversible)"
}
func (profileDeleteCmd) Usage() string { return "profile-delete <name> --yes" }

func (profileDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	args, yes := confirmed(args)
	if len(args) != 1 {
		return ErrUsage
	}
	if err := requireYes(yes, fmt.Sprintf("profile %q", args[0])); err != nil {
		return err
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	if err := c.Do(ctx, http.MethodDelete, profilePath(args[0]), nil, nil, nil); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Deleted profile %q\n", args[0])
	return nil
}

type profileShowCmd struct{}

func (profileShowCmd) Name() string        { return "profile-show" }
func (profileShowCmd) Description() string { return "Show accounts, items and totals of a profile" }
func (profileShowCmd) Usage() string       { return "profile-show <name>" }

func (profileShowCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var p model.Profile
	if err := c.Do(ctx, http.MethodGet, profilePath(args[0]), nil, nil, &p); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Profile: %s (version %d)\n", p.Name, p.Version)
	fmt.Fprintf(Out, "Accounts: %v\n\n", p.Accounts)
	printItems(Out, p.Items, p.Summary)
	return nil
}

func init() {
	RegisterCmd(profilesCmd{})
	RegisterCmd(profileCreateCmd{})
	RegisterCmd(profileDeleteCmd{})
	RegisterCmd(profileShowCmd{})
}
