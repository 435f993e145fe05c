package commands

import (
	"context"
	"fmt"
	"net/http"

	"BrainrotKeeper/internal/config"
)

type revalueCmd struct{}

func (revalueCmd) Name() string { return "revalue" }
func (revalueCmd) Description() string {
	return "Recompute stored totals with the server's current policy"
}
func (revalueCmd) Usage() string { return "revalue <profile>" }

func (revalueCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := authedClient(cfg)
	if err != nil {
		return err
	}
	var resp struct {
		Changed int    `json:"changed"`
		Policy  string `json:"policy"`
	}
	if err := c.Do(ctx, http.MethodPost, profilePath(args[0], "revalue"), nil, nil, &resp); err != nil {
		return explain(err)
	}
	fmt.Fprintf(Out, "Revalued with %s: %d item(s) changed\n", resp.Policy, resp.Changed)
	return nil
}

func init() { RegisterCmd(revalueCmd{}) }
