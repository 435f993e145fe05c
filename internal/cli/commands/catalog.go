package commands

import (
	"context"
	"fmt"
	"net/http"

	"BrainrotKeeper/internal/cli/api"
	"BrainrotKeeper/internal/cli/model"
	"BrainrotKeeper/internal/config"
)

type catalogCmd struct{}

func (catalogCmd) Name() string        { return "catalog" }
func (catalogCmd) Description() string { return "Show known items, colors and mutations" }
func (catalogCmd) Usage() string       { return "catalog" }

func (catalogCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var cat model.Catalog
	if err := api.New(cfg.ServerURL, "").Do(ctx, http.MethodGet, "/api/catalog", nil, nil, &cat); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Valuation policy: %s\n\n", cat.Policy)

	tw := newTable(Out)
	fmt.Fprintln(tw, "ITEM\tRARITY\tBASE")
	for _, it := range cat.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Name, it.Rarity, it.BaseValue)
	}
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "COLOR\tMULTIPLIER\t")
	for _, c := range cat.Colors {
		fmt.Fprintf(tw, "%s\tx%s\t\n", c.Name, c.Multiplier)
	}
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "MUTATION\tMULTIPLIER\t")
	for _, m := range cat.Mutations {
		fmt.Fprintf(tw, "%s\tx%s\t\n", m.Name, m.Multiplier)
	}
	return tw.Flush()
}

func init() { RegisterCmd(catalogCmd{}) }
