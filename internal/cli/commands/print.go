package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"BrainrotKeeper/internal/cli/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func mutationsCell(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// printItems prints items as a table followed by the summary.
func printItems(w io.Writer, items []model.Item, sum model.Summary) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tACCOUNT\tITEM\tRARITY\tCOLOR\tMUTATIONS\tTOTAL\tFULL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.AccountName, it.CatalogName, it.Rarity, it.ColorName,
			mutationsCell(it.MutationNames), it.TotalShort, it.TotalGrouped)
	}
	_ = tw.Flush()
	printSummary(w, sum)
}

func printSummary(w io.Writer, sum model.Summary) {
	fmt.Fprintf(w, "Items: %d  Total: %s (%s)\n", sum.ItemCount, sum.GrandTotalShort, sum.GrandTotal)
	if len(sum.PerAccount) == 0 {
		return
	}
	accounts := make([]string, 0, len(sum.PerAccount))
	for a := range sum.PerAccount {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	tw := newTable(w)
	for _, a := range accounts {
		fmt.Fprintf(tw, "  %s\t%s\n", a, sum.PerAccount[a])
	}
	_ = tw.Flush()
}

func printItem(w io.Writer, it model.Item) {
	tw := newTable(w)
	fmt.Fprintf(tw, "  id:\t%s\n", it.ID)
	fmt.Fprintf(tw, "  item:\t%s (%s)\n", it.CatalogName, it.Rarity)
	fmt.Fprintf(tw, "  color:\t%s\n", it.ColorName)
	fmt.Fprintf(tw, "  mutations:\t%s\n", mutationsCell(it.MutationNames))
	fmt.Fprintf(tw, "  account:\t%s\n", it.AccountName)
	fmt.Fprintf(tw, "  total:\t%s (%s)\n", it.TotalShort, it.TotalGrouped)
	_ = tw.Flush()
}
