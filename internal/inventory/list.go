package inventory

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey — порядок вывода предметов.
type SortKey string

const (
	SortTotalDesc    SortKey = "total_desc"
	SortTotalAsc     SortKey = "total_asc"
	SortAccountAsc   SortKey = "account_asc"
	SortAccountDesc  SortKey = "account_desc"
	SortNameAsc      SortKey = "name_asc"
	SortAccountTotal SortKey = "account_total"
)

// FilterAll — фильтр без ограничения по аккаунту.
const FilterAll = "all"

// ParseSortKey разбирает ключ сортировки; пустая строка — total_desc.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return SortTotalDesc, nil
	case SortTotalDesc, SortTotalAsc, SortAccountAsc, SortAccountDesc, SortNameAsc, SortAccountTotal:
		return k, nil
	}
	return "", validationf("unknown sort key %q", s)
}

// ListItems возвращает отфильтрованную и отсортированную копию предметов.
// Сортировка стабильная: равные элементы сохраняют порядок добавления.
func ListItems(p ProfileState, key SortKey, account string) ([]InventoryItem, error) {
	if key == "" {
		key = SortTotalDesc
	}
	account = strings.TrimSpace(account)
	all := account == "" || strings.EqualFold(account, FilterAll)

	out := make([]InventoryItem, 0, len(p.Items))
	for _, it := range p.Items {
		if all || strings.EqualFold(it.AccountName, account) {
			it.MutationNames = append([]string{}, it.MutationNames...)
			out = append(out, it)
		}
	}

	var less func(a, b InventoryItem) bool
	switch key {
	case SortTotalDesc:
		less = func(a, b InventoryItem) bool { return a.TotalValue.GreaterThan(b.TotalValue) }
	case SortTotalAsc:
		less = func(a, b InventoryItem) bool { return a.TotalValue.LessThan(b.TotalValue) }
	case SortAccountAsc:
		less = func(a, b InventoryItem) bool { return foldLess(a.AccountName, b.AccountName) }
	case SortAccountDesc:
		less = func(a, b InventoryItem) bool { return foldLess(b.AccountName, a.AccountName) }
	case SortNameAsc:
		less = func(a, b InventoryItem) bool { return foldLess(a.CatalogName, b.CatalogName) }
	case SortAccountTotal:
		less = func(a, b InventoryItem) bool {
			if !strings.EqualFold(a.AccountName, b.AccountName) {
				return foldLess(a.AccountName, b.AccountName)
			}
			return a.TotalValue.GreaterThan(b.TotalValue)
		}
	default:
		return nil, validationf("unknown sort key %q", key)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func foldLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// Summary — сводка по профилю.
type Summary struct {
	ItemCount  int                        `json:"item_count"`
	GrandTotal decimal.Decimal            `json:"grand_total"`
	PerAccount map[string]decimal.Decimal `json:"per_account"`
}

// Summarize считает общий итог и итоги по аккаунтам (включая Unassigned, если есть предметы).
func Summarize(items []InventoryItem) Summary {
	s := Summary{GrandTotal: decimal.Zero, PerAccount: map[string]decimal.Decimal{}}
	for _, it := range items {
		s.ItemCount++
		s.GrandTotal = s.GrandTotal.Add(it.TotalValue)
		s.PerAccount[it.AccountName] = s.PerAccount[it.AccountName].Add(it.TotalValue)
	}
	return s
}
