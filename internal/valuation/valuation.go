// Package valuation считает итоговую стоимость предмета по базовой цене и модификаторам.
//
// Основная политика — AdditiveExcess: каждый модификатор добавляет к базе только
// превышение своего множителя над 1. Две другие политики сохранены под своими именами,
// потому что в старых данных встречаются итоги, посчитанные по ним.
package valuation

import (
	"errors"
	"fmt"
	"strings"

	"BrainrotKeeper/internal/catalog"

	"github.com/shopspring/decimal"
)

// Policy — правило сложения модификаторов.
type Policy string

const (
	// AdditiveExcess: base + base*max(c-1,0) + Σ base*max(m-1,0).
	AdditiveExcess Policy = "additive-excess"
	// AdditiveFull: base + base*c + Σ base*m.
	AdditiveFull Policy = "additive-full"
	// MultiplicativeChain: base * c * Π m. Обнуляет итог при множителе 0.
	MultiplicativeChain Policy = "multiplicative-chain"
)

var (
	// ErrUnknownPolicy — неизвестное имя политики.
	ErrUnknownPolicy = errors.New("unknown valuation policy")
	// ErrDefectivePolicy — политика несовместима со справочником.
	ErrDefectivePolicy = errors.New("defective valuation policy")
)

var one = decimal.NewFromInt(1)

// ParsePolicy разбирает имя политики; пустая строка — политика по умолчанию.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", AdditiveExcess:
		return AdditiveExcess, nil
	case AdditiveFull:
		return AdditiveFull, nil
	case MultiplicativeChain:
		return MultiplicativeChain, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Total — чистая функция расчёта итога.
func Total(p Policy, base, color decimal.Decimal, mutations []decimal.Decimal) decimal.Decimal {
	switch p {
	case AdditiveFull:
		total := base.Add(base.Mul(color))
		for _, m := range mutations {
			total = total.Add(base.Mul(m))
		}
		return total
	case MultiplicativeChain:
		total := base.Mul(color)
		for _, m := range mutations {
			total = total.Mul(m)
		}
		return total
	default:
		total := base.Add(base.Mul(excess(color)))
		for _, m := range mutations {
			total = total.Add(base.Mul(excess(m)))
		}
		return total
	}
}

func excess(m decimal.Decimal) decimal.Decimal {
	return decimal.Max(m.Sub(one), decimal.Zero)
}

// Quote — результат оценки одного предмета.
type Quote struct {
	CatalogName string
	Found       bool
	Rarity      string
	BaseValue   decimal.Decimal
	Total       decimal.Decimal

	UnknownColor     bool
	UnknownMutations []string
}

// Engine связывает политику со справочником.
type Engine struct {
	catalog *catalog.Catalog
	policy  Policy
}

// New создаёт движок. MultiplicativeChain отклоняется, если цвет None имеет множитель 0:
// иначе любой предмет без цвета стоил бы 0.
func New(cat *catalog.Catalog, p Policy) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("valuation: nil catalog")
	}
	if _, err := ParsePolicy(string(p)); err != nil {
		return nil, err
	}
	if p == "" {
		p = AdditiveExcess
	}
	if p == MultiplicativeChain {
		if none, _ := cat.ColorMultiplier(catalog.NoneColor); none.IsZero() {
			return nil, fmt.Errorf("%w: %s with a zero %q color multiplier zeroes every uncolored item", ErrDefectivePolicy, p, catalog.NoneColor)
		}
	}
	return &Engine{catalog: cat, policy: p}, nil
}

// Policy возвращает активную политику.
func (e *Engine) Policy() Policy { return e.policy }

// Catalog возвращает справочник движка.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Quote оценивает предмет по именам из справочника. Промахи дают множитель 0
// и отмечаются в Quote, решение о строгости принимает вызывающий.
func (e *Engine) Quote(catalogName, colorName string, mutationNames []string) Quote {
	item, found := e.catalog.LookupItem(catalogName)
	q := Quote{
		CatalogName: catalogName,
		Found:       found,
		Rarity:      item.Rarity,
		BaseValue:   item.BaseValue,
	}

	color, ok := e.catalog.ColorMultiplier(colorName)
	q.UnknownColor = !ok

	mults := make([]decimal.Decimal, 0, len(mutationNames))
	for _, name := range mutationNames {
		m, ok := e.catalog.MutationMultiplier(name)
		if !ok {
			q.UnknownMutations = append(q.UnknownMutations, name)
		}
		mults = append(mults, m)
	}

	q.Total = Total(e.policy, item.BaseValue, color, mults)
	return q
}

// Reprice пересчитывает итог для уже сохранённой базы (снимок на момент добавления)
// по текущим множителям и активной политике.
func (e *Engine) Reprice(base decimal.Decimal, colorName string, mutationNames []string) decimal.Decimal {
	mults := make([]decimal.Decimal, 0, len(mutationNames))
	for _, name := range mutationNames {
		mults = append(mults, e.catalog.LookupMutation(name))
	}
	return Total(e.policy, base, e.catalog.LookupColor(colorName), mults)
}
