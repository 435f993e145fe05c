package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// NoneColor — служебный цвет «без цвета». Всегда присутствует в справочнике.
const NoneColor = "None"

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidCatalog возвращается, если файл справочника не проходит проверку.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Item — персонаж из справочника.
type Item struct {
	Name      string          `json:"name"`
	BaseValue decimal.Decimal `json:"base_value"`
	Rarity    string          `json:"rarity"`
}

// Color — цветовой модификатор.
type Color struct {
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Mutation — модификатор-мутация. У предмета их может быть несколько.
type Mutation struct {
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Catalog — неизменяемый справочник. Создаётся один раз при старте и передаётся явно.
type Catalog struct {
	items     []Item
	colors    []Color
	mutations []Mutation

	itemIdx     map[string]int
	colorIdx    map[string]int
	mutationIdx map[string]int
}

type rawEntry struct {
	Name       string `yaml:"name"`
	Rarity     string `yaml:"rarity"`
	BaseValue  string `yaml:"base_value"`
	Multiplier string `yaml:"multiplier"`
}

type rawCatalog struct {
	Items     []rawEntry `yaml:"items"`
	Colors    []rawEntry `yaml:"colors"`
	Mutations []rawEntry `yaml:"mutations"`
}

// Default возвращает встроенный справочник.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load читает справочник из YAML-файла. Пустой путь — встроенный справочник.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML и проверяет записи.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		itemIdx:     make(map[string]int, len(raw.Items)),
		colorIdx:    make(map[string]int, len(raw.Colors)+1),
		mutationIdx: make(map[string]int, len(raw.Mutations)),
	}

	for _, e := range raw.Items {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: item with empty name", ErrInvalidCatalog)
		}
		if _, dup := c.itemIdx[name]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, name)
		}
		base, err := decimal.NewFromString(strings.TrimSpace(e.BaseValue))
		if err != nil || !base.IsPositive() {
			return nil, fmt.Errorf("%w: item %q: base_value must be a positive number", ErrInvalidCatalog, name)
		}
		c.itemIdx[name] = len(c.items)
		c.items = append(c.items, Item{Name: name, BaseValue: base, Rarity: strings.TrimSpace(e.Rarity)})
	}

	for _, e := range raw.Colors {
		name := strings.TrimSpace(e.Name)
		mult, err := parseMultiplier("color", name, e.Multiplier)
		if err != nil {
			return nil, err
		}
		if _, dup := c.colorIdx[name]; dup {
			return nil, fmt.Errorf("%w: duplicate color %q", ErrInvalidCatalog, name)
		}
		c.colorIdx[name] = len(c.colors)
		c.colors = append(c.colors, Color{Name: name, Multiplier: mult})
	}
	if _, ok := c.colorIdx[NoneColor]; !ok {
		c.colorIdx[NoneColor] = len(c.colors)
		c.colors = append(c.colors, Color{Name: NoneColor, Multiplier: decimal.Zero})
	}

	for _, e := range raw.Mutations {
		name := strings.TrimSpace(e.Name)
		mult, err := parseMultiplier("mutation", name, e.Multiplier)
		if err != nil {
			return nil, err
		}
		// мутации хранятся в CSV одной ячейкой через запятую
		if strings.Contains(name, ",") {
			return nil, fmt.Errorf("%w: mutation %q: name must not contain a comma", ErrInvalidCatalog, name)
		}
		if _, dup := c.mutationIdx[name]; dup {
			return nil, fmt.Errorf("%w: duplicate mutation %q", ErrInvalidCatalog, name)
		}
		c.mutationIdx[name] = len(c.mutations)
		c.mutations = append(c.mutations, Mutation{Name: name, Multiplier: mult})
	}

	return c, nil
}

func parseMultiplier(kind, name, value string) (decimal.Decimal, error) {
	if name == "" {
		return decimal.Zero, fmt.Errorf("%w: %s with empty name", ErrInvalidCatalog, kind)
	}
	m, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || m.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s %q: multiplier must be a non-negative number", ErrInvalidCatalog, kind, name)
	}
	return m, nil
}

// LookupItem ищет персонажа. Промах не ошибка: возвращается нулевой Item и false,
// старые записи могут ссылаться на персонажей, которых уже нет в справочнике.
func (c *Catalog) LookupItem(name string) (Item, bool) {
	i, ok := c.itemIdx[strings.TrimSpace(name)]
	if !ok {
		return Item{Name: name, BaseValue: decimal.Zero}, false
	}
	return c.items[i], true
}

// LookupColor возвращает множитель цвета; неизвестный или пустой цвет даёт 0.
func (c *Catalog) LookupColor(name string) decimal.Decimal {
	m, _ := c.ColorMultiplier(name)
	return m
}

// ColorMultiplier — как LookupColor, но сообщает, найден ли цвет.
func (c *Catalog) ColorMultiplier(name string) (decimal.Decimal, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = NoneColor
	}
	i, ok := c.colorIdx[name]
	if !ok {
		return decimal.Zero, false
	}
	return c.colors[i].Multiplier, true
}

// LookupMutation возвращает множитель мутации; промах даёт 0.
func (c *Catalog) LookupMutation(name string) decimal.Decimal {
	m, _ := c.MutationMultiplier(name)
	return m
}

// MutationMultiplier — как LookupMutation, но сообщает, найдена ли мутация.
func (c *Catalog) MutationMultiplier(name string) (decimal.Decimal, bool) {
	i, ok := c.mutationIdx[strings.TrimSpace(name)]
	if !ok {
		return decimal.Zero, false
	}
	return c.mutations[i].Multiplier, true
}

// Items возвращает копию списка персонажей в порядке справочника.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Colors возвращает копию списка цветов.
func (c *Catalog) Colors() []Color {
	return append([]Color(nil), c.colors...)
}

// Mutations возвращает копию списка мутаций.
func (c *Catalog) Mutations() []Mutation {
	return append([]Mutation(nil), c.mutations...)
}
