// Package export сериализует список предметов в CSV и XLSX и разбирает CSV обратно.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"BrainrotKeeper/internal/inventory"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetName — лист XLSX-выгрузки.
const SheetName = "Inventory"

// Header — колонки выгрузки в фиксированном порядке.
var Header = []string{"account", "item", "rarity", "base_value", "color", "mutations", "total"}

// legacyHeader — заголовок старых выгрузок.
var legacyHeader = []string{"Cuenta", "Personaje", "Rareza", "PrecioBase", "Color", "Mutaciones", "Total"}

// ErrBadCSV — CSV не соответствует формату выгрузки.
var ErrBadCSV = errors.New("malformed inventory csv")

func record(it inventory.InventoryItem) []string {
	return []string{
		it.AccountName,
		it.CatalogName,
		it.Rarity,
		it.BaseValue.String(),
		it.ColorName,
		inventory.JoinMutations(it.MutationNames),
		it.TotalValue.String(),
	}
}

// WriteCSV пишет предметы в CSV с заголовком.
func WriteCSV(w io.Writer, items []inventory.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write(record(it)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV читает выгрузку (текущий или старый заголовок) в предметы без id.
func ParseCSV(r io.Reader) ([]inventory.InventoryItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrBadCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCSV, err)
	}
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	if !matches(head, Header) && !matches(head, legacyHeader) {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrBadCSV, head)
	}

	items := []inventory.InventoryItem{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadCSV, err)
		}
		it, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadCSV, line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func matches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}

func parseRecord(rec []string) (inventory.InventoryItem, error) {
	base, err := parseDecimal(rec[3])
	if err != nil {
		return inventory.InventoryItem{}, fmt.Errorf("base_value: %w", err)
	}
	total, err := parseDecimal(rec[6])
	if err != nil {
		return inventory.InventoryItem{}, fmt.Errorf("total: %w", err)
	}
	color := strings.TrimSpace(rec[4])
	if color == "—" {
		color = ""
	}
	return inventory.InventoryItem{
		AccountName:   strings.TrimSpace(rec[0]),
		CatalogName:   strings.TrimSpace(rec[1]),
		Rarity:        strings.TrimSpace(rec[2]),
		BaseValue:     base,
		ColorName:     color,
		MutationNames: inventory.SplitMutations(rec[5]),
		TotalValue:    total,
	}, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// XLSX строит книгу с теми же колонками; числа пишутся числовыми ячейками.
func XLSX(items []inventory.InventoryItem) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, err
	}

	for i, it := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			it.AccountName,
			it.CatalogName,
			it.Rarity,
			it.BaseValue.InexactFloat64(),
			it.ColorName,
			inventory.JoinMutations(it.MutationNames),
			it.TotalValue.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
