package export

import (
	"bytes"
	"strings"
	"testing"

	"BrainrotKeeper/internal/inventory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleItems() []inventory.InventoryItem {
	return []inventory.InventoryItem{
		{
			ID:            "1",
			AccountName:   "Account 1",
			CatalogName:   "Graipuss Medussi",
			Rarity:        "Secret",
			BaseValue:     decimal.NewFromInt(1_000_000),
			ColorName:     "Rainbow",
			MutationNames: []string{"Lightning", "Matteo Hat"},
			TotalValue:    decimal.NewFromInt(18_500_000),
		},
		{
			ID:          "2",
			AccountName: inventory.Unassigned,
			CatalogName: "Noobini Pizzanini",
			Rarity:      "Common",
			BaseValue:   decimal.NewFromInt(1),
			ColorName:   "None",
			TotalValue:  decimal.RequireFromString("1.25"),
		},
		{
			ID:          "3",
			AccountName: "Account 1",
			CatalogName: "Graipuss Medussi",
			Rarity:      "Secret",
			BaseValue:   decimal.NewFromInt(1_000_000),
			ColorName:   "Rainbow",
			MutationNames: []string{
				"Lightning", "Matteo Hat",
			},
			TotalValue: decimal.NewFromInt(18_500_000),
		},
	}
}

func TestWriteCSV_ColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleItems()[:1]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "account,item,rarity,base_value,color,mutations,total", lines[0])
	assert.Equal(t, `Account 1,Graipuss Medussi,Secret,1000000,Rainbow,"Lightning, Matteo Hat",18500000`, lines[1])
}

type tuple struct {
	catalog, color, mutations, account, total string
}

func tuples(items []inventory.InventoryItem) []tuple {
	out := make([]tuple, len(items))
	for i, it := range items {
		out[i] = tuple{it.CatalogName, it.ColorName, strings.Join(it.MutationNames, "|"), it.AccountName, it.TotalValue.String()}
	}
	return out
}

func TestCSV_RoundTrip(t *testing.T) {
	items := sampleItems()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))

	parsed, err := ParseCSV(&buf)
	require.NoError(t, err)
	assert.ElementsMatch(t, tuples(items), tuples(parsed))
	for _, it := range parsed {
		assert.Empty(t, it.ID)
	}
}

func TestParseCSV_LegacyHeader(t *testing.T) {
	in := "\ufeffCuenta,Personaje,Rareza,PrecioBase,Color,Mutaciones,Total\n" +
		"Cuenta 1,Blackhole Goat,Secret,220000,—,\"Taco, UFO\",1100000\n"
	items, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cuenta 1", items[0].AccountName)
	assert.Equal(t, "", items[0].ColorName)
	assert.Equal(t, []string{"Taco", "UFO"}, items[0].MutationNames)
	assert.Equal(t, "1100000", items[0].TotalValue.String())
}

func TestParseCSV_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"wrong header": "a,b,c,d,e,f,g\n",
		"short header": "account,item\n",
		"bad number":   "account,item,rarity,base_value,color,mutations,total\nA,X,Rare,lots,None,,1\n",
		"short row":    "account,item,rarity,base_value,color,mutations,total\nA,X\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(in))
			assert.ErrorIs(t, err, ErrBadCSV)
		})
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	items, err := ParseCSV(strings.NewReader(strings.Join(Header, ",") + "\n"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleItems())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "Graipuss Medussi", rows[1][1])
	assert.Equal(t, "Lightning, Matteo Hat", rows[1][5])
	assert.Equal(t, "18500000", rows[1][6])

	typ, err := f.GetCellType(SheetName, "G2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
	assert.NotEqual(t, excelize.CellTypeInlineString, typ)
}
