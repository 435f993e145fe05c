package inventory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"BrainrotKeeper/internal/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchemaVersion — текущая версия документа профиля.
const SchemaVersion = 2

// legacyNoneColor — обозначение «без цвета» в старых данных.
const legacyNoneColor = "—"

// Document — сериализованная форма профиля. Имя и версия хранятся вне документа.
type Document struct {
	SchemaVersion int             `json:"schema_version"`
	Accounts      []string        `json:"accounts"`
	Items         []InventoryItem `json:"items"`
}

// legacyRow — строка таблицы первой версии.
type legacyRow struct {
	Cuenta     string          `json:"Cuenta"`
	Personaje  string          `json:"Personaje"`
	Rareza     string          `json:"Rareza"`
	PrecioBase decimal.Decimal `json:"PrecioBase"`
	Color      string          `json:"Color"`
	Mutaciones string          `json:"Mutaciones"`
	Total      decimal.Decimal `json:"Total"`
}

type legacyDocument struct {
	Accounts []string    `json:"accounts"`
	Rows     []legacyRow `json:"rows"`
}

// Encode сериализует состояние в документ текущей версии.
func Encode(p ProfileState) ([]byte, error) {
	doc := Document{SchemaVersion: SchemaVersion, Accounts: p.Accounts, Items: p.Items}
	if doc.Accounts == nil {
		doc.Accounts = []string{}
	}
	if doc.Items == nil {
		doc.Items = []InventoryItem{}
	}
	return json.Marshal(doc)
}

// Decode разбирает документ. Документы первой версии поднимаются до текущей:
// второй результат сообщает, что документ нужно пересохранить.
func Decode(data []byte, defaultAccounts []string) (ProfileState, bool, error) {
	var head struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return ProfileState{}, false, fmt.Errorf("decode profile document: %w", err)
	}

	switch head.SchemaVersion {
	case SchemaVersion:
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return ProfileState{}, false, fmt.Errorf("decode profile document: %w", err)
		}
		p := NewProfile("", doc.Accounts)
		if doc.Items != nil {
			p.Items = doc.Items
		}
		return p, false, nil
	case 0, 1:
		var legacy legacyDocument
		if err := json.Unmarshal(data, &legacy); err != nil {
			return ProfileState{}, false, fmt.Errorf("decode legacy profile document: %w", err)
		}
		return upgradeLegacy(legacy, defaultAccounts), true, nil
	}
	return ProfileState{}, false, fmt.Errorf("unsupported profile schema version %d", head.SchemaVersion)
}

func upgradeLegacy(doc legacyDocument, defaultAccounts []string) ProfileState {
	accounts := doc.Accounts
	if len(accounts) == 0 {
		accounts = defaultAccounts
	}
	p := NewProfile("", accounts)
	now := time.Now().UTC()

	for _, r := range doc.Rows {
		account := strings.TrimSpace(r.Cuenta)
		if account == "" || isUnassigned(account) {
			account = Unassigned
		} else if stored, ok := p.ResolveAccount(account); ok {
			account = stored
		} else {
			p.Accounts = append(p.Accounts, account)
		}

		color := strings.TrimSpace(r.Color)
		if color == "" || color == legacyNoneColor {
			color = catalog.NoneColor
		}

		muts, _ := NormalizeMutations(SplitMutations(r.Mutaciones), 0)
		p.Items = append(p.Items, InventoryItem{
			ID:            uuid.NewString(),
			CatalogName:   strings.TrimSpace(r.Personaje),
			Rarity:        strings.TrimSpace(r.Rareza),
			BaseValue:     r.PrecioBase,
			ColorName:     color,
			MutationNames: muts,
			AccountName:   account,
			TotalValue:    r.Total,
			CreatedAt:     now,
		})
	}
	return p
}

// SplitMutations разбирает список мутаций через запятую.
func SplitMutations(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinMutations — обратная операция к SplitMutations.
func JoinMutations(names []string) string {
	return strings.Join(names, ", ")
}
