// Package inventory описывает профиль (аккаунты + предметы) и операции над ним.
//
// Все операции работают с копией ProfileState и возвращают новое состояние только при
// успехе, поэтому неудачная операция не оставляет частичных изменений.
package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Unassigned — зарезервированное имя аккаунта для предметов без аккаунта.
const Unassigned = "unassigned"

// DefaultProfileName — профиль, который создаётся новому пользователю.
const DefaultProfileName = "Default"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateName   = errors.New("already exists")
	ErrValidation      = errors.New("validation error")
	ErrStorage         = errors.New("storage error")
	ErrVersionConflict = errors.New("version conflict")
)

// InventoryItem — экземпляр предмета. Total фиксируется при добавлении.
type InventoryItem struct {
	ID            string          `json:"id"`
	CatalogName   string          `json:"catalog_name"`
	Rarity        string          `json:"rarity_tier"`
	BaseValue     decimal.Decimal `json:"base_value"`
	ColorName     string          `json:"color_name"`
	MutationNames []string        `json:"mutation_names"`
	AccountName   string          `json:"account_name"`
	TotalValue    decimal.Decimal `json:"total_value"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProfileState — полное состояние профиля, читается и пишется целиком.
// Version — версия документа в хранилище (0 — ещё не сохранён).
type ProfileState struct {
	Name     string          `json:"name"`
	Version  int64           `json:"version"`
	Accounts []string        `json:"accounts"`
	Items    []InventoryItem `json:"items"`
}

// NewProfile создаёт пустой профиль с заданными аккаунтами (дубликаты и пустые отбрасываются).
func NewProfile(name string, accounts []string) ProfileState {
	p := ProfileState{Name: name, Accounts: []string{}, Items: []InventoryItem{}}
	for _, a := range accounts {
		a = strings.TrimSpace(a)
		if a == "" || isUnassigned(a) || p.HasAccount(a) {
			continue
		}
		p.Accounts = append(p.Accounts, a)
	}
	return p
}

// Clone возвращает глубокую копию.
func (p ProfileState) Clone() ProfileState {
	c := p
	c.Accounts = append([]string{}, p.Accounts...)
	c.Items = make([]InventoryItem, len(p.Items))
	for i, it := range p.Items {
		it.MutationNames = append([]string{}, it.MutationNames...)
		c.Items[i] = it
	}
	return c
}

// HasAccount — регистронезависимая проверка.
func (p ProfileState) HasAccount(name string) bool {
	_, ok := p.ResolveAccount(name)
	return ok
}

// ResolveAccount находит аккаунт без учёта регистра и возвращает сохранённое написание.
// Unassigned разрешается всегда.
func (p ProfileState) ResolveAccount(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if isUnassigned(name) {
		return Unassigned, true
	}
	for _, a := range p.Accounts {
		if strings.EqualFold(a, name) {
			return a, true
		}
	}
	return "", false
}

// FindItem возвращает индекс предмета по id или -1.
func (p ProfileState) FindItem(id string) int {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func isUnassigned(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), Unassigned)
}

// ValidateName проверяет, что имя не пустое.
func ValidateName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationf("%s name is required", kind)
	}
	return name, nil
}
