package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func duplicatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicateName, fmt.Sprintf(format, args...))
}

// AddAccount добавляет аккаунт. Сравнение имён регистронезависимое.
func AddAccount(p ProfileState, name string) (ProfileState, error) {
	name, err := ValidateName("account", name)
	if err != nil {
		return p, err
	}
	if isUnassigned(name) {
		return p, validationf("account name %q is reserved", Unassigned)
	}
	if p.HasAccount(name) {
		return p, duplicatef("account %q", name)
	}
	next := p.Clone()
	next.Accounts = append(next.Accounts, name)
	return next, nil
}

// RemoveAccount удаляет аккаунт и переводит его предметы в Unassigned.
// Возвращает число перенесённых предметов.
func RemoveAccount(p ProfileState, name string) (ProfileState, int, error) {
	name = strings.TrimSpace(name)
	if isUnassigned(name) {
		return p, 0, validationf("account %q cannot be removed", Unassigned)
	}
	stored, ok := p.ResolveAccount(name)
	if !ok {
		return p, 0, notFoundf("account %q", name)
	}

	next := p.Clone()
	accounts := next.Accounts[:0]
	for _, a := range next.Accounts {
		if a != stored {
			accounts = append(accounts, a)
		}
	}
	next.Accounts = accounts

	moved := 0
	for i := range next.Items {
		if strings.EqualFold(next.Items[i].AccountName, stored) {
			next.Items[i].AccountName = Unassigned
			moved++
		}
	}
	return next, moved, nil
}

// NormalizeMutations убирает пустые имена и повторы, сохраняя порядок.
// max <= 0 — без ограничения.
func NormalizeMutations(names []string, max int) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if max > 0 && len(out) > max {
		return nil, validationf("at most %d mutations allowed, got %d", max, len(out))
	}
	return out, nil
}

// AddItem добавляет предмет. Пустой или неизвестный аккаунт заменяется на Unassigned,
// чтобы предмет никогда не ссылался на несуществующий аккаунт. Пустой ID генерируется.
func AddItem(p ProfileState, item InventoryItem) (ProfileState, InventoryItem, error) {
	if strings.TrimSpace(item.CatalogName) == "" {
		return p, InventoryItem{}, validationf("item name is required")
	}
	if stored, ok := p.ResolveAccount(item.AccountName); ok && strings.TrimSpace(item.AccountName) != "" {
		item.AccountName = stored
	} else {
		item.AccountName = Unassigned
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if p.FindItem(item.ID) >= 0 {
		return p, InventoryItem{}, duplicatef("item id %q", item.ID)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	item.MutationNames = append([]string{}, item.MutationNames...)

	next := p.Clone()
	next.Items = append(next.Items, item)
	return next, item, nil
}

// RemoveItem удаляет предмет по стабильному id.
func RemoveItem(p ProfileState, id string) (ProfileState, InventoryItem, error) {
	idx := p.FindItem(id)
	if idx < 0 {
		return p, InventoryItem{}, notFoundf("item %q", id)
	}
	removed := p.Items[idx]
	next := p.Clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	return next, removed, nil
}

// MoveItem переносит предмет в другой аккаунт. Итог не меняется.
func MoveItem(p ProfileState, id, account string) (ProfileState, InventoryItem, error) {
	idx := p.FindItem(id)
	if idx < 0 {
		return p, InventoryItem{}, notFoundf("item %q", id)
	}
	if strings.TrimSpace(account) == "" {
		return p, InventoryItem{}, validationf("account name is required")
	}
	stored, ok := p.ResolveAccount(account)
	if !ok {
		return p, InventoryItem{}, notFoundf("account %q", account)
	}
	next := p.Clone()
	next.Items[idx].AccountName = stored
	return next, next.Items[idx], nil
}
