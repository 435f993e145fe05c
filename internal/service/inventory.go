package service

import (
	"BrainrotKeeper/internal/catalog"
	"BrainrotKeeper/internal/inventory"
	"BrainrotKeeper/internal/metrics"
	"BrainrotKeeper/internal/repo"
	"BrainrotKeeper/internal/valuation"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// saveAttempts — сколько раз операция переигрывается при конфликте версии.
const saveAttempts = 3

// DefaultAccounts — аккаунты нового профиля, если в конфигурации не заданы свои.
var DefaultAccounts = []string{"Account 1", "Account 2", "Account 3", "Account 4"}

// InventoryOptions — настраиваемое поведение менеджера коллекции.
type InventoryOptions struct {
	DefaultAccounts []string
	// MaxMutations ограничивает число мутаций у предмета; 0 — без ограничения.
	MaxMutations int
	// StrictCatalog отклоняет неизвестные имена вместо оценки в ноль.
	StrictCatalog bool
}

// AddItemRequest — входные данные для AddItem.
type AddItemRequest struct {
	CatalogName   string
	ColorName     string
	MutationNames []string
	AccountName   string
}

// InventoryService — менеджер коллекции: загрузить профиль, изменить копию, сохранить один раз.
type InventoryService struct {
	store  repo.ProfileStore
	engine *valuation.Engine
	opts   InventoryOptions
	log    *zap.SugaredLogger
}

func NewInventoryService(store repo.ProfileStore, engine *valuation.Engine, opts InventoryOptions, log *zap.SugaredLogger) *InventoryService {
	if opts.DefaultAccounts == nil {
		opts.DefaultAccounts = DefaultAccounts
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &InventoryService{store: store, engine: engine, opts: opts, log: log}
}

// Catalog возвращает справочник, по которому оцениваются предметы.
func (s *InventoryService) Catalog() *catalog.Catalog { return s.engine.Catalog() }

// Policy возвращает активную политику оценки.
func (s *InventoryService) Policy() valuation.Policy { return s.engine.Policy() }

func (s *InventoryService) load(ctx context.Context, identity, name string) (inventory.ProfileState, error) {
	st, found, err := s.store.Load(ctx, identity, name)
	if err != nil {
		return inventory.ProfileState{}, err
	}
	if !found {
		return inventory.ProfileState{}, fmt.Errorf("%w: profile %q", inventory.ErrNotFound, name)
	}
	return st, nil
}

// mutate применяет fn к свежей копии профиля и сохраняет результат.
// При конфликте версии операция переигрывается на заново загруженном состоянии.
func (s *InventoryService) mutate(ctx context.Context, identity, name string, fn func(inventory.ProfileState) (inventory.ProfileState, error)) (inventory.ProfileState, error) {
	name = strings.TrimSpace(name)
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		st, err := s.load(ctx, identity, name)
		if err != nil {
			return inventory.ProfileState{}, err
		}
		next, err := fn(st.Clone())
		if err != nil {
			return inventory.ProfileState{}, err
		}
		next.Name = st.Name
		next.Version = st.Version

		ver, err := s.store.Save(ctx, identity, next)
		if err == nil {
			next.Version = ver
			return next, nil
		}
		if !errors.Is(err, inventory.ErrVersionConflict) {
			return inventory.ProfileState{}, err
		}
		metrics.VersionConflicts.Inc()
		s.log.Warnw("profile version conflict, retrying", "identity", identity, "profile", name, "attempt", attempt+1)
		lastErr = err
	}
	return inventory.ProfileState{}, lastErr
}

// CreateProfile создаёт профиль с аккаунтами по умолчанию.
func (s *InventoryService) CreateProfile(ctx context.Context, identity, name string) (st inventory.ProfileState, err error) {
	defer func() { metrics.ObserveOp("create_profile", err) }()

	name, err = inventory.ValidateName("profile", name)
	if err != nil {
		return inventory.ProfileState{}, err
	}
	_, found, err := s.store.Load(ctx, identity, name)
	if err != nil {
		return inventory.ProfileState{}, err
	}
	if found {
		return inventory.ProfileState{}, fmt.Errorf("%w: profile %q", inventory.ErrDuplicateName, name)
	}

	st = inventory.NewProfile(name, s.opts.DefaultAccounts)
	ver, err := s.store.Save(ctx, identity, st)
	if errors.Is(err, inventory.ErrVersionConflict) {
		return inventory.ProfileState{}, fmt.Errorf("%w: profile %q", inventory.ErrDuplicateName, name)
	}
	if err != nil {
		return inventory.ProfileState{}, err
	}
	st.Version = ver

	s.log.Infow("profile created", "identity", identity, "profile", name)
	return st, nil
}

// DeleteProfile удаляет профиль безвозвратно. Подтверждение — забота вызывающего.
// Профиль Default удалить нельзя.
func (s *InventoryService) DeleteProfile(ctx context.Context, identity, name string) (err error) {
	defer func() { metrics.ObserveOp("delete_profile", err) }()

	name = strings.TrimSpace(name)
	if name == inventory.DefaultProfileName {
		return fmt.Errorf("%w: profile %q cannot be deleted", inventory.ErrValidation, name)
	}
	ok, err := s.store.Delete(ctx, identity, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: profile %q", inventory.ErrNotFound, name)
	}
	s.log.Infow("profile deleted", "identity", identity, "profile", name)
	return nil
}

// ListProfiles возвращает имена профилей без учёта регистра по алфавиту.
func (s *InventoryService) ListProfiles(ctx context.Context, identity string) ([]string, error) {
	names, err := s.store.List(ctx, identity)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// GetProfile возвращает профиль или ErrNotFound.
func (s *InventoryService) GetProfile(ctx context.Context, identity, name string) (inventory.ProfileState, error) {
	return s.load(ctx, identity, strings.TrimSpace(name))
}

// EnsureDefaultProfile создаёт профиль Default, если у пользователя нет ни одного.
func (s *InventoryService) EnsureDefaultProfile(ctx context.Context, identity string) error {
	names, err := s.store.List(ctx, identity)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		return nil
	}
	_, err = s.CreateProfile(ctx, identity, inventory.DefaultProfileName)
	if errors.Is(err, inventory.ErrDuplicateName) {
		return nil
	}
	return err
}

func (s *InventoryService) AddAccount(ctx context.Context, identity, profile, account string) (st inventory.ProfileState, err error) {
	defer func() { metrics.ObserveOp("add_account", err) }()

	st, err = s.mutate(ctx, identity, profile, func(p inventory.ProfileState) (inventory.ProfileState, error) {
		return inventory.AddAccount(p, account)
	})
	if err != nil {
		return inventory.ProfileState{}, err
	}
	s.log.Infow("account added", "identity", identity, "profile", profile, "account", account)
	return st, nil
}

// RemoveAccount удаляет аккаунт; его предметы переходят в unassigned.
func (s *InventoryService) RemoveAccount(ctx context.Context, identity, profile, account string) (st inventory.ProfileState, moved int, err error) {
	defer func() { metrics.ObserveOp("remove_account", err) }()

	st, err = s.mutate(ctx, identity, profile, func(p inventory.ProfileState) (inventory.ProfileState, error) {
		next, n, err := inventory.RemoveAccount(p, account)
		moved = n
		return next, err
	})
	if err != nil {
		return inventory.ProfileState{}, 0, err
	}
	s.log.Infow("account removed", "identity", identity, "profile", profile, "account", account, "reassigned", moved)
	return st, moved, nil
}

// AddItem оценивает предмет по справочнику и добавляет его в профиль.
func (s *InventoryService) AddItem(ctx context.Context, identity, profile string, req AddItemRequest) (item inventory.InventoryItem, err error) {
	defer func() { metrics.ObserveOp("add_item", err) }()

	name := strings.TrimSpace(req.CatalogName)
	if name == "" {
		return inventory.InventoryItem{}, fmt.Errorf("%w: item name is required", inventory.ErrValidation)
	}
	color := strings.TrimSpace(req.ColorName)
	if color == "" {
		color = catalog.NoneColor
	}
	muts, err := inventory.NormalizeMutations(req.MutationNames, s.opts.MaxMutations)
	if err != nil {
		return inventory.InventoryItem{}, err
	}

	q := s.engine.Quote(name, color, muts)
	if err := s.checkQuote(q); err != nil {
		return inventory.InventoryItem{}, err
	}

	candidate := inventory.InventoryItem{
		CatalogName:   name,
		Rarity:        q.Rarity,
		BaseValue:     q.BaseValue,
		ColorName:     color,
		MutationNames: muts,
		AccountName:   req.AccountName,
		TotalValue:    q.Total,
	}
	_, err = s.mutate(ctx, identity, profile, func(p inventory.ProfileState) (inventory.ProfileState, error) {
		// новый id на каждую попытку: предыдущая могла не сохраниться
		c := candidate
		next, added, err := inventory.AddItem(p, c)
		item = added
		return next, err
	})
	if err != nil {
		return inventory.InventoryItem{}, err
	}

	s.log.Infow("item added",
		"identity", identity,
		"profile", profile,
		"id", item.ID,
		"item", item.CatalogName,
		"account", item.AccountName,
		"total", item.TotalValue.String(),
	)
	return item, nil
}

// checkQuote в строгом режиме отклоняет промахи справочника, иначе только пишет предупреждение.
func (s *InventoryService) checkQuote(q valuation.Quote) error {
	var problems []string
	if !q.Found {
		metrics.CatalogMisses.WithLabelValues("item").Inc()
		problems = append(problems, fmt.Sprintf("unknown item %q", q.CatalogName))
	}
	if q.UnknownColor {
		metrics.CatalogMisses.WithLabelValues("color").Inc()
		problems = append(problems, "unknown color")
	}
	for _, m := range q.UnknownMutations {
		metrics.CatalogMisses.WithLabelValues("mutation").Inc()
		problems = append(problems, fmt.Sprintf("unknown mutation %q", m))
	}
	if len(problems) == 0 {
		return nil
	}
	if s.opts.StrictCatalog {
		return fmt.Errorf("%w: %s", inventory.ErrValidation, strings.Join(problems, "; "))
	}
	s.log.Warnw("catalog miss, valued as zero", "problems", problems)
	return nil
}

// RemoveItem удаляет предмет по id.
func (s *InventoryService) RemoveItem(ctx context.Context, identity, profile, id string) (removed inventory.InventoryItem, err error) {
	defer func() { metrics.ObserveOp("remove_item", err) }()

	_, err = s.mutate(ctx, identity, profile, func(p inventory.ProfileState) (inventory.ProfileState, error) {
		next, it, err := inventory.RemoveItem(p, id)
		removed = it
		return next, err
	})
	if err != nil {
		return inventory.InventoryItem{}, err
	}
	s.log.Infow("item removed", "identity", identity, "profile", profile, "id", id)
	return removed, nil
}

// MoveItem переносит предмет в другой аккаунт.
func (s *InventoryService) MoveItem(ctx context.Context, identity, profile, id, account string) (moved inventory.InventoryItem, err error) {
	defer func() { metrics.ObserveOp("move_item", err) }()

	_, err = s.mutate(ctx, identity, profile, func(p inventory.ProfileState) (inventory.ProfileState, error) {
		next, it, err := inventory.MoveItem(p, id, account)
		moved = it
		return next, err
	})
	if err != nil {
		return inventory.InventoryItem{}, err
	}
	s.log.Infow("item moved", "identity", identity, "profile", profile, "id", id, "account", moved.AccountName)
	return moved, nil
}

// ListItems возвращает предметы профиля в заданном порядке с фильтром по аккаунту.
func (s *InventoryService) ListItems(ctx context.Context, identity, profile, sortKey, account string) ([]inventory.InventoryItem, error) {
	key, err := inventory.ParseSortKey(sortKey)
	if err != nil {
		return nil, err
	}
	st, err := s.load(ctx, identity, strings.TrimSpace(profile))
	if err != nil {
		return nil, err
	}
	return inventory.ListItems(st, key, account)
}

// Revalue пересчитывает итоги всех предметов активной политикой по сохранённой базе.
// Возвращает число изменившихся предметов.
func (s *InventoryService) Revalue(ctx context.Context, identity, profile string) (changed int, err error) {
	defer func() { metrics.ObserveOp("revalue", err) }()

	_, err = s.mutate(ctx, identity, profile, func(p inventory.ProfileState) (inventory.ProfileState, error) {
		changed = 0
		for i := range p.Items {
			it := &p.Items[i]
			total := s.engine.Reprice(it.BaseValue, it.ColorName, it.MutationNames)
			if !total.Equal(it.TotalValue) {
				it.TotalValue = total
				changed++
			}
		}
		return p, nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Infow("profile revalued", "identity", identity, "profile", profile, "policy", s.engine.Policy(), "changed", changed)
	return changed, nil
}

// ImportItems добавляет предметы с новыми id. Итоги не пересчитываются;
// аккаунты, которых нет в профиле, создаются.
func (s *InventoryService) ImportItems(ctx context.Context, identity, profile string, items []inventory.InventoryItem) (imported int, err error) {
	defer func() { metrics.ObserveOp("import_items", err) }()

	_, err = s.mutate(ctx, identity, profile, func(p inventory.ProfileState) (inventory.ProfileState, error) {
		imported = 0
		for _, it := range items {
			acc := strings.TrimSpace(it.AccountName)
			if acc != "" && !strings.EqualFold(acc, inventory.Unassigned) && !p.HasAccount(acc) {
				var err error
				if p, err = inventory.AddAccount(p, acc); err != nil {
					return p, err
				}
			}
			muts, err := inventory.NormalizeMutations(it.MutationNames, 0)
			if err != nil {
				return p, err
			}
			it.ID = ""
			it.MutationNames = muts
			if strings.TrimSpace(it.ColorName) == "" {
				it.ColorName = catalog.NoneColor
			}
			if p, _, err = inventory.AddItem(p, it); err != nil {
				return p, err
			}
			imported++
		}
		return p, nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Infow("items imported", "identity", identity, "profile", profile, "count", imported)
	return imported, nil
}
