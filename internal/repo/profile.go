package repo

import (
	"BrainrotKeeper/internal/inventory"
	"BrainrotKeeper/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileStore — хранилище документов профилей, разделённых по identity.
type ProfileStore interface {
	// Load возвращает профиль. Отсутствующий профиль — пустое состояние и false, не ошибка.
	Load(ctx context.Context, identity, name string) (inventory.ProfileState, bool, error)
	// Save перезаписывает документ целиком. state.Version — ожидаемая версия (0 — создание).
	// Возвращает новую версию.
	Save(ctx context.Context, identity string, state inventory.ProfileState) (int64, error)
	List(ctx context.Context, identity string) ([]string, error)
	Delete(ctx context.Context, identity, name string) (bool, error)
}

type profileRepo struct {
	db              *gorm.DB
	defaultAccounts []string
}

// NewProfileStore создаёт gorm-реализацию. defaultAccounts нужны для обновления старых документов.
func NewProfileStore(db *gorm.DB, defaultAccounts []string) ProfileStore {
	return &profileRepo{db: db, defaultAccounts: defaultAccounts}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", inventory.ErrStorage, op, err)
}

func (r *profileRepo) Load(ctx context.Context, identity, name string) (inventory.ProfileState, bool, error) {
	// повтор нужен только если обновление старого документа проиграло гонку
	for attempt := 0; attempt < 2; attempt++ {
		var row model.Profile
		err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", identity, name).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.NewProfile(name, nil), false, nil
		}
		if err != nil {
			return inventory.ProfileState{}, false, storageErr("load profile", err)
		}

		state, upgraded, err := inventory.Decode(row.Document, r.defaultAccounts)
		if err != nil {
			return inventory.ProfileState{}, false, storageErr("load profile", err)
		}
		state.Name = row.Name
		state.Version = row.Version
		if !upgraded {
			return state, true, nil
		}

		// старый документ переписывается один раз, чтобы новые id предметов стали постоянными
		newVer, err := r.Save(ctx, identity, state)
		if errors.Is(err, inventory.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return inventory.ProfileState{}, false, err
		}
		state.Version = newVer
		return state, true, nil
	}
	return inventory.ProfileState{}, false, fmt.Errorf("%w: load profile %q", inventory.ErrVersionConflict, name)
}

func (r *profileRepo) Save(ctx context.Context, identity string, state inventory.ProfileState) (int64, error) {
	doc, err := inventory.Encode(state)
	if err != nil {
		return 0, storageErr("encode profile", err)
	}

	if state.Version == 0 {
		return r.create(ctx, identity, state.Name, doc)
	}
	return r.UpdateWithVersion(ctx, identity, state.Name, state.Version, doc)
}

func (r *profileRepo) create(ctx context.Context, identity, name string, doc []byte) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Profile{}).Where("user_id = ? AND name = ?", identity, name).Count(&n).Error; err != nil {
			return storageErr("create profile", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: profile %q already stored", inventory.ErrVersionConflict, name)
		}
		row := model.Profile{UserID: identity, Name: name, Document: datatypes.JSON(doc), Version: 1}
		if err := tx.Create(&row).Error; err != nil {
			return storageErr("create profile", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// UpdateWithVersion пишет документ, только если версия в БД совпадает с ожидаемой,
// и увеличивает её на единицу.
func (r *profileRepo) UpdateWithVersion(ctx context.Context, identity, name string, expected int64, doc []byte) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ? AND name = ? AND version = ?", identity, name, expected).
		Updates(map[string]any{
			"document":   datatypes.JSON(doc),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return 0, storageErr("update profile", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: profile %q is not at version %d", inventory.ErrVersionConflict, name, expected)
	}
	return expected + 1, nil
}

func (r *profileRepo) List(ctx context.Context, identity string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", identity).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, storageErr("list profiles", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (r *profileRepo) Delete(ctx context.Context, identity, name string) (bool, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", identity, name).Delete(&model.Profile{})
	if tx.Error != nil {
		return false, storageErr("delete profile", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
