package repo

import (
	"BrainrotKeeper/internal/inventory"
	"BrainrotKeeper/internal/model"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func sampleState(name string) inventory.ProfileState {
	p := inventory.NewProfile(name, []string{"A", "B"})
	p, _, _ = inventory.AddItem(p, inventory.InventoryItem{
		CatalogName: "Graipuss Medussi",
		Rarity:      "Secret",
		BaseValue:   decimal.NewFromInt(1_000_000),
		ColorName:   "Rainbow",
		AccountName: "A",
		TotalValue:  decimal.NewFromInt(10_000_000),
	})
	return p
}

func TestProfileStore_LoadMissing(t *testing.T) {
	s := NewProfileStore(newTestDB(t), nil)

	st, found, err := s.Load(context.Background(), "u1", "Main")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "Main", st.Name)
	assert.Equal(t, int64(0), st.Version)
	assert.Empty(t, st.Items)
}

func TestProfileStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewProfileStore(newTestDB(t), nil)
	ctx := context.Background()

	st := sampleState("Main")
	ver, err := s.Save(ctx, "u1", st)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	got, found, err := s.Load(ctx, "u1", "Main")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, st.Accounts, got.Accounts)
	require.Len(t, got.Items, 1)
	assert.Equal(t, st.Items[0].ID, got.Items[0].ID)
	assert.True(t, got.Items[0].TotalValue.Equal(decimal.NewFromInt(10_000_000)))

	// профили разных пользователей изолированы
	_, found, err = s.Load(ctx, "u2", "Main")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProfileStore_VersionConflict(t *testing.T) {
	s := NewProfileStore(newTestDB(t), nil)
	ctx := context.Background()

	st := sampleState("Main")
	_, err := s.Save(ctx, "u1", st)
	require.NoError(t, err)

	// повторное создание с версией 0
	_, err = s.Save(ctx, "u1", st)
	assert.ErrorIs(t, err, inventory.ErrVersionConflict)

	st.Version = 1
	ver, err := s.Save(ctx, "u1", st)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)

	// устаревшая версия
	_, err = s.Save(ctx, "u1", st)
	assert.ErrorIs(t, err, inventory.ErrVersionConflict)
}

func TestProfileStore_ListAndDelete(t *testing.T) {
	s := NewProfileStore(newTestDB(t), nil)
	ctx := context.Background()

	for _, n := range []string{"b", "A", "c"} {
		_, err := s.Save(ctx, "u1", inventory.NewProfile(n, nil))
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, "u2", inventory.NewProfile("other", nil))
	require.NoError(t, err)

	names, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "b", "c"}, names)

	ok, err := s.Delete(ctx, "u1", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, "u1", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err = s.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestProfileStore_UpgradesLegacyDocumentOnce(t *testing.T) {
	db := newTestDB(t)
	s := NewProfileStore(db, []string{"Account 1"})
	ctx := context.Background()

	legacy := `{"rows":[{"Cuenta":"Cuenta 2","Personaje":"Blackhole Goat","Rareza":"Secret","PrecioBase":220000,"Color":"—","Mutaciones":"Taco","Total":660000}]}`
	require.NoError(t, db.Create(&model.Profile{UserID: "u1", Name: "Old", Document: datatypes.JSON(legacy), Version: 1}).Error)

	first, found, err := s.Load(ctx, "u1", "Old")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), first.Version)
	assert.Equal(t, []string{"Account 1", "Cuenta 2"}, first.Accounts)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "None", first.Items[0].ColorName)

	// id сохраняется между загрузками
	second, _, err := s.Load(ctx, "u1", "Old")
	require.NoError(t, err)
	assert.Equal(t, first.Items[0].ID, second.Items[0].ID)
	assert.Equal(t, int64(2), second.Version)
}

func TestProfileStore_StorageErrorOnClosedDB(t *testing.T) {
	db := newTestDB(t)
	s := NewProfileStore(db, nil)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = s.List(context.Background(), "u1")
	assert.ErrorIs(t, err, inventory.ErrStorage)
}
