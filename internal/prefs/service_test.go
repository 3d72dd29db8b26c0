package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llatelier/storefront/pkg/config"
	"github.com/llatelier/storefront/pkg/db"
	pkgerrors "github.com/llatelier/storefront/pkg/errors"
)

type memoryStorage struct {
	values map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{values: map[string]string{}}
}

func (s *memoryStorage) Get(_ context.Context, cartID, name string) (string, error) {
	value, ok := s.values[preferenceKey(cartID, name)]
	if !ok {
		return "", ErrNotSet
	}
	return value, nil
}

func (s *memoryStorage) Set(_ context.Context, cartID, name, value string) error {
	s.values[preferenceKey(cartID, name)] = value
	return nil
}

func setupPrefsTestDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file::memory:",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	ddl := `
CREATE TABLE preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME
);`
	require.NoError(t, client.DB().Exec(ddl).Error)

	return client
}

func TestLanguageDefaultsWhenUnset(t *testing.T) {
	svc, err := NewService(newMemoryStorage())
	require.NoError(t, err)

	lang, err := svc.Language(context.Background(), "cart-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)
}

func TestSetLanguageRoundTrip(t *testing.T) {
	svc, err := NewService(newMemoryStorage())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.SetLanguage(ctx, "cart-1", LanguageEN))

	lang, err := svc.Language(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, LanguageEN, lang)

	other, err := svc.Language(ctx, "cart-2")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, other, "language choice must not leak across clients")
}

func TestSetLanguageRejectsUnsupported(t *testing.T) {
	svc, err := NewService(newMemoryStorage())
	require.NoError(t, err)

	err = svc.SetLanguage(context.Background(), "cart-1", "fr")
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestLanguageIgnoresGarbageValue(t *testing.T) {
	storage := newMemoryStorage()
	storage.values[preferenceKey("cart-1", "language")] = "klingon"
	svc, err := NewService(storage)
	require.NoError(t, err)

	lang, err := svc.Language(context.Background(), "cart-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, lang)
}

func TestDBStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, err := NewDBStorage(setupPrefsTestDB(t))
	require.NoError(t, err)

	_, err = storage.Get(ctx, "cart-1", "language")
	assert.ErrorIs(t, err, ErrNotSet)

	require.NoError(t, storage.Set(ctx, "cart-1", "language", "en"))
	value, err := storage.Get(ctx, "cart-1", "language")
	require.NoError(t, err)
	assert.Equal(t, "en", value)

	require.NoError(t, storage.Set(ctx, "cart-1", "language", "pt"))
	value, err = storage.Get(ctx, "cart-1", "language")
	require.NoError(t, err)
	assert.Equal(t, "pt", value, "second write must overwrite the first")
}
