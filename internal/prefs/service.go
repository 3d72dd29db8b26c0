package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/llatelier/storefront/pkg/db"
	"github.com/llatelier/storefront/pkg/db/models"
	pkgerrors "github.com/llatelier/storefront/pkg/errors"
	redisclient "github.com/llatelier/storefront/pkg/redis"
)

// Storefront languages. Portuguese is the default for first-time visitors.
const (
	LanguagePT = "pt"
	LanguageEN = "en"

	DefaultLanguage = LanguagePT

	languageName = "language"
)

// Storage persists named per-client settings. Get returns ErrNotSet when the
// client never stored the setting.
type Storage interface {
	Get(ctx context.Context, cartID, name string) (string, error)
	Set(ctx context.Context, cartID, name, value string) error
}

// ErrNotSet marks a setting the client has never written.
var ErrNotSet = errors.New("preference not set")

// Service reads and writes the visitor's storefront preferences.
type Service struct {
	storage Storage
}

// NewService builds the preferences service.
func NewService(storage Storage) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage required")
	}
	return &Service{storage: storage}, nil
}

// Language returns the visitor's language, falling back to the default when
// unset or when the stored value is not a supported language.
func (s *Service) Language(ctx context.Context, cartID string) (string, error) {
	value, err := s.storage.Get(ctx, cartID, languageName)
	if err != nil {
		if errors.Is(err, ErrNotSet) {
			return DefaultLanguage, nil
		}
		return "", err
	}
	if value != LanguagePT && value != LanguageEN {
		return DefaultLanguage, nil
	}
	return value, nil
}

// SetLanguage stores the visitor's language choice.
func (s *Service) SetLanguage(ctx context.Context, cartID, language string) error {
	if language != LanguagePT && language != LanguageEN {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported language %q", language))
	}
	return s.storage.Set(ctx, cartID, languageName, language)
}

// DBStorage keeps preferences in the preferences table.
type DBStorage struct {
	client *db.Client
}

// NewDBStorage builds the database-backed preference storage.
func NewDBStorage(client *db.Client) (*DBStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &DBStorage{client: client}, nil
}

func preferenceKey(cartID, name string) string {
	return cartID + ":" + name
}

func (s *DBStorage) Get(ctx context.Context, cartID, name string) (string, error) {
	var record models.Preference
	err := s.client.DB().WithContext(ctx).
		Where("key = ?", preferenceKey(cartID, name)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotSet
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading preference")
	}
	return record.Value, nil
}

func (s *DBStorage) Set(ctx context.Context, cartID, name, value string) error {
	record := models.Preference{
		Key:       preferenceKey(cartID, name),
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing preference")
	}
	return nil
}

// RedisStorage keeps preferences in Redis without expiry.
type RedisStorage struct {
	client *redisclient.Client
}

// NewRedisStorage builds the Redis-backed preference storage.
func NewRedisStorage(client *redisclient.Client) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStorage{client: client}, nil
}

func (s *RedisStorage) Get(ctx context.Context, cartID, name string) (string, error) {
	value, err := s.client.Get(ctx, s.client.PreferenceKey(cartID, name))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return "", ErrNotSet
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading preference")
	}
	return value, nil
}

func (s *RedisStorage) Set(ctx context.Context, cartID, name, value string) error {
	if err := s.client.Set(ctx, s.client.PreferenceKey(cartID, name), value, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing preference")
	}
	return nil
}
