package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/llatelier/storefront/pkg/db"
	"github.com/llatelier/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStorage persists cart snapshots into the local relational store (sqlite by
// default). Each save replaces the cart's row set in one transaction so the
// snapshot is always a consistent whole.
type DBStorage struct {
	client *db.Client
}

func NewDBStorage(client *db.Client) (*DBStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &DBStorage{client: client}, nil
}

func (s *DBStorage) Load(ctx context.Context, cartID string) ([]LineItem, error) {
	var rows []models.CartItem
	err := s.client.DB().WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart items: %w", err)
	}

	items := make([]LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

func (s *DBStorage) Save(ctx context.Context, cartID string, items []LineItem) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		record := models.CartRecord{ID: cartID, UpdatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("upserting cart record: %w", err)
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clearing cart items: %w", err)
		}

		if len(items) == 0 {
			return nil
		}

		rows := make([]models.CartItem, 0, len(items))
		for position, item := range items {
			rows = append(rows, rowFromItem(cartID, position, item))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("inserting cart items: %w", err)
		}
		return nil
	})
}

func itemFromRow(row models.CartItem) LineItem {
	item := LineItem{
		ItemID:    row.ItemID,
		ProductID: row.ProductID,
		Title:     row.Title,
		UnitPrice: row.UnitPrice,
		Image:     row.ImageURL,
		Quantity:  row.Quantity,
	}
	if row.VariantSize != nil || row.VariantColor != nil {
		variant := &Variant{}
		if row.VariantSize != nil {
			variant.Size = *row.VariantSize
		}
		if row.VariantColor != nil {
			variant.Color = *row.VariantColor
		}
		item.Variant = variant
	}
	return item
}

func rowFromItem(cartID string, position int, item LineItem) models.CartItem {
	row := models.CartItem{
		CartID:    cartID,
		ItemID:    item.ItemID,
		ProductID: item.ProductID,
		Title:     item.Title,
		UnitPrice: item.UnitPrice,
		ImageURL:  item.Image,
		Quantity:  item.Quantity,
		Position:  position,
	}
	if item.Variant != nil {
		if item.Variant.Size != "" {
			size := item.Variant.Size
			row.VariantSize = &size
		}
		if item.Variant.Color != "" {
			color := item.Variant.Color
			row.VariantColor = &color
		}
	}
	return row
}
