package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderRecord journals one checkout attempt that reached the upstream API.
type OrderRecord struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SessionID     string          `gorm:"column:session_id;not null;index"`
	Phone         string          `gorm:"column:phone;not null"`
	ItemCount     int             `gorm:"column:item_count;not null"`
	Total         string          `gorm:"column:total;not null"`
	Succeeded     bool            `gorm:"column:succeeded;not null"`
	UpstreamError string          `gorm:"column:upstream_error"`
	Lines         []OrderLineItem `gorm:"foreignKey:OrderRecordID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// OrderLineItem is one (product, quantity) pair of a journaled order.
type OrderLineItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderRecordID uuid.UUID `gorm:"column:order_record_id;type:uuid;not null;index"`
	ProductID     int       `gorm:"column:product_id;not null"`
	Title         string    `gorm:"column:title"`
	Quantity      int       `gorm:"column:quantity;not null"`
	UnitPrice     string    `gorm:"column:unit_price"`
}
