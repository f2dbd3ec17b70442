package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/o-complex/storefront-backend/internal/checkout"
	"github.com/o-complex/storefront-backend/pkg/db/models"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultRecentLimit = 20

// Journal persists checkout submissions for operational review. It is a
// best-effort sink: Record never surfaces an error to the checkout path.
type Journal struct {
	conn *gorm.DB
	logg *logger.Logger
}

// Entry is one journaled submission as exposed to callers.
type Entry struct {
	ID            uuid.UUID   `json:"id"`
	SessionID     string      `json:"session_id"`
	Phone         string      `json:"phone"`
	ItemCount     int         `json:"item_count"`
	Total         string      `json:"total"`
	Succeeded     bool        `json:"succeeded"`
	UpstreamError string      `json:"upstream_error,omitempty"`
	Lines         []EntryLine `json:"lines"`
	CreatedAt     time.Time   `json:"created_at"`
}

// EntryLine is one (product, quantity) pair of a journaled submission.
type EntryLine struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// NewJournal builds the journal over an open GORM connection.
func NewJournal(conn *gorm.DB, logg *logger.Logger) (*Journal, error) {
	if conn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db connection required")
	}
	return &Journal{conn: conn, logg: logg}, nil
}

// Migrate creates or updates the journal tables.
func (j *Journal) Migrate() error {
	if err := j.conn.AutoMigrate(&models.OrderRecord{}, &models.OrderLineItem{}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "migrating order journal")
	}
	return nil
}

// Record journals one submission. Persistence failures are logged and
// dropped so the checkout outcome is never affected.
func (j *Journal) Record(ctx context.Context, submission checkout.Submission) {
	record := models.OrderRecord{
		ID:            uuid.New(),
		SessionID:     submission.SessionID,
		Phone:         submission.Phone,
		Total:         submission.Total.String(),
		Succeeded:     submission.Succeeded,
		UpstreamError: submission.UpstreamError,
	}
	for _, line := range submission.Lines {
		record.ItemCount += line.Quantity
		record.Lines = append(record.Lines, models.OrderLineItem{
			ID:            uuid.New(),
			OrderRecordID: record.ID,
			ProductID:     line.ProductID,
			Title:         line.Product.Title,
			Quantity:      line.Quantity,
			UnitPrice:     decimal.NewFromFloat(line.Product.Price).String(),
		})
	}

	if err := j.conn.WithContext(ctx).Create(&record).Error; err != nil && j.logg != nil {
		j.logg.Error(j.logg.WithSessionID(ctx, submission.SessionID), "journaling order submission failed", err)
	}
}

// Recent returns the latest journaled submissions, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var records []models.OrderRecord
	err := j.conn.WithContext(ctx).
		Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recent orders")
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, toEntry(record))
	}
	return entries, nil
}

func toEntry(record models.OrderRecord) Entry {
	entry := Entry{
		ID:            record.ID,
		SessionID:     record.SessionID,
		Phone:         record.Phone,
		ItemCount:     record.ItemCount,
		Total:         record.Total,
		Succeeded:     record.Succeeded,
		UpstreamError: record.UpstreamError,
		Lines:         make([]EntryLine, 0, len(record.Lines)),
		CreatedAt:     record.CreatedAt,
	}
	for _, line := range record.Lines {
		entry.Lines = append(entry.Lines, EntryLine{
			ProductID: line.ProductID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return entry
}
