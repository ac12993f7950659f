package audit

import (
	"encoding/json"
	"fmt"

	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

type Options struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
	Metadata    any
}

// Record - denetim kaydı yazar. db olarak açık bir transaction verilirse kayıt
// iş mutasyonuyla birlikte atomik commit olur. Kayıtlar append-only'dir; bu
// pakette update/delete yoktur ve olmayacaktır.
func Record(db *gorm.DB, opts Options) (*models.AuditRecord, error) {
	// PostgreSQL jsonb için boş string yerine "null" JSON kullanıyoruz
	rec := models.AuditRecord{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  toJSON(opts.Before),
		AfterData:   toJSON(opts.After),
		Metadata:    toJSON(opts.Metadata),
	}

	if err := db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("denetim kaydı yazılamadı: %w", err)
	}

	return &rec, nil
}

func toJSON(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
