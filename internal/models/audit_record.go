package models

import "time"

type AuditAction string

const (
	AuditActionOrderCheckout  AuditAction = "ORDER_CHECKOUT"
	AuditActionTableTransfer  AuditAction = "TABLE_TRANSFER"
	AuditActionTableForce     AuditAction = "TABLE_FORCE_CLOSE"
	AuditActionShiftOpened    AuditAction = "SHIFT_OPENED"
	AuditActionShiftClosed    AuditAction = "SHIFT_CLOSED"
	AuditActionCashMovement   AuditAction = "CASH_MOVEMENT"
	AuditActionCorrectionPre  AuditAction = "PAYMENT_CORRECTION_PRE_PRINT"
	AuditActionCorrectionPost AuditAction = "PAYMENT_CORRECTION_POST_PRINT"
)

// AuditRecord - Denetim kaydı. Yazıldıktan sonra asla güncellenmez veya
// silinmez; düzeltmelerde eski ödeme seti BeforeData içinde saklanır.
type AuditRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalize

	EntityType string `gorm:"size:50;index" json:"entity_type"` // "order", "table", "shift"
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:40;index" json:"action"`
	Description string      `gorm:"size:500" json:"description"`

	// Önceki ve sonraki hal + serbest metadata (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
	Metadata   string `gorm:"type:jsonb" json:"metadata"`
}
