package models

import "time"

type ShiftStatus string

const (
	ShiftStatusOpen   ShiftStatus = "open"
	ShiftStatusClosed ShiftStatus = "closed"
)

// Shift - Kasa vardiyası. Terminal başına aynı anda en fazla bir açık vardiya
// olabilir; adisyonlar açık vardiyaya bağlanır.
type Shift struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	UserID   uint        `gorm:"not null" json:"user_id"`
	UserName string      `gorm:"size:100" json:"user_name"` // denormalize
	Status   ShiftStatus `gorm:"size:10;not null;index" json:"status"`

	OpeningBalance float64 `gorm:"not null" json:"opening_balance"`

	// Kapanışta doldurulur. Variance = sayılan - beklenen; asla sessizce
	// düzeltilmez, olduğu gibi raporlanır.
	ClosingBalance  *float64 `json:"closing_balance"`
	ExpectedBalance *float64 `json:"expected_balance"`
	Variance        *float64 `json:"variance"`

	// Ödeme yöntemine göre satış dökümü (JSON). Checkout ve ödeme düzeltmeleri
	// tarafından güncel tutulur.
	SalesBreakdown string `gorm:"type:jsonb;default:'{}'" json:"sales_breakdown"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	Revision  uint      `gorm:"not null;default:0" json:"revision"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CashMovement - Vardiya sırasındaki kasa giriş/çıkışı (satış dışı): çıkan
// avans, tedarikçiye nakit ödeme vb. Beklenen kasa hesabına dahildir.
type CashMovement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ShiftID     uint      `gorm:"index;not null" json:"shift_id"`
	Direction   string    `gorm:"size:10;not null" json:"direction"` // "in" / "out"
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `gorm:"size:255" json:"description"`
	UserID      uint      `json:"user_id"`
	UserName    string    `gorm:"size:100" json:"user_name"`
	CreatedAt   time.Time `json:"created_at"`
}
