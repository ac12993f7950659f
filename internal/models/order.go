package models

import "time"

type OrderStatus string

const (
	OrderStatusOpen   OrderStatus = "open"
	OrderStatusClosed OrderStatus = "closed" // fatura kesildi, artık sadece düzeltme modülü dokunabilir
)

// Order - Adisyon. Bir masada birden fazla açık adisyon (alt hesap) olabilir;
// TableID nil ise tezgah satışıdır.
type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	TableID        *uint       `gorm:"index" json:"table_id"`
	Table          *Table      `json:"-"`
	SubAccountName string      `gorm:"size:100;not null;default:'Ana Hesap'" json:"sub_account_name"`
	Status         OrderStatus `gorm:"size:10;not null;index" json:"status"`

	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payments []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments"`

	// Toplam her item mutasyonunda yeniden hesaplanır:
	// Total == sum(items.UnitPrice*Quantity) + TaxTotal
	Total    float64 `gorm:"not null" json:"total"`
	TaxTotal float64 `gorm:"not null" json:"tax_total"`

	// Kapanışta atanır. Açık adisyonda her ikisi de boştur.
	InvoiceNumber string `gorm:"size:50;index" json:"invoice_number"`
	Hash          string `gorm:"size:64" json:"hash"`
	PrevHash      string `gorm:"size:64" json:"prev_hash"`

	ShiftID  *uint  `gorm:"index" json:"shift_id"`
	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	// Opsiyonel: müşteri vergi numarası (faturaya yazılır)
	CustomerTaxID string `gorm:"size:20" json:"customer_tax_id"`

	ClosedAt  *time.Time `json:"closed_at"`
	Revision  uint       `gorm:"not null;default:0" json:"revision"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OrderItem - Adisyon satırı. UnitPrice ekleme anındaki fiyattır, menü sonradan
// değişse bile sabit kalır.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	DishID    uint    `gorm:"index;not null" json:"dish_id"`
	Name      string  `gorm:"size:150;not null" json:"name"` // denormalize, fiş için
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	TaxAmount float64 `gorm:"not null" json:"tax_amount"`
	Note      string  `gorm:"size:255" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
