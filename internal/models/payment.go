package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"     // nakit
	PaymentMethodPOS      PaymentMethod = "pos"      // kart (POS cihazı)
	PaymentMethodTransfer PaymentMethod = "transfer" // havale/EFT
	PaymentMethodQR       PaymentMethod = "qr"       // QR ile ödeme
	PaymentMethodAccount  PaymentMethod = "account"  // cari hesap (veresiye)
)

// ValidPaymentMethod - kapalı enum kontrolü; serbest string kabul edilmez.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodPOS, PaymentMethodTransfer,
		PaymentMethodQR, PaymentMethodAccount:
		return true
	}
	return false
}

// Payment - Adisyona yapılan ödeme. Bölünmüş ödemede birden fazla kayıt olur;
// kapanış anında sum(amount) == order.Total şartı aranır.
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	OrderID   uint          `gorm:"index;not null" json:"order_id"`
	Method    PaymentMethod `gorm:"size:20;not null" json:"method"`
	Amount    float64       `gorm:"not null" json:"amount"`
	CreatedAt time.Time     `json:"created_at"`
}
