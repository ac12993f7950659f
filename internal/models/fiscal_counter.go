package models

import "time"

// FiscalCounter - Seri başına fatura numarası sayacı. Sadece checkout commit
// anında, ledger yazma kilidi altında artırılır; asla ileriye dönük ayrılmaz.
type FiscalCounter struct {
	ID         uint   `gorm:"primaryKey"`
	Series     string `gorm:"size:10;uniqueIndex;not null"`
	LastNumber uint   `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}
