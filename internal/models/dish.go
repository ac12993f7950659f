package models

import "time"

// Dish - Menü ürünü. Menü CRUD ekranları bu serviste yok, ama adisyona ürün
// eklemek için kayıtların burada durması gerekiyor.
type Dish struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"size:150;not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	TaxCode   string  `gorm:"size:10;default:'KDV'" json:"tax_code"`
	Active    bool    `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
