package models

import "time"

type TableStatus string

const (
	TableStatusFree     TableStatus = "bos"  // boş
	TableStatusOccupied TableStatus = "dolu" // en az bir açık adisyon var
)

type TableZone string

const (
	TableZoneIndoor  TableZone = "ic"  // iç salon
	TableZoneOutdoor TableZone = "dis" // bahçe/teras
	TableZoneCounter TableZone = "bar" // bar/tezgah
)

// Table - Salon masası. Durum (bos/dolu) sadece ledger tarafından değiştirilir:
// masaya açık adisyon bağlıysa dolu, değilse boş.
type Table struct {
	ID     uint        `gorm:"primaryKey" json:"id"`
	Name   string      `gorm:"size:100;not null" json:"name"`
	Seats  int         `gorm:"not null;default:4" json:"seats"`
	Zone   TableZone   `gorm:"size:10;not null;default:'ic'" json:"zone"`
	Status TableStatus `gorm:"size:10;not null;default:'bos'" json:"status"`

	// Salon planındaki konum (grid koordinatı)
	PosX int `json:"pos_x"`
	PosY int `json:"pos_y"`

	Revision  uint `gorm:"not null;default:0" json:"revision"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
