package models

import "time"

type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusFailed  SyncStatus = "failed" // deneme hakkı bitti, bağlantı gelince tekrar denenir
)

// SyncQueueEntry - Uzak sunucuya replike edilecek lokal mutasyon. Her commit
// edilmiş ledger mutasyonu bir kayıt üretir; kuyruk FIFO sırayla boşaltılır.
type SyncQueueEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Uzak taraftaki idempotency anahtarı; aynı entry iki kez push edilirse
	// sunucu ikincisini yok sayar.
	EntryKey string `gorm:"size:36;uniqueIndex;not null" json:"entry_key"`

	EntityType string `gorm:"size:30;index;not null" json:"entity_type"`
	EntityID   uint   `gorm:"index;not null" json:"entity_id"`
	Revision   uint   `gorm:"not null" json:"revision"`

	// Entity'nin commit anındaki JSON anlık görüntüsü
	Payload string `gorm:"type:jsonb;not null" json:"payload"`

	Status        SyncStatus `gorm:"size:10;index;not null;default:'pending'" json:"status"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	LastError     string     `gorm:"size:500" json:"last_error"`
	NextAttemptAt *time.Time `json:"next_attempt_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
