package database

import (
	"log"

	"restoran-pos-backend/internal/config"
	"restoran-pos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate - tüm ledger tablolarını oluşturur/günceller. Testler aynı şemayı
// sqlite üzerinde kurmak için de bunu çağırır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Dish{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Shift{},
		&models.CashMovement{},
		&models.AuditRecord{},
		&models.SyncQueueEntry{},
		&models.FiscalCounter{},
	)
}
