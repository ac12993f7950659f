package ledger

import (
	"encoding/json"
	"fmt"
	"log"

	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

// ApplyRemote - uzak sunucunun onayladığı entity durumunu lokale uygular.
// Çakışma politikası entity bazında last-writer-wins: uzak revizyon lokalden
// yeniyse uzak hal yazılır, değilse lokal kazanır ve hiçbir şey değişmez.
// Kısmi alan birleştirmesi yapılmaz; finansal kayıtların yarım kalmaması için
// entity bütün olarak ya alınır ya alınmaz. Bu yol da aynı yazma kilidinden
// geçer ama sync kuyruğuna yeni kayıt üretmez (yankı döngüsü olmasın).
// Dönüş değeri uzak halin uygulanıp uygulanmadığıdır.
func (l *Ledger) ApplyRemote(entityType string, remoteRevision uint, payload []byte) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch entityType {
	case "order":
		return l.applyRemoteOrder(remoteRevision, payload)
	case "table":
		return l.applyRemoteTable(remoteRevision, payload)
	case "shift":
		return l.applyRemoteShift(remoteRevision, payload)
	case "audit":
		return l.applyRemoteAudit(payload)
	default:
		return false, fmt.Errorf("bilinmeyen entity tipi: %s", entityType)
	}
}

func (l *Ledger) applyRemoteTable(remoteRevision uint, payload []byte) (bool, error) {
	var incoming models.Table
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return false, fmt.Errorf("uzak masa kaydı çözümlenemedi: %w", err)
	}

	var local models.Table
	err := l.db.First(&local, "id = ?", incoming.ID).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return true, l.db.Create(&incoming).Error
	case err != nil:
		return false, err
	}

	if remoteRevision <= local.Revision {
		return false, nil // lokal daha yeni, lokal kazanır
	}
	return true, l.db.Save(&incoming).Error
}

func (l *Ledger) applyRemoteShift(remoteRevision uint, payload []byte) (bool, error) {
	var incoming models.Shift
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return false, fmt.Errorf("uzak vardiya kaydı çözümlenemedi: %w", err)
	}

	var local models.Shift
	err := l.db.First(&local, "id = ?", incoming.ID).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		return true, l.db.Create(&incoming).Error
	case err != nil:
		return false, err
	}

	if remoteRevision <= local.Revision {
		return false, nil
	}
	return true, l.db.Save(&incoming).Error
}

func (l *Ledger) applyRemoteAudit(payload []byte) (bool, error) {
	// Denetim kayıtları append-only: uzak taraftan gelen kayıt lokalde yoksa
	// eklenir, varsa hiçbir şekilde üzerine yazılmaz.
	var rec models.AuditRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return false, fmt.Errorf("uzak denetim kaydı çözümlenemedi: %w", err)
	}

	var count int64
	if err := l.db.Model(&models.AuditRecord{}).Where("id = ?", rec.ID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, l.db.Create(&rec).Error
}

func (l *Ledger) applyRemoteOrder(remoteRevision uint, payload []byte) (bool, error) {
	var incoming models.Order
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return false, fmt.Errorf("uzak adisyon çözümlenemedi: %w", err)
	}

	var local models.Order
	err := l.db.First(&local, "id = ?", incoming.ID).Error
	if err == nil && remoteRevision <= local.Revision {
		return false, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return false, err
	}

	txErr := l.db.Transaction(func(tx *gorm.DB) error {
		// Satırlar ve ödemeler entity'nin parçasıdır, komple değiştirilir
		if err := tx.Delete(&models.OrderItem{}, "order_id = ?", incoming.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Payment{}, "order_id = ?", incoming.ID).Error; err != nil {
			return err
		}

		items, payments := incoming.Items, incoming.Payments
		incoming.Items, incoming.Payments = nil, nil
		if err := tx.Save(&incoming).Error; err != nil {
			return fmt.Errorf("uzak adisyon yazılamadı: %w", err)
		}
		for i := range items {
			items[i].OrderID = incoming.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		for i := range payments {
			payments[i].OrderID = incoming.ID
			if err := tx.Create(&payments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return false, txErr
	}

	log.Printf("Uzak adisyon uygulandı: #%d rev %d", incoming.ID, remoteRevision)
	return true, nil
}
