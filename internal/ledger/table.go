package ledger

import (
	"fmt"
	"log"

	"restoran-pos-backend/internal/audit"
	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

// TransferTable - kaynak masadaki tüm açık adisyonları hedef masaya taşır.
// Hedef masada açık adisyon varsa işlem reddedilir, hiçbir şey değişmez.
func (l *Ledger) TransferTable(fromTableID, toTableID uint, actor Actor) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var events []CommitEvent

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var fromTable, toTable models.Table
		if err := tx.First(&fromTable, "id = ?", fromTableID).Error; err != nil {
			return ErrTableNotFound
		}
		if err := tx.First(&toTable, "id = ?", toTableID).Error; err != nil {
			return ErrTableNotFound
		}

		var destOpen int64
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND status = ?", toTableID, models.OrderStatusOpen).
			Count(&destOpen).Error; err != nil {
			return fmt.Errorf("hedef masa kontrol edilemedi: %w", err)
		}
		if destOpen > 0 {
			return ErrTableOccupied
		}

		var moving []models.Order
		if err := tx.Where("table_id = ? AND status = ?", fromTableID, models.OrderStatusOpen).
			Find(&moving).Error; err != nil {
			return fmt.Errorf("kaynak masa adisyonları okunamadı: %w", err)
		}
		if len(moving) == 0 {
			return ErrNoOpenOrders
		}

		for i := range moving {
			moving[i].TableID = &toTable.ID
			moving[i].Revision++
			if err := tx.Omit("Items", "Payments").Save(&moving[i]).Error; err != nil {
				return fmt.Errorf("adisyon taşınamadı: %w", err)
			}
			events = append(events, orderEvent(&moving[i]))
		}

		fromTable.Status = models.TableStatusFree
		fromTable.Revision++
		toTable.Status = models.TableStatusOccupied
		toTable.Revision++
		if err := tx.Save(&fromTable).Error; err != nil {
			return fmt.Errorf("kaynak masa güncellenemedi: %w", err)
		}
		if err := tx.Save(&toTable).Error; err != nil {
			return fmt.Errorf("hedef masa güncellenemedi: %w", err)
		}
		events = append(events, tableEvent(&fromTable), tableEvent(&toTable))

		rec, err := audit.Record(tx, audit.Options{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "table",
			EntityID:    fromTableID,
			Action:      models.AuditActionTableTransfer,
			Description: fmt.Sprintf("%s masası %s masasına taşındı (%d adisyon)", fromTable.Name, toTable.Name, len(moving)),
			Before:      map[string]uint{"table_id": fromTableID},
			After:       map[string]uint{"table_id": toTableID},
			Metadata:    map[string]any{"order_count": len(moving)},
		})
		if err != nil {
			return err
		}
		events = append(events, auditEvent(rec))
		return nil
	})
	if err != nil {
		return err
	}

	l.notify(events)
	log.Printf("Masa taşındı: %d -> %d (%s)", fromTableID, toTableID, actor.Name)
	return nil
}

// CloseTableWithoutPayment - masayı idari kararla serbest bırakır. Henüz
// faturası kesilmemiş taslak adisyonlar silinir; silinenlerin dökümü denetim
// kaydında saklanır ki ödemeli kapanıştan ayırt edilebilsin.
func (l *Ledger) CloseTableWithoutPayment(tableID uint, actor Actor) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var events []CommitEvent

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, "id = ?", tableID).Error; err != nil {
			return ErrTableNotFound
		}

		var drafts []models.Order
		if err := tx.Preload("Items").
			Where("table_id = ? AND status = ?", tableID, models.OrderStatusOpen).
			Find(&drafts).Error; err != nil {
			return fmt.Errorf("masa adisyonları okunamadı: %w", err)
		}

		for _, d := range drafts {
			if err := tx.Delete(&models.OrderItem{}, "order_id = ?", d.ID).Error; err != nil {
				return fmt.Errorf("taslak satırları silinemedi: %w", err)
			}
			if err := tx.Delete(&models.Order{}, "id = ?", d.ID).Error; err != nil {
				return fmt.Errorf("taslak adisyon silinemedi: %w", err)
			}
		}

		table.Status = models.TableStatusFree
		table.Revision++
		if err := tx.Save(&table).Error; err != nil {
			return fmt.Errorf("masa güncellenemedi: %w", err)
		}
		events = append(events, tableEvent(&table))

		rec, err := audit.Record(tx, audit.Options{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "table",
			EntityID:    tableID,
			Action:      models.AuditActionTableForce,
			Description: fmt.Sprintf("%s masası ödemesiz kapatıldı (%d taslak adisyon iptal)", table.Name, len(drafts)),
			Before:      drafts, // iptal edilen taslakların tam dökümü
			Metadata:    map[string]any{"draft_count": len(drafts)},
		})
		if err != nil {
			return err
		}
		events = append(events, auditEvent(rec))
		return nil
	})
	if err != nil {
		return err
	}

	l.notify(events)
	log.Printf("Masa ödemesiz kapatıldı: %d (%s)", tableID, actor.Name)
	return nil
}
