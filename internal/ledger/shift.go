package ledger

import (
	"fmt"
	"log"
	"time"

	"restoran-pos-backend/internal/audit"
	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

// OpenShift - kasa vardiyası açar. Aynı anda sadece bir vardiya açık olabilir.
// Önceki vardiyadan sahipsiz kalmış açık adisyonlar yeni vardiyaya devredilir.
func (l *Ledger) OpenShift(openingBalance float64, actor Actor) (*models.Shift, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeShiftID != nil {
		return nil, ErrShiftAlreadyOpen
	}
	if openingBalance < 0 {
		return nil, ErrInvalidAmount
	}

	shift := models.Shift{
		UserID:         actor.ID,
		UserName:       actor.Name,
		Status:         models.ShiftStatusOpen,
		OpeningBalance: openingBalance,
		SalesBreakdown: "{}",
		StartTime:      time.Now(),
		Revision:       1,
	}

	var events []CommitEvent

	err := l.db.Transaction(func(tx *gorm.DB) error {
		// Yarış koruması: DB'de de açık vardiya olmadığından emin ol
		var openCount int64
		if err := tx.Model(&models.Shift{}).
			Where("status = ?", models.ShiftStatusOpen).Count(&openCount).Error; err != nil {
			return fmt.Errorf("vardiya kontrolü yapılamadı: %w", err)
		}
		if openCount > 0 {
			return ErrShiftAlreadyOpen
		}

		if err := tx.Create(&shift).Error; err != nil {
			return fmt.Errorf("vardiya açılamadı: %w", err)
		}

		// Sahipsiz açık adisyonları devral
		var orphans []models.Order
		if err := tx.Where("status = ? AND shift_id IS NULL", models.OrderStatusOpen).
			Find(&orphans).Error; err != nil {
			return fmt.Errorf("devredilecek adisyonlar okunamadı: %w", err)
		}
		for i := range orphans {
			orphans[i].ShiftID = &shift.ID
			orphans[i].Revision++
			if err := tx.Omit("Items", "Payments").Save(&orphans[i]).Error; err != nil {
				return fmt.Errorf("adisyon devri yapılamadı: %w", err)
			}
			events = append(events, orderEvent(&orphans[i]))
		}

		rec, err := audit.Record(tx, audit.Options{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "shift",
			EntityID:    shift.ID,
			Action:      models.AuditActionShiftOpened,
			Description: fmt.Sprintf("Kasa açıldı, açılış bakiyesi %.2f", openingBalance),
			Metadata:    map[string]any{"opening_balance": openingBalance, "adopted_orders": len(orphans)},
		})
		if err != nil {
			return err
		}
		events = append(events, auditEvent(rec), shiftEvent(&shift))
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.activeShiftID = &shift.ID
	l.notify(events)
	log.Printf("Kasa açıldı: vardiya #%d, %s, açılış %.2f", shift.ID, actor.Name, openingBalance)
	return &shift, nil
}

// CloseShift - vardiyayı kapatır. Beklenen kasa:
//
//	açılış + nakit satışlar + nakit girişler - nakit çıkışlar
//
// Fark (sayılan - beklenen) olduğu gibi kaydedilir, asla düzeltilmez. Açık
// kalan adisyonlar vardiyadan ayrılır; bir sonraki vardiya onları devralır.
func (l *Ledger) CloseShift(countedBalance float64, actor Actor) (*models.Shift, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeShiftID == nil {
		return nil, ErrNoActiveShift
	}
	if countedBalance < 0 {
		return nil, ErrInvalidAmount
	}

	var shift models.Shift
	var events []CommitEvent

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&shift, "id = ?", *l.activeShiftID).Error; err != nil {
			return fmt.Errorf("aktif vardiya okunamadı: %w", err)
		}

		// Bu vardiyada kapanan adisyonların nakit ödemeleri
		var cashSales float64
		if err := tx.Model(&models.Payment{}).
			Joins("JOIN orders ON orders.id = payments.order_id").
			Where("orders.shift_id = ? AND orders.status = ? AND payments.method = ?",
				shift.ID, models.OrderStatusClosed, models.PaymentMethodCash).
			Select("COALESCE(SUM(payments.amount), 0)").Scan(&cashSales).Error; err != nil {
			return fmt.Errorf("nakit satışlar hesaplanamadı: %w", err)
		}

		// Satış dışı kasa hareketleri
		var cashIn, cashOut float64
		if err := tx.Model(&models.CashMovement{}).
			Where("shift_id = ? AND direction = ?", shift.ID, "in").
			Select("COALESCE(SUM(amount), 0)").Scan(&cashIn).Error; err != nil {
			return fmt.Errorf("kasa girişleri hesaplanamadı: %w", err)
		}
		if err := tx.Model(&models.CashMovement{}).
			Where("shift_id = ? AND direction = ?", shift.ID, "out").
			Select("COALESCE(SUM(amount), 0)").Scan(&cashOut).Error; err != nil {
			return fmt.Errorf("kasa çıkışları hesaplanamadı: %w", err)
		}

		expected := shift.OpeningBalance + cashSales + cashIn - cashOut
		variance := countedBalance - expected
		now := time.Now()

		shift.Status = models.ShiftStatusClosed
		shift.EndTime = &now
		shift.ClosingBalance = &countedBalance
		shift.ExpectedBalance = &expected
		shift.Variance = &variance
		shift.Revision++

		if err := tx.Save(&shift).Error; err != nil {
			return fmt.Errorf("vardiya kapatılamadı: %w", err)
		}

		// Açık adisyonları serbest bırak, sonraki vardiya devralsın
		var stillOpen []models.Order
		if err := tx.Where("status = ? AND shift_id = ?", models.OrderStatusOpen, shift.ID).
			Find(&stillOpen).Error; err != nil {
			return fmt.Errorf("açık adisyonlar okunamadı: %w", err)
		}
		for i := range stillOpen {
			stillOpen[i].ShiftID = nil
			stillOpen[i].Revision++
			if err := tx.Omit("Items", "Payments").Save(&stillOpen[i]).Error; err != nil {
				return fmt.Errorf("adisyon vardiyadan ayrılamadı: %w", err)
			}
			events = append(events, orderEvent(&stillOpen[i]))
		}

		rec, err := audit.Record(tx, audit.Options{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "shift",
			EntityID:    shift.ID,
			Action:      models.AuditActionShiftClosed,
			Description: fmt.Sprintf("Kasa kapatıldı. Beklenen: %.2f, Sayılan: %.2f, Fark: %.2f", expected, countedBalance, variance),
			Metadata: map[string]any{
				"expected": expected,
				"counted":  countedBalance,
				"variance": variance,
			},
		})
		if err != nil {
			return err
		}
		events = append(events, auditEvent(rec), shiftEvent(&shift))
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.activeShiftID = nil
	l.notify(events)
	log.Printf("Kasa kapatıldı: vardiya #%d, fark %.2f", shift.ID, *shift.Variance)
	return &shift, nil
}

// AddCashMovement - vardiya içi satış dışı kasa hareketi (avans, tedarikçiye
// nakit ödeme vb). Beklenen kasa hesabına dahil edilir.
func (l *Ledger) AddCashMovement(direction string, amount float64, description string, actor Actor) (*models.CashMovement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeShiftID == nil {
		return nil, ErrNoActiveShift
	}
	if direction != "in" && direction != "out" {
		return nil, ErrInvalidPayment
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	movement := models.CashMovement{
		ShiftID:     *l.activeShiftID,
		Direction:   direction,
		Amount:      amount,
		Description: description,
		UserID:      actor.ID,
		UserName:    actor.Name,
	}

	var events []CommitEvent
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("kasa hareketi kaydedilemedi: %w", err)
		}
		rec, err := audit.Record(tx, audit.Options{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "shift",
			EntityID:    movement.ShiftID,
			Action:      models.AuditActionCashMovement,
			Description: fmt.Sprintf("Kasa hareketi (%s): %.2f - %s", direction, amount, description),
			After:       movement,
		})
		if err != nil {
			return err
		}
		events = append(events, auditEvent(rec))
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.notify(events)
	return &movement, nil
}
