package ledger

import (
	"fmt"
	"log"
	"math"
	"time"

	"restoran-pos-backend/internal/audit"
	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

// PaymentInput - checkout veya düzeltme için ödeme kalemi
type PaymentInput struct {
	Method models.PaymentMethod `json:"method"`
	Amount float64              `json:"amount"`
}

func validatePayments(payments []PaymentInput, orderTotal float64) error {
	if len(payments) == 0 {
		return ErrInvalidPayment
	}
	var sum float64
	for _, p := range payments {
		if !models.ValidPaymentMethod(p.Method) || p.Amount <= 0 {
			return ErrInvalidPayment
		}
		sum += p.Amount
	}
	if math.Abs(sum-orderTotal) > AmountEpsilon {
		return ErrAmountMismatch
	}
	return nil
}

// Checkout - adisyonu kapatır. Ödemelerin toplamı adisyon toplamına eşit
// olmalı (kuruş toleransı içinde). Başarılı olursa sıradaki fatura numarası
// atanır, bütünlük hash'i hesaplanır, adisyon açık vardiyaya bağlanıp CLOSED
// olur. Fatura numarası commit noktasıdır; daha önce hiçbir şekilde ayrılmaz.
// Kapatılmış adisyonda ikinci çağrı hata döner, ikinci fatura numarası üretmez.
func (l *Ledger) Checkout(orderID uint, payments []PaymentInput, customerTaxID string, actor Actor) (*models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeShiftID == nil {
		return nil, ErrNoActiveShift
	}

	var order models.Order
	var events []CommitEvent

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return ErrOrderNotFound
		}
		if order.Status != models.OrderStatusOpen {
			return ErrOrderClosed
		}

		if err := validatePayments(payments, order.Total); err != nil {
			return err
		}

		// Fatura numarası: seri sayacı sadece burada, commit ile birlikte artar
		var counter models.FiscalCounter
		if err := tx.Where(models.FiscalCounter{Series: l.series}).
			FirstOrCreate(&counter).Error; err != nil {
			return fmt.Errorf("fatura sayacı okunamadı: %w", err)
		}
		counter.LastNumber++
		if err := tx.Save(&counter).Error; err != nil {
			return fmt.Errorf("fatura sayacı güncellenemedi: %w", err)
		}
		invoiceNo := fmt.Sprintf("FT %s/%d", l.series, counter.LastNumber)

		// Hash zinciri: son kapanan faturanın hash'i devralınır
		var prevHash string
		var lastClosed models.Order
		err := tx.Where("status = ? AND hash <> ''", models.OrderStatusClosed).
			Order("id DESC").First(&lastClosed).Error
		if err == nil {
			prevHash = lastClosed.Hash
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("önceki fatura okunamadı: %w", err)
		}

		now := time.Now()
		order.Status = models.OrderStatusClosed
		order.InvoiceNumber = invoiceNo
		order.PrevHash = prevHash
		order.Hash = chainHash(now, invoiceNo, order.Total, prevHash)
		order.ShiftID = l.activeShiftID
		order.CustomerTaxID = customerTaxID
		order.ClosedAt = &now
		order.UserID = actor.ID
		order.UserName = actor.Name
		order.Revision++

		if err := tx.Omit("Items", "Payments").Save(&order).Error; err != nil {
			return fmt.Errorf("adisyon kapatılamadı: %w", err)
		}

		for _, p := range payments {
			row := models.Payment{OrderID: order.ID, Method: p.Method, Amount: p.Amount}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("ödeme kaydedilemedi: %w", err)
			}
			order.Payments = append(order.Payments, row)
		}

		// Vardiya satış dökümünü güncelle
		var shift models.Shift
		if err := tx.First(&shift, "id = ?", *l.activeShiftID).Error; err != nil {
			return fmt.Errorf("aktif vardiya okunamadı: %w", err)
		}
		breakdown := parseBreakdown(shift.SalesBreakdown)
		for _, p := range payments {
			breakdown[p.Method] += p.Amount
		}
		shift.SalesBreakdown = marshalBreakdown(breakdown)
		shift.Revision++
		if err := tx.Save(&shift).Error; err != nil {
			return fmt.Errorf("vardiya güncellenemedi: %w", err)
		}
		events = append(events, shiftEvent(&shift))

		// Masada başka açık adisyon kalmadıysa masa boşa düşer
		if order.TableID != nil {
			var remaining int64
			if err := tx.Model(&models.Order{}).
				Where("table_id = ? AND status = ?", *order.TableID, models.OrderStatusOpen).
				Count(&remaining).Error; err != nil {
				return fmt.Errorf("masa adisyonları sayılamadı: %w", err)
			}
			if remaining == 0 {
				var table models.Table
				if err := tx.First(&table, "id = ?", *order.TableID).Error; err == nil {
					table.Status = models.TableStatusFree
					table.Revision++
					if err := tx.Save(&table).Error; err != nil {
						return fmt.Errorf("masa güncellenemedi: %w", err)
					}
					events = append(events, tableEvent(&table))
				}
			}
		}

		rec, err := audit.Record(tx, audit.Options{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionOrderCheckout,
			Description: fmt.Sprintf("Satış tamamlandı: %s, toplam %.2f", invoiceNo, order.Total),
			After:       payments,
			Metadata: map[string]any{
				"invoice_number": invoiceNo,
				"total":          order.Total,
				"shift_id":       *l.activeShiftID,
			},
		})
		if err != nil {
			return err
		}
		events = append(events, auditEvent(rec), orderEvent(&order))
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.notify(events)
	log.Printf("Satış tamamlandı: %s adisyon #%d toplam %.2f", order.InvoiceNumber, order.ID, order.Total)
	return &order, nil
}
