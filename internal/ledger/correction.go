package ledger

import (
	"fmt"
	"log"
	"strings"

	"restoran-pos-backend/internal/audit"
	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

// CorrectPayment - kapatılmış bir adisyonun ödeme dökümünü değiştirir. Adisyon
// toplamı asla değişmez, sadece ödeme dağılımı. Eski döküm denetim kaydının
// BeforeData alanında eksiksiz saklanır; denetim kayıtları hiçbir zaman
// silinmediği için eski hal her zaman geri okunabilir.
//
// Fatura numarası kesilmiş adisyonlarda düzeltme "post-print" sayılır: müşteriye
// verilmiş bir belgeyi değiştirdiği için çağrı tarafında açık yönetici onayı
// (supervisorConfirmed) ister ve denetim kaydında ayrı aksiyonla işaretlenir.
func (l *Ledger) CorrectPayment(orderID uint, newPayments []PaymentInput, reason string, supervisorConfirmed bool, actor Actor) (*models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	var order models.Order
	var events []CommitEvent

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Payments").First(&order, "id = ?", orderID).Error; err != nil {
			return ErrOrderNotFound
		}
		if order.Status != models.OrderStatusClosed {
			return ErrOrderOpen
		}

		if err := validatePayments(newPayments, order.Total); err != nil {
			return err
		}

		postPrint := order.InvoiceNumber != ""
		if postPrint && !supervisorConfirmed {
			return ErrSupervisorRequired
		}

		previous := order.Payments

		// Ödeme satırlarını değiştir
		if err := tx.Delete(&models.Payment{}, "order_id = ?", order.ID).Error; err != nil {
			return fmt.Errorf("eski ödemeler kaldırılamadı: %w", err)
		}
		order.Payments = nil
		for _, p := range newPayments {
			row := models.Payment{OrderID: order.ID, Method: p.Method, Amount: p.Amount}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("yeni ödeme kaydedilemedi: %w", err)
			}
			order.Payments = append(order.Payments, row)
		}

		order.Revision++
		if err := tx.Omit("Items", "Payments").Save(&order).Error; err != nil {
			return fmt.Errorf("adisyon güncellenemedi: %w", err)
		}

		// Vardiya satış dökümünü tutarlı tut: eskiyi düş, yeniyi ekle
		if order.ShiftID != nil {
			var shift models.Shift
			if err := tx.First(&shift, "id = ?", *order.ShiftID).Error; err == nil {
				breakdown := parseBreakdown(shift.SalesBreakdown)
				for _, p := range previous {
					breakdown[p.Method] -= p.Amount
				}
				for _, p := range newPayments {
					breakdown[p.Method] += p.Amount
				}
				shift.SalesBreakdown = marshalBreakdown(breakdown)
				shift.Revision++
				if err := tx.Save(&shift).Error; err != nil {
					return fmt.Errorf("vardiya dökümü güncellenemedi: %w", err)
				}
				events = append(events, shiftEvent(&shift))
			}
		}

		action := models.AuditActionCorrectionPre
		if postPrint {
			action = models.AuditActionCorrectionPost
		}

		rec, err := audit.Record(tx, audit.Options{
			UserID:      actor.ID,
			UserName:    actor.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      action,
			Description: fmt.Sprintf("Ödeme düzeltmesi (%s). Gerekçe: %s", order.InvoiceNumber, reason),
			Before:      previous,
			After:       newPayments,
			Metadata: map[string]any{
				"invoice_number": order.InvoiceNumber,
				"post_print":     postPrint,
				"reason":         reason,
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
	log.Printf("Ödeme düzeltmesi uygulandı: adisyon #%d (%s)", order.ID, actor.Name)
	return &order, nil
}
