package ledger

import (
	"fmt"
	"log"
	"strings"

	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

// CreateOrder - yeni adisyon açar. tableID nil ise tezgah satışıdır. Açık
// vardiya yoksa adisyon açılamaz.
func (l *Ledger) CreateOrder(tableID *uint, subAccountName string, actor Actor) (*models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.activeShiftID == nil {
		return nil, ErrNoActiveShift
	}

	name := strings.TrimSpace(subAccountName)
	if name == "" {
		name = "Ana Hesap"
	}

	var events []CommitEvent
	order := models.Order{
		TableID:        tableID,
		SubAccountName: name,
		Status:         models.OrderStatusOpen,
		ShiftID:        l.activeShiftID,
		UserID:         actor.ID,
		UserName:       actor.Name,
		Revision:       1,
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if tableID != nil {
			var table models.Table
			if err := tx.First(&table, "id = ?", *tableID).Error; err != nil {
				return ErrTableNotFound
			}
			if table.Status != models.TableStatusOccupied {
				table.Status = models.TableStatusOccupied
				table.Revision++
				if err := tx.Save(&table).Error; err != nil {
					return fmt.Errorf("masa durumu güncellenemedi: %w", err)
				}
				events = append(events, tableEvent(&table))
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("adisyon oluşturulamadı: %w", err)
		}
		events = append(events, orderEvent(&order))
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.notify(events)
	log.Printf("Yeni adisyon açıldı: #%d (%s)", order.ID, order.SubAccountName)
	return &order, nil
}

// AddItem - adisyona ürün ekler/çıkarır. deltaQty negatif olabilir; satır
// miktarı delta olarak işlenir ki iki kasiyer aynı ürünü aynı anda eklediğinde
// güncelleme kaybolmasın. Miktar sıfıra inerse satır silinir, sıfırın altına
// inemez.
func (l *Ledger) AddItem(orderID uint, dishID uint, deltaQty int, note string, actor Actor) (*models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var order models.Order
	var events []CommitEvent

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return ErrOrderNotFound
		}
		if order.Status != models.OrderStatusOpen {
			return ErrOrderClosed
		}

		var dish models.Dish
		if err := tx.First(&dish, "id = ?", dishID).Error; err != nil {
			return ErrDishNotFound
		}

		// Aynı ürün + aynı not tek satırda birleşir
		var line *models.OrderItem
		for i := range order.Items {
			if order.Items[i].DishID == dishID && order.Items[i].Note == note {
				line = &order.Items[i]
				break
			}
		}

		switch {
		case line == nil:
			if deltaQty < 0 {
				return ErrInvalidQuantity
			}
			if deltaQty == 0 {
				return nil // eklenmeyecek bir şey yok
			}
			item := models.OrderItem{
				OrderID:   order.ID,
				DishID:    dish.ID,
				Name:      dish.Name,
				UnitPrice: dish.Price, // ekleme anındaki fiyat sabitlenir
				Quantity:  deltaQty,
				Note:      note,
			}
			item.TaxAmount = item.UnitPrice * float64(item.Quantity) * l.tax / 100
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("adisyon satırı eklenemedi: %w", err)
			}
			order.Items = append(order.Items, item)

		default:
			newQty := line.Quantity + deltaQty
			if newQty < 0 {
				return ErrInvalidQuantity
			}
			if newQty == 0 {
				if err := tx.Delete(&models.OrderItem{}, "id = ?", line.ID).Error; err != nil {
					return fmt.Errorf("adisyon satırı silinemedi: %w", err)
				}
				remaining := order.Items[:0]
				for _, it := range order.Items {
					if it.ID != line.ID {
						remaining = append(remaining, it)
					}
				}
				order.Items = remaining
			} else {
				line.Quantity = newQty
				line.TaxAmount = line.UnitPrice * float64(newQty) * l.tax / 100
				if err := tx.Save(line).Error; err != nil {
					return fmt.Errorf("adisyon satırı güncellenemedi: %w", err)
				}
			}
		}

		return l.saveRecomputedOrder(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	events = append(events, orderEvent(&order))
	l.notify(events)
	return &order, nil
}

// RemoveItem - satırı indeksle komple kaldırır (miktar düşürme için AddItem
// negatif delta ile kullanılır).
func (l *Ledger) RemoveItem(orderID uint, lineIndex int, actor Actor) (*models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var order models.Order

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return ErrOrderNotFound
		}
		if order.Status != models.OrderStatusOpen {
			return ErrOrderClosed
		}
		if lineIndex < 0 || lineIndex >= len(order.Items) {
			return ErrInvalidQuantity
		}

		victim := order.Items[lineIndex]
		if err := tx.Delete(&models.OrderItem{}, "id = ?", victim.ID).Error; err != nil {
			return fmt.Errorf("adisyon satırı silinemedi: %w", err)
		}
		order.Items = append(order.Items[:lineIndex], order.Items[lineIndex+1:]...)

		return l.saveRecomputedOrder(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	l.notify([]CommitEvent{orderEvent(&order)})
	return &order, nil
}

// saveRecomputedOrder - toplamları satır setinden sıfırdan hesaplar ve
// adisyonu kaydeder. Artımlı toplam tutmuyoruz; float kayması yerine her
// mutasyonda invariant'ı baştan kurmak daha güvenli.
func (l *Ledger) saveRecomputedOrder(tx *gorm.DB, order *models.Order) error {
	var total, taxTotal float64
	for _, it := range order.Items {
		total += it.UnitPrice * float64(it.Quantity)
		taxTotal += it.TaxAmount
	}
	order.Total = total + taxTotal
	order.TaxTotal = taxTotal
	order.Revision++

	if err := tx.Omit("Items", "Payments").Save(order).Error; err != nil {
		return fmt.Errorf("adisyon güncellenemedi: %w", err)
	}
	return nil
}
