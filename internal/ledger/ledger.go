package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"restoran-pos-backend/internal/models"

	"gorm.io/gorm"
)

// Para karşılaştırmalarında yuvarlama toleransı (kuruş)
const AmountEpsilon = 0.01

// Actor - işlemi yapan kullanıcı (JWT'den gelir, audit kayıtlarına yazılır)
type Actor struct {
	ID   uint
	Name string
}

// CommitEvent - commit edilmiş bir mutasyonun sync kuyruğuna bildirimi.
// Payload, entity'nin commit anındaki halidir.
type CommitEvent struct {
	EntityType string
	EntityID   uint
	Revision   uint
	Payload    any
}

// Ledger - terminaldeki tek doğruluk kaynağı. Tüm yazma işlemleri mu altında
// tek tek yürür; fatura sayacı ve aktif vardiya işaretçisi de aynı kilidin
// arkasındadır ki iki kasiyer aynı anda aynı fatura numarasını alamasın.
// Okumalar kilit almaz, son commit edilmiş durumu görür.
type Ledger struct {
	db     *gorm.DB
	mu     sync.Mutex
	series string
	tax    float64 // yüzde

	activeShiftID *uint

	obsMu     sync.RWMutex
	observers []func(CommitEvent)
}

func New(db *gorm.DB, invoiceSeries string, taxRate float64) (*Ledger, error) {
	l := &Ledger{db: db, series: invoiceSeries, tax: taxRate}

	// Açık vardiyayı yükle (çökme sonrası devam edebilmek için)
	var shift models.Shift
	err := db.Where("status = ?", models.ShiftStatusOpen).First(&shift).Error
	switch {
	case err == nil:
		l.activeShiftID = &shift.ID
		log.Printf("Açık vardiya bulundu ve devralındı: #%d (%s)", shift.ID, shift.UserName)
	case err == gorm.ErrRecordNotFound:
		// vardiya yok, ilk openShift bekleniyor
	default:
		return nil, fmt.Errorf("aktif vardiya yüklenemedi: %w", err)
	}

	return l, nil
}

// Observe - commit edilmiş mutasyonları dinlemek için (sync coordinator
// kullanır). Callback'ler commit SONRASINDA, kilit bırakılmadan önce sırayla
// çağrılır; bloklamamalıdır.
func (l *Ledger) Observe(fn func(CommitEvent)) {
	l.obsMu.Lock()
	defer l.obsMu.Unlock()
	l.observers = append(l.observers, fn)
}

func (l *Ledger) notify(events []CommitEvent) {
	l.obsMu.RLock()
	defer l.obsMu.RUnlock()
	for _, ev := range events {
		for _, fn := range l.observers {
			fn(ev)
		}
	}
}

// ActiveShiftID - açık vardiyanın ID'si, yoksa nil.
func (l *Ledger) ActiveShiftID() *uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.activeShiftID == nil {
		return nil
	}
	id := *l.activeShiftID
	return &id
}

// DB - okuma sorguları için (handler'lar listelemelerde doğrudan kullanır)
func (l *Ledger) DB() *gorm.DB { return l.db }

func orderEvent(o *models.Order) CommitEvent {
	return CommitEvent{EntityType: "order", EntityID: o.ID, Revision: o.Revision, Payload: o}
}

func tableEvent(t *models.Table) CommitEvent {
	return CommitEvent{EntityType: "table", EntityID: t.ID, Revision: t.Revision, Payload: t}
}

func shiftEvent(s *models.Shift) CommitEvent {
	return CommitEvent{EntityType: "shift", EntityID: s.ID, Revision: s.Revision, Payload: s}
}

func auditEvent(a *models.AuditRecord) CommitEvent {
	// Audit kayıtları immutable olduğu için revizyonları hep 1'dir
	return CommitEvent{EntityType: "audit", EntityID: a.ID, Revision: 1, Payload: a}
}

// --- vardiya satış dökümü yardımcıları ---

func parseBreakdown(raw string) map[models.PaymentMethod]float64 {
	b := map[models.PaymentMethod]float64{}
	if raw == "" {
		return b
	}
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		log.Printf("[WARN] Vardiya satış dökümü çözümlenemedi, sıfırdan başlatılıyor: %v", err)
		return map[models.PaymentMethod]float64{}
	}
	return b
}

func marshalBreakdown(b map[models.PaymentMethod]float64) string {
	data, err := json.Marshal(b)
	if err != nil {
		return "{}"
	}
	return string(data)
}
