package cloudsync

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"restoran-pos-backend/internal/config"
	"restoran-pos-backend/internal/ledger"
	"restoran-pos-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaveStatus - UI'ın gösterdiği kayıt durumu. Sync hataları iş akışını asla
// bozmaz; sadece bu durumu düşürür ve veri kuyrukta bekler.
type SaveStatus string

const (
	StatusIdle   SaveStatus = "IDLE"
	StatusSaving SaveStatus = "SAVING"
	StatusError  SaveStatus = "ERROR"
)

const maxBackoff = 5 * time.Minute

// Coordinator - commit edilmiş lokal mutasyonları kuyruğa yazar ve arka
// planda uzak sunucuya replike eder. Tek goroutine çalışır; kuyruk katı FIFO
// boşaltılır, böylece aynı entity'nin mutasyonları uzak tarafa her zaman
// commit sırasıyla ulaşır.
type Coordinator struct {
	db         *gorm.DB
	led        *ledger.Ledger
	client     *Client // nil ise offline-only mod
	terminalID string
	interval   time.Duration
	maxRetries int

	wake chan struct{}

	mu         sync.Mutex
	status     SaveStatus
	lastError  string
	lastSyncAt *time.Time
	lastPullAt time.Time
}

func NewCoordinator(db *gorm.DB, led *ledger.Ledger, cfg *config.Config) *Coordinator {
	c := &Coordinator{
		db:         db,
		led:        led,
		terminalID: cfg.TerminalID,
		interval:   time.Duration(cfg.SyncInterval) * time.Second,
		maxRetries: cfg.SyncMaxRetries,
		wake:       make(chan struct{}, 1),
		status:     StatusIdle,
		lastPullAt: time.Now(),
	}
	if cfg.RemoteSyncURL != "" {
		c.client = NewClient(cfg.RemoteSyncURL, cfg.RemoteSyncToken,
			time.Duration(cfg.SyncTimeout)*time.Second)
	}

	// Ledger'ın commit ettiği her mutasyon kuyruğa girer. Callback commit
	// sonrası çağrılır ve sadece kuyruk tablosuna yazar, ağa dokunmaz: lokal
	// commit yolu hiçbir zaman ağ I/O'su beklemez.
	led.Observe(c.enqueue)

	return c
}

func (c *Coordinator) enqueue(ev ledger.CommitEvent) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		log.Printf("[ERROR] Sync payload'u hazırlanamadı (%s #%d): %v", ev.EntityType, ev.EntityID, err)
		return
	}

	entry := models.SyncQueueEntry{
		EntryKey:   uuid.NewString(),
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Revision:   ev.Revision,
		Payload:    string(payload),
		Status:     models.SyncStatusPending,
	}
	if err := c.db.Create(&entry).Error; err != nil {
		log.Printf("[ERROR] Sync kuyruğuna yazılamadı (%s #%d): %v", ev.EntityType, ev.EntityID, err)
		return
	}

	// Drain döngüsünü uyandır
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Start - arka plan döngüsü. Önce önceki oturumdan kalan PENDING/FAILED
// kayıtları yeniden kuyruğa alır (çökme/elektrik kesintisi kurtarması), sonra
// aralıklarla ve her yeni commit'te kuyruğu boşaltır.
func (c *Coordinator) Start(ctx context.Context) {
	c.recoverPrevSession()

	if c.client == nil {
		log.Println("Sync koordinatörü offline-only modda: kuyruk birikecek, push yapılmayacak.")
		return
	}

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		// Açılışta bekleyenleri hemen dene
		c.drain()
		c.pull()

		for {
			select {
			case <-ctx.Done():
				log.Println("Sync koordinatörü durduruluyor.")
				return
			case <-c.wake:
				c.drain()
			case <-ticker.C:
				c.drain()
				c.pull()
			}
		}
	}()
}

// recoverPrevSession - önceki oturumda FAILED kalmış kayıtları yeni
// bağlantı penceresi için tekrar PENDING yapar. PENDING kalanlar zaten
// sırada; kuyruk FIFO olduğu için aynı entity'ye dokunan yeni mutasyonlar
// eskilerin arkasına dizilir, sessiz veri kaybı olmaz.
func (c *Coordinator) recoverPrevSession() {
	res := c.db.Model(&models.SyncQueueEntry{}).
		Where("status = ?", models.SyncStatusFailed).
		Updates(map[string]any{"status": models.SyncStatusPending, "attempts": 0, "next_attempt_at": nil})
	if res.Error != nil {
		log.Printf("[ERROR] Önceki oturumun sync kayıtları kurtarılamadı: %v", res.Error)
		return
	}

	var pending int64
	c.db.Model(&models.SyncQueueEntry{}).
		Where("status = ?", models.SyncStatusPending).Count(&pending)
	if pending > 0 {
		log.Printf("Önceki oturumdan %d sync kaydı bekliyor (%d kurtarıldı), önce bunlar gönderilecek.", pending, res.RowsAffected)
	}
}

// drain - kuyruğu id sırasıyla boşaltır. Başarısız olan baştaki kayıt sırayı
// bloklar (entity başına FIFO bozulmasın); backoff süresi dolunca tekrar
// denenir, deneme hakkı bitince FAILED işaretlenir ve durum ERROR'a düşer.
func (c *Coordinator) drain() {
	if c.client == nil {
		return
	}

	for {
		var entry models.SyncQueueEntry
		err := c.db.Where("status = ?", models.SyncStatusPending).
			Order("id ASC").First(&entry).Error
		if err == gorm.ErrRecordNotFound {
			c.setIdleIfClean()
			return
		}
		if err != nil {
			log.Printf("[ERROR] Sync kuyruğu okunamadı: %v", err)
			return
		}

		if entry.NextAttemptAt != nil && entry.NextAttemptAt.After(time.Now()) {
			// Backoff süresi dolmadı; baştaki kaydı atlamıyoruz
			return
		}

		c.setStatus(StatusSaving, "")

		conflict, pushErr := c.client.PushEntry(c.terminalID, &entry)
		switch {
		case pushErr != nil:
			c.handlePushFailure(&entry, pushErr)
			return // baş kayıt çözülene kadar sıra bekler

		case conflict != nil:
			c.resolveConflict(&entry, conflict)

		default:
			c.markSynced(&entry)
		}
	}
}

func (c *Coordinator) handlePushFailure(entry *models.SyncQueueEntry, pushErr error) {
	entry.Attempts++
	entry.LastError = pushErr.Error()

	if entry.Attempts >= c.maxRetries {
		entry.Status = models.SyncStatusFailed
		entry.NextAttemptAt = nil
		log.Printf("[ERROR] Sync kaydı %s deneme hakkını doldurdu (%s #%d): %v",
			entry.EntryKey, entry.EntityType, entry.EntityID, pushErr)
	} else {
		// Üstel backoff: her denemede bekleme ikiye katlanır
		delay := c.interval << (entry.Attempts - 1)
		if delay > maxBackoff {
			delay = maxBackoff
		}
		next := time.Now().Add(delay)
		entry.NextAttemptAt = &next
		log.Printf("[WARN] Sync push başarısız (%s #%d, deneme %d/%d), %s sonra tekrar: %v",
			entry.EntityType, entry.EntityID, entry.Attempts, c.maxRetries, delay, pushErr)
	}

	if err := c.db.Save(entry).Error; err != nil {
		log.Printf("[ERROR] Sync kaydı güncellenemedi: %v", err)
	}
	c.setStatus(StatusError, pushErr.Error())
}

// resolveConflict - 409: uzak tarafta aynı entity'nin farklı bir hali var.
// Uzak revizyon yeniyse uzak hal ledger üzerinden lokale yazılır ve bu kayıt
// geçersiz kaldığı için SYNCED sayılır; lokal yeniyse kayıt tekrar denenmek
// üzere PENDING kalır (last-writer-wins, entity bütün olarak).
func (c *Coordinator) resolveConflict(entry *models.SyncQueueEntry, conflict *Conflict) {
	if conflict.Revision > entry.Revision {
		applied, err := c.led.ApplyRemote(entry.EntityType, conflict.Revision, conflict.Payload)
		if err != nil {
			log.Printf("[ERROR] Uzak hal uygulanamadı (%s #%d): %v", entry.EntityType, entry.EntityID, err)
			c.handlePushFailure(entry, err)
			return
		}
		if applied {
			log.Printf("Çakışma: uzak hal kazandı (%s #%d rev %d)", entry.EntityType, entry.EntityID, conflict.Revision)
		}
		c.markSynced(entry)
		return
	}

	// Lokal kazanır: güncel revizyonla tekrar push edilecek
	var fresh models.SyncQueueEntry
	err := c.db.Where("entity_type = ? AND entity_id = ? AND status = ? AND id > ?",
		entry.EntityType, entry.EntityID, models.SyncStatusPending, entry.ID).
		Order("id ASC").First(&fresh).Error
	if err == nil {
		// Kuyrukta daha yeni bir hal zaten sırada, bu kayıt onun tarafından
		// kapsandı
		c.markSynced(entry)
		return
	}

	entry.Attempts++
	entry.LastError = "revizyon çakışması, lokal hal yeniden gönderilecek"
	// Bir sonraki tura ertele; aksi halde drain aynı kaydı anında tekrar dener
	next := time.Now().Add(c.interval)
	entry.NextAttemptAt = &next
	if err := c.db.Save(entry).Error; err != nil {
		log.Printf("[ERROR] Sync kaydı güncellenemedi: %v", err)
	}
	log.Printf("Çakışma: lokal hal kazandı, tekrar gönderilecek (%s #%d)", entry.EntityType, entry.EntityID)
}

func (c *Coordinator) markSynced(entry *models.SyncQueueEntry) {
	entry.Status = models.SyncStatusSynced
	entry.LastError = ""
	entry.NextAttemptAt = nil
	if err := c.db.Save(entry).Error; err != nil {
		log.Printf("[ERROR] Sync kaydı işaretlenemedi: %v", err)
		return
	}

	now := time.Now()
	c.mu.Lock()
	c.lastSyncAt = &now
	c.mu.Unlock()

	// Bağlantı penceresi açıldı: daha önce FAILED düşen kayıtlar tekrar şans
	// bulsun
	c.db.Model(&models.SyncQueueEntry{}).
		Where("status = ?", models.SyncStatusFailed).
		Updates(map[string]any{"status": models.SyncStatusPending, "attempts": 0, "next_attempt_at": nil})
}

// pull - uzak tarafta değişen entity'leri çekip lokale uygular (revizyon
// yeniyse). Diğer terminallerin kapattığı adisyonlar böyle gelir.
func (c *Coordinator) pull() {
	if c.client == nil {
		return
	}

	since := c.lastPullAt
	changes, err := c.client.PullChanges(c.terminalID, since)
	if err != nil {
		log.Printf("[WARN] Pull başarısız: %v", err)
		return
	}
	c.lastPullAt = time.Now()

	for _, ch := range changes {
		applied, err := c.led.ApplyRemote(ch.EntityType, ch.Revision, ch.Payload)
		if err != nil {
			log.Printf("[ERROR] Uzak değişiklik uygulanamadı (%s #%d): %v", ch.EntityType, ch.EntityID, err)
			continue
		}
		if applied {
			log.Printf("Uzak değişiklik uygulandı: %s #%d rev %d", ch.EntityType, ch.EntityID, ch.Revision)
		}
	}
}

func (c *Coordinator) setStatus(s SaveStatus, errMsg string) {
	c.mu.Lock()
	c.status = s
	c.lastError = errMsg
	c.mu.Unlock()
}

func (c *Coordinator) setIdleIfClean() {
	var failed int64
	c.db.Model(&models.SyncQueueEntry{}).
		Where("status = ?", models.SyncStatusFailed).Count(&failed)

	c.mu.Lock()
	if failed == 0 {
		c.status = StatusIdle
		c.lastError = ""
	} else {
		c.status = StatusError
	}
	c.mu.Unlock()
}

// StatusReport - GET /api/sync/status cevabı
type StatusReport struct {
	Status     SaveStatus `json:"status"`
	Pending    int64      `json:"pending"`
	Failed     int64      `json:"failed"`
	LastError  string     `json:"last_error,omitempty"`
	LastSyncAt *time.Time `json:"last_sync_at"`
	Online     bool       `json:"online"` // remote endpoint tanımlı mı
}

func (c *Coordinator) Status() StatusReport {
	var pending, failed int64
	c.db.Model(&models.SyncQueueEntry{}).Where("status = ?", models.SyncStatusPending).Count(&pending)
	c.db.Model(&models.SyncQueueEntry{}).Where("status = ?", models.SyncStatusFailed).Count(&failed)

	c.mu.Lock()
	defer c.mu.Unlock()
	return StatusReport{
		Status:     c.status,
		Pending:    pending,
		Failed:     failed,
		LastError:  c.lastError,
		LastSyncAt: c.lastSyncAt,
		Online:     c.client != nil,
	}
}

// TriggerSync - bağlantı geri geldiğinde UI'dan elle tetikleme imkânı
func (c *Coordinator) TriggerSync() {
	c.db.Model(&models.SyncQueueEntry{}).
		Where("status = ?", models.SyncStatusFailed).
		Updates(map[string]any{"status": models.SyncStatusPending, "attempts": 0, "next_attempt_at": nil})
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
