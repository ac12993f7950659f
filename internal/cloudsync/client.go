package cloudsync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"restoran-pos-backend/internal/models"
)

// Client - uzak kalıcılık sunucusuna push/pull yapan ince HTTP istemcisi.
// Protokol basit JSON: her entity id + revizyon ile anahtarlanır, sunucu
// revizyon karşılaştırması yapabildiği sürece herhangi bir backend olabilir.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type pushRequest struct {
	EntryKey   string          `json:"entry_key"`
	TerminalID string          `json:"terminal_id"`
	EntityType string          `json:"entity_type"`
	EntityID   uint            `json:"entity_id"`
	Revision   uint            `json:"revision"`
	Payload    json.RawMessage `json:"payload"`
}

// Conflict - sunucunun 409 cevabı: uzak taraftaki güncel revizyon ve hali
type Conflict struct {
	Revision uint            `json:"revision"`
	Payload  json.RawMessage `json:"payload"`
}

// PushEntry - kuyruk kaydını uzak sunucuya gönderir. Dönüşler:
// (nil, nil) kabul edildi; (conflict, nil) revizyon çakışması; (nil, err) ağ
// ya da sunucu hatası, kayıt kuyrukta kalır.
func (c *Client) PushEntry(terminalID string, e *models.SyncQueueEntry) (*Conflict, error) {
	body, err := json.Marshal(pushRequest{
		EntryKey:   e.EntryKey,
		TerminalID: terminalID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Revision:   e.Revision,
		Payload:    json.RawMessage(e.Payload),
	})
	if err != nil {
		return nil, fmt.Errorf("push isteği hazırlanamadı: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/entities", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTTP isteği oluşturulamadı: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push isteği başarısız: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil, nil
	case http.StatusConflict:
		var conflict Conflict
		if err := json.NewDecoder(resp.Body).Decode(&conflict); err != nil {
			return nil, fmt.Errorf("çakışma cevabı çözümlenemedi: %w", err)
		}
		return &conflict, nil
	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sunucu hatası: %d %s", resp.StatusCode, string(data))
	}
}

// RemoteChange - pull cevabındaki tek entity değişikliği
type RemoteChange struct {
	EntityType string          `json:"entity_type"`
	EntityID   uint            `json:"entity_id"`
	Revision   uint            `json:"revision"`
	Payload    json.RawMessage `json:"payload"`
}

// PullChanges - verilen zamandan beri uzak tarafta değişen entity'leri çeker.
func (c *Client) PullChanges(terminalID string, since time.Time) ([]RemoteChange, error) {
	q := url.Values{}
	q.Set("terminal_id", terminalID)
	q.Set("since", since.UTC().Format(time.RFC3339))

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/entities/changes?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP isteği oluşturulamadı: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull isteği başarısız: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sunucu hatası: %d", resp.StatusCode)
	}

	var changes []RemoteChange
	if err := json.NewDecoder(resp.Body).Decode(&changes); err != nil {
		return nil, fmt.Errorf("pull cevabı çözümlenemedi: %w", err)
	}
	return changes, nil
}
