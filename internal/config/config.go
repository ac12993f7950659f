package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// POS terminali kimliği (fatura sayacı ve sync için)
	TerminalID    string
	InvoiceSeries string
	TaxRate       float64 // yüzde olarak, örn: 14

	// Uzak sunucu senkronizasyonu
	RemoteSyncURL   string // boşsa sync kapalı (offline-only mod)
	RemoteSyncToken string
	SyncInterval    int // saniye
	SyncTimeout     int // saniye, tek push/pull denemesi için
	SyncMaxRetries  int
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=restoran_pos port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		TerminalID:    getEnv("TERMINAL_ID", "kasa-1"),
		InvoiceSeries: getEnv("INVOICE_SERIES", "A"),
		TaxRate:       getEnvFloat("TAX_RATE", 14),

		RemoteSyncURL:   getEnv("REMOTE_SYNC_URL", ""),
		RemoteSyncToken: getEnv("REMOTE_SYNC_TOKEN", ""),
		SyncInterval:    getEnvInt("SYNC_INTERVAL_SECONDS", 15),
		SyncTimeout:     getEnvInt("SYNC_TIMEOUT_SECONDS", 10),
		SyncMaxRetries:  getEnvInt("SYNC_MAX_RETRIES", 5),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.TaxRate < 0 || cfg.TaxRate > 100 {
		log.Fatal("[FATAL] TAX_RATE 0-100 aralığında olmalı.")
	}
	if cfg.RemoteSyncURL == "" {
		log.Println("[WARN] REMOTE_SYNC_URL tanımlı değil, terminal offline-only modda çalışacak. Kayıtlar sync kuyruğunda bekletilir.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s sayı olarak okunamadı, varsayılan %d kullanılıyor", key, def)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[WARN] %s sayı olarak okunamadı, varsayılan %v kullanılıyor", key, def)
	}
	return def
}
