package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// chainHash - fatura bütünlük hash'i. Bir önceki kapanan faturanın hash'i
// zincire dahil edilir; böylece geçmiş bir fatura sonradan değiştirilirse
// zincirin devamı tutmaz.
func chainHash(closedAt time.Time, invoiceNo string, total float64, prevHash string) string {
	payload := fmt.Sprintf("%s;%s;%.2f;%s",
		closedAt.UTC().Format(time.RFC3339), invoiceNo, total, prevHash)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
