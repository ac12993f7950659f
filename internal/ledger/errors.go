package ledger

import "errors"

// Tüm doğrulama hataları mutasyon commit edilmeden döner; kısmi uygulama yok.
// Handler katmanı bunları HTTP statü + sabit koda çevirir.
var (
	ErrNoActiveShift      = errors.New("açık vardiya yok")
	ErrShiftAlreadyOpen   = errors.New("zaten açık bir vardiya var")
	ErrOrderNotFound      = errors.New("adisyon bulunamadı")
	ErrOrderClosed        = errors.New("adisyon zaten kapatılmış")
	ErrOrderOpen          = errors.New("adisyon henüz kapatılmamış, düzeltme yapılamaz")
	ErrInvalidQuantity    = errors.New("miktar sıfırın altına düşemez")
	ErrInvalidAmount      = errors.New("tutar negatif olamaz")
	ErrInvalidPayment     = errors.New("geçersiz ödeme yöntemi veya tutarı")
	ErrAmountMismatch     = errors.New("ödeme toplamı adisyon toplamıyla uyuşmuyor")
	ErrTableNotFound      = errors.New("masa bulunamadı")
	ErrTableOccupied      = errors.New("hedef masada açık adisyon var")
	ErrNoOpenOrders       = errors.New("kaynak masada açık adisyon yok")
	ErrDishNotFound       = errors.New("ürün bulunamadı")
	ErrReasonRequired     = errors.New("düzeltme gerekçesi zorunlu")
	ErrSupervisorRequired = errors.New("faturası kesilmiş adisyonda düzeltme için yönetici onayı gerekli")
)
