package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinAmount       = 0.0
	MaxAmount       = 1_000_000_000.0
	MaxNotesLength  = 2000
	WalletHexLength = 64
	MaxProofLength  = 128
)

// ValidateAmount проверяет денежную сумму.
func ValidateAmount(fieldName string, amount float64) error {
	if amount <= MinAmount {
		return fmt.Errorf("%s должна быть больше нуля", fieldName)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s превышает допустимый максимум", fieldName)
	}
	return nil
}

// ValidateWalletAddress проверяет формат адреса кошелька: 0x и 64 hex-символа.
func ValidateWalletAddress(address string) error {
	if address == "" {
		return fmt.Errorf("адрес кошелька обязателен")
	}
	if !strings.HasPrefix(address, "0x") {
		return fmt.Errorf("адрес кошелька должен начинаться с 0x")
	}
	hexPart := address[2:]
	if len(hexPart) != WalletHexLength {
		return fmt.Errorf("адрес кошелька должен содержать %d hex-символов после 0x", WalletHexLength)
	}
	for _, r := range hexPart {
		if !isHexDigit(r) {
			return fmt.Errorf("адрес кошелька содержит недопустимый символ %q", r)
		}
	}
	return nil
}

// ValidateTxDigest проверяет ссылку на транзакцию сети.
func ValidateTxDigest(digest string) error {
	digest = strings.TrimSpace(digest)
	if digest == "" {
		return fmt.Errorf("digest транзакции обязателен")
	}
	if len(digest) > MaxProofLength {
		return fmt.Errorf("digest транзакции должен быть не более %d символов", MaxProofLength)
	}
	for _, r := range digest {
		if r <= ' ' || r > 0x7e {
			return fmt.Errorf("digest транзакции содержит недопустимый символ")
		}
	}
	return nil
}

// ValidateNotes проверяет комментарий оператора.
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return fmt.Errorf("комментарий должен быть не более %d символов", MaxNotesLength)
	}
	return nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
