package refcode

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	// Length длина кода записи
	Length = 8

	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrInvalidCode возвращается для кода неверного формата
var ErrInvalidCode = errors.New("invalid reference code")

// Generate возвращает случайный код из 8 символов A-Z0-9
func Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(Length)

	max := big.NewInt(int64(len(charset)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(charset[n.Int64()])
	}

	return sb.String(), nil
}

// Normalize приводит код к каноничному виду для регистронезависимого поиска
func Normalize(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != Length {
		return "", ErrInvalidCode
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(charset, code[i]) < 0 {
			return "", ErrInvalidCode
		}
	}
	return code, nil
}
