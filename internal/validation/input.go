// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"math"
	"net/mail"
	"strconv"
	"strings"
)

// ErrInvalidAmount возвращается, когда сумма не является неотрицательным десятичным числом.
var ErrInvalidAmount = errors.New("amount must be a non-negative decimal")

// ParseAmount разбирает сумму покупки. Допускается только конечное
// неотрицательное десятичное число.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// IsValidEmail проверяет, что строка имеет форму адреса электронной почты.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
