// Package model содержит доменные сущности клиента shopfront.
package model

import "time"

// User представляет аутентифицированного пользователя шлюза.
type User struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// OrderStatus описывает статус обработки заказа на стороне шлюза.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusCompleted     OrderStatus = "completed"
	OrderStatusPaymentFailed OrderStatus = "payment_failed"
)

// Order описывает заказ пользователя. Заказы создаются только на сервере,
// клиент их не изменяет, а лишь перечитывает целиком.
type Order struct {
	OrderID     int64
	ProductName string
	Amount      float64
	Status      OrderStatus
	CreatedAt   time.Time
}

// PurchaseStatus описывает итог оплаты покупки.
type PurchaseStatus string

const (
	PurchaseStatusPaid   PurchaseStatus = "paid"
	PurchaseStatusFailed PurchaseStatus = "failed"
)

// Transaction описывает транзакцию биллинга, сопровождающую покупку.
type Transaction struct {
	TransactionID int64
	OrderID       int64
	Amount        float64
	Status        string
	PaymentMethod string
	ProcessedAt   time.Time
	Message       string
}

// PurchaseResult описывает результат одной отправки покупки.
type PurchaseResult struct {
	Status      PurchaseStatus
	Transaction Transaction
}

// HealthReport содержит агрегированный отчёт о состоянии сервисов шлюза.
// Отчёт всегда заменяется целиком, слияния между опросами нет.
type HealthReport struct {
	Status    string
	Services  map[string]string
	Reachable bool
	CheckedAt time.Time
}

// Severity задаёт уровень уведомления.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification описывает одно активное уведомление для пользователя.
type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	PostedAt time.Time `json:"posted_at"`
}
