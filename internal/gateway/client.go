// Package gateway предоставляет клиент для HTTP-шлюза shopfront.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/shopfront-client/internal/model"
)

// ErrorKind классифицирует неуспешный исход обращения к шлюзу.
type ErrorKind string

const (
	// ErrorKindDomain означает, что шлюз ответил, но отверг операцию.
	ErrorKindDomain ErrorKind = "domain"
	// ErrorKindTransport означает, что ответ от шлюза получить не удалось.
	ErrorKindTransport ErrorKind = "transport"
)

// Error описывает неуспешный исход обращения к шлюзу. Все ошибки клиента
// приводятся к этому типу, за границу пакета ничего другого не выходит.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s error: %s", e.Kind, e.Message)
}

const transportErrMessage = "cannot reach gateway"

// Client инкапсулирует HTTP-взаимодействие со шлюзом shopfront.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к шлюзу по указанному адресу.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type userPayload struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (p userPayload) toModel() *model.User {
	return &model.User{
		UserID: p.UserID,
		Name:   p.Name,
		Email:  p.Email,
	}
}

type authResponse struct {
	Message string      `json:"message"`
	User    userPayload `json:"user"`
}

// Register создаёт нового пользователя на шлюзе.
func (c *Client) Register(ctx context.Context, name, email string) (*model.User, error) {
	body := map[string]string{"name": name, "email": email}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/gateway/register", body, &resp); err != nil {
		return nil, err
	}

	return resp.User.toModel(), nil
}

// Login аутентифицирует пользователя по адресу электронной почты.
func (c *Client) Login(ctx context.Context, email string) (*model.User, error) {
	body := map[string]string{"email": email}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/gateway/login", body, &resp); err != nil {
		return nil, err
	}

	return resp.User.toModel(), nil
}

type transactionPayload struct {
	TransactionID int64   `json:"transaction_id"`
	OrderID       int64   `json:"order_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	ProcessedAt   string  `json:"processed_at"`
	Message       string  `json:"message"`
}

type purchaseResponse struct {
	Message        string             `json:"message"`
	PurchaseStatus string             `json:"purchase_status"`
	Transaction    transactionPayload `json:"transaction"`
}

// SubmitPurchase отправляет покупку на шлюз и возвращает результат оплаты.
// Исход purchase_status=failed не является ошибкой клиента: транспортно
// запрос завершился, решение принимает вызывающая сторона.
func (c *Client) SubmitPurchase(ctx context.Context, userID int64, amount float64, productName, paymentMethod string) (*model.PurchaseResult, error) {
	body := map[string]any{
		"user_id":        userID,
		"amount":         amount,
		"product_name":   productName,
		"payment_method": paymentMethod,
	}

	var resp purchaseResponse
	if err := c.do(ctx, http.MethodPost, "/gateway/purchase", body, &resp); err != nil {
		return nil, err
	}

	return &model.PurchaseResult{
		Status: model.PurchaseStatus(resp.PurchaseStatus),
		Transaction: model.Transaction{
			TransactionID: resp.Transaction.TransactionID,
			OrderID:       resp.Transaction.OrderID,
			Amount:        resp.Transaction.Amount,
			Status:        resp.Transaction.Status,
			PaymentMethod: resp.Transaction.PaymentMethod,
			ProcessedAt:   parseTimestamp(resp.Transaction.ProcessedAt),
			Message:       resp.Transaction.Message,
		},
	}, nil
}

type orderPayload struct {
	OrderID     int64   `json:"order_id"`
	UserID      int64   `json:"user_id"`
	Amount      float64 `json:"amount"`
	ProductName string  `json:"product_name"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

type ordersResponse struct {
	Orders      []orderPayload `json:"orders"`
	TotalOrders int            `json:"total_orders"`
}

// ListOrders возвращает все заказы пользователя и их общее количество.
func (c *Client) ListOrders(ctx context.Context, userID int64) ([]model.Order, int, error) {
	path := fmt.Sprintf("/gateway/user/%d/orders", userID)

	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}

	orders := make([]model.Order, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orders = append(orders, model.Order{
			OrderID:     o.OrderID,
			ProductName: o.ProductName,
			Amount:      o.Amount,
			Status:      model.OrderStatus(o.Status),
			CreatedAt:   parseTimestamp(o.CreatedAt),
		})
	}

	return orders, resp.TotalOrders, nil
}

type healthResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Services map[string]string `json:"services"`
}

// CheckHealth запрашивает агрегированный отчёт о состоянии сервисов шлюза.
func (c *Client) CheckHealth(ctx context.Context) (*model.HealthReport, error) {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}

	return &model.HealthReport{
		Status:    resp.Status,
		Services:  resp.Services,
		Reachable: true,
		CheckedAt: time.Now(),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: ErrorKindTransport, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return &Error{Kind: ErrorKindTransport, Message: fmt.Sprintf("create request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: ErrorKindTransport, Message: transportErrMessage}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)

		msg := detail.Detail
		if msg == "" {
			msg = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		}
		return &Error{Kind: ErrorKindDomain, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: ErrorKindTransport, Message: "malformed gateway response"}
		}
	}

	return nil
}

// Шлюз отдаёт метки времени как datetime.isoformat() без часового пояса,
// но RFC3339 тоже принимается на случай смены сериализации.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
