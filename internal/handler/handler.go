// Package handler содержит HTTP-обработчики локального API клиента shopfront.
// Это тонкий слой представления: всё поведение принадлежит компонентам ядра.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/shopfront-client/internal/gateway"
	"github.com/mmeshcher/shopfront-client/internal/model"
	"github.com/mmeshcher/shopfront-client/internal/purchase"
	"github.com/mmeshcher/shopfront-client/internal/session"
)

// Session определяет контракт менеджера сессии, используемый обработчиками.
type Session interface {
	Register(ctx context.Context, name, email string) error
	Login(ctx context.Context, email string) error
	Logout()
	Current() *model.User
}

// Purchases определяет контракт сценария покупки.
type Purchases interface {
	Submit(ctx context.Context, productName, amountText, paymentMethod string) error
}

// Orders определяет контракт синхронизатора заказов.
type Orders interface {
	Refresh(ctx context.Context, userID int64)
	Snapshot() []model.Order
	Total() int
}

// Health определяет контракт монитора состояния сервисов.
type Health interface {
	Snapshot() model.HealthReport
}

// Notifications определяет контракт канала уведомлений.
type Notifications interface {
	Current() *model.Notification
}

// Handler реализует HTTP-обработчики локального API.
type Handler struct {
	session       Session
	purchases     Purchases
	orders        Orders
	health        Health
	notifications Notifications
	logger        *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика локального API.
func NewHandler(sess Session, purchases Purchases, orders Orders, health Health, notifications Notifications, logger *zap.Logger) *Handler {
	return &Handler{
		session:       sess,
		purchases:     purchases,
		orders:        orders,
		health:        health,
		notifications: notifications,
		logger:        logger,
	}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.session.Register(r.Context(), req.Name, req.Email); err != nil {
		h.writeActionError(w, err)
		return
	}

	h.writeUser(w, h.session.Current())
}

type loginRequest struct {
	Email string `json:"email"`
}

// Login выполняет вход пользователя по адресу электронной почты.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Email == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.session.Login(r.Context(), req.Email); err != nil {
		h.writeActionError(w, err)
		return
	}

	h.writeUser(w, h.session.Current())
}

// Logout завершает текущую сессию.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	w.WriteHeader(http.StatusOK)
}

// GetSession возвращает текущего пользователя сессии.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	user := h.session.Current()
	if user == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeUser(w, user)
}

type purchaseRequest struct {
	ProductName   string `json:"product_name"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

// Purchase отправляет покупку от имени текущего пользователя.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.ProductName == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "credit_card"
	}

	if err := h.purchases.Submit(r.Context(), req.ProductName, req.Amount, req.PaymentMethod); err != nil {
		h.writeActionError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type orderResponse struct {
	OrderID     int64   `json:"order_id"`
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

type ordersResponse struct {
	Orders      []orderResponse `json:"orders"`
	TotalOrders int             `json:"total_orders"`
}

// GetOrders возвращает снимок заказов текущего пользователя.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	if h.session.Current() == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	snapshot := h.orders.Snapshot()
	if len(snapshot) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := ordersResponse{
		Orders:      make([]orderResponse, 0, len(snapshot)),
		TotalOrders: h.orders.Total(),
	}
	for _, o := range snapshot {
		resp.Orders = append(resp.Orders, orderResponse{
			OrderID:     o.OrderID,
			ProductName: o.ProductName,
			Amount:      o.Amount,
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(w, resp)
}

// RefreshOrders запускает перечитывание заказов текущего пользователя.
func (h *Handler) RefreshOrders(w http.ResponseWriter, r *http.Request) {
	user := h.session.Current()
	if user == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.orders.Refresh(r.Context(), user.UserID)
	w.WriteHeader(http.StatusOK)
}

type healthResponse struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Reachable bool              `json:"reachable"`
	CheckedAt string            `json:"checked_at"`
}

// GetHealth возвращает последний отчёт о состоянии сервисов шлюза.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := h.health.Snapshot()

	h.writeJSON(w, healthResponse{
		Status:    report.Status,
		Services:  report.Services,
		Reachable: report.Reachable,
		CheckedAt: report.CheckedAt.Format(time.RFC3339),
	})
}

// GetNotification возвращает активное уведомление, если оно есть.
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	n := h.notifications.Current()
	if n == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, n)
}

func (h *Handler) writeUser(w http.ResponseWriter, user *model.User) {
	if user == nil {
		// Успешный вход с уже завершившейся сессией: устаревший ответ
		// был отброшен менеджером.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, user)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, purchase.ErrNotAuthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, purchase.ErrInvalidAmount), errors.Is(err, session.ErrInvalidEmail):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) {
			http.Error(w, gwErr.Message, http.StatusBadGateway)
			return
		}
		h.logger.Error("unexpected action error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
