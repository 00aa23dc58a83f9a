// Package orders владеет локальным снимком истории заказов пользователя.
package orders

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/shopfront-client/internal/gateway"
	"github.com/mmeshcher/shopfront-client/internal/model"
)

// Gateway описывает операцию шлюза, используемую синхронизатором.
type Gateway interface {
	ListOrders(ctx context.Context, userID int64) ([]model.Order, int, error)
}

// Notifier описывает канал уведомлений об исходах синхронизации.
type Notifier interface {
	Post(message string, severity model.Severity)
}

// Synchronizer перечитывает список заказов со шлюза и хранит последний
// успешный снимок. Снимок заменяется только целиком: неудачное обновление
// оставляет предыдущие данные на месте.
type Synchronizer struct {
	gateway  Gateway
	notifier Notifier
	logger   *zap.Logger

	mu      sync.RWMutex
	orders  []model.Order
	total   int
	fetched bool
}

// NewSynchronizer создаёт синхронизатор заказов.
func NewSynchronizer(gw Gateway, notifier Notifier, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		gateway:  gw,
		notifier: notifier,
		logger:   logger,
	}
}

// Refresh запрашивает заказы пользователя и заменяет снимок при успехе.
// При ошибке публикуется уведомление, прежний снимок сохраняется:
// устаревший список лучше ошибочно пустого.
func (s *Synchronizer) Refresh(ctx context.Context, userID int64) {
	fetched, total, err := s.gateway.ListOrders(ctx, userID)
	if err != nil {
		s.logger.Error("refresh orders error", zap.Error(err), zap.Int64("userID", userID))
		s.notifier.Post("Failed to load orders: "+failureMessage(err), model.SeverityError)
		return
	}

	sorted := make([]model.Order, len(fetched))
	copy(sorted, fetched)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	s.mu.Lock()
	s.orders = sorted
	s.total = total
	s.fetched = true
	s.mu.Unlock()
}

// Snapshot возвращает копию текущего списка заказов, отсортированного от
// новых к старым. Пустой список после успешного обновления означает
// «заказов пока нет».
func (s *Synchronizer) Snapshot() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Total возвращает количество заказов по данным последнего обновления.
func (s *Synchronizer) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Loaded сообщает, выполнялось ли хотя бы одно успешное обновление.
func (s *Synchronizer) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetched
}

// Reset очищает снимок, например после выхода пользователя.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.orders = nil
	s.total = 0
	s.fetched = false
	s.mu.Unlock()
}

func failureMessage(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}
