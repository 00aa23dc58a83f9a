// Package session реализует машину состояний пользовательской сессии.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/shopfront-client/internal/gateway"
	"github.com/mmeshcher/shopfront-client/internal/model"
	"github.com/mmeshcher/shopfront-client/internal/validation"
)

// ErrInvalidEmail возвращается при локально отклонённом адресе почты.
var ErrInvalidEmail = errors.New("invalid email address")

// Gateway описывает операции шлюза, используемые менеджером сессии.
type Gateway interface {
	Register(ctx context.Context, name, email string) (*model.User, error)
	Login(ctx context.Context, email string) (*model.User, error)
}

// Store описывает контракт хранения единственной записи сессии.
type Store interface {
	Load() (*model.User, error)
	Save(u *model.User) error
}

// OrderSync описывает синхронизатор заказов, запускаемый при входе в сессию.
type OrderSync interface {
	Refresh(ctx context.Context, userID int64)
	Reset()
}

// Notifier описывает канал уведомлений об исходах операций.
type Notifier interface {
	Post(message string, severity model.Severity)
}

// Manager владеет текущим пользователем и является единственным писателем
// слота сессии в хранилище. Состояний два: разлогинен (current == nil)
// и залогинен.
type Manager struct {
	gateway  Gateway
	store    Store
	orders   OrderSync
	notifier Notifier
	logger   *zap.Logger

	mu      sync.Mutex
	current *model.User
	// epoch растёт при каждом выходе из сессии. Ответ register/login,
	// пришедший после выхода, несёт устаревшую эпоху и отбрасывается.
	epoch uint64
}

// NewManager создаёт менеджер сессии.
func NewManager(gw Gateway, store Store, orders OrderSync, notifier Notifier, logger *zap.Logger) *Manager {
	return &Manager{
		gateway:  gw,
		store:    store,
		orders:   orders,
		notifier: notifier,
		logger:   logger,
	}
}

// Restore восстанавливает сессию из хранилища при старте процесса.
// Найденный пользователь входит в сессию без обращения к шлюзу,
// после чего запускается первоначальная загрузка заказов.
func (m *Manager) Restore(ctx context.Context) {
	u, err := m.store.Load()
	if err != nil {
		m.logger.Error("restore session error", zap.Error(err))
		return
	}
	if u == nil {
		return
	}

	m.mu.Lock()
	m.current = u
	m.mu.Unlock()

	m.logger.Info("session restored", zap.Int64("userID", u.UserID))
	m.orders.Refresh(ctx, u.UserID)
}

// Register регистрирует нового пользователя и при успехе входит в сессию.
func (m *Manager) Register(ctx context.Context, name, email string) error {
	if !validation.IsValidEmail(email) {
		m.notifier.Post("Enter a valid email address", model.SeverityError)
		return ErrInvalidEmail
	}

	epoch := m.currentEpoch()

	u, err := m.gateway.Register(ctx, name, email)
	if err != nil {
		m.notifier.Post(failureMessage(err), model.SeverityError)
		return err
	}

	if !m.enter(u, epoch) {
		m.logger.Info("discarding stale register response", zap.Int64("userID", u.UserID))
		return nil
	}

	m.notifier.Post(fmt.Sprintf("User %s registered successfully!", u.Name), model.SeveritySuccess)
	m.orders.Refresh(ctx, u.UserID)
	return nil
}

// Login аутентифицирует пользователя и при успехе входит в сессию.
func (m *Manager) Login(ctx context.Context, email string) error {
	if !validation.IsValidEmail(email) {
		m.notifier.Post("Enter a valid email address", model.SeverityError)
		return ErrInvalidEmail
	}

	epoch := m.currentEpoch()

	u, err := m.gateway.Login(ctx, email)
	if err != nil {
		m.notifier.Post(failureMessage(err), model.SeverityError)
		return err
	}

	if !m.enter(u, epoch) {
		m.logger.Info("discarding stale login response", zap.Int64("userID", u.UserID))
		return nil
	}

	m.notifier.Post(fmt.Sprintf("Welcome back, %s!", u.Name), model.SeveritySuccess)
	m.orders.Refresh(ctx, u.UserID)
	return nil
}

// Logout завершает сессию и очищает слот в хранилище. Повторный вызов
// в разлогиненном состоянии ничего не делает.
func (m *Manager) Logout() {
	m.mu.Lock()

	if m.current == nil {
		m.mu.Unlock()
		return
	}

	userID := m.current.UserID
	m.current = nil
	m.epoch++

	if err := m.store.Save(nil); err != nil {
		m.logger.Error("clear session error", zap.Error(err))
	}
	m.mu.Unlock()

	m.orders.Reset()
	m.logger.Info("logged out", zap.Int64("userID", userID))
	m.notifier.Post("Logged out successfully", model.SeverityInfo)
}

// Current возвращает копию текущего пользователя либо nil.
func (m *Manager) Current() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// enter применяет пользователя к сессии, если за время сетевого вызова
// не случился выход. Возвращает false для устаревшего ответа.
func (m *Manager) enter(u *model.User, epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		return false
	}

	m.current = u
	if err := m.store.Save(u); err != nil {
		m.logger.Error("persist session error", zap.Error(err), zap.Int64("userID", u.UserID))
	}
	return true
}

func failureMessage(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}
