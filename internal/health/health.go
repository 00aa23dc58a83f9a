// Package health реализует фоновый опрос состояния сервисов шлюза.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/shopfront-client/internal/model"
)

// DefaultInterval задаёт период опроса состояния сервисов.
const DefaultInterval = 30 * time.Second

// StatusDegraded и StatusUnreachable — синтезируемые клиентом статусы
// для случая, когда отчёт со шлюза получить не удалось.
const (
	StatusDegraded    = "degraded"
	StatusUnreachable = "unreachable"
)

// Сервисы за шлюзом, известные до первого успешного опроса.
var defaultServices = []string{"users", "orders", "billing"}

// Gateway описывает операцию шлюза, используемую монитором.
type Gateway interface {
	CheckHealth(ctx context.Context) (*model.HealthReport, error)
}

// Monitor опрашивает шлюз по таймеру независимо от состояния сессии
// и хранит последний отчёт. Отчёт заменяется только целиком.
type Monitor struct {
	gateway  Gateway
	logger   *zap.Logger
	interval time.Duration

	mu     sync.RWMutex
	report model.HealthReport
}

// NewMonitor создаёт монитор состояния с указанным периодом опроса.
func NewMonitor(gw Gateway, logger *zap.Logger, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		gateway:  gw,
		logger:   logger,
		interval: interval,
	}
}

// Run опрашивает шлюз сразу при запуске и далее по таймеру до отмены
// контекста. Неудачный опрос не останавливает и не сдвигает таймер.
func (m *Monitor) Run(ctx context.Context) {
	m.poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// Snapshot возвращает копию последнего отчёта о состоянии.
func (m *Monitor) Snapshot() model.HealthReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.report
	out.Services = make(map[string]string, len(m.report.Services))
	for name, status := range m.report.Services {
		out.Services[name] = status
	}
	return out
}

func (m *Monitor) poll(ctx context.Context) {
	report, err := m.gateway.CheckHealth(ctx)
	if err != nil {
		m.logger.Error("health check error", zap.Error(err))
		m.applyUnreachable()
		return
	}

	m.mu.Lock()
	m.report = *report
	m.mu.Unlock()
}

// applyUnreachable синтезирует отчёт о деградации вместо того, чтобы
// оставить устаревшие данные без признака ошибки. Имена сервисов берутся
// из последнего успешного отчёта, до него — из известного набора шлюза.
func (m *Monitor) applyUnreachable() {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.report.Services))
	for name := range m.report.Services {
		names = append(names, name)
	}
	if len(names) == 0 {
		names = defaultServices
	}

	services := make(map[string]string, len(names))
	for _, name := range names {
		services[name] = StatusUnreachable
	}

	m.report = model.HealthReport{
		Status:    StatusDegraded,
		Services:  services,
		Reachable: false,
		CheckedAt: time.Now(),
	}
}
