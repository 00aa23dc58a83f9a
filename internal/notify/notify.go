// Package notify реализует канал уведомлений с одним активным сообщением.
package notify

import (
	"sync"
	"time"

	"github.com/mmeshcher/shopfront-client/internal/model"
)

// DefaultTTL задаёт время жизни уведомления до автоматического скрытия.
const DefaultTTL = 4 * time.Second

// Channel хранит не более одного активного уведомления. Новое сообщение
// вытесняет предыдущее вместе с его таймером погашения.
type Channel struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *model.Notification
	timer   *time.Timer
	seq     uint64
}

// NewChannel создаёт канал уведомлений с указанным временем жизни сообщения.
func NewChannel(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{ttl: ttl}
}

// Post публикует уведомление, заменяя активное. Таймер погашения
// предыдущего сообщения отменяется: погаснуть может только последнее.
func (c *Channel) Post(message string, severity model.Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}

	c.seq++
	seq := c.seq

	c.current = &model.Notification{
		Message:  message,
		Severity: severity,
		PostedAt: time.Now(),
	}

	c.timer = time.AfterFunc(c.ttl, func() {
		c.expire(seq)
	})
}

// Current возвращает активное уведомление либо nil, если его нет.
func (c *Channel) Current() *model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	n := *c.current
	return &n
}

func (c *Channel) expire(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Сработавший таймер уже вытесненного сообщения ничего не гасит.
	if c.seq != seq {
		return
	}
	c.current = nil
	c.timer = nil
}
