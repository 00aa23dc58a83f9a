// Package purchase реализует сценарий оформления покупки.
package purchase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/shopfront-client/internal/gateway"
	"github.com/mmeshcher/shopfront-client/internal/model"
	"github.com/mmeshcher/shopfront-client/internal/validation"
)

// ErrNotAuthenticated возвращается при попытке покупки без сессии.
var ErrNotAuthenticated = errors.New("purchase requires an authenticated session")

// ErrInvalidAmount возвращается при локально отклонённой сумме.
var ErrInvalidAmount = errors.New("invalid purchase amount")

// Session описывает доступ к текущему пользователю сессии.
type Session interface {
	Current() *model.User
}

// Gateway описывает операцию шлюза, используемую сценарием покупки.
type Gateway interface {
	SubmitPurchase(ctx context.Context, userID int64, amount float64, productName, paymentMethod string) (*model.PurchaseResult, error)
}

// OrderSync описывает синхронизатор заказов, запускаемый после оплаты.
type OrderSync interface {
	Refresh(ctx context.Context, userID int64)
}

// Notifier описывает канал уведомлений об исходах покупки.
type Notifier interface {
	Post(message string, severity model.Severity)
}

// Workflow последовательно проводит покупку: локальные проверки, отправка
// на шлюз, разбор исхода оплаты.
type Workflow struct {
	session  Session
	gateway  Gateway
	orders   OrderSync
	notifier Notifier
	logger   *zap.Logger
}

// NewWorkflow создаёт сценарий покупки.
func NewWorkflow(sess Session, gw Gateway, orders OrderSync, notifier Notifier, logger *zap.Logger) *Workflow {
	return &Workflow{
		session:  sess,
		gateway:  gw,
		orders:   orders,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit проводит одну покупку. Сумма принимается текстом и разбирается
// локально: до шлюза доходят только неотрицательные десятичные значения.
func (w *Workflow) Submit(ctx context.Context, productName, amountText, paymentMethod string) error {
	user := w.session.Current()
	if user == nil {
		w.notifier.Post("You must be logged in to purchase", model.SeverityError)
		return ErrNotAuthenticated
	}

	amount, err := validation.ParseAmount(amountText)
	if err != nil {
		w.notifier.Post("Enter a valid non-negative amount", model.SeverityError)
		return fmt.Errorf("%w: %q", ErrInvalidAmount, amountText)
	}

	res, err := w.gateway.SubmitPurchase(ctx, user.UserID, amount, productName, paymentMethod)
	if err != nil {
		w.logger.Error("submit purchase error", zap.Error(err), zap.Int64("userID", user.UserID))
		w.notifier.Post(failureMessage(err), model.SeverityError)
		return err
	}

	switch res.Status {
	case model.PurchaseStatusPaid:
		w.notifier.Post(
			fmt.Sprintf("Purchase of %s ($%.2f) completed successfully!", productName, amount),
			model.SeveritySuccess,
		)
		// Оплата могла завершиться уже после выхода из сессии,
		// тогда перечитывать чужие заказы не нужно.
		if cur := w.session.Current(); cur != nil && cur.UserID == user.UserID {
			w.orders.Refresh(ctx, user.UserID)
		}
	case model.PurchaseStatusFailed:
		// Неуспешная оплата не меняет историю заказов с точки зрения
		// клиента, список не перечитывается.
		w.notifier.Post("Payment failed: "+res.Transaction.Message, model.SeverityError)
	default:
		w.logger.Error("unexpected purchase status", zap.String("status", string(res.Status)))
		w.notifier.Post("Unexpected purchase outcome", model.SeverityError)
	}

	return nil
}

func failureMessage(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}
