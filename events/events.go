// Package events fans a placed order out to everything that reacts to it:
// the admin live feed, the order topic and the buyer's confirmation email.
package events

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fruitika/storefront-api/models"
)

type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}

// NotifierFunc adapts a plain function to OrderNotifier.
type NotifierFunc func(ctx context.Context, order *models.Order) error

func (f NotifierFunc) OrderPlaced(ctx context.Context, order *models.Order) error {
	return f(ctx, order)
}

type target struct {
	name string
	n    OrderNotifier
}

// Fanout calls every registered notifier. One failing sink does not stop
// the others; failures are logged and joined.
type Fanout struct {
	targets []target
	log     *slog.Logger
}

func NewFanout(log *slog.Logger) *Fanout {
	return &Fanout{log: log}
}

func (f *Fanout) Add(name string, n OrderNotifier) *Fanout {
	if n != nil {
		f.targets = append(f.targets, target{name: name, n: n})
	}
	return f
}

func (f *Fanout) OrderPlaced(ctx context.Context, order *models.Order) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.n.OrderPlaced(ctx, order); err != nil {
			f.log.Error("order notification failed", "sink", t.name, "order_id", order.ID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
