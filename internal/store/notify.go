package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// ToastKind is the severity of a notification.
type ToastKind string

const (
	ToastError   ToastKind = "error"
	ToastSuccess ToastKind = "success"
)

// Toast is a transient operator notification.
type Toast struct {
	Kind    ToastKind `json:"type"`
	Message string    `json:"message"`
}

// Notifier receives toasts raised by stores.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, t Toast)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, t Toast) { f(ctx, t) }

// NopNotifier discards toasts.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(context.Context, Toast) {}

// Toasts collects the toasts raised while serving one request.
type Toasts struct {
	mu    sync.Mutex
	items []Toast
}

// Add appends t.
func (b *Toasts) Add(t Toast) {
	if b == nil || strings.TrimSpace(t.Message) == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, t)
}

// Drain returns the collected toasts and empties the buffer.
func (b *Toasts) Drain() []Toast {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}

type toastsKey struct{}

// WithToasts returns a child context carrying a fresh toast buffer.
func WithToasts(ctx context.Context) (context.Context, *Toasts) {
	buf := &Toasts{}
	return context.WithValue(ctx, toastsKey{}, buf), buf
}

// ToastsFromContext returns the toast buffer carried by ctx, or nil.
func ToastsFromContext(ctx context.Context) *Toasts {
	buf, _ := ctx.Value(toastsKey{}).(*Toasts)
	return buf
}

// ContextNotifier delivers toasts to the buffer carried by the request context.
// Toasts raised outside a request are logged.
type ContextNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (n ContextNotifier) Notify(ctx context.Context, t Toast) {
	if buf := ToastsFromContext(ctx); buf != nil {
		buf.Add(t)
		return
	}
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "toast", slog.String("kind", string(t.Kind)), slog.String("message", t.Message))
}
