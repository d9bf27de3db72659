package usecase

import (
	"errors"
	"sync"

	"admin_console/internal/domain"
)

const (
	DashboardPath = "/"
	ListPath      = "/productos"
	NewPath       = "/productos/nuevo"
	LoginPath     = "/login"
)

func EditPath(id string) string { return "/productos/editar/" + id }

func DeletePath(id string) string { return "/productos/eliminar/" + id }

var (
	ErrNotReady = errors.New("form is not ready")
)

// Notifier receives transient user-facing messages.
type Notifier interface {
	Notify(n domain.Notification)
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(path string)
}

// Confirmer is a synchronous yes/no gate.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Effects collects notifications and the last navigation request of a
// view-model so that a host can replay them.
type Effects struct {
	mu            sync.Mutex
	notifications []domain.Notification
	redirect      string
}

func (e *Effects) Notify(n domain.Notification) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifications = append(e.notifications, n)
}

func (e *Effects) Navigate(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redirect = path
}

func (e *Effects) Notifications() []domain.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Notification, len(e.notifications))
	copy(out, e.notifications)
	return out
}

// Redirect returns the requested path, or "" when the view stays put.
func (e *Effects) Redirect() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redirect
}
