package domain

import (
	"fmt"
	"time"
)

type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	Price       float64   `json:"precio"`
	ImageRef    string    `json:"imagen"` // server-relative path, e.g. /uploads/mesa.jpg
	CreatedAt   time.Time `json:"createdAt"`
}

// FormattedPrice renders the price the way the console lists it: "$199.99".
func (p Product) FormattedPrice() string {
	return FormatPrice(p.Price)
}

func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// Excerpt returns at most n runes of the description followed by "...".
func (p Product) Excerpt(n int) string {
	r := []rune(p.Description)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

// Draft is the unpersisted edit buffer behind the product form.
// Name, Description and Price stay raw strings until submit.
type Draft struct {
	Name        string
	Description string
	Price       string
	Image       *Image

	// edit mode only
	ProductID string
	ImageRef  string
}

type Field string

const (
	FieldName        Field = "nombre"
	FieldDescription Field = "descripcion"
	FieldPrice       Field = "precio"
	FieldImage       Field = "imagen"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}
