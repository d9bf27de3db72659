// Package domain holds the console's product model, the repository port and
// the error kinds shared by the client and use-case layers.
package domain

import "context"

// ProductRepository is the only way the console reaches product data.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, draft Draft) (*Product, error)
	Update(ctx context.Context, id string, draft Draft) (*Product, error)
	Remove(ctx context.Context, id string) error

	ImageURL(ref string) string
}

// Credentials is the session gate as seen by components that issue
// mutating calls.
type Credentials interface {
	IsAuthenticated() bool
	BearerToken() string
}

// Anonymous carries no token; mutating calls are still sent and the
// server rejects them.
type Anonymous struct{}

func (Anonymous) IsAuthenticated() bool { return false }
func (Anonymous) BearerToken() string   { return "" }
