package usecase

import (
	"context"
	"sync"
	"time"

	"admin_console/internal/domain"
)

// fakeRepo is an in-memory ProductRepository. When gate is set, every call
// signals entered and then waits for gate to be closed.
type fakeRepo struct {
	mu       sync.Mutex
	products []domain.Product
	calls    map[string]int
	created  []domain.Draft
	updated  []domain.Draft

	listErr   error
	getErr    error
	createErr error
	updateErr error
	removeErr error

	gate    chan struct{}
	entered chan struct{}
}

func newFakeRepo(products ...domain.Product) *fakeRepo {
	return &fakeRepo{products: products, calls: map[string]int{}}
}

func (r *fakeRepo) block() {
	r.gate = make(chan struct{})
	r.entered = make(chan struct{}, 8)
}

func (r *fakeRepo) enter(ctx context.Context, op string) {
	r.mu.Lock()
	r.calls[op]++
	gate, entered := r.gate, r.entered
	r.mu.Unlock()
	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}
}

func (r *fakeRepo) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *fakeRepo) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

func (r *fakeRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.enter(ctx, "list")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Product(nil), r.products...), nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	r.enter(ctx, "get")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, p := range r.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) Create(ctx context.Context, d domain.Draft) (*domain.Product, error) {
	r.enter(ctx, "create")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, d)
	if r.createErr != nil {
		return nil, r.createErr
	}
	p := domain.Product{ID: "new", Name: d.Name, Description: d.Description, ImageRef: "/uploads/" + d.Image.FileName, CreatedAt: time.Now()}
	r.products = append([]domain.Product{p}, r.products...)
	return &p, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, d domain.Draft) (*domain.Product, error) {
	r.enter(ctx, "update")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, d)
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return &domain.Product{ID: id, Name: d.Name, Description: d.Description}, nil
}

func (r *fakeRepo) Remove(ctx context.Context, id string) error {
	r.enter(ctx, "remove")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.removeErr != nil {
		return r.removeErr
	}
	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepo) ImageURL(ref string) string {
	return "http://api.test" + ref
}
