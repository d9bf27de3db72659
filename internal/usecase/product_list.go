package usecase

import (
	"context"
	"sync"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

type ListState string

const (
	ListIdle       ListState = "idle"
	ListLoading    ListState = "loading"
	ListLoaded     ListState = "loaded"
	ListLoadFailed ListState = "load_failed"
)

// ProductListViewModel owns the product collection shown on the list
// screen. The collection is always replaced wholesale by a fetch.
type ProductListViewModel struct {
	repo      domain.ProductRepository
	notifier  Notifier
	confirmer Confirmer
	log       *logrus.Logger

	inflight *semaphore.Weighted

	mu       sync.Mutex
	state    ListState
	products []domain.Product
	loaded   bool
	closed   bool
}

func NewProductListViewModel(repo domain.ProductRepository, notifier Notifier, confirmer Confirmer, logger *logrus.Logger) *ProductListViewModel {
	return &ProductListViewModel{
		repo:      repo,
		notifier:  notifier,
		confirmer: confirmer,
		log:       logger,
		inflight:  semaphore.NewWeighted(1),
		state:     ListIdle,
	}
}

// Activate performs the initial load. Calling it again is a no-op.
func (vm *ProductListViewModel) Activate(ctx context.Context) error {
	vm.mu.Lock()
	idle := vm.state == ListIdle
	vm.mu.Unlock()
	if !idle {
		return nil
	}
	return vm.Refresh(ctx)
}

// Refresh re-fetches the whole collection.
func (vm *ProductListViewModel) Refresh(ctx context.Context) error {
	if !vm.inflight.TryAcquire(1) {
		vm.log.Debug("Use Case: Product list refresh skipped, operation in flight")
		return domain.ErrBusy
	}
	defer vm.inflight.Release(1)
	return vm.fetch(ctx)
}

// fetch requires the in-flight slot to be held.
func (vm *ProductListViewModel) fetch(ctx context.Context) error {
	vm.mu.Lock()
	vm.state = ListLoading
	vm.mu.Unlock()

	products, err := vm.repo.List(ctx)

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		vm.log.Debug("Use Case: Discarding product list response for closed view")
		return nil
	}
	if err != nil {
		vm.state = ListLoadFailed
		vm.mu.Unlock()
		vm.log.Errorf("Use Case: Failed to load product list: %v", err)
		vm.notifier.Notify(errorNote(describe(msgLoadListFailed, err)))
		return err
	}
	vm.products = products
	vm.loaded = true
	vm.state = ListLoaded
	vm.mu.Unlock()

	vm.log.Infof("Use Case: Product list loaded with %d products", len(products))
	return nil
}

// Delete asks for confirmation, removes the product and re-fetches the
// collection. A declined confirmation does nothing and returns nil.
func (vm *ProductListViewModel) Delete(ctx context.Context, id string) error {
	if !vm.confirmer.Confirm(msgDeleteConfirm) {
		vm.log.Infof("Use Case: Deletion of product %s declined", id)
		return nil
	}
	if !vm.inflight.TryAcquire(1) {
		vm.notifier.Notify(errorNote(msgOperationPending))
		return domain.ErrBusy
	}
	defer vm.inflight.Release(1)

	vm.log.Infof("Use Case: Attempting to delete product %s", id)
	err := vm.repo.Remove(ctx, id)

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		vm.log.Debugf("Use Case: Discarding delete result for product %s, view closed", id)
		return nil
	}
	if err != nil {
		vm.mu.Unlock()
		vm.log.Warnf("Use Case: Failed to delete product %s: %v", id, err)
		vm.notifier.Notify(errorNote(describe(msgDeleteFailed, err)))
		return err
	}
	vm.mu.Unlock()

	vm.notifier.Notify(successNote(msgDeleted))
	vm.log.Infof("Use Case: Product %s deleted, reloading list", id)
	return vm.fetch(ctx)
}

// Close detaches the view; responses arriving later are dropped.
func (vm *ProductListViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.closed = true
}

func (vm *ProductListViewModel) State() ListState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

func (vm *ProductListViewModel) IsLoading() bool {
	return vm.State() == ListLoading
}

// HasLoaded is false until a fetch has succeeded once.
func (vm *ProductListViewModel) HasLoaded() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loaded
}

func (vm *ProductListViewModel) Products() []domain.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]domain.Product, len(vm.products))
	copy(out, vm.products)
	return out
}
