package usecase

import (
	"context"
	"sync"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const recentLimit = 5

// DashboardViewModel summarises the catalog: total count and the most
// recent products, taken from the head of the server-ordered list.
type DashboardViewModel struct {
	repo     domain.ProductRepository
	notifier Notifier
	log      *logrus.Logger

	inflight *semaphore.Weighted

	mu      sync.Mutex
	total   int
	recent  []domain.Product
	loading bool
	closed  bool
}

func NewDashboardViewModel(repo domain.ProductRepository, notifier Notifier, logger *logrus.Logger) *DashboardViewModel {
	return &DashboardViewModel{
		repo:     repo,
		notifier: notifier,
		log:      logger,
		inflight: semaphore.NewWeighted(1),
	}
}

func (vm *DashboardViewModel) Load(ctx context.Context) error {
	if !vm.inflight.TryAcquire(1) {
		return domain.ErrBusy
	}
	defer vm.inflight.Release(1)

	vm.mu.Lock()
	vm.loading = true
	vm.mu.Unlock()

	products, err := vm.repo.List(ctx)

	vm.mu.Lock()
	vm.loading = false
	if vm.closed {
		vm.mu.Unlock()
		return nil
	}
	if err != nil {
		vm.mu.Unlock()
		vm.log.Errorf("Use Case: Failed to load dashboard data: %v", err)
		vm.notifier.Notify(errorNote(describe(msgDashboardFailed, err)))
		return err
	}
	vm.total = len(products)
	n := len(products)
	if n > recentLimit {
		n = recentLimit
	}
	vm.recent = append([]domain.Product(nil), products[:n]...)
	vm.mu.Unlock()
	return nil
}

func (vm *DashboardViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.closed = true
}

func (vm *DashboardViewModel) Total() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.total
}

func (vm *DashboardViewModel) Recent() []domain.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]domain.Product(nil), vm.recent...)
}

func (vm *DashboardViewModel) IsLoading() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loading
}
