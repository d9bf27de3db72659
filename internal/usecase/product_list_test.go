package usecase

import (
	"context"
	"testing"
	"time"

	"admin_console/internal/domain"
	"admin_console/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "b2", Name: "Silla", Description: "Silla de pino", Price: 49.5, ImageRef: "/uploads/silla.jpg"},
		{ID: "a1", Name: "Mesa", Description: "Mesa de madera", Price: 199.99, ImageRef: "/uploads/mesa.jpg"},
	}
}

func answer(yes bool) ConfirmFunc {
	return func(string) bool { return yes }
}

func newListVM(repo *fakeRepo, confirm bool) (*ProductListViewModel, *Effects) {
	fx := &Effects{}
	return NewProductListViewModel(repo, fx, answer(confirm), testutil.QuietLogger()), fx
}

func TestProductList_Activate(t *testing.T) {
	repo := newFakeRepo(sampleProducts()...)
	vm, fx := newListVM(repo, true)
	assert.Equal(t, ListIdle, vm.State())

	require.NoError(t, vm.Activate(context.Background()))
	assert.Equal(t, ListLoaded, vm.State())
	assert.True(t, vm.HasLoaded())
	assert.Equal(t, sampleProducts(), vm.Products(), "server order is kept")
	assert.Empty(t, fx.Notifications())

	require.NoError(t, vm.Activate(context.Background()))
	assert.Equal(t, 1, repo.count("list"))
}

func TestProductList_FirstLoadFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = domain.ErrNetwork
	vm, fx := newListVM(repo, true)

	err := vm.Activate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, ListLoadFailed, vm.State())
	assert.False(t, vm.HasLoaded())
	assert.Empty(t, vm.Products())

	notes := fx.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelError, notes[0].Level)
	assert.Contains(t, notes[0].Message, msgLoadListFailed)
}

func TestProductList_RefetchFailureKeepsCollection(t *testing.T) {
	repo := newFakeRepo(sampleProducts()...)
	vm, fx := newListVM(repo, true)
	require.NoError(t, vm.Activate(context.Background()))

	repo.listErr = domain.ErrNetwork
	assert.Error(t, vm.Refresh(context.Background()))
	assert.Equal(t, ListLoadFailed, vm.State())
	assert.True(t, vm.HasLoaded())
	assert.Equal(t, sampleProducts(), vm.Products())
	assert.Len(t, fx.Notifications(), 1)
}

func TestProductList_Delete(t *testing.T) {
	t.Run("declined confirmation issues no call", func(t *testing.T) {
		repo := newFakeRepo(sampleProducts()...)
		vm, fx := newListVM(repo, false)
		require.NoError(t, vm.Activate(context.Background()))
		before := repo.total()

		require.NoError(t, vm.Delete(context.Background(), "a1"))
		assert.Equal(t, before, repo.total())
		assert.Equal(t, sampleProducts(), vm.Products())
		assert.Empty(t, fx.Notifications())
	})

	t.Run("confirmed delete re-fetches the collection", func(t *testing.T) {
		repo := newFakeRepo(sampleProducts()...)
		vm, fx := newListVM(repo, true)
		require.NoError(t, vm.Activate(context.Background()))

		require.NoError(t, vm.Delete(context.Background(), "a1"))
		assert.Equal(t, 1, repo.count("remove"))
		assert.Equal(t, 2, repo.count("list"))
		require.Len(t, vm.Products(), 1)
		assert.Equal(t, "b2", vm.Products()[0].ID)
		assert.Equal(t, ListLoaded, vm.State())
		assert.Equal(t, []domain.Notification{successNote(msgDeleted)}, fx.Notifications())
	})

	t.Run("not found leaves the collection unchanged", func(t *testing.T) {
		repo := newFakeRepo(sampleProducts()...)
		vm, fx := newListVM(repo, true)
		require.NoError(t, vm.Activate(context.Background()))

		err := vm.Delete(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, sampleProducts(), vm.Products())
		assert.Equal(t, 1, repo.count("list"))

		notes := fx.Notifications()
		require.Len(t, notes, 1)
		assert.Equal(t, domain.LevelError, notes[0].Level)
		assert.Contains(t, notes[0].Message, msgDeleteFailed)
	})

	t.Run("auth failure is reported", func(t *testing.T) {
		repo := newFakeRepo(sampleProducts()...)
		repo.removeErr = domain.ErrAuth
		vm, fx := newListVM(repo, true)
		require.NoError(t, vm.Activate(context.Background()))

		assert.ErrorIs(t, vm.Delete(context.Background(), "a1"), domain.ErrAuth)
		assert.Contains(t, fx.Notifications()[0].Message, "sesión")
		assert.Len(t, vm.Products(), 2)
	})
}

func TestProductList_OneOperationInFlight(t *testing.T) {
	repo := newFakeRepo(sampleProducts()...)
	repo.block()
	vm, _ := newListVM(repo, true)

	done := make(chan error, 1)
	go func() { done <- vm.Activate(context.Background()) }()
	<-repo.entered
	assert.True(t, vm.IsLoading())

	assert.ErrorIs(t, vm.Refresh(context.Background()), domain.ErrBusy)
	assert.ErrorIs(t, vm.Delete(context.Background(), "a1"), domain.ErrBusy)
	assert.Equal(t, 0, repo.count("remove"))

	close(repo.gate)
	require.NoError(t, <-done)
	assert.Equal(t, ListLoaded, vm.State())
}

func TestProductList_LateResponseAfterCloseIsDiscarded(t *testing.T) {
	repo := newFakeRepo(sampleProducts()...)
	repo.block()
	vm, fx := newListVM(repo, true)

	done := make(chan error, 1)
	go func() { done <- vm.Activate(context.Background()) }()
	<-repo.entered
	vm.Close()
	close(repo.gate)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("activate did not return")
	}
	assert.Empty(t, vm.Products())
	assert.False(t, vm.HasLoaded())
	assert.Empty(t, fx.Notifications())
}
