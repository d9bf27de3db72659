package usecase

import (
	"context"
	"testing"

	"admin_console/internal/clients"
	"admin_console/internal/domain"
	"admin_console/internal/session"
	"admin_console/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Drives the view-models against the real HTTP facade and an in-process API.
func TestScenario_CreateThenList(t *testing.T) {
	api := testutil.NewFakeAPI("tok-admin")
	defer api.Close()
	api.AddUser("admin@tienda.test", "secreto")
	logger := testutil.QuietLogger()
	ctx := context.Background()

	caller := clients.NewAPIClient(api.URL(), 0, logger)
	login, err := clients.NewAuthClient(caller, "/api/auth/login", logger).Login(ctx, "admin@tienda.test", "secreto")
	require.NoError(t, err)
	sess := session.New(login.Token, nil)
	require.True(t, sess.IsAuthenticated())

	repo := clients.NewProductClient(caller, sess, logger)

	fx := &Effects{}
	form := NewProductFormViewModel("", repo, fx, fx, logger)
	require.NoError(t, form.Activate(ctx))
	require.NoError(t, form.SetField(domain.FieldName, "Mesa"))
	require.NoError(t, form.SetField(domain.FieldDescription, "Mesa de madera"))
	require.NoError(t, form.SetField(domain.FieldPrice, "199.99"))
	img, err := domain.NewImage("mesa.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)
	require.NoError(t, form.SelectImage(img))

	require.NoError(t, form.Submit(ctx))
	assert.Equal(t, ListPath, fx.Redirect())
	assert.Equal(t, 1, api.RequestsTo("POST", "/api/products"))

	listFx := &Effects{}
	list := NewProductListViewModel(repo, listFx, answer(true), logger)
	require.NoError(t, list.Activate(ctx))
	products := list.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Mesa", products[0].Name)
	assert.Equal(t, "$199.99", products[0].FormattedPrice())
	assert.Equal(t, api.URL()+"/uploads/mesa.jpg", repo.ImageURL(products[0].ImageRef))

	require.NoError(t, list.Delete(ctx, products[0].ID))
	assert.Empty(t, list.Products())
	assert.Empty(t, api.Products())
}

func TestScenario_AnonymousCreateIsRejected(t *testing.T) {
	api := testutil.NewFakeAPI("tok-admin")
	defer api.Close()
	logger := testutil.QuietLogger()

	repo := clients.NewProductClient(clients.NewAPIClient(api.URL(), 0, logger), nil, logger)
	fx := &Effects{}
	form := NewProductFormViewModel("", repo, fx, fx, logger)
	require.NoError(t, form.Activate(context.Background()))
	require.NoError(t, form.SetField(domain.FieldName, "Mesa"))
	require.NoError(t, form.SetField(domain.FieldDescription, "Mesa de madera"))
	require.NoError(t, form.SetField(domain.FieldPrice, "10"))
	img, err := domain.NewImage("mesa.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	require.NoError(t, form.SelectImage(img))

	assert.ErrorIs(t, form.Submit(context.Background()), domain.ErrAuth)
	assert.Equal(t, FormReady, form.State())
	assert.Empty(t, fx.Redirect())
	require.Len(t, fx.Notifications(), 1)
	assert.Contains(t, fx.Notifications()[0].Message, "sesión")
}
