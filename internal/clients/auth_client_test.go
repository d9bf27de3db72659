package clients

import (
	"context"
	"testing"

	"admin_console/internal/domain"
	"admin_console/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthClient_Login(t *testing.T) {
	api := testutil.NewFakeAPI(testToken)
	defer api.Close()
	api.AddUser("admin@tienda.com", "clave")

	logger := testutil.QuietLogger()
	client := NewAuthClient(NewAPIClient(api.URL(), 0, logger), "/api/auth/login", logger)

	t.Run("valid credentials return the token", func(t *testing.T) {
		res, err := client.Login(context.Background(), " admin@tienda.com ", "clave")
		require.NoError(t, err)
		assert.Equal(t, testToken, res.Token)
		assert.Equal(t, "admin@tienda.com", res.Email)
	})

	t.Run("wrong password is an auth error", func(t *testing.T) {
		_, err := client.Login(context.Background(), "admin@tienda.com", "otra")
		assert.ErrorIs(t, err, domain.ErrAuth)
	})
}
