//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/alanya/signaling-server/internal/digest"
	"github.com/alanya/signaling-server/internal/model"
	repo "github.com/alanya/signaling-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "signaling_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/signaling_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestUserRepository_Integration(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	userID := uuid.New()
	_, err = conn.Exec(ctx,
		`INSERT INTO users (id, username, email, phone, password_digest) VALUES ($1, $2, $3, $4, $5)`,
		userID, "alice", "alice@example.com", "+3312345678", digest.Password("secret"))
	require.NoError(t, err)

	t.Run("get_by_username", func(t *testing.T) {
		u, err := ur.GetByIdentifier(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, userID, u.ID)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, digest.Password("secret"), u.PasswordDigest)
		assert.Equal(t, "offline", u.Status)
	})

	t.Run("get_by_email", func(t *testing.T) {
		u, err := ur.GetByIdentifier(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, userID, u.ID)
	})

	t.Run("get_by_phone", func(t *testing.T) {
		u, err := ur.GetByIdentifier(ctx, "+3312345678")
		require.NoError(t, err)
		assert.Equal(t, userID, u.ID)
	})

	t.Run("get_unknown_identifier", func(t *testing.T) {
		_, err := ur.GetByIdentifier(ctx, "nobody")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("set_online_offline", func(t *testing.T) {
		require.NoError(t, ur.SetOnline(ctx, userID))
		u, err := ur.GetByIdentifier(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "online", u.Status)

		require.NoError(t, ur.SetOffline(ctx, userID))
		u, err = ur.GetByIdentifier(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "offline", u.Status)
	})

	t.Run("update_advertised_address", func(t *testing.T) {
		require.NoError(t, ur.UpdateAdvertisedAddress(ctx, userID, "1.2.3.4", 5000))
		u, err := ur.GetByIdentifier(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3.4", u.LastKnownHost)
		assert.Equal(t, 5000, u.LastKnownPort)
	})
}
