package properties

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/user"
	"booknblock/internal/infra/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	for _, u := range []*user.User{
		{ID: "owner-1", Name: "Owner", Email: "owner@example.com", PasswordHash: "x"},
		{ID: "manager-1", Name: "Manager", Email: "manager@example.com", PasswordHash: "x"},
	} {
		require.NoError(t, users.Save(context.Background(), u))
	}
	return &Service{Properties: memory.NewPropertyRepository(), Users: users}, users
}

func TestCreateAndGetProperty(t *testing.T) {
	svc, _ := newService(t)
	prop, err := svc.Create(context.Background(), "owner-1", CreateParams{
		Name:     "Beach House",
		Location: "Florianopolis",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID("owner-1"), prop.OwnerID)

	got, err := svc.Get(context.Background(), prop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beach House", got.Name)
}

func TestCreatePropertyRequiresName(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), "owner-1", CreateParams{})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))
}

func TestManagerRoster(t *testing.T) {
	svc, _ := newService(t)
	prop, err := svc.Create(context.Background(), "owner-1", CreateParams{Name: "Beach House"})
	require.NoError(t, err)

	updated, err := svc.AddManager(context.Background(), "owner-1", prop.ID, "manager-1")
	require.NoError(t, err)
	require.Len(t, updated.Managers, 1)
	assert.Equal(t, user.ID("manager-1"), updated.Managers[0])
	assert.True(t, updated.CanManage("manager-1"))

	// managers cannot appoint managers
	_, err = svc.AddManager(context.Background(), "manager-1", prop.ID, "manager-1")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	// unknown users cannot be appointed
	_, err = svc.AddManager(context.Background(), "owner-1", prop.ID, "ghost")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	updated, err = svc.RemoveManager(context.Background(), "owner-1", prop.ID, "manager-1")
	require.NoError(t, err)
	assert.Empty(t, updated.Managers)
}

func TestAddOwnerAsManagerIsNoOp(t *testing.T) {
	svc, _ := newService(t)
	prop, err := svc.Create(context.Background(), "owner-1", CreateParams{Name: "Beach House"})
	require.NoError(t, err)

	updated, err := svc.AddManager(context.Background(), "owner-1", prop.ID, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, updated.Managers)
}
