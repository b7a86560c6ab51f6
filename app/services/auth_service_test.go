package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/auth"
	"github.com/AkaOko/react-trpo/pkg/testkit"
)

func newAuth(t *testing.T) (*services.AuthService, *auth.Signer, fixtures) {
	t.Helper()
	db := testkit.DB(t)
	signer, err := auth.NewSigner("test-secret-with-enough-bytes-123", time.Hour)
	require.NoError(t, err)
	return services.NewAuthService(db, signer), signer, fixtures{t: t, db: db}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, signer, _ := newAuth(t)

	u, err := svc.Register(bg, nil, services.RegisterInput{Name: " Ann ", Email: " Ann@Example.com ", Password: "s3cret!", Phone: "+7 900"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, models.RoleClient, u.Role)
	assert.NotEqual(t, "s3cret!", u.Password)

	token, logged, err := svc.Login(bg, "ANN@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := signer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, string(models.RoleClient), claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuth(t)
	_, err := svc.Register(bg, nil, services.RegisterInput{Name: "A", Email: "a@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Register(bg, nil, services.RegisterInput{Name: "B", Email: "A@example.com", Password: "pw123456"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestRegister_StaffRolesNeedAnAdmin(t *testing.T) {
	svc, _, fx := newAuth(t)
	in := services.RegisterInput{Name: "W", Email: "w@example.com", Password: "pw123456", Role: "worker"}

	_, err := svc.Register(bg, nil, in)
	assert.ErrorIs(t, err, services.ErrForbidden)

	client := actorOf(fx.user(models.RoleClient))
	_, err = svc.Register(bg, &client, in)
	assert.ErrorIs(t, err, services.ErrForbidden)

	admin := actorOf(fx.user(models.RoleAdmin))
	u, err := svc.Register(bg, &admin, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleWorker, u.Role)

	_, err = svc.Register(bg, &admin, services.RegisterInput{Name: "X", Email: "x@example.com", Password: "pw123456", Role: "janitor"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newAuth(t)
	_, err := svc.Register(bg, nil, services.RegisterInput{Name: "A", Email: "a@example.com", Password: "right-pw"})
	require.NoError(t, err)

	_, _, err = svc.Login(bg, "a@example.com", "wrong-pw")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, _, err = svc.Login(bg, "nobody@example.com", "right-pw")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestProfile_UpdateAndPassword(t *testing.T) {
	db := testkit.DB(t)
	fx := fixtures{t: t, db: db}
	signer, err := auth.NewSigner("test-secret-with-enough-bytes-123", time.Hour)
	require.NoError(t, err)
	authSvc := services.NewAuthService(db, signer)
	profiles := services.NewProfileService(db)

	u, err := authSvc.Register(bg, nil, services.RegisterInput{Name: "A", Email: "a@example.com", Password: "old-pw-1"})
	require.NoError(t, err)
	taken := fx.user(models.RoleClient)

	_, err = profiles.Update(bg, u.ID, services.ProfileInput{Email: ptr(taken.Email)})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	got, err := profiles.Update(bg, u.ID, services.ProfileInput{Name: ptr("Alice"), Phone: ptr("123")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "a@example.com", got.Email)

	assert.ErrorIs(t, profiles.ChangePassword(bg, u.ID, "nope", "new-pw-1"), services.ErrInvalidCredentials)
	require.NoError(t, profiles.ChangePassword(bg, u.ID, "old-pw-1", "new-pw-1"))

	_, _, err = authSvc.Login(bg, "a@example.com", "new-pw-1")
	assert.NoError(t, err)
}
