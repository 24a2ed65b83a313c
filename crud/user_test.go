package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupblog/domain"
	"groupblog/errs"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(testDB(t), "test-hmac-key", "test-pepper")
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	us := newTestUserService(t)

	user := &domain.User{
		Username: "leo",
		Email:    "Leo@Example.com",
		Password: "correct horse battery",
	}
	require.NoError(t, us.Create(user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, "leo@example.com", user.Email, "emails are normalized")
	assert.Empty(t, user.Password, "the raw password never survives Create")
	assert.NotEmpty(t, user.Remember)

	got, err := us.Authenticate("leo@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = us.Authenticate("leo@example.com", "wrong password here")
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = us.Authenticate("nobody@example.com", "correct horse battery")
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUserService_Create_Validations(t *testing.T) {
	us := newTestUserService(t)

	for name, user := range map[string]*domain.User{
		"missing username": {Email: "a@example.com", Password: "long enough password"},
		"bad username":     {Username: "no spaces allowed", Email: "a@example.com", Password: "long enough password"},
		"missing email":    {Username: "leo", Password: "long enough password"},
		"bad email":        {Username: "leo", Email: "not-an-email", Password: "long enough password"},
		"short password":   {Username: "leo", Email: "a@example.com", Password: "short"},
	} {
		err := us.Create(user)
		require.Error(t, err, name)
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err), name)
	}
}

func TestUserService_Create_UsernameTaken(t *testing.T) {
	us := newTestUserService(t)

	require.NoError(t, us.Create(&domain.User{
		Username: "leo", Email: "leo@example.com", Password: "long enough password",
	}))
	err := us.Create(&domain.User{
		Username: "leo", Email: "other@example.com", Password: "long enough password",
	})
	require.Error(t, err)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestUserService_ByRemember(t *testing.T) {
	us := newTestUserService(t)

	user := &domain.User{
		Username: "leo", Email: "leo@example.com", Password: "long enough password",
	}
	require.NoError(t, us.Create(user))

	got, err := us.ByRemember(user.Remember)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = us.ByRemember("some-made-up-token-value-whatever")
	require.Error(t, err)
}

func TestUserService_ByUsername(t *testing.T) {
	us := newTestUserService(t)

	require.NoError(t, us.Create(&domain.User{
		Username: "leo", Email: "leo@example.com", Password: "long enough password",
	}))

	got, err := us.ByUsername("leo")
	require.NoError(t, err)
	assert.Equal(t, "leo", got.Username)

	_, err = us.ByUsername("mia")
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
