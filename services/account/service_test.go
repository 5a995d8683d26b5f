package account

import (
	"errors"
	"testing"
	"time"

	"github.com/signupd/signupd/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *testutils.MockMailService) {
	t.Helper()

	db := testutils.SetupTestDB(t, &Account{})
	cfg := testutils.GetTestConfig()
	mailer := &testutils.MockMailService{}

	service := NewService(cfg, db, nil)
	service.SetMailService(mailer)
	t.Cleanup(func() { testutils.CleanupTestDB(t, db, "accounts") })
	return service, db, mailer
}

func TestService_Register(t *testing.T) {
	t.Run("creates unverified account with token and expiry", func(t *testing.T) {
		service, db, mailer := newTestService(t)

		acct, err := service.Register("a@x.com", "secret123")

		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, "a@x.com", acct.Email)
		assert.False(t, acct.Verified)
		require.NotNil(t, acct.VerificationToken)
		require.NotNil(t, acct.TokenExpiresAt)
		assert.Len(t, *acct.VerificationToken, 64)
		assert.True(t, acct.TokenExpiresAt.After(time.Now().Add(23*time.Hour)))
		assert.True(t, acct.TokenExpiresAt.Before(time.Now().Add(25*time.Hour)))
		assert.NotEqual(t, "secret123", acct.Password)

		var stored Account
		require.NoError(t, db.Where("email = ?", "a@x.com").First(&stored).Error)
		assert.Equal(t, *acct.VerificationToken, *stored.VerificationToken)

		require.Len(t, mailer.Calls, 1)
		call := mailer.Calls[0]
		assert.Equal(t, "verification_email", call.Template)
		assert.Equal(t, []string{"a@x.com"}, call.To)
		assert.Contains(t, call.Data["VerificationURL"], "/verify/"+*acct.VerificationToken)
	})

	t.Run("rejects missing fields without side effects", func(t *testing.T) {
		service, db, mailer := newTestService(t)

		for _, pair := range [][2]string{
			{"", "secret123"},
			{"a@x.com", ""},
			{"", ""},
		} {
			acct, err := service.Register(pair[0], pair[1])

			assert.Nil(t, acct)
			require.ErrorIs(t, err, ErrInvalidInput)
		}

		var count int64
		db.Model(&Account{}).Count(&count)
		assert.Zero(t, count)
		assert.Empty(t, mailer.Calls)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Register("a@x.com", "secret123")
		require.NoError(t, err)

		acct, err := service.Register("a@x.com", "othersecret")

		assert.Nil(t, acct)
		require.ErrorIs(t, err, ErrDuplicateAccount)
	})

	t.Run("keeps account when mail delivery fails", func(t *testing.T) {
		service, db, mailer := newTestService(t)
		mailer.Err = errors.New("smtp unreachable")

		acct, err := service.Register("a@x.com", "secret123")

		require.ErrorIs(t, err, ErrEmailDeliveryFailed)
		require.NotNil(t, acct)

		var stored Account
		require.NoError(t, db.Where("email = ?", "a@x.com").First(&stored).Error)
		assert.False(t, stored.Verified)
	})

	t.Run("does not validate email format", func(t *testing.T) {
		service, _, _ := newTestService(t)

		acct, err := service.Register("not-an-email", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "not-an-email", acct.Email)
	})
}

func TestService_VerifyToken(t *testing.T) {
	t.Run("verifies account and clears token fields", func(t *testing.T) {
		service, db, _ := newTestService(t)

		registered, err := service.Register("a@x.com", "secret123")
		require.NoError(t, err)

		acct, err := service.VerifyToken(*registered.VerificationToken)

		require.NoError(t, err)
		assert.True(t, acct.Verified)
		assert.Nil(t, acct.VerificationToken)
		assert.Nil(t, acct.TokenExpiresAt)

		var stored Account
		require.NoError(t, db.Where("email = ?", "a@x.com").First(&stored).Error)
		assert.True(t, stored.Verified)
		assert.Nil(t, stored.VerificationToken)
		assert.Nil(t, stored.TokenExpiresAt)
	})

	t.Run("tokens are single use", func(t *testing.T) {
		service, _, _ := newTestService(t)

		registered, err := service.Register("a@x.com", "secret123")
		require.NoError(t, err)
		token := *registered.VerificationToken

		_, err = service.VerifyToken(token)
		require.NoError(t, err)

		acct, err := service.VerifyToken(token)

		assert.Nil(t, acct)
		require.ErrorIs(t, err, ErrVerificationTokenInvalid)
	})

	t.Run("fails for unknown token", func(t *testing.T) {
		service, _, _ := newTestService(t)

		acct, err := service.VerifyToken("nonexistent-token")

		assert.Nil(t, acct)
		require.ErrorIs(t, err, ErrVerificationTokenInvalid)
	})

	t.Run("fails for empty token", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.VerifyToken("")

		require.ErrorIs(t, err, ErrVerificationTokenInvalid)
	})

	t.Run("fails for expired token with same error as unknown token", func(t *testing.T) {
		service, db, _ := newTestService(t)

		registered, err := service.Register("a@x.com", "secret123")
		require.NoError(t, err)
		token := *registered.VerificationToken

		expired := time.Now().Add(-time.Minute)
		require.NoError(t, db.Model(&Account{}).Where("email = ?", "a@x.com").
			Update("token_expires_at", expired).Error)

		acct, err := service.VerifyToken(token)

		assert.Nil(t, acct)
		require.ErrorIs(t, err, ErrVerificationTokenInvalid)

		var stored Account
		require.NoError(t, db.Where("email = ?", "a@x.com").First(&stored).Error)
		assert.False(t, stored.Verified)
		assert.NotNil(t, stored.VerificationToken)
	})
}

func TestService_Login(t *testing.T) {
	t.Run("rejects missing fields", func(t *testing.T) {
		service, _, _ := newTestService(t)

		for _, pair := range [][2]string{
			{"", "secret123"},
			{"a@x.com", ""},
		} {
			acct, err := service.Login(pair[0], pair[1])

			assert.Nil(t, acct)
			require.ErrorIs(t, err, ErrInvalidInput)
		}
	})

	t.Run("unverified account is rejected before password check", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Register("a@x.com", "secret123")
		require.NoError(t, err)

		// Even a wrong password reports the unverified state first.
		acct, err := service.Login("a@x.com", "wrongpassword")

		assert.Nil(t, acct)
		require.ErrorIs(t, err, ErrAccountNotVerified)

		acct, err = service.Login("a@x.com", "secret123")

		assert.Nil(t, acct)
		require.ErrorIs(t, err, ErrAccountNotVerified)
	})

	t.Run("unknown email and wrong password produce identical errors", func(t *testing.T) {
		service, _, _ := newTestService(t)

		registered, err := service.Register("a@x.com", "secret123")
		require.NoError(t, err)
		_, err = service.VerifyToken(*registered.VerificationToken)
		require.NoError(t, err)

		_, errUnknown := service.Login("nobody@x.com", "secret123")
		_, errWrongPassword := service.Login("a@x.com", "wrongpassword")

		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPassword.Error())
	})

	t.Run("verified account logs in with correct password", func(t *testing.T) {
		service, _, _ := newTestService(t)

		registered, err := service.Register("a@x.com", "secret123")
		require.NoError(t, err)
		_, err = service.VerifyToken(*registered.VerificationToken)
		require.NoError(t, err)

		acct, err := service.Login("a@x.com", "secret123")

		require.NoError(t, err)
		require.NotNil(t, acct)
		assert.Equal(t, "a@x.com", acct.Email)
		assert.True(t, acct.Verified)
	})
}

func TestService_PasswordHashRoundTrip(t *testing.T) {
	service, db, _ := newTestService(t)

	passwords := []string{"secret123", "hunter2!", "pa ss word", "Sommer2024#", "x"}

	for _, password := range passwords {
		_, err := service.Register(password+"@x.com", password)
		require.NoError(t, err)
	}

	for _, password := range passwords {
		var stored Account
		require.NoError(t, db.Where("email = ?", password+"@x.com").First(&stored).Error)

		require.NoError(t, db.Model(&Account{}).Where("email = ?", password+"@x.com").
			Update("verified", true).Error)

		acct, err := service.Login(password+"@x.com", password)
		require.NoError(t, err)
		assert.NotNil(t, acct)

		for _, other := range passwords {
			if other == password {
				continue
			}
			_, err := service.Login(password+"@x.com", other)
			require.ErrorIs(t, err, ErrInvalidCredentials)
		}
	}
}

func TestService_TokensAreUnique(t *testing.T) {
	service, _, _ := newTestService(t)

	first, err := service.Register("a@x.com", "secret123")
	require.NoError(t, err)
	second, err := service.Register("b@x.com", "secret123")
	require.NoError(t, err)

	assert.NotEqual(t, *first.VerificationToken, *second.VerificationToken)
}
