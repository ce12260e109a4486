package services

import (
	"testing"

	"rendezvous.club/models"
	"rendezvous.club/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthServiceWithDeps(repositories.NewProfileRepositoryTx(db), testSecret)

	input := RegisterInput{
		Email:    "New.Member@Example.com",
		Password: "supersecret",
		Username: "newmember",
		FullName: "New Member",
	}
	result, err := svc.Register(testCtx(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "new.member@example.com", result.Profile.Email)
	assert.Equal(t, models.RoleMember, result.Profile.Role)
	assert.NotEqual(t, "supersecret", result.Profile.PasswordHash)

	// Duplicate email and username are refused.
	_, err = svc.Register(testCtx(), input)
	assert.ErrorIs(t, err, ErrAuthEmailTaken)
	input.Email = "other@example.com"
	_, err = svc.Register(testCtx(), input)
	assert.ErrorIs(t, err, ErrAuthUsernameTaken)

	// Login is case-insensitive on the email.
	login, err := svc.Login(testCtx(), "NEW.MEMBER@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = svc.Login(testCtx(), "new.member@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestVerifyToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthServiceWithDeps(repositories.NewProfileRepositoryTx(db), testSecret)

	result, err := svc.Register(testCtx(), RegisterInput{
		Email:    "verify@example.com",
		Password: "supersecret",
		Username: "verifier",
		FullName: "Verify Me",
	})
	require.NoError(t, err)

	sess, err := svc.VerifyToken(testCtx(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Profile.ID, sess.UserID)
	assert.Equal(t, models.RoleMember, sess.Role)
	assert.False(t, sess.IsAdmin())

	_, err = svc.VerifyToken(testCtx(), "not-a-token")
	assert.ErrorIs(t, err, ErrAuthInvalidToken)

	// A token signed with another secret is rejected.
	otherSvc := NewAuthServiceWithDeps(repositories.NewProfileRepositoryTx(db), "other-secret")
	_, err = otherSvc.VerifyToken(testCtx(), result.Token)
	assert.ErrorIs(t, err, ErrAuthInvalidToken)

	// Suspension invalidates outstanding tokens.
	require.NoError(t, db.Model(&models.Profile{}).
		Where("id = ?", result.Profile.ID).
		Update("status", models.ProfileStatusSuspended).Error)
	_, err = svc.VerifyToken(testCtx(), result.Token)
	assert.ErrorIs(t, err, ErrAuthAccountSuspended)
}
