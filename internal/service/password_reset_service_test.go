package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/platform/mail"
)

func newResetServiceForTest(users *fakeUserStore, tokens *fakeResetStore, queue *fakeQueue) *PasswordResetServiceImpl {
	return NewPasswordResetService(users, tokens, plainHasher{}, queue, mail.NewMockMailer(), nil, discardLogger())
}

func TestRequestReset_StoresTokenAndEnqueuesEmail(t *testing.T) {
	user := newTestUser(t, "reset@example.com")
	tokens := newFakeResetStore()
	queue := &fakeQueue{}
	svc := newResetServiceForTest(newFakeUserStore(user), tokens, queue)

	require.NoError(t, svc.RequestReset(context.Background(), user.Email))

	require.Len(t, tokens.tokens, 1)
	for _, record := range tokens.tokens {
		assert.Equal(t, user.ID, record.UserID)
		assert.Len(t, record.TokenHash, 64, "the store holds a sha256 hex digest, not the plaintext")
		assert.True(t, record.ExpiresAt.After(record.CreatedAt))
	}

	assert.Equal(t, []string{"password_reset_email"}, queue.jobTypes())
}

func TestRequestReset_UnknownEmailSucceedsSilently(t *testing.T) {
	tokens := newFakeResetStore()
	queue := &fakeQueue{}
	svc := newResetServiceForTest(newFakeUserStore(), tokens, queue)

	require.NoError(t, svc.RequestReset(context.Background(), "nobody@example.com"),
		"the caller must not learn whether the email exists")
	assert.Empty(t, tokens.tokens)
	assert.Empty(t, queue.jobTypes())
}

func TestRequestReset_SecondRequestReplacesToken(t *testing.T) {
	user := newTestUser(t, "again@example.com")
	tokens := newFakeResetStore()
	svc := newResetServiceForTest(newFakeUserStore(user), tokens, &fakeQueue{})

	require.NoError(t, svc.RequestReset(context.Background(), user.Email))
	require.NoError(t, svc.RequestReset(context.Background(), user.Email))

	assert.Len(t, tokens.tokens, 1, "at most one outstanding token per user")
}

func TestConfirmReset_UnknownTokenRejected(t *testing.T) {
	svc := newResetServiceForTest(newFakeUserStore(), newFakeResetStore(), &fakeQueue{})

	err := svc.ConfirmReset(context.Background(), "never-issued", "a new long password")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestConfirmReset_ExpiredTokenRejected(t *testing.T) {
	user := newTestUser(t, "expired@example.com")
	tokens := newFakeResetStore()
	queue := &fakeQueue{}
	svc := newResetServiceForTest(newFakeUserStore(user), tokens, queue)

	issuedAt := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	svc.WithTimeFunc(func() time.Time { return issuedAt })
	require.NoError(t, svc.RequestReset(context.Background(), user.Email))

	var plaintextHash string
	for hash := range tokens.tokens {
		plaintextHash = hash
	}
	require.NotEmpty(t, plaintextHash)

	// Two hours later the one-hour token is stale. ConfirmReset hashes the
	// plaintext before lookup, so feed the fake store the hash directly.
	svc.WithTimeFunc(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	tokens.tokens[hashResetToken("known-token")] = tokens.tokens[plaintextHash]

	err := svc.ConfirmReset(context.Background(), "known-token", "a new long password")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestGenerateResetToken_IsHexAndUnique(t *testing.T) {
	t.Parallel()

	first, err := generateResetToken()
	require.NoError(t, err)
	second, err := generateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestHashResetToken_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, hashResetToken("abc"), hashResetToken("abc"))
	assert.NotEqual(t, hashResetToken("abc"), hashResetToken("abd"))
	assert.Len(t, hashResetToken("abc"), 64)
}
