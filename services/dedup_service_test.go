package services

import (
	"testing"
	"time"

	"davetli.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDedupService(t *testing.T) IDeduplicationService {
	t.Helper()
	client := newTestRedis(t)
	return NewDeduplicationService(client, NewBloomManager(), "test", time.Hour)
}

func TestIsDuplicateFirstClaimWins(t *testing.T) {
	dedup := newDedupService(t)

	dup, err := dedup.IsDuplicate(1, "ali@example.com", "Standard", models.ScopeTicket)
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = dedup.IsDuplicate(1, "ali@example.com", "Standard", models.ScopeTicket)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestIsDuplicateScopesAreIndependent(t *testing.T) {
	dedup := newDedupService(t)

	dup, err := dedup.IsDuplicate(1, "ali@example.com", "Standard", models.ScopeTicket)
	require.NoError(t, err)
	assert.False(t, dup)

	// Farklı bilet türü kendi anahtarını sahiplenir.
	dup, err = dedup.IsDuplicate(1, "ali@example.com", "Press", models.ScopeTicket)
	require.NoError(t, err)
	assert.False(t, dup)

	// Farklı kullanıcı aynı anahtarı bağımsız sahiplenir.
	dup, err = dedup.IsDuplicate(2, "ali@example.com", "Standard", models.ScopeTicket)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestIsDuplicateGlobalScopeIgnoresTicket(t *testing.T) {
	dedup := newDedupService(t)

	dup, err := dedup.IsDuplicate(1, "ali@example.com", "Standard", models.ScopeGlobal)
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = dedup.IsDuplicate(1, "ali@example.com", "Press", models.ScopeGlobal)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestIsDuplicateNoneScopeAlwaysFalse(t *testing.T) {
	dedup := newDedupService(t)

	for i := 0; i < 3; i++ {
		dup, err := dedup.IsDuplicate(1, "ali@example.com", "Press", models.ScopeNone)
		require.NoError(t, err)
		assert.False(t, dup)
	}
}

func TestIsDuplicateNormalizesKey(t *testing.T) {
	dedup := newDedupService(t)

	dup, err := dedup.IsDuplicate(1, "Ali@Example.com", " Standard ", models.ScopeTicket)
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = dedup.IsDuplicate(1, "ali@example.com", "standard", models.ScopeTicket)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestClearResetsClaims(t *testing.T) {
	dedup := newDedupService(t)

	_, err := dedup.IsDuplicate(1, "ali@example.com", "Standard", models.ScopeTicket)
	require.NoError(t, err)

	require.NoError(t, dedup.Clear())

	dup, err := dedup.IsDuplicate(1, "ali@example.com", "Standard", models.ScopeTicket)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestIsDuplicateRedisDownReturnsError(t *testing.T) {
	client := newTestRedis(t)
	dedup := NewDeduplicationService(client, NewBloomManager(), "test", time.Hour)
	require.NoError(t, client.Close())

	_, err := dedup.IsDuplicate(1, "ali@example.com", "Standard", models.ScopeTicket)
	assert.ErrorIs(t, err, ErrDedupUnavailable)
}
