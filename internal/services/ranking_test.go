package services

import (
	"testing"
	"time"

	"github.com/DavidAcosta7/local-commerce-platform/internal/models"
	"github.com/stretchr/testify/require"
)

func seedStats(t *testing.T, s *testServices, email string, points int, createdAt time.Time) *models.User {
	t.Helper()
	user := createUser(t, s.db, email, models.RoleCustomer)
	stats := models.ReputationStats{
		UserID:      user.ID,
		TotalPoints: points,
		CreatedAt:   createdAt,
	}
	require.NoError(t, s.db.Create(&stats).Error)
	return user
}

func TestTopNOrdersByPoints(t *testing.T) {
	s := setupServices(t)
	base := time.Now().Add(-time.Hour)

	seedStats(t, s, "third@test.local", 10, base)
	first := seedStats(t, s, "first@test.local", 50, base.Add(time.Minute))
	second := seedStats(t, s, "second@test.local", 30, base.Add(2*time.Minute))

	entries, err := s.ranking.TopN(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, first.ID, entries[0].UserID)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, second.ID, entries[1].UserID)
	require.Equal(t, 2, entries[1].Rank)
}

func TestRankOfTopScorerIsOne(t *testing.T) {
	s := setupServices(t)
	base := time.Now().Add(-time.Hour)

	top := seedStats(t, s, "top@test.local", 100, base)
	seedStats(t, s, "mid@test.local", 40, base)
	bottom := seedStats(t, s, "bottom@test.local", 5, base)

	rank, err := s.ranking.RankOf(top.ID)
	require.NoError(t, err)
	require.Equal(t, 1, rank)

	rank, err = s.ranking.RankOf(bottom.ID)
	require.NoError(t, err)
	require.Equal(t, 3, rank)

	_, err = s.ranking.RankOf(9999)
	require.ErrorIs(t, err, ErrNotFound)
}

// Ties break by earliest stats creation and stay stable across reads.
func TestTieBreakIsStable(t *testing.T) {
	s := setupServices(t)
	base := time.Now().Add(-time.Hour)

	older := seedStats(t, s, "older@test.local", 25, base)
	newer := seedStats(t, s, "newer@test.local", 25, base.Add(time.Minute))

	for i := 0; i < 3; i++ {
		entries, err := s.ranking.TopN(10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, older.ID, entries[0].UserID)
		require.Equal(t, newer.ID, entries[1].UserID)
	}
}
