package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zukkoai/zukko-school/models"
)

func TestActivityRecordAndRecent(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db)

	svc.Record("Alice", "Tizimga kirdi")
	svc.Record("bob", "Ro'yxatdan o'tdi")

	entries, err := svc.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "bob", entries[0].Username)
	assert.Equal(t, "alice", entries[1].Username)
}

func TestActivityRecentLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db)

	for i := 0; i < 5; i++ {
		svc.Record("alice", "Chat")
	}

	entries, err := svc.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestActiveTodayCountsDistinctUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db)

	now := time.Now()

	svc.Record("alice", "Tizimga kirdi")
	svc.Record("alice", "Chat")
	svc.Record("bob", "Tizimga kirdi")

	// An entry from yesterday must not count.
	old := models.ActivityLog{Username: "carol", Action: "Tizimga kirdi", CreatedAt: now.AddDate(0, 0, -1)}
	require.NoError(t, db.Create(&old).Error)

	count, err := svc.ActiveToday(now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
