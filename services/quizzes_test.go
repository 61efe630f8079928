package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizRecordAndHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)

	rec, err := svc.Record("Alice", "Matematika", 7, 10)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, 7, rec.Score)

	history, err := svc.History("alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Matematika", history[0].Subject)
}

func TestQuizRecordValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)

	_, err := svc.Record("alice", "Fizika", 5, 10)
	assert.ErrorIs(t, err, ErrInvalidSubject)

	_, err = svc.Record("alice", "IT", -1, 10)
	assert.Error(t, err)
	_, err = svc.Record("alice", "IT", 11, 10)
	assert.Error(t, err)
	_, err = svc.Record("alice", "IT", 0, 0)
	assert.Error(t, err)

	// A zero score on a non-empty quiz is a valid attempt.
	_, err = svc.Record("alice", "IT", 0, 10)
	assert.NoError(t, err)
}

func TestQuizHistoryCapped(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(db)

	for i := 0; i < DefaultQuizHistoryLimit+5; i++ {
		_, err := svc.Record("alice", "IT", i%10, 10)
		require.NoError(t, err)
	}

	history, err := svc.History("alice", 1000)
	require.NoError(t, err)
	assert.Len(t, history, DefaultQuizHistoryLimit)

	history, err = svc.History("alice", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	// Newest first: the highest id comes back on top.
	assert.Greater(t, history[0].ID, history[1].ID, fmt.Sprintf("got %d then %d", history[0].ID, history[1].ID))
}
