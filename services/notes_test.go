package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotesService(db)

	note, err := svc.Save("alice", "T", "B", "IT")
	require.NoError(t, err)
	assert.Equal(t, "T", note.Title)
	assert.Equal(t, "B", note.Body)
	assert.Equal(t, "IT", note.Subject)

	summaries, err := svc.List("alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, note.ID, summaries[0].ID)
	assert.Equal(t, "T", summaries[0].Title)

	full, err := svc.Read("alice", false, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", full.Body)

	require.NoError(t, svc.Delete("alice", false, note.ID))
	summaries, err = svc.List("alice")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestNoteOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotesService(db)

	note, err := svc.Save("alice", "T", "B", "IT")
	require.NoError(t, err)

	_, err = svc.Read("bob", false, note.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	err = svc.Delete("bob", false, note.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may read and delete any note.
	_, err = svc.Read("admin", true, note.ID)
	assert.NoError(t, err)
	assert.NoError(t, svc.Delete("admin", true, note.ID))
}

func TestNoteValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotesService(db)

	_, err := svc.Save("alice", "   ", "B", "IT")
	assert.Error(t, err)

	_, err = svc.Save("alice", "T", "B", "Kimyo")
	assert.ErrorIs(t, err, ErrInvalidSubject)
}

func TestNoteSanitization(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotesService(db)

	note, err := svc.Save("alice", `<b>Title</b>`, `hi<script>alert(1)</script>`, "Boshqa")
	require.NoError(t, err)
	assert.Equal(t, "Title", note.Title)
	assert.NotContains(t, note.Body, "<script>")

	_, err = svc.Read("ghost", false, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
