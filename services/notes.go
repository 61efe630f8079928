package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/zukkoai/zukko-school/models"
	"github.com/zukkoai/zukko-school/utils"
)

// NoteSubjects is the fixed subject vocabulary for notes and quizzes.
var NoteSubjects = []string{"Matematika", "Ingliz tili", "IT", "Tabiat", "Boshqa"}

// ValidSubject reports whether the subject is part of the fixed vocabulary.
func ValidSubject(subject string) bool {
	for _, s := range NoteSubjects {
		if s == subject {
			return true
		}
	}
	return false
}

// NotesService stores per-user notes. Every read and delete takes the acting
// user and verifies ownership (admins may override); fetching a note by raw id
// without that check is deliberately not offered.
type NotesService struct {
	db *gorm.DB
}

// NewNotesService creates a NotesService.
func NewNotesService(db *gorm.DB) *NotesService {
	return &NotesService{db: db}
}

// Save creates a note. Titles are stripped of markup, bodies sanitized.
func (n *NotesService) Save(username, title, body, subject string) (*models.Note, error) {
	title = utils.SanitizeStrict(strings.TrimSpace(title))
	if title == "" {
		return nil, errors.New("title cannot be empty")
	}
	if !ValidSubject(subject) {
		return nil, ErrInvalidSubject
	}

	note := models.Note{
		Username: NormalizeUsername(username),
		Title:    title,
		Body:     utils.Sanitize(body),
		Subject:  subject,
	}
	if err := n.db.Create(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns the user's note summaries newest-first; bodies are excluded.
func (n *NotesService) List(username string) ([]models.NoteSummary, error) {
	var summaries []models.NoteSummary
	err := n.db.Model(&models.Note{}).
		Select("id, title, subject, created_at").
		Where("username = ?", NormalizeUsername(username)).
		Order("created_at DESC, id DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Read fetches a full note by id on behalf of actor. Owners and admins only.
func (n *NotesService) Read(actor string, actorIsAdmin bool, id uint) (*models.Note, error) {
	var note models.Note
	if err := n.db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if note.Username != NormalizeUsername(actor) && !actorIsAdmin {
		return nil, ErrForbidden
	}
	return &note, nil
}

// Delete removes a note by id on behalf of actor. Owners and admins only.
func (n *NotesService) Delete(actor string, actorIsAdmin bool, id uint) error {
	note, err := n.Read(actor, actorIsAdmin, id)
	if err != nil {
		return err
	}
	return n.db.Delete(&models.Note{}, note.ID).Error
}
