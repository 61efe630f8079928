package tts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTextStripsMarkup(t *testing.T) {
	assert.Equal(t, "Salom dunyo", CleanText("**Salom**  `dunyo`"))
	assert.Equal(t, "Sarlavha matn", CleanText("# Sarlavha\n\n> matn"))
	assert.Equal(t, "", CleanText("   "))
}

func TestCleanTextCapsLength(t *testing.T) {
	long := strings.Repeat("a", 600)
	cleaned := CleanText(long)
	assert.Len(t, []rune(cleaned), 500)
}
