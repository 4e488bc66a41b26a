package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage(language.AmericanEnglish)
	assert.Equal("symbol foo unknown", From("symbol %v unknown", "foo"))
	assert.Equal("pass 3 of 7", From("pass %d of %d", 3, 7))
}
