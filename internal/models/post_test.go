package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParagraphs(t *testing.T) {
	p := Post{Content: "first line\r\nsecond line\n\n\nthird line"}
	assert.Equal(t, []string{"first line", "second line", "third line"}, p.Paragraphs())

	assert.Empty(t, Post{Content: "\n\n"}.Paragraphs())
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(string(c)), c)
	}
	assert.False(t, ValidCategory("Politics"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("food"))
}
