package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	// Casing and surrounding whitespace must not change the hash.
	a := GravatarURL("Mira@Example.com ", 0)
	b := GravatarURL("mira@example.com", 200)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "https://www.gravatar.com/avatar/")
	assert.Contains(t, a, "s=200")
	assert.Contains(t, GravatarURL("mira@example.com", 64), "s=64")
}
