package avatar

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL builds the Gravatar URL for the given email address. Used as
// the fallback avatar when a user has no Microsoft profile photo. Default
// size is 200px.
func GravatarURL(email string, size int) string {
	if size <= 0 {
		size = 200
	}

	email = strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(email))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}
