package basekit

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// credentialGenerator produces the username and password for new users.
// Tests replace it to get stable request bodies.
type credentialGenerator struct {
	suffix      func() int
	newPassword func() string
}

var defaultCredentials = credentialGenerator{
	suffix: func() int { return rand.IntN(100) }, //nolint:gosec // usernames are not secrets
	newPassword: func() string {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	},
}

// username builds "<initial><last name><2 digits>", or "<first name><2 digits>"
// without a last name, lower-cased with spaces removed.
func (g credentialGenerator) username(firstName, lastName string) string {
	base := firstName
	if lastName != "" {
		initial := ""
		if firstName != "" {
			initial = string([]rune(firstName)[:1])
		}
		base = initial + lastName
	}

	name := fmt.Sprintf("%s%02d", base, g.suffix())

	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

func (g credentialGenerator) password() string {
	return g.newPassword()
}
