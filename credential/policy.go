package credential

import (
	"github.com/nbutton23/zxcvbn-go"
)

// CheckStrength rejects empty passwords and, when minScore is positive,
// passwords whose zxcvbn score is below it. The principal is passed to
// zxcvbn as user input so passwords derived from it score low.
func CheckStrength(principal, secret string, minScore int) error {
	if len(secret) == 0 {
		return WeakPassword{Score: 0, MinScore: minScore}
	}
	if minScore <= 0 {
		return nil
	}
	res := zxcvbn.PasswordStrength(secret, []string{principal})
	if res.Score < minScore {
		return WeakPassword{Score: res.Score, MinScore: minScore}
	}
	return nil
}
