package strings

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// WrapString wraps v to maxLength columns, hard-splitting words longer than
// the limit. Used by the validate table renderer.
func WrapString(v string, maxLength int) string {
	strs := strings.Split(wordwrap.WrapString(v, uint(maxLength)), "\n")
	res := make([]string, 0, len(strs))
	for _, s := range strs {
		if len(s) > maxLength {
			for idx := 0; idx < len(s); idx += maxLength {
				rest := idx + maxLength
				if rest > len(s) {
					rest = len(s)
				}
				res = append(res, s[idx:rest])
			}
		} else {
			res = append(res, s)
		}
	}
	return strings.Join(res, "\n")
}
