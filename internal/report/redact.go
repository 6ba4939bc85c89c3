package report

import (
	"net/url"
	"strings"
)

const redacted = "***"

var sensitiveFlagParts = []string{"token", "secret", "password", "key"}

// RedactArgs renders a command line with secrets removed: values of
// sensitive flags become *** and URL user info is stripped.
func RedactArgs(args []string) string {
	out := make([]string, 0, len(args))
	redactNext := false

	for _, arg := range args {
		if redactNext {
			out = append(out, redacted)
			redactNext = false
			continue
		}

		if name, value, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(name, "-") {
			if isSensitiveFlag(name) {
				out = append(out, name+"="+redacted)
			} else {
				out = append(out, name+"="+stripUserInfo(value))
			}
			continue
		}

		if strings.HasPrefix(arg, "-") && isSensitiveFlag(arg) {
			redactNext = true
		}
		out = append(out, stripUserInfo(arg))
	}

	return strings.Join(out, " ")
}

func isSensitiveFlag(name string) bool {
	name = strings.ToLower(strings.TrimLeft(name, "-"))
	for _, part := range sensitiveFlagParts {
		if strings.Contains(name, part) {
			return true
		}
	}
	return false
}

func stripUserInfo(s string) string {
	if !strings.Contains(s, "://") || !strings.Contains(s, "@") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	u.User = nil
	return u.String()
}
