package command

import "strings"

// QuoteStyle selects how arguments are quoted when a command is rendered.
type QuoteStyle int

const (
	QuoteShell      QuoteStyle = iota // POSIX sh/bash double quotes
	QuotePowerShell                   // PowerShell double quotes
)

// shellSpecial lists characters that force quoting of a bare argument.
const shellSpecial = " \t\r\n=\"'$`\\;&|<>()*?!#~{}[]"

func (s QuoteStyle) String() string {
	if s == QuotePowerShell {
		return "powershell"
	}
	return "shell"
}

// Quote wraps arg in double quotes, escaping the characters that stay
// special inside them. Line breaks never appear literally in the result:
// the shell style splices in $'\n' segments, PowerShell uses `n.
func (s QuoteStyle) Quote(arg string) string {
	var b strings.Builder
	b.Grow(len(arg) + 2)
	b.WriteByte('"')
	for _, r := range arg {
		switch s {
		case QuotePowerShell:
			switch r {
			case '\n':
				b.WriteString("`n")
				continue
			case '\r':
				b.WriteString("`r")
				continue
			case '"', '$', '`':
				b.WriteByte('`')
			}
		default:
			switch r {
			case '\n':
				b.WriteString(`"$'\n'"`)
				continue
			case '\r':
				b.WriteString(`"$'\r'"`)
				continue
			case '"', '$', '`', '\\':
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteIfNeeded quotes arg only when it is empty or contains shell
// metacharacters.
func (s QuoteStyle) QuoteIfNeeded(arg string) string {
	if arg == "" || strings.ContainsAny(arg, shellSpecial) {
		return s.Quote(arg)
	}
	return arg
}
