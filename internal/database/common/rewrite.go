package common

import (
	"strconv"
	"strings"
)

// RewriteToDollar converts the neutral convention to PostgreSQL's: backtick
// identifier quoting becomes double quotes and `?` placeholders become
// `$1..$n`. Single-quoted string literals are left untouched, including
// doubled-quote escapes.
func RewriteToDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	inLiteral := false
	arg := 0
	for i := 0; i < len(query); i++ {
		ch := query[i]
		if inLiteral {
			b.WriteByte(ch)
			if ch == '\'' {
				// Doubled quote escapes stay inside the literal.
				if i+1 < len(query) && query[i+1] == '\'' {
					b.WriteByte('\'')
					i++
				} else {
					inLiteral = false
				}
			}
			continue
		}
		switch ch {
		case '\'':
			inLiteral = true
			b.WriteByte(ch)
		case '`':
			b.WriteByte('"')
		case '?':
			arg++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(arg))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// QuoteIdentifier quotes an identifier with the given quote character,
// doubling any embedded quote.
func QuoteIdentifier(name string, quote rune) string {
	q := string(quote)
	return q + strings.ReplaceAll(name, q, q+q) + q
}
