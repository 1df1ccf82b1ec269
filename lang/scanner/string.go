package scanner

import (
	"strings"

	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/token"
)

// scanString scans a double-quoted string literal with \" and \\ escapes
// only, per spec §4.1.
func (s *Scanner) scanString(pos token.Pos, val *token.Value) (token.Token, error) {
	start := s.off
	s.advance() // consume opening '"'

	var sb strings.Builder
	for {
		switch s.cur {
		case -1, '\n':
			lit := string(s.src[start:s.off])
			return token.ILLEGAL, &errs.ParseError{Pos: pos, Expected: "closing '\"'", Got: lit}
		case '"':
			s.advance()
			lit := string(s.src[start:s.off])
			*val = token.Value{Pos: pos, Raw: lit, Str: sb.String()}
			return token.STRING, nil
		case '\\':
			s.advance()
			switch s.cur {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				lit := string(s.src[start:s.off])
				return token.ILLEGAL, &errs.ParseError{Pos: pos, Expected: `\" or \\`, Got: lit}
			}
			s.advance()
		default:
			sb.WriteRune(s.cur)
			s.advance()
		}
	}
}
