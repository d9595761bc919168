package format

import (
	"fmt"
	"strings"

	"github.com/go-remailer/go-remailer/lib/route"
)

// Kind selects an output representation.
type Kind string

const (
	// Native renders the outer envelope's literal header+body block.
	Native Kind = "native"
	// Mailto renders a mailto: URI targeting the first hop.
	Mailto Kind = "mailto"
	// EML renders a complete email message file.
	EML Kind = "eml"
)

// UnsupportedFormatError reports an unrecognized format kind.
type UnsupportedFormatError struct {
	Kind Kind
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q", string(e.Kind))
}

// ParseKind validates a user-supplied format name.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(name)) {
	case Native:
		return Native, nil
	case Mailto:
		return Mailto, nil
	case EML:
		return EML, nil
	default:
		return "", &UnsupportedFormatError{Kind: Kind(name)}
	}
}

// Format serializes one routing result. It is a pure transformation of the
// result's outer envelope.
func Format(res *route.Result, kind Kind) ([]byte, error) {
	switch kind {
	case Native:
		return res.Envelope.Bytes(), nil
	case Mailto:
		return formatMailto(res), nil
	case EML:
		return formatEML(res), nil
	default:
		return nil, &UnsupportedFormatError{Kind: kind}
	}
}

// formatMailto encodes the transmission body into a mailto: URI per RFC
// 6068: the first hop's address as the target, the encrypted section
// percent-escaped into the body parameter.
func formatMailto(res *route.Result) []byte {
	var sb strings.Builder
	sb.WriteString("mailto:")
	sb.WriteString(res.Envelope.Directive)
	sb.WriteString("?body=")
	sb.WriteString(percentEncode(res.Envelope.Transmission()))
	return []byte(sb.String())
}

// percentEncode escapes every byte outside the RFC 3986 unreserved set.
// url.Values would emit "+" for spaces, which mail clients do not decode
// inside mailto bodies, so the escaping is done byte-wise here.
func percentEncode(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, c := range data {
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "%%%02X", c)
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	default:
		return false
	}
}
