package envelope

import (
	"bytes"
	"strings"

	"github.com/samber/oops"
)

var sectionPrefix = []byte(SectionMarker + "\n")

// Parse reads a serialized envelope back into its parts. It accepts both
// shapes Bytes produces: a directive section followed by a literal body,
// or a directive section followed by an Encrypted: PGP section whose body
// is the nested ciphertext.
func Parse(data []byte) (*Envelope, error) {
	if !bytes.HasPrefix(data, sectionPrefix) {
		return nil, oops.Errorf("envelope does not start with %q section marker", SectionMarker)
	}

	headers, rest, err := parseSection(data[len(sectionPrefix):])
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 || headers[0].Name != AnonToHeader {
		return nil, oops.Errorf("envelope directive section does not start with %s", AnonToHeader)
	}

	env := &Envelope{
		Directive: headers[0].Value,
		Headers:   headers[1:],
	}
	if len(env.Headers) == 0 {
		env.Headers = nil
	}

	if bytes.HasPrefix(rest, sectionPrefix) {
		inner, body, err := parseSection(rest[len(sectionPrefix):])
		if err != nil {
			return nil, err
		}
		if len(inner) != 1 || inner[0].Name != EncryptedHeader || inner[0].Value != EncryptedValue {
			return nil, oops.Errorf("second envelope section is not %s: %s", EncryptedHeader, EncryptedValue)
		}
		env.Body = body
		env.Encrypted = true
		return env, nil
	}

	env.Body = rest
	return env, nil
}

// parseSection reads "Name: value" lines up to the blank separator and
// returns them with the remainder of the data.
func parseSection(data []byte) ([]Header, []byte, error) {
	var headers []Header
	for {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			return nil, nil, oops.Errorf("unterminated envelope section")
		}
		line := string(data[:nl])
		data = data[nl+1:]
		if line == "" {
			return headers, data, nil
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, nil, oops.Errorf("malformed envelope header line %q", line)
		}
		headers = append(headers, Header{Name: name, Value: value})
	}
}
