package envelope

import (
	"bytes"
)

const (
	// SectionMarker opens a remailer directive section.
	SectionMarker = "::"
	// AnonToHeader names the forwarding target of a section.
	AnonToHeader = "Anon-To"
	// EncryptedHeader flags the section body as a nested PGP message.
	EncryptedHeader = "Encrypted"
	// EncryptedValue is the only body encoding remailers accept.
	EncryptedValue = "PGP"
)

// Header is one visible header line. Order is preserved through
// serialization.
type Header struct {
	Name  string
	Value string
}

// Envelope is the cleartext block one hop decrypts and acts on.
type Envelope struct {
	// Directive is the Anon-To target: the next hop's address, or the end
	// recipient at the final hop. It is opaque to this package.
	Directive string
	// Headers are the visible headers of the directive section. Only the
	// final-hop envelope carries caller metadata; intermediate envelopes
	// stay restricted to what their remailer needs.
	Headers []Header
	// Body is the literal message at the final hop, or the armored
	// ciphertext of the next inner layer everywhere else.
	Body []byte
	// Encrypted tells whether Body is a nested PGP message.
	Encrypted bool
}

// NewFinal builds the innermost envelope: the block the final hop acts on
// to deliver the caller's message.
func NewFinal(recipient string, headers []Header, body []byte) *Envelope {
	return &Envelope{
		Directive: recipient,
		Headers:   headers,
		Body:      body,
	}
}

// NewHop builds an intermediate (or outer) envelope instructing a hop to
// forward the nested ciphertext to next.
func NewHop(next string, ciphertext []byte) *Envelope {
	return &Envelope{
		Directive: next,
		Body:      ciphertext,
		Encrypted: true,
	}
}

// Bytes serializes the envelope into the exact block a remailer expects.
func (e *Envelope) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(SectionMarker)
	buf.WriteByte('\n')
	buf.WriteString(AnonToHeader)
	buf.WriteString(": ")
	buf.WriteString(e.Directive)
	buf.WriteByte('\n')
	for _, h := range e.Headers {
		buf.WriteString(h.Name)
		buf.WriteString(": ")
		buf.WriteString(h.Value)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(e.Transmission())
	return buf.Bytes()
}

// Transmission returns the portion that travels as a mail body to the hop
// named by Directive: the Encrypted: PGP section for onion layers, the raw
// body for the final delivery block.
func (e *Envelope) Transmission() []byte {
	if !e.Encrypted {
		return e.Body
	}
	var buf bytes.Buffer
	buf.WriteString(SectionMarker)
	buf.WriteByte('\n')
	buf.WriteString(EncryptedHeader)
	buf.WriteString(": ")
	buf.WriteString(EncryptedValue)
	buf.WriteString("\n\n")
	buf.Write(e.Body)
	return buf.Bytes()
}
