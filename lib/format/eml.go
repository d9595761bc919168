package format

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-remailer/go-remailer/lib/route"
	"github.com/google/uuid"
)

// emlNow is swapped in tests to pin the Date header.
var emlNow = time.Now

// formatEML wraps the transmission body in a complete RFC 5322 message
// addressed to the first hop. The payload bytes are identical to what the
// native and mailto renderings carry.
func formatEML(res *route.Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "To: %s\r\n", res.Envelope.Directive)
	fmt.Fprintf(&buf, "Subject: \r\n")
	fmt.Fprintf(&buf, "Date: %s\r\n", emlNow().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@go-remailer>\r\n", uuid.NewString())
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=us-ascii\r\n")
	buf.WriteString("\r\n")
	buf.Write(res.Envelope.Transmission())
	return buf.Bytes()
}
