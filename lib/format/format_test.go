package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-remailer/go-remailer/lib/chain"
	"github.com/go-remailer/go-remailer/lib/envelope"
	"github.com/go-remailer/go-remailer/lib/remailer"
	"github.com/go-remailer/go-remailer/lib/route"
)

func testResult() *route.Result {
	first := &remailer.Remailer{
		Name:  "austria",
		Email: "mixmaster@remailer.privacy.at",
		Caps:  remailer.CapMiddle | remailer.CapPGP,
	}
	exit := &remailer.Remailer{
		Name:  "dizum",
		Email: "remailer@dizum.com",
		Caps:  remailer.CapMiddle | remailer.CapExit | remailer.CapPGP,
	}
	return &route.Result{
		Chain:    chain.Resolved{first, exit},
		Envelope: envelope.NewHop(first.Email, []byte("-----BEGIN PGP MESSAGE-----\npayload\n-----END PGP MESSAGE-----\n")),
	}
}

func TestParseKind(t *testing.T) {
	for _, tc := range []struct {
		name string
		want Kind
	}{
		{"native", Native},
		{"Native", Native},
		{"MAILTO", Mailto},
		{"eml", EML},
	} {
		kind, err := ParseKind(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, kind)
	}

	_, err := ParseKind("postscript")
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, Kind("postscript"), unsupported.Kind)
}

func TestFormatNativeRoundTrips(t *testing.T) {
	res := testResult()

	out, err := Format(res, Native)
	require.NoError(t, err)

	parsed, err := envelope.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, res.Envelope.Directive, parsed.Directive)
	assert.True(t, parsed.Encrypted)
	assert.Equal(t, res.Envelope.Body, parsed.Body)
}

func TestFormatMailto(t *testing.T) {
	out, err := Format(testResult(), Mailto)
	require.NoError(t, err)

	uri := string(out)
	assert.True(t, strings.HasPrefix(uri, "mailto:mixmaster@remailer.privacy.at?body="))

	body := uri[strings.Index(uri, "?body=")+len("?body="):]
	// Everything outside the unreserved set is escaped, spaces included.
	assert.Contains(t, body, "%3A%3A%0AEncrypted%3A%20PGP%0A%0A")
	assert.NotContains(t, body, "+")
	assert.NotContains(t, body, " ")
	assert.NotContains(t, body, "\n")
}

func TestFormatEML(t *testing.T) {
	emlNow = func() time.Time {
		return time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	}
	defer func() { emlNow = time.Now }()

	out, err := Format(testResult(), EML)
	require.NoError(t, err)

	msg := string(out)
	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)

	assert.Contains(t, headers, "To: mixmaster@remailer.privacy.at\r\n")
	assert.Contains(t, headers, "Date: Sun, 30 Aug 2026 12:00:00 +0000\r\n")
	assert.Contains(t, headers, "Message-ID: <")
	assert.Contains(t, headers, "@go-remailer>")

	// The mail body carries the transmission bytes untouched.
	assert.Equal(t, string(testResult().Envelope.Transmission()), body)
}

func TestFormatUnsupportedKind(t *testing.T) {
	_, err := Format(testResult(), Kind("tarball"))
	assert.Error(t, err)
}
