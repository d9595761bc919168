package remailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRlist = `Stats version: 2.0
Last update: Thu 23 Aug 2018 12:00:00 GMT
remailer  email address                        history  latency  uptime
-----------------------------------------------------------------------
paranoia mixmaster@remailer.paranoici.org ************ 2:46:31 100.00%
dizum    remailer@dizum.com               **+**+*+**** 41:53  99.87%
austria  mixmaster@remailer.privacy.at    ***** *****_  3:10:20 97.30%

$remailer{"paranoia"} = "<mixmaster@remailer.paranoici.org> cpunk max mix pgp hash latent cut ek esub reord klen1024";
$remailer{"dizum"} = "<remailer@dizum.com> cpunk max mix pgp hash latent cut ek ekx esub reord post klen64";
$remailer{"austria"} = "<mixmaster@remailer.privacy.at> cpunk mix middle pgp hash latent cut ek esub reord";
`

func TestParseStatsMergesBothSections(t *testing.T) {
	dir, err := ParseStats(sampleRlist)
	require.NoError(t, err)
	assert.Equal(t, 3, dir.Len())

	paranoia, err := dir.Lookup("paranoia")
	require.NoError(t, err)
	assert.Equal(t, "mixmaster@remailer.paranoici.org", paranoia.Email)
	assert.Equal(t, 2*time.Hour+46*time.Minute+31*time.Second, paranoia.Latency)
	assert.InDelta(t, 100.0, paranoia.Uptime, 0.001)
	assert.True(t, paranoia.Caps.Has(CapMiddle|CapExit|CapPGP|CapHash))

	dizum, err := dir.Lookup("dizum")
	require.NoError(t, err)
	assert.True(t, dizum.Caps.Has(CapPost))
	assert.Equal(t, 41*time.Minute+53*time.Second, dizum.Latency)
}

func TestParseStatsMiddleOnlyRemailer(t *testing.T) {
	dir, err := ParseStats(sampleRlist)
	require.NoError(t, err)

	austria, err := dir.Lookup("austria")
	require.NoError(t, err)
	assert.True(t, austria.Caps.Has(CapMiddle))
	assert.False(t, austria.Caps.Has(CapExit))
}

func TestParseStatsCapsOnlyListing(t *testing.T) {
	dir, err := ParseStats(`$remailer{"banana"} = "<banana@example.org> cpunk pgp";`)
	require.NoError(t, err)

	banana, err := dir.Lookup("banana")
	require.NoError(t, err)
	assert.Equal(t, "banana@example.org", banana.Email)
	assert.True(t, banana.Caps.Has(CapMiddle|CapExit|CapPGP))
	assert.Zero(t, banana.Latency)
}

func TestParseStatsEmptyListing(t *testing.T) {
	_, err := ParseStats("nothing useful here\n")
	assert.Error(t, err)
}
