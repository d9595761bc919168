package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-remailer/go-remailer/lib/config"
	"github.com/go-remailer/go-remailer/lib/remailer"
)

const sampleRlist = `Stats-Version: 2.0
Last update: Sat 29 Aug 2026 12:00:00 GMT
remailer  email address                        history  latency  uptime
-----------------------------------------------------------------------
paranoia mixmaster@remailer.paranoici.org ************ 2:46:31 100.00%
dizum    remailer@dizum.com               ***********  0:33:59  99.96%

$remailer{"paranoia"} = "<mixmaster@remailer.paranoici.org> cpunk mix pgp hash latent cut ek esub reord klen1024";
$remailer{"dizum"} = "<remailer@dizum.com> cpunk mix pgp pgponly hash latent cut ek esub reord klen64";
`

const sampleYAML = `remailers:
  - name: paranoia
    email: mixmaster@remailer.paranoici.org
    caps: [middle, exit, pgp, mix]
    latency: "2:46:31"
    uptime: 100.0
  - name: austria
    email: mixmaster@remailer.privacy.at
    caps: [middle, pgp]
`

const samplePubring = `-----BEGIN PGP PUBLIC KEY BLOCK-----

mQENBFfakefirstblock=
-----END PGP PUBLIC KEY BLOCK-----
-----BEGIN PGP PUBLIC KEY BLOCK-----

mQENBFfakesecondblock=
-----END PGP PUBLIC KEY BLOCK-----
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileBootstrapRlist(t *testing.T) {
	fb := NewFileBootstrap(writeFile(t, "rlist.txt", sampleRlist), "")

	dir, err := fb.FetchDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	paranoia, err := dir.Lookup("paranoia")
	require.NoError(t, err)
	assert.Equal(t, "mixmaster@remailer.paranoici.org", paranoia.Email)
	assert.True(t, paranoia.Caps.Has(remailer.CapExit))
	assert.Equal(t, 2*time.Hour+46*time.Minute+31*time.Second, paranoia.Latency)
}

func TestFileBootstrapYAML(t *testing.T) {
	fb := NewFileBootstrap(writeFile(t, "directory.yaml", sampleYAML), "")

	dir, err := fb.FetchDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	paranoia, err := dir.Lookup("paranoia")
	require.NoError(t, err)
	assert.True(t, paranoia.Caps.Has(remailer.CapExit))
	assert.Equal(t, 100.0, paranoia.Uptime)

	austria, err := dir.Lookup("austria")
	require.NoError(t, err)
	assert.True(t, austria.Caps.Has(remailer.CapMiddle))
	assert.False(t, austria.Caps.Has(remailer.CapExit))
}

func TestFileBootstrapYAMLBadCapability(t *testing.T) {
	fb := NewFileBootstrap(writeFile(t, "directory.yaml", `remailers:
  - name: broken
    email: broken@example.org
    caps: [warpdrive]
`), "")
	_, err := fb.FetchDirectory(context.Background())
	assert.Error(t, err)
}

func TestFileBootstrapMissingFile(t *testing.T) {
	fb := NewFileBootstrap(filepath.Join(t.TempDir(), "absent.txt"), "")
	_, err := fb.FetchDirectory(context.Background())
	assert.Error(t, err)
}

func TestFileBootstrapKeyring(t *testing.T) {
	fb := NewFileBootstrap("", writeFile(t, "pubring.asc", samplePubring))

	blocks, err := fb.FetchKeyring(context.Background())
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestFileBootstrapNoKeyringConfigured(t *testing.T) {
	fb := NewFileBootstrap("", "")
	blocks, err := fb.FetchKeyring(context.Background())
	require.NoError(t, err)
	assert.Nil(t, blocks)
}

func testStatsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rlist.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRlist))
	})
	mux.HandleFunc("/pubring.asc", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePubring))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testStatsConfig(url string) config.StatsConfig {
	return config.StatsConfig{
		URL:               url,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 100,
	}
}

func TestHTTPBootstrapFetchDirectory(t *testing.T) {
	srv := testStatsServer(t)
	hb := NewHTTPBootstrap(testStatsConfig(srv.URL))

	dir, err := hb.FetchDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())
}

func TestHTTPBootstrapFetchKeyring(t *testing.T) {
	srv := testStatsServer(t)
	hb := NewHTTPBootstrap(testStatsConfig(srv.URL))

	blocks, err := hb.FetchKeyring(context.Background())
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestHTTPBootstrapServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	hb := NewHTTPBootstrap(testStatsConfig(srv.URL))
	_, err := hb.FetchDirectory(context.Background())
	assert.Error(t, err)
}

// failingBootstrap always errors, for composite fallthrough tests.
type failingBootstrap struct{}

func (failingBootstrap) FetchDirectory(context.Context) (*remailer.Directory, error) {
	return nil, errors.New("source down")
}

func (failingBootstrap) FetchKeyring(context.Context) ([][]byte, error) {
	return nil, errors.New("source down")
}

func TestCompositeFallsThrough(t *testing.T) {
	good := NewFileBootstrap(writeFile(t, "rlist.txt", sampleRlist), writeFile(t, "pubring.asc", samplePubring))
	cb := NewCompositeBootstrap(failingBootstrap{}, good)

	dir, err := cb.FetchDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	blocks, err := cb.FetchKeyring(context.Background())
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestCompositeSkipsEmptyKeyring(t *testing.T) {
	// A file source with no keyring path succeeds with zero blocks and
	// must not mask a later source that has keys.
	empty := NewFileBootstrap("", "")
	good := NewFileBootstrap("", writeFile(t, "pubring.asc", samplePubring))
	cb := NewCompositeBootstrap(empty, good)

	blocks, err := cb.FetchKeyring(context.Background())
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestCompositeAllFail(t *testing.T) {
	cb := NewCompositeBootstrap(failingBootstrap{}, failingBootstrap{})
	_, err := cb.FetchDirectory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every bootstrap source failed")
}
