package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-remailer/go-remailer/lib/pgp"
	"github.com/go-remailer/go-remailer/lib/remailer"
	"github.com/go-remailer/go-remailer/lib/util"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// FileBootstrap implements Bootstrap from local files: a directory listing
// (rlist.txt grammar, or YAML when the path ends in .yaml/.yml) and an
// optional armored pubring.
type FileBootstrap struct {
	statsPath   string
	keyringPath string
}

// NewFileBootstrap creates a loader for the given paths. keyringPath may
// be empty when keys are imported separately.
func NewFileBootstrap(statsPath, keyringPath string) *FileBootstrap {
	return &FileBootstrap{
		statsPath:   statsPath,
		keyringPath: keyringPath,
	}
}

// FetchDirectory implements Bootstrap by reading the local listing.
func (fb *FileBootstrap) FetchDirectory(ctx context.Context) (*remailer.Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !util.CheckFileExists(fb.statsPath) {
		return nil, oops.Errorf("directory file %s does not exist", fb.statsPath)
	}
	data, err := os.ReadFile(fb.statsPath)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to read directory file %s", fb.statsPath)
	}

	switch strings.ToLower(filepath.Ext(fb.statsPath)) {
	case ".yaml", ".yml":
		return parseYAMLDirectory(data)
	default:
		dir, err := remailer.ParseStats(string(data))
		if err != nil {
			return nil, oops.Wrapf(err, "directory file %s is unusable", fb.statsPath)
		}
		return dir, nil
	}
}

// FetchKeyring implements Bootstrap by splitting the local pubring into
// armored blocks.
func (fb *FileBootstrap) FetchKeyring(ctx context.Context) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fb.keyringPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(fb.keyringPath)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to read keyring file %s", fb.keyringPath)
	}
	blocks := pgp.SplitArmored(data)
	if len(blocks) == 0 {
		return nil, oops.Errorf("keyring file %s contains no armored key blocks", fb.keyringPath)
	}
	return blocks, nil
}

// yamlDirectory is the schema of a static YAML directory file.
type yamlDirectory struct {
	Remailers []yamlRemailer `yaml:"remailers"`
}

type yamlRemailer struct {
	Name    string   `yaml:"name"`
	Email   string   `yaml:"email"`
	Caps    []string `yaml:"caps"`
	Latency string   `yaml:"latency"`
	Uptime  float64  `yaml:"uptime"`
}

func parseYAMLDirectory(data []byte) (*remailer.Directory, error) {
	var doc yamlDirectory
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Wrapf(err, "failed to parse YAML directory")
	}
	if len(doc.Remailers) == 0 {
		return nil, oops.Errorf("YAML directory lists no remailers")
	}

	dir := remailer.NewDirectory()
	for _, entry := range doc.Remailers {
		if entry.Name == "" || entry.Email == "" {
			return nil, oops.Errorf("YAML directory entry missing name or email")
		}
		var caps remailer.Capability
		for _, name := range entry.Caps {
			c, err := remailer.ParseCapability(name)
			if err != nil {
				return nil, oops.Wrapf(err, "bad capability for remailer %q", entry.Name)
			}
			caps |= c
		}
		record := &remailer.Remailer{
			Name:   entry.Name,
			Email:  entry.Email,
			Caps:   caps,
			Uptime: entry.Uptime,
		}
		if entry.Latency != "" {
			lat, err := remailer.ParseLatency(entry.Latency)
			if err != nil {
				return nil, oops.Wrapf(err, "bad latency for remailer %q", entry.Name)
			}
			record.Latency = lat
		}
		dir.Add(record)
	}
	log.WithField("records", dir.Len()).Debug("loaded YAML remailer directory")
	return dir, nil
}
