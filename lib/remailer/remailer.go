package remailer

import (
	"regexp"
	"strconv"
	"time"

	"github.com/samber/oops"
)

// Remailer is one directory record. Records are immutable once their
// Directory is built; the chain resolver only ever reads them.
type Remailer struct {
	// Name is the short identifier used in chain specifications,
	// matched case-insensitively.
	Name string
	// Email is the remailer's delivery address, used both as the
	// encryption recipient and as the Anon-To forwarding target.
	Email string
	// Caps is the parsed capability set.
	Caps Capability
	// Latency is the advertised reordering delay.
	Latency time.Duration
	// Uptime is the advertised reliability percentage.
	Uptime float64
}

func (r *Remailer) String() string {
	return r.Name
}

// latencyRe matches the H:MM:SS (or MM:SS) latency column of rlist.txt.
var latencyRe = regexp.MustCompile(`^(?:(\d+):)?([0-5]?\d):([0-5]\d)$`)

// ParseLatency converts an rlist.txt latency string such as "2:26:47"
// or "41:53" into a duration.
func ParseLatency(s string) (time.Duration, error) {
	m := latencyRe.FindStringSubmatch(s)
	if m == nil {
		return 0, oops.Errorf("malformed latency %q", s)
	}
	var seconds int64
	if m[1] != "" {
		hours, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, oops.Wrapf(err, "malformed latency hours in %q", s)
		}
		seconds += hours * 3600
	}
	minutes, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, oops.Wrapf(err, "malformed latency minutes in %q", s)
	}
	secs, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return 0, oops.Wrapf(err, "malformed latency seconds in %q", s)
	}
	seconds += minutes*60 + secs
	return time.Duration(seconds) * time.Second, nil
}
