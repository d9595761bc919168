package remailer

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-remailer/go-remailer/lib/util/logger"
	"github.com/samber/oops"
)

// rlist.txt carries two record shapes: perl-style capability lines
//
//	$remailer{"paranoia"} = "<mixmaster@remailer.paranoici.org> cpunk mix pgp hash latent cut ek esub reord klen1024";
//
// and the uptime table
//
//	paranoia mixmaster@remailer.paranoici.org ************ 2:46:31 100.00%
//
// plus a "Last update:" stamp. Both shapes may describe the same remailer;
// entries merge by name.
var (
	capsLineRe = regexp.MustCompile(`^\$remailer\{"([a-z0-9]+)"\}\s*=\s*"<([^>]+)>((?:\s+[a-z0-9]+)*)";`)
	tableRowRe = regexp.MustCompile(`^([a-z0-9]+)\s+([\w\d]+@[\w\d.-]+)\s+[*?+\-#._ ]*\s((?:\d+:)?[0-5]?\d:[0-5]\d)\s+(\d{1,3}\.\d{1,2})%`)
	updateRe   = regexp.MustCompile(`^Last update:\s+(.+)$`)
)

// ParseStats builds a Directory from the text of an rlist.txt statistics
// listing. Lines matching neither record shape are skipped.
func ParseStats(text string) (*Directory, error) {
	dir := NewDirectory()
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if m := capsLineRe.FindStringSubmatch(line); m != nil {
			mergeCapsLine(dir, m[1], m[2], strings.Fields(m[3]))
			continue
		}
		if m := tableRowRe.FindStringSubmatch(line); m != nil {
			mergeTableRow(dir, m[1], m[2], m[3], m[4])
			continue
		}
		if m := updateRe.FindStringSubmatch(line); m != nil {
			log.WithField("updated", m[1]).Debug("remailer statistics timestamp")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, oops.Wrapf(err, "failed to scan statistics listing")
	}
	if dir.Len() == 0 {
		return nil, oops.Errorf("statistics listing contains no remailer records")
	}
	log.WithField("count", dir.Len()).Debug("parsed remailer statistics")
	return dir, nil
}

func mergeCapsLine(dir *Directory, name, email string, options []string) {
	caps := ParseOptions(options)
	if existing, err := dir.Lookup(name); err == nil {
		dir.Add(&Remailer{
			Name:    existing.Name,
			Email:   email,
			Caps:    caps,
			Latency: existing.Latency,
			Uptime:  existing.Uptime,
		})
		return
	}
	dir.Add(&Remailer{Name: name, Email: email, Caps: caps})
}

func mergeTableRow(dir *Directory, name, email, latency, uptime string) {
	lat, err := ParseLatency(latency)
	if err != nil {
		log.WithError(err).WithField("remailer", name).Warn("skipping malformed latency column")
	}
	up, err := strconv.ParseFloat(uptime, 64)
	if err != nil {
		log.WithError(err).WithField("remailer", name).Warn("skipping malformed uptime column")
	}
	if existing, lookErr := dir.Lookup(name); lookErr == nil {
		dir.Add(&Remailer{
			Name:    existing.Name,
			Email:   existing.Email,
			Caps:    existing.Caps,
			Latency: lat,
			Uptime:  up,
		})
		return
	}
	// Table-only records carry no option string; assume the full relay
	// capability pair until a capability line says otherwise.
	log.WithFields(logger.Fields{
		"remailer": name,
		"email":    email,
	}).Debug("table row without capability line, assuming middle+exit")
	dir.Add(&Remailer{
		Name:    name,
		Email:   email,
		Caps:    CapMiddle | CapExit,
		Latency: lat,
		Uptime:  up,
	})
}
