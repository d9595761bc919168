package remailer

import (
	"fmt"
	"strings"
)

// UnknownRemailerError reports a literal chain token that matches no
// directory record.
type UnknownRemailerError struct {
	Name string
}

func (e *UnknownRemailerError) Error() string {
	return fmt.Sprintf("unknown remailer %q", e.Name)
}

// Directory maps remailer names to their records. Build it with Add (or one
// of the bootstrap loaders), then treat it as read-only: lookups and
// eligibility scans are safe for unsynchronized concurrent use, mutation
// is not.
type Directory struct {
	records map[string]*Remailer
	order   []string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		records: make(map[string]*Remailer),
	}
}

// Add inserts or replaces a record. Names are matched case-insensitively;
// re-adding a name keeps its original position in the stable order.
func (d *Directory) Add(r *Remailer) {
	key := strings.ToLower(r.Name)
	if _, ok := d.records[key]; !ok {
		d.order = append(d.order, key)
	}
	d.records[key] = r
}

// Lookup finds a record by name. The returned error is an
// *UnknownRemailerError when the name is absent.
func (d *Directory) Lookup(name string) (*Remailer, error) {
	r, ok := d.records[strings.ToLower(name)]
	if !ok {
		return nil, &UnknownRemailerError{Name: name}
	}
	return r, nil
}

// Eligible returns every record carrying all the wanted capability flags,
// in stable insertion order. Callers must not read selection fairness into
// the order; the chain resolver draws from it uniformly.
func (d *Directory) Eligible(want Capability) []*Remailer {
	var out []*Remailer
	for _, key := range d.order {
		if r := d.records[key]; r.Caps.Has(want) {
			out = append(out, r)
		}
	}
	return out
}

// Names returns every record name in stable insertion order.
func (d *Directory) Names() []string {
	out := make([]string, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.records[key].Name)
	}
	return out
}

// Len returns the number of records.
func (d *Directory) Len() int {
	return len(d.records)
}
