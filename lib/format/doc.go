// Package format serializes finished routing results for transmission.
//
// Three representations are supported: the native cypherpunk block (what
// the first hop expects as a mail body, preceded by its routing section),
// a mailto: URI for handing to a mail client, and a complete RFC 5322
// message file. All three carry byte-identical encrypted payload content;
// only the wrapping differs. Formatting is pure and never re-encrypts.
package format
