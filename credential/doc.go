// Package credential produces and checks the self-describing password hashes
// kept in the users database.
//
// A stored hash has the form:
//
//	pbkdf2:sha256:600000$<salt>$<hex digest>
//
// The method field carries everything needed to re-derive the digest, so
// checking a password never depends on process configuration. The format is
// the one used by werkzeug (and therefore calibre-web), which lets the
// service authenticate against an existing calibre-web users table.
package credential
