// Package realm decides whether an HTTP request comes from a known user.
//
// Credentials are taken from the Basic Authorization header or, when the
// header is missing, from a base64 encoded "user:password" value in the
// token query parameter (handy for <img> tags and ebook readers that cannot
// set headers).
//
// Checking a PBKDF2 hash with 600k iterations takes a noticeable amount of
// CPU, and clients send the same credentials with every request. So once a
// password is verified against the users database it is remembered in memory
// for a week; following requests with the same password skip the hash.
//
// The users database is always the source of truth: a cached password that
// does not match what the client sent is treated as a miss, never as a
// rejection. When a password changes, Revoke must be called so the old one
// stops working immediately.
package realm
