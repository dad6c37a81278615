// Package site renders the static referee site: one page per referee built
// from its recorded card versions, the shared script and stylesheet, and the
// change report of the latest update.
package site
