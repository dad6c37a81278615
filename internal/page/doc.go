// Package page applies the referee profile page behaviour to a parsed HTML
// document: the document title built from the page identity, the history
// panel toggle and the age line derived from the birth-date attribute.
//
// The same behaviour is emitted as a browser script by WriteScript so a published
// page stays interactive after the server-side pass has run.
package page
