// Package cli implements the command-line interface for uww-referees.
//
// The cli package provides the Cobra-based CLI: scraping the register,
// reporting changes since the last run (text/JSON, sortable), rendering the
// referee site, drawing statistics, posting announcements and serving a
// preview. The update command exits with status 2 when the register changed
// so schedulers can react to it.
package cli
