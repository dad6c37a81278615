// Package notifier posts register announcements: new referees, category
// changes and retirements.
//
// Announcements are built from a register diff and formatted as short posts
// capped at 280 characters. Posts go to Twitter with credentials from the
// environment, or to a writer in dry-run mode.
package notifier
