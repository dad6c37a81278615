// Package storage persists the referee register.
//
// The current register lives in uww_referees.csv under the data directory and
// the register from the previous run in last/uww_referees.csv. Rotate moves
// the former to the latter before a new scrape. Registers can also be exported
// to a spreadsheet with clickable photo and profile links.
// The default storage location is ~/.local/share/uww-referees/.
package storage
