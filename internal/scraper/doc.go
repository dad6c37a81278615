// Package scraper fetches the referee register: the referees' list PDF
// linked from the development page and one public profile page per licence.
package scraper
