// Package referee holds the referee register record and the comparison of
// two register snapshots.
package referee
