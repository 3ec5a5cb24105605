// Package fileutil contains the low-level file move and copy primitives used
// by the organizer.
package fileutil
