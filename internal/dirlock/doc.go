// Package dirlock serializes organize runs against the same directory.
//
// The organizer engine itself does no locking; two processes sorting one
// directory at once would race on collision names. Acquire takes an
// exclusive flock on a lock file derived from the target's absolute path so
// a second run fails fast with ErrLocked instead.
package dirlock
