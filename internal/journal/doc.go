// Package journal persists organize runs and the moves they performed in a
// SQLite database under the state directory.
//
// The journal is history only. It answers "where did my file go" for the
// history command; it is never replayed to undo a run.
package journal
