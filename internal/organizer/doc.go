// Package organizer sorts the top-level files of a directory into
// category/extension subfolders.
//
// The Engine classifies each regular file by its lowercased extension against
// an ordered rules.Table, creates <dir>/<category>/<ext> on demand, picks a
// collision-free name ("name (1).ext", "name (2).ext", ...) and renames the
// file into place. Entries are processed one at a time in directory order so a
// later file always observes the moves made before it. The engine keeps no
// state between runs and holds no locks; callers that may organize the same
// directory concurrently must serialize externally (see internal/dirlock).
//
// A failed move aborts the remainder of the run. Files already moved stay
// where they are.
package organizer
