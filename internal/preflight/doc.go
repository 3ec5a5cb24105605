// Package preflight provides readiness checks for the directories and rule
// table foldersort depends on.
//
// The CLI "foldersort check" command runs RunAll against a target directory
// and renders each Result. The organize command runs CheckDirectoryAccess on
// the target before taking the directory lock so permission problems surface
// before any file is touched.
package preflight
