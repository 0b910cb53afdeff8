// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFlavor = "flavor"
	FieldJobs   = "jobs"

	// Compiler fields.
	FieldEvents    = "events"
	FieldBlocks    = "blocks"
	FieldFootnotes = "footnotes"
	FieldKind      = "kind"
	FieldDepth     = "depth"
	FieldEntity    = "entity"
	FieldTrim      = "trim"
	FieldName      = "name"
	FieldNumber    = "number"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesCompiled   = "files_compiled"
	FieldFilesFailed     = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
