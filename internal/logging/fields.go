package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError = "error"
	FieldPath  = "path"
	FieldFiles = "files"

	// Search fields.
	FieldCorpus    = "corpus"
	FieldExtension = "extension"
	FieldQuery     = "query"
	FieldRows      = "rows"
	FieldLimit     = "limit"
	FieldAccepted  = "accepted"

	// Update fields.
	FieldURL      = "url"
	FieldPlatform = "platform"
	FieldPages    = "pages"
	FieldRecords  = "records"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
