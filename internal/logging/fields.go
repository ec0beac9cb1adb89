package logging

// Field name constants for structured logging.
const (
	FieldError       = "error"
	FieldPath        = "path"
	FieldInput       = "input"
	FieldOutput      = "output"
	FieldFingerprint = "fingerprint"

	FieldSchemas  = "schemas"
	FieldSkipped  = "skipped"
	FieldMessages = "messages"
	FieldEnums    = "enums"
	FieldFields   = "fields"
)
