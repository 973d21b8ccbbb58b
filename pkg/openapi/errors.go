package openapi

// ErrorCode categorizes loader errors
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ReferenceError  ErrorCode = "ReferenceError"
	ValidationError ErrorCode = "ValidationError"
	VersionError    ErrorCode = "VersionError"
)

// SpecError is a structured loading error with the offending location
type SpecError struct {
	Code    ErrorCode
	Message string
	// Location is the file path or URL of the document
	Location string
	// Pointer is the JSON pointer inside the document, when known
	Pointer string
	Cause   error
}

func (e *SpecError) Error() string {
	msg := e.Message
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Location != "" {
		msg += " (" + e.Location + ")"
	}
	return msg
}

func (e *SpecError) Unwrap() error { return e.Cause }
