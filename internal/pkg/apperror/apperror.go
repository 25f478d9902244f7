package apperror

// AppError carries an HTTP status code alongside a user-facing message.
// Feature packages declare their sentinel errors with New and the HTTP
// layer maps them straight to responses.
type AppError struct {
	Code    int    // HTTP status code (e.g. 400, 404, 409)
	Message string // user-facing error message
	Err     error  // underlying cause, never exposed to the user
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates an AppError keeping the underlying error for logging and
// errors.Is/As checks.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
