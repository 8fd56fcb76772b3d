package validation

import "fmt"

// Kind identifies one case in the closed validation error taxonomy.
// The set mirrors the error codes of the receiving messaging app, so a
// caller can pattern-match exhaustively and forward codes across the
// process boundary without translation.
type Kind int

const (
	// KindOther covers structural violations that have no dedicated code,
	// such as forbidden characters in the pack identifier.
	KindOther Kind = iota
	KindEmptyString
	KindStringTooLong
	KindInvalidURL
	KindInvalidEmail
	KindFileNotFound
	KindIncorrectImageSize
	KindOutsideAllowableRange
	KindTooManyEmojis
	KindImageTooBig
	KindUnsupportedImageFormat
	KindAnimatedImagesNotSupported
)

// Wire codes, fixed by the cross-process contract with the host app.
// These strings must never change.
const (
	CodeOther                      = "OTHER"
	CodeEmptyString                = "EMPTY_STRING"
	CodeStringTooLong              = "STRING_TOO_LONG"
	CodeInvalidURL                 = "INVALID_URL"
	CodeInvalidEmail               = "INVALID_EMAIL"
	CodeFileNotFound               = "FILE_NOT_FOUND"
	CodeIncorrectImageSize         = "INCORRECT_IMAGE_SIZE"
	CodeOutsideAllowableRange      = "NUM_OUTSIDE_ALLOWABLE_RANGE"
	CodeTooManyEmojis              = "TOO_MANY_EMOJIS"
	CodeImageTooBig                = "IMAGE_TOO_BIG"
	CodeUnsupportedImageFormat     = "UNSUPPORTED_IMAGE_FORMAT"
	CodeAnimatedImagesNotSupported = "ANIMATED_IMAGES_NOT_SUPPORTED"
)

var kindCodes = map[Kind]string{
	KindOther:                      CodeOther,
	KindEmptyString:                CodeEmptyString,
	KindStringTooLong:              CodeStringTooLong,
	KindInvalidURL:                 CodeInvalidURL,
	KindInvalidEmail:               CodeInvalidEmail,
	KindFileNotFound:               CodeFileNotFound,
	KindIncorrectImageSize:         CodeIncorrectImageSize,
	KindOutsideAllowableRange:      CodeOutsideAllowableRange,
	KindTooManyEmojis:              CodeTooManyEmojis,
	KindImageTooBig:                CodeImageTooBig,
	KindUnsupportedImageFormat:     CodeUnsupportedImageFormat,
	KindAnimatedImagesNotSupported: CodeAnimatedImagesNotSupported,
}

var codeKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindCodes))
	for k, c := range kindCodes {
		m[c] = k
	}
	return m
}()

// Code returns the fixed wire code for the kind.
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return CodeOther
}

func (k Kind) String() string {
	return k.Code()
}

// KindFromCode maps a wire code back to a Kind. The HTTP layer uses it to
// recognize validation codes forwarded by the host app's bridge. The boolean
// is false for codes outside the validation taxonomy (the delivery layer has
// additional codes, such as ALREADY_ADDED, that are not validation failures).
func KindFromCode(code string) (Kind, bool) {
	k, ok := codeKinds[code]
	return k, ok
}

// Error is a single validation failure. The engine constructs it at the
// failure site and returns it unchanged to the caller; exactly one Error is
// produced per failed validation call (first violated rule wins).
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Retryable reports whether retrying the same inputs could ever succeed.
// Asset-size violations are a hard property of the bytes themselves, so
// resubmitting the same pack can never clear them.
func (e *Error) Retryable() bool {
	return e.Kind != KindImageTooBig
}

// newError builds a validation Error with a formatted message.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
