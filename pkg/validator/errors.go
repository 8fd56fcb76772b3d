package validator

import "errors"

var (
	ErrInvalidCharacters = errors.New("string contains invalid characters")
	ErrDoubleDot         = errors.New("string contains consecutive dots")
	ErrMalformedURL      = errors.New("url is malformed")
	ErrSchemeNotHTTP     = errors.New("url must use http or https scheme")
	ErrWrongDomain       = errors.New("url host is not in the expected domain")
	ErrInvalidEmail      = errors.New("email address is not valid")
)
