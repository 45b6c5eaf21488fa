package docgen

import "errors"

var (
	ErrInvalidPackage    = errors.New("invalid docx package")
	ErrInvalidAttribute  = errors.New("invalid run attribute")
	ErrUnsupportedSource = errors.New("unsupported source format")
	ErrMalformedSource   = errors.New("malformed source document")
)
