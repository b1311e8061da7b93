package tef

import "github.com/Jollyhrothgar/tef-decoder/internal/diag"

// Terminal error kinds Decode and Open can return. They are type
// aliases over internal/diag's definitions, not copies, so a consumer's
// type switch or errors.As works against the same underlying type every
// component package raises.
type (
	UnsupportedVersionError = diag.UnsupportedVersionError
	CorruptFileError        = diag.CorruptFileError
	TruncatedError          = diag.TruncatedError
)
