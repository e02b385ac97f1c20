package r2save

import (
	"github.com/cybergrind/r2save/bio"
	"github.com/cybergrind/r2save/envelope"
	"github.com/cybergrind/r2save/names"
	"github.com/cybergrind/r2save/save"
)

// Sentinel errors, re-exported from the layer that actually detects them so
// callers only need to import this one package for errors.Is checks.
var (
	ErrMalformedEnvelope   = envelope.ErrMalformedEnvelope
	ErrBadChecksum         = envelope.ErrBadChecksum
	ErrOutOfBounds         = bio.ErrOutOfBounds
	ErrInvalidName         = names.ErrInvalidName
	ErrSizeMismatch        = envelope.ErrSizeMismatch
	ErrBlobDetectionFailed = save.ErrBlobDetectionFailed
)
