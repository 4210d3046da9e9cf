package physics

import "errors"

var (
	ErrInvalidStep      = errors.New("step duration must be positive")
	ErrReentrantStep    = errors.New("engine is already stepping")
	ErrStateSize        = errors.New("state vector does not match registered bodies")
	ErrNilBody          = errors.New("nil body")
	ErrSnapshotMismatch = errors.New("snapshot does not match registered bodies")
	ErrChecksum         = errors.New("snapshot checksum mismatch")
)
