package catalog

import "reprise/internal/services"

// Error is a classified catalog failure. Callers match with errors.Is against
// the sentinels below.
type Error struct {
	kind string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// ErrorKind implements services.ErrorClassifier.
func (e *Error) ErrorKind() string { return e.kind }

var (
	// ErrNotFound reports a missing video, collection or playlist.
	ErrNotFound = &Error{kind: services.KindNotFound, msg: "not found"}
	// ErrInvalidInterval reports a negative review count passed to the interval policy.
	ErrInvalidInterval = &Error{kind: services.KindValidation, msg: "invalid interval argument"}
	// ErrDanglingReference reports a playlist item whose video is not in the catalog.
	ErrDanglingReference = &Error{kind: services.KindValidation, msg: "dangling video reference"}
	// ErrInvalidIndex reports a playlist cursor outside 0..len(items).
	ErrInvalidIndex = &Error{kind: services.KindValidation, msg: "playlist index out of range"}
	// ErrInvalidKind reports an unknown playlist kind.
	ErrInvalidKind = &Error{kind: services.KindValidation, msg: "invalid playlist kind"}
	// ErrEmptyPlaylist reports that nothing is scheduled for the requested kind.
	ErrEmptyPlaylist = &Error{kind: services.KindConflict, msg: "nothing scheduled"}
)
