package types

import "errors"

// Sentinel errors for harness invariant checks following Go best practices.
// These enable reliable error checking with errors.Is()
var (
	// ErrNoCommandClient indicates the driver started but exposed no command client
	ErrNoCommandClient = errors.New("session started but no command client is attached")

	// ErrStillRunning indicates the session still reports running after stop
	ErrStillRunning = errors.New("session still reports running after stop")

	// ErrNoDriver indicates the controller was built without a session driver
	ErrNoDriver = errors.New("no session driver configured")
)

// IsTimeout reports whether err is (or wraps) a wait timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
