package tryconfig

import "errors"

// ErrConfigRecursion is recorded via LastError when a listener invoked by
// Configure/ResetConfig calls Configure again. The guard is a process-wide
// flag, so a Configure call from any goroutine during notification is
// rejected the same way.
var ErrConfigRecursion = errors.New("tryconfig: recursive Configure call detected during listener notification")

// ErrConfigInvalid is recorded via LastError when validateConfig rejects a
// proposed Config (wraps the specific field violation in its message).
var ErrConfigInvalid = errors.New("tryconfig: invalid configuration")
