package clock

import "time"

// Clock is the time source used for all token expiry math. Injected so
// tests can pin the current instant.
type Clock interface {
	Now() time.Time
}

// UTC is the production clock. All timestamps in the system are UTC;
// there is no local-time conversion anywhere.
type UTC struct{}

func (UTC) Now() time.Time {
	return time.Now().UTC()
}
