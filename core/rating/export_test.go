package rating

import "time"

// SetNowFunc overrides the service clock and returns a restore func.
func SetNowFunc(f func() time.Time) func() {
	orig := nowFunc
	nowFunc = f
	return func() { nowFunc = orig }
}
