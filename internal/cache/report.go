package cache

import "github.com/getsentry/sentry-go"

// reportError forwards err to Sentry when the cache was constructed with
// Options.ReportErrors. sentry.CaptureException is a documented no-op when
// no client has been initialized (see internal/config), so this never
// touches the network in tests or in callers that don't configure a DSN —
// the same opt-in shape the teacher's repo uses sentry-go for.
func (c *Cache) reportError(err error) {
	if !c.reportErrors {
		return
	}
	sentry.CaptureException(err)
}
