package model

// Default assembly policy.
const (
	// DefaultReachabilityWarnings emits a warning message per calculation
	// node unreachable from every slack.
	DefaultReachabilityWarnings = true
)

// Option adjusts assembly policy. Safe to apply repeatedly; last writer wins.
type Option func(*options)

type options struct {
	pid                  string
	reachabilityWarnings bool
}

// WithPID pins the assembled Model's instance id instead of generating one.
// Useful when bit-identical assemblies of the same input must compare equal
// wholesale.
func WithPID(pid string) Option {
	return func(o *options) { o.pid = pid }
}

// WithoutReachabilityWarnings suppresses the per-node warnings about
// calculation nodes unreachable from every slack.
func WithoutReachabilityWarnings() Option {
	return func(o *options) { o.reachabilityWarnings = false }
}

// gatherOptions resolves setters against the documented defaults.
func gatherOptions(opts ...Option) options {
	o := options{
		reachabilityWarnings: DefaultReachabilityWarnings,
	}
	for _, set := range opts {
		set(&o)
	}

	return o
}
