package dispatch

// Option configures a single dispatch call.
type Option func(*options)

type options struct {
	allowNotFound bool
}

// AllowNotFound makes a failed match a silent no-op instead of an error.
func AllowNotFound() Option {
	return func(o *options) {
		o.allowNotFound = true
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
