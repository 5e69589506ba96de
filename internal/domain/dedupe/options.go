package dedupe

// Option applies a configuration option to a Claims set.
type Option func(*claims)

// WithCapacity presizes the set for the expected number of claims.
// Values <= 0 are ignored.
func WithCapacity(n int) Option {
	return func(c *claims) {
		if n > 0 {
			c.capacity = n
		}
	}
}
