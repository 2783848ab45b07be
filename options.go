package jscan

// EvalOption configures a single Count/Match/CountBytes/MatchBytes/EvalND/
// EvalStream call.
type EvalOption func(*evalConfig)

type evalConfig struct {
	maxDepth  int
	recursive bool
}

func defaultEvalConfig() evalConfig {
	return evalConfig{maxDepth: defaultMaxDepth}
}

// WithDepthLimit overrides the default container-nesting bound. Exceeding
// it surfaces as a DepthLimitExceededError rather than unbounded stack or
// slice growth.
func WithDepthLimit(n int) EvalOption {
	return func(c *evalConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithRecursiveEngine selects the recursive-descent evaluator in place of
// the default frame-stack one. The two are required to agree on every
// match; this option exists so callers (and this package's own tests) can
// exercise and cross-check both.
func WithRecursiveEngine(b bool) EvalOption {
	return func(c *evalConfig) {
		c.recursive = b
	}
}
