/*
******************************************************************************
MIT License

Copyright (c) 2016 Kervin Low

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
******************************************************************************
*/

package impliedvol

import "fmt"

/*
===============
Types of Errors
===============
*/

// ErrInvalidConfig is returned when a Config's fields fall outside their
// admissible range: a plain string with an Error method, reserved for
// construction-time validation and never returned from the hot numerical
// path, which always signals via IEEE-754 sentinels instead.
type ErrInvalidConfig string

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("%s", string(e))
}

/*
=============================
Root-finder configuration
=============================
*/

// Config bundles the root-finder's tunables: the Householder-class
// iteration budget, and the hard cap on the bracket-bisection safeguard
// that takes over when ordinary steps misbehave at extreme moneyness. A
// Config is an immutable value: build one with DefaultConfig or NewConfig
// and pass it explicitly into every call; nothing in this package keeps
// process-wide mutable state, so any number of goroutines can share one
// Config (or use their own) concurrently without synchronisation.
type Config struct {
	// N is the nominal Householder-class iteration budget (default 2).
	// The safeguarded solver may run more steps than this when the
	// bracket has not yet converged to machine epsilon — see
	// MaxSafeguardIterations — but never fewer once a root is bracketed.
	N int

	// MaxSafeguardIterations bounds the total number of bisection/Halley
	// steps, the first N ordinary ones included; it exists purely so that
	// pathological, extreme-moneyness inputs cannot loop forever.
	MaxSafeguardIterations int
}

// DefaultConfig returns the default parameterisation: N=2 Householder-class
// iterations, with a generous bisection safeguard budget for the rare
// extreme-moneyness case.
func DefaultConfig() Config {
	return Config{N: 2, MaxSafeguardIterations: 100}
}

// NewConfig validates and returns a Config with the given iteration
// budgets, returning ErrInvalidConfig if either is non-positive.
func NewConfig(n, maxSafeguardIterations int) (Config, error) {
	if n <= 0 {
		return Config{}, ErrInvalidConfig("N must be positive")
	}
	if maxSafeguardIterations <= 0 {
		return Config{}, ErrInvalidConfig("MaxSafeguardIterations must be positive")
	}
	return Config{N: n, MaxSafeguardIterations: maxSafeguardIterations}, nil
}
