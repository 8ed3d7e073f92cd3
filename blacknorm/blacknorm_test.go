package blacknorm_test

import (
	"math"
	"testing"

	"github.com/nakashima-hikaru/implied-vol/blacknorm"
	"github.com/nakashima-hikaru/implied-vol/specialfunctions"
)

const eps = 2.220446049250313e-16

// naiveBlack computes the normalised Black call price the textbook way,
// via Φ directly, for cross-checking on parameter ranges where
// cancellation is not a concern.
func naiveBlack(x, s float64) float64 {
	h := x / s
	t := s / 2
	return specialfunctions.NormCDF(h+t)*math.Exp(0.5*x) - specialfunctions.NormCDF(h-t)*math.Exp(-0.5*x)
}

func TestNormalisedBlackMatchesNaiveFormula(t *testing.T) {
	cases := []struct{ x, s float64 }{
		{-0.1, 0.2}, {0, 0.3}, {-1, 1}, {-5, 2}, {-0.5, 0.05}, {0.2, 0.4},
	}
	for _, c := range cases {
		got := blacknorm.NormalisedBlack(c.x, c.s, 1)
		want := naiveBlack(c.x, c.s)
		if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("x=%g s=%g: got %.17g want %.17g", c.x, c.s, got, want)
		}
	}
}

func TestComplementaryIdentity(t *testing.T) {
	// ComplementaryNormalisedBlack(x,s) + NormalisedBlack(x,s,+1) - e^{x/2}
	// must have magnitude close to zero relative to e^{x/2}: each side is
	// a chain of several exp/erfc/erfcx evaluations, so at least 100 ULPs
	// of slack (rather than a single eps) is budgeted for the accumulated
	// rounding, tightening with depth of moneyness since bmax itself
	// shrinks far faster than the accumulated error does.
	cases := []struct{ x, s float64 }{
		{-0.1, 0.2}, {0, 0.3}, {-1, 1}, {-5, 2}, {-50, 3}, {-500, 3},
	}
	for _, c := range cases {
		b := blacknorm.NormalisedBlack(c.x, c.s, 1)
		bc := blacknorm.ComplementaryNormalisedBlack(c.x, c.s)
		bmax := blacknorm.BMax(c.x)
		residual := math.Abs(bc + b - bmax)
		// The exponential arguments in both evaluators are of magnitude
		// (h^2+t^2)/2, and exp amplifies their half-ULP rounding into a
		// relative error proportional to the argument itself, so the
		// budget scales with it on top of the flat 100-ULP floor.
		h := c.x / c.s
		ht := c.s / 2
		tol := (100 + 4*(h*h+ht*ht)) * eps * bmax
		if tol == 0 {
			tol = 100 * eps
		}
		if residual > tol {
			t.Errorf("x=%g s=%g: complementary identity residual %.3g exceeds tol %.3g", c.x, c.s, residual, tol)
		}
	}
}

// At the money the price has the exact closed form b(0,s) = erf(s/sqrt8),
// and math.Erf near zero carries full relative precision, so this pins the
// small-total-volatility evaluation against a reference that does not
// route through any near-1 erfc representation.
func TestNormalisedBlackSmallTotalVolatilityATM(t *testing.T) {
	for _, s := range []float64{1e-8, 1e-6, 1e-4, 1e-2, 0.4} {
		got := blacknorm.NormalisedBlack(0, s, 1)
		want := math.Erf(s / math.Sqrt(8))
		if math.Abs(got-want) > 1e-15*want {
			t.Errorf("s=%g: got %.17g, want %.17g", s, got, want)
		}
	}
}

// erfFormBlack rewrites the price with the constant part of Φ split off
// analytically:
//
//	b = sinh(x/2) + ½(e^{x/2}erf((h+t)/√2) - e^{-x/2}erf((h-t)/√2))
//
// For |h| of the order of t the erf values sit near zero, where erf keeps
// full relative precision, making this an independent cross-check exactly
// where a direct erfc-difference does not.
func erfFormBlack(x, s float64) float64 {
	h := x / s
	tt := s / 2
	return math.Sinh(0.5*x) + 0.5*(math.Exp(0.5*x)*math.Erf((h+tt)/math.Sqrt2)-
		math.Exp(-0.5*x)*math.Erf((h-tt)/math.Sqrt2))
}

func TestNormalisedBlackSmallTotalVolatilityNearATM(t *testing.T) {
	cases := []struct{ x, s float64 }{
		{-1e-6, 1e-3}, {-1e-4, 1e-2}, {-0.01, 0.2}, {-0.02, 0.1}, {1e-4, 1e-2},
	}
	for _, c := range cases {
		got := blacknorm.NormalisedBlack(c.x, c.s, 1)
		want := erfFormBlack(c.x, c.s)
		if math.Abs(got-want) > 5e-14*math.Abs(want) {
			t.Errorf("x=%g s=%g: got %.17g, want %.17g", c.x, c.s, got, want)
		}
	}
}

func TestNormalisedBlackMonotoneInS(t *testing.T) {
	x := -0.3
	prev := 0.0
	for _, s := range []float64{0.01, 0.1, 0.3, 0.6, 1, 2, 4, 8} {
		b := blacknorm.NormalisedBlack(x, s, 1)
		if b < prev {
			t.Fatalf("NormalisedBlack not monotone increasing in s at s=%g: %g < %g", s, b, prev)
		}
		prev = b
	}
}

func TestNormalisedBlackBoundedByBMax(t *testing.T) {
	x := -0.2
	bmax := blacknorm.BMax(x)
	for _, s := range []float64{0.01, 1, 10, 100} {
		b := blacknorm.NormalisedBlack(x, s, 1)
		if b > bmax {
			t.Errorf("NormalisedBlack(%g,%g) = %g exceeds bmax %g", x, s, b, bmax)
		}
	}
}

func TestVegaPositive(t *testing.T) {
	for _, s := range []float64{0.01, 0.1, 1, 5} {
		v := blacknorm.Vega(-0.3, s)
		if v <= 0 {
			t.Errorf("Vega(-0.3,%g) = %g, want > 0", s, v)
		}
	}
}

func TestScaledBlackAndLnVegaConsistentWithDirect(t *testing.T) {
	x, s := -0.4, 0.6
	scaledB, lnVega := blacknorm.ScaledNormalisedBlackAndLnVega(x, s, 1)
	vega := math.Exp(lnVega)
	directB := blacknorm.NormalisedBlack(x, s, 1)
	if math.Abs(scaledB*vega-directB) > 1e-9 {
		t.Errorf("scaledB*vega = %.17g, want %.17g", scaledB*vega, directB)
	}
}

func TestNormalisedBlackIntrinsicAtZeroVol(t *testing.T) {
	// Deep ITM call at s->0 converges to intrinsic value.
	x := 0.5
	b := blacknorm.NormalisedBlack(x, 1e-12, 1)
	want := math.Exp(0.5*x) - math.Exp(-0.5*x)
	if math.Abs(b-want) > 1e-6 {
		t.Errorf("near-zero-vol call: got %g, want %g", b, want)
	}
}
