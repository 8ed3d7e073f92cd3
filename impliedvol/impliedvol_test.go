package impliedvol_test

import (
	"math"
	"testing"

	"github.com/nakashima-hikaru/implied-vol/blacknorm"
	"github.com/nakashima-hikaru/implied-vol/impliedvol"
	"github.com/nakashima-hikaru/implied-vol/specialfunctions"
)

const testEps = 2.220446049250313e-16

// At the money (F=K=100), ImpliedBlackVolatility(price=10,F=100,K=100,T=1,
// theta=+1) is the sigma*sqrt(T)=s solving erf(s/sqrt8)=0.1 (x=0), i.e.
// s = sqrt8*erfinv(0.1).
func TestScenario1ATMImpliedBlackVolatility(t *testing.T) {
	sigma := impliedvol.ImpliedBlackVolatility(10, 100, 100, 1, 1)
	want := math.Sqrt(8) * specialfunctions.Erfinv(0.1)
	if math.Abs(sigma-want) > 2*testEps*want {
		t.Errorf("got %.16g, want %.16g", sigma, want)
	}
}

// Deep out-of-the-money: price is a unit-notional price some 23 orders of
// magnitude below the forward, the regime the whole lets_be_rational.go
// machinery exists for. Pricing forward at sigma=0.2 and inverting must
// recover sigma to 14 digits, not just a handful.
func TestScenario2DeepOTMImpliedBlackVolatility(t *testing.T) {
	f, k, T, theta := 100.3004505, 180.0, 0.1, 1.0
	want := 0.2
	price := impliedvol.Black(f, k, want, T, theta)
	sigma := impliedvol.ImpliedBlackVolatility(price, f, k, T, theta)
	if math.Abs(sigma-want) > 1e-13*want {
		t.Errorf("got %.16g, want %.16g", sigma, want)
	}
}

func TestScenario4NearCeilingImpliedBlackVolatility(t *testing.T) {
	x := -0.5
	bmax := blacknorm.BMax(x)
	beta := bmax * (1 - 2*testEps)
	s := impliedvol.NormalisedImpliedBlackVolatility(beta, x, 1)
	if math.IsNaN(s) || s <= 0 || s == math.MaxFloat64 {
		t.Fatalf("expected a finite positive s, got %g", s)
	}
	// Re-evaluation budget: the direct evaluator's erfc-near-2 term alone
	// carries a couple of ULPs of absolute rounding at this depth.
	back := blacknorm.NormalisedBlack(x, s, 1)
	if math.Abs(back-beta) > 8*testEps*beta {
		t.Errorf("re-evaluation at recovered s: got %.17g, want %.17g", back, beta)
	}
}

// The smallest representable price above intrinsic value must still invert
// to a finite positive normal volatility. (Any margin below one ULP of the
// intrinsic value, such as intrinsic+1e-300 here, rounds to exactly
// intrinsic and is indistinguishable from it by construction.)
func TestScenario5SmallOTMImpliedNormalVolatilityIsFinitePositive(t *testing.T) {
	f, k, T, theta := 100.0, 80.0, 1.0, 1.0
	intrinsic := math.Max(theta*(f-k), 0)
	price := math.Nextafter(intrinsic, math.Inf(1))
	sigma := impliedvol.ImpliedNormalVolatility(price, f, k, T, theta)
	if !(sigma > 0) || math.IsInf(sigma, 0) || math.IsNaN(sigma) {
		t.Fatalf("expected finite positive sigma, got %g", sigma)
	}
}

func TestScenario6ATMImpliedNormalVolatility(t *testing.T) {
	beta := 0.05
	sigma := impliedvol.ImpliedNormalVolatility(beta, 100, 100, 1, 1)
	want := beta * math.Sqrt(2*math.Pi)
	if math.Abs(sigma-want) > 2*testEps*want {
		t.Errorf("got %.16g, want %.16g", sigma, want)
	}
}

func TestSentinelCorrectness(t *testing.T) {
	f, k, T, theta := 100.0, 90.0, 1.0, 1.0
	intrinsic := math.Max(theta*(f-k), 0)

	if got := impliedvol.ImpliedBlackVolatility(intrinsic-1, f, k, T, theta); got != -math.MaxFloat64 {
		t.Errorf("price below intrinsic: got %g, want -MaxFloat64", got)
	}
	if got := impliedvol.ImpliedBlackVolatility(intrinsic, f, k, T, theta); got != 0 {
		t.Errorf("price at intrinsic: got %g, want 0", got)
	}

	// The price ceiling of an undiscounted call is the forward itself
	// (b -> bmax as s -> infinity means price -> sqrt(F*K)*e^{x/2} = F).
	if got := impliedvol.ImpliedBlackVolatility(f, f, k, T, theta); got != math.MaxFloat64 {
		t.Errorf("price at ceiling: got %g, want +MaxFloat64", got)
	}
	if got := impliedvol.ImpliedBlackVolatility(f*1.5, f, k, T, theta); got != math.MaxFloat64 {
		t.Errorf("price above ceiling: got %g, want +MaxFloat64", got)
	}
	if got := impliedvol.ImpliedBlackVolatility(k, f, k, T, -1.0); got != math.MaxFloat64 {
		t.Errorf("put price at ceiling: got %g, want +MaxFloat64", got)
	}
}

// Round-trip (Black): on a grid of x in [-300,-1e-4] and s in [0.001,5],
// pricing at (x,s) and inverting must reproduce s to within 1e-9 (absolute
// for s<=1, relative above).
func TestBlackRoundTrip(t *testing.T) {
	xs := []float64{-1e-4, -0.01, -0.1, -1, -5, -20, -100, -300}
	ss := []float64{0.001, 0.05, 0.3, 1, 3, 5}
	for _, x := range xs {
		for _, s := range ss {
			beta := blacknorm.NormalisedBlack(x, s, 1)
			if beta <= 0 {
				// Underflowed to an exact-zero forward price at this
				// (x,s): the price carries no information left to recover
				// s from, regardless of how precisely the solver runs.
				continue
			}
			sBack := impliedvol.NormalisedImpliedBlackVolatility(beta, x, 1)
			tol := 1e-9 * math.Max(1, s)
			if math.Abs(sBack-s) > tol {
				t.Errorf("x=%g s=%g: round-trip got s=%g (diff %.3g > tol %.3g)", x, s, sBack, sBack-s, tol)
			}
		}
	}
}

func TestImpliedNormalVolatilityRoundTrip(t *testing.T) {
	f, k, T, theta := 100.0, 95.0, 1.0, 1.0
	for _, sigma := range []float64{2, 5, 20, 50} {
		price := impliedvol.Bachelier(f, k, sigma, T, theta)
		back := impliedvol.ImpliedNormalVolatility(price, f, k, T, theta)
		if math.Abs(back-sigma) > 1e-9*sigma {
			t.Errorf("sigma=%g: round-trip got %g", sigma, back)
		}
	}
}

// Put-call parity symmetry: sigma(F,K,T,+1,price) = sigma(F,K,T,-1,price-(F-K)).
func TestCallPutParitySymmetry(t *testing.T) {
	f, k, T := 100.0, 80.0, 1.0
	callPrice := impliedvol.Black(f, k, 0.3, T, 1)
	putPrice := callPrice - (f - k)
	sigmaCall := impliedvol.ImpliedBlackVolatility(callPrice, f, k, T, 1)
	sigmaPut := impliedvol.ImpliedBlackVolatility(putPrice, f, k, T, -1)
	if math.Abs(sigmaCall-sigmaPut) > 1e-10 {
		t.Errorf("call sigma %.16g != put sigma %.16g", sigmaCall, sigmaPut)
	}
}

// A deep out-of-the-money put (F well above K) prices through the
// (x,theta)->(-x,-theta) symmetry with no parity arithmetic, so its tiny
// price keeps full relative precision both when pricing forward and when
// inverting.
func TestDeepOTMPutRoundTrip(t *testing.T) {
	f, k, T, theta := 100.0, 80.0, 1.0, -1.0
	for _, sigma := range []float64{0.05, 0.1, 0.3} {
		price := impliedvol.Black(f, k, sigma, T, theta)
		if !(price > 0) {
			t.Fatalf("sigma=%g: expected a positive put price, got %g", sigma, price)
		}
		back := impliedvol.ImpliedBlackVolatility(price, f, k, T, theta)
		if math.Abs(back-sigma) > 1e-12*sigma {
			t.Errorf("sigma=%g: round-trip got %.16g", sigma, back)
		}
	}
}

func TestMonotonicityInPrice(t *testing.T) {
	f, k, T, theta := 100.0, 100.0, 1.0, 1.0
	prev := 0.0
	for _, price := range []float64{0.1, 1, 5, 10, 20, 40} {
		sigma := impliedvol.ImpliedBlackVolatility(price, f, k, T, theta)
		if sigma < prev {
			t.Fatalf("implied vol not monotone in price at price=%g: %g < %g", price, sigma, prev)
		}
		prev = sigma
	}
}

func TestVegaPositiveAndAccuracyMeasuresFinite(t *testing.T) {
	f, k, sigma, T := 100.0, 90.0, 0.25, 1.0
	v := impliedvol.Vega(f, k, sigma, T)
	if v <= 0 {
		t.Errorf("Vega = %g, want > 0", v)
	}
	accFactor := impliedvol.BlackAccuracyFactor(math.Log(f/k), sigma*math.Sqrt(T), 1)
	if math.IsNaN(accFactor) || math.IsInf(accFactor, 0) {
		t.Errorf("BlackAccuracyFactor = %g, want finite", accFactor)
	}
	accuracy := impliedvol.ImpliedVolatilityAttainableAccuracy(math.Log(f/k), sigma*math.Sqrt(T), 1)
	if !(accuracy > 0) {
		t.Errorf("ImpliedVolatilityAttainableAccuracy = %g, want > 0", accuracy)
	}
}
