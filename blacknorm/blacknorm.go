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

/*
Package blacknorm evaluates the normalised Black option-price map and its
derivatives.

Everything here is expressed in the dimensionless coordinates x = ln(F/K)
and s = σ√T, with the call/put flag θ folded in by the x<->−x,θ<->−θ
symmetry rather than as a runtime switch inside the evaluator (callers
reduce to the out-of-the-money case, x·θ <= 0, before reaching this
package). b(x,s) = Φ(h+t)e^{x/2} - Φ(h−t)e^{−x/2}, h=x/s, t=s/2, is the
undiscounted Black price of a unit-notional call at log-moneyness x and
total volatility s; ComplementaryNormalisedBlack returns bmax-b, evaluated
without the cancellation a naive subtraction would suffer once b is close
to its ceiling bmax = e^{x/2}.

All functions are pure, alloc-free and reentrant.
*/
package blacknorm

import (
	"math"

	"github.com/nakashima-hikaru/implied-vol/specialfunctions"
)

const sqrt2 = math.Sqrt2

// BMax returns the normalised Black price ceiling e^{x/2}: the limit of
// NormalisedBlack(x,s,+1) as s -> infinity.
func BMax(x float64) float64 {
	return math.Exp(0.5 * x)
}

// NormalisedBlack returns the undiscounted normalised Black price
// b(x,s)=Φ(h+t)e^{x/2}-Φ(h-t)e^{-x/2} for theta=+1 (call), and its put
// counterpart for theta=-1 via the map's exact (x,theta)->(-x,-theta)
// symmetry: a put at log-moneyness x is the call at -x, price unchanged,
// so out-of-the-money puts are never formed by subtracting parity terms
// from a near-intrinsic call value.
//
// x and s may take any finite values; the root-finder that calls this is
// responsible for first reducing to the x<=0 branch its own region-
// classification logic needs, but NormalisedBlack itself is total over
// all real x (so it is also usable directly by the thin Black/Vega
// wrappers without that reduction).
func NormalisedBlack(x, s float64, theta float64) float64 {
	if s <= 0 {
		return intrinsicNormalised(x, theta)
	}
	if theta > 0 {
		return normalisedBlackCall(x, s)
	}
	return normalisedBlackCall(-x, s)
}

func intrinsicNormalised(x, theta float64) float64 {
	v := 2 * math.Sinh(0.5*x)
	if theta > 0 {
		return math.Max(v, 0)
	}
	return math.Max(-v, 0)
}

// ComplementaryNormalisedBlack returns bmax(x)-NormalisedBlack(x,s,+1),
// evaluated via the cancellation-free identity
//
//	bmax-b = 1/2*(erfcx((t+h)/sqrt2)+erfcx((t-h)/sqrt2))*exp(-(h^2+t^2)/2)
//
// which stays accurate even when b is within a few ULPs of bmax (the
// region where bmax-b computed by direct subtraction would have almost no
// significant digits left).
func ComplementaryNormalisedBlack(x, s float64) float64 {
	if s <= 0 {
		return math.Max(math.Exp(0.5*x)-intrinsicNormalised(x, 1), 0)
	}
	h := x / s
	t := s / 2
	if (t+h)/sqrt2 < erfcxPairBound {
		// erfcx((t+h)/sqrt2) would hit its reflection-overflow saturation:
		// b is many orders of magnitude below bmax here, so bmax-b formed
		// from the small side loses nothing.
		b := 0.5 * math.Exp(-0.5*(h*h+t*t)) *
			(specialfunctions.Erfcx(-(t+h)/sqrt2) - specialfunctions.Erfcx((t-h)/sqrt2))
		return math.Exp(0.5*x) - math.Max(b, 0)
	}
	return 0.5 * (specialfunctions.Erfcx((t+h)/sqrt2) + specialfunctions.Erfcx((t-h)/sqrt2)) *
		math.Exp(-0.5*(h*h+t*t))
}

// erfcxPairBound is the most negative erfcx argument the complementary
// pairing can tolerate before the reflection term 2*exp(z*z) overflows; past
// it the price sits so far below its ceiling that direct subtraction of the
// small side is exact to working precision.
const erfcxPairBound = -26.0

// normalisedBlackCall is the core call-price evaluator for s>0 behind
// NormalisedBlack.
// Three branches cover the full range: a small-t series for near-the-money
// low total volatility (where the erfc-difference form would subtract two
// values close to 1), a direct erfc-difference form for moderate x, and an
// erfcx-scaled form — algebraically identical, cancellation-free by
// construction — once |x|/2 would push either exponential out of double
// range.
func normalisedBlackCall(x, s float64) float64 {
	h := x / s
	t := s / 2
	q1 := -(h + t) / sqrt2
	q2 := -(h - t) / sqrt2

	if t < smallTThreshold && math.Abs(x) < 1 {
		if x > 0 {
			// Call(x) = Call(-x) + (e^{x/2}-e^{-x/2}), reducing to the
			// h<=0 orientation the series is written for.
			return 2*math.Sinh(0.5*x) + smallTExpansion(-h, t)
		}
		return smallTExpansion(h, t)
	}

	const expOverflowGuard = 300.0 // exp(300) is safely within float64 range, exp(700+) is not.
	if math.Abs(0.5*x) < expOverflowGuard {
		b := 0.5 * (math.Exp(0.5*x)*specialfunctions.Erfc(q1) - math.Exp(-0.5*x)*specialfunctions.Erfc(q2))
		return math.Max(b, 0)
	}

	// exp(x/2) or exp(-x/2) would overflow/underflow: factor out the shared
	// Gaussian scale instead. Since x/2 - q1^2 = -(h^2+t^2)/2 and
	// -x/2 - q2^2 = -(h^2+t^2)/2, both halves rewrite onto one exponent:
	//
	//	b = 1/2 * e^{-(h^2+t^2)/2} * (erfcx(q1) - erfcx(q2))
	//
	// with no dimensioned exponential ever formed. Below the critical
	// s_c = sqrt(2|x|) (q1 > 0) both erfcx arguments are positive, the
	// difference cancels only mildly, and this form is the stable one; past
	// s_c, q1 goes negative, erfcx(q1) explodes towards its reflection
	// overflow, and the complementary pairing bmax-(bmax-b) takes over.
	expScale := math.Exp(-0.5 * (h*h + t*t))
	if q1 > 0 {
		b := 0.5 * expScale * (specialfunctions.Erfcx(q1) - specialfunctions.Erfcx(q2))
		return math.Max(b, 0)
	}
	half := 0.5 * (specialfunctions.Erfcx((t+h)/sqrt2) + specialfunctions.Erfcx((t-h)/sqrt2)) * expScale
	bmax := math.Exp(0.5 * x)
	if math.IsInf(bmax, 1) {
		// x so large and positive that bmax itself overflows: the call is
		// certain to be (numerically) at its ceiling; only reachable when
		// callers bypass the x<=0 reduction the root-finder enforces.
		return math.Inf(1)
	}
	b := bmax - half
	if b < 0 {
		return 0
	}
	return b
}

// smallTThreshold gates the small-t series branch of normalisedBlackCall.
// Below it (and for |x|<1, where the series beats the direct form — see
// smallTExpansion) the erfc-difference evaluation would subtract two values
// close to 1 and lose roughly log10(1/t) significant digits.
const smallTThreshold = 0.21

// sqrtPiOverTwo is sqrt(pi/2).
const sqrtPiOverTwo = 1.2533141373155003

// smallTExpansion evaluates the call price for h<=0 and small t via the
// odd Taylor series of b in t at fixed h. Writing g(t) = e^{ht}*Φ(h+t),
// b = g(t)-g(-t) is odd in t and its half O = b/2 satisfies
//
//	O'' = h^2*O - t*φ(h)*e^{-t^2/2},  O(0)=0,  O'(0) = φ(h)*a(h)
//
// with a(h) = 1 + h*Φ(h)/φ(h) (see millsRatioDerivative), which gives the
// coefficient recurrence
//
//	o[2j+3] = (h^2*o[2j+1] - φ(h)*(-1)^j/(2^j*j!)) / ((2j+3)(2j+2))
//
// summed until the next contribution falls below the running sum's ULP.
// Every term is built from φ(h) and a(h) at their own full precision, so
// no near-1 erfc subtraction ever occurs. The successive-term ratio is
// bounded by h^2*t^2/6 = (x/2)^2/6 < 1/24 on the |x|<1 gate, so the
// 20-term cap is never the binding stop.
func smallTExpansion(h, t float64) float64 {
	pdf := specialfunctions.NormPDF(h)
	if pdf == 0 {
		// b <= 2*φ(h)*a(h)*t underflows with φ(h) itself.
		return 0
	}
	hSq := h * h
	o := pdf * millsRatioDerivative(h)
	sum := o * t
	tSq := t * t
	tPow := t
	inhomogeneous := pdf
	for j := 0; j < 20; j++ {
		o = (hSq*o - inhomogeneous) / float64((2*j+3)*(2*j+2))
		inhomogeneous *= -1 / (2 * float64(j+1))
		tPow *= tSq
		contribution := o * tPow
		sum += contribution
		if math.Abs(contribution) <= math.Abs(sum)*1e-17 {
			break
		}
	}
	return math.Max(2*sum, 0)
}

// millsRatioDerivative returns a(h) = 1 + h*Φ(h)/φ(h), the derivative of
// the reciprocal Mills ratio Y(h) = Φ(h)/φ(h). Via Φ(h) = ½erfc(-h/√2) =
// ½e^{-h²/2}erfcx(-h/√2) the direct form is a = 1 + h*√(π/2)*erfcx(-h/√2),
// exact in shape for every h; for deep negative h the two parts agree to
// leading order and their subtraction cancels by a factor of h², so past
// h=-11 the asymptotic expansion
//
//	a ~ 1/h² - 3/h⁴ + 15/h⁶ - 105/h⁸ + ...
//
// takes over, where its optimal truncation is already below one ULP. In
// the intermediate band the direct form's cancellation stays bounded by
// 121 ULPs; see the package's accuracy notes in DESIGN.md.
func millsRatioDerivative(h float64) float64 {
	if h <= -11 {
		hSqInv := 1 / (h * h)
		term := hSqInv
		sum := term
		for k := 1; k < 32; k++ {
			term *= -(2*float64(k) + 1) * hSqInv
			if math.Abs(term) < math.Abs(sum)*1e-17 {
				break
			}
			sum += term
		}
		return sum
	}
	return 1 + h*sqrtPiOverTwo*specialfunctions.Erfcx(-h/sqrt2)
}

// Vega returns ∂b/∂s = e^{-(h^2+t^2)/2}/sqrt(2*pi), the normalised Black
// vega, identical for calls and puts (vega is independent of theta).
func Vega(x, s float64) float64 {
	if s <= 0 {
		return 0
	}
	h := x / s
	t := s / 2
	return specialfunctions.NormPDF(math.Sqrt(h*h + t*t))
}

// Volga returns ∂²b/∂s² = vega*(h²-t²)/s, the normalised Black volga.
func Volga(x, s float64) float64 {
	if s <= 0 {
		return 0
	}
	h := x / s
	t := s / 2
	return Vega(x, s) * (h*h - t*t) / s
}

// ScaledNormalisedBlackAndLnVega returns (b/vega, ln(vega)). ln(vega) is
// formed analytically, never through exp. The ratio b/vega is O(s) in
// magnitude, free of the Gaussian exponential that can underflow long
// before b/vega itself would: where vega is representable the ratio is
// b divided by vega, and where vega underflows to zero out of the money
// below the critical s_c the ratio comes from the erfcx-scaled form, in
// which that exponential cancels. In the remaining underflow case
// (b near its ceiling) scaledB is returned as +/-Inf.
func ScaledNormalisedBlackAndLnVega(x, s float64, theta float64) (scaledB, lnVega float64) {
	h := x / s
	t := s / 2
	lnVega = -0.5*(h*h+t*t) - 0.5*math.Log(2*math.Pi)
	b := NormalisedBlack(x, s, theta)
	vega := Vega(x, s)
	if vega == 0 {
		// b = 1/2*e^{-(h^2+t^2)/2}*(erfcx(q1)-erfcx(q2)) for q1 > 0 and
		// vega = e^{-(h^2+t^2)/2}/sqrt(2*pi), so the ratio needs neither.
		hc := h
		if theta < 0 {
			hc = -h
		}
		if q1 := -(hc + t) / sqrt2; q1 > 0 {
			q2 := -(hc - t) / sqrt2
			return sqrtPiOverTwo * (specialfunctions.Erfcx(q1) - specialfunctions.Erfcx(q2)), lnVega
		}
		return math.Inf(1) * math.Copysign(1, b), lnVega
	}
	return b / vega, lnVega
}
