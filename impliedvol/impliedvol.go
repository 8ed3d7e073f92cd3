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
Package impliedvol computes implied volatility from an undiscounted European
option price under the Black (lognormal) and Bachelier (normal) models, and
the forward prices and sensitivities (vega, volga) that go with them.

The exported entry points here — Black, ImpliedBlackVolatility, Bachelier,
ImpliedNormalVolatility, Vega, Volga and their Normalised* counterparts —
are thin rescaling wrappers: all of the numerical work happens in the
dimensionless (x,s,theta) coordinates of the blacknorm package and this
package's own lets_be_rational.go/normalvol.go. Call one of these with raw
(F,K,sigma,T,theta) market quantities; everything below handles the
log-moneyness/total-volatility change of variables and the x<=0 call-put
reduction on the caller's behalf.
*/
package impliedvol

import (
	"math"

	"github.com/nakashima-hikaru/implied-vol/blacknorm"
)

// Black returns the undiscounted Black (lognormal) forward price of a
// European option with forward f, strike k, volatility sigma, time to
// expiry t and call/put flag theta (+1 call, -1 put). sigma or t <= 0
// returns the intrinsic value max(theta*(f-k),0).
func Black(f, k, sigma, t, theta float64) float64 {
	s := totalVol(sigma, t)
	x := logMoneyness(f, k)
	return blackPrice(x, s, theta, f, k)
}

// blackPrice reconstructs the dimensioned price from the normalised one:
// NormalisedBlack returns the price of a unit-notional option on
// log-moneyness x; the actual (F,K) price scales it by sqrt(F*K), the
// geometric mean of forward and strike (so that at x=0, F=K, this reduces
// to F*NormalisedBlack(0,s,theta)).
func blackPrice(x, s, theta, f, k float64) float64 {
	return math.Sqrt(f*k) * blacknorm.NormalisedBlack(x, s, theta)
}

// logMoneyness returns x = ln(F/K).
func logMoneyness(f, k float64) float64 {
	return math.Log(f / k)
}

// totalVol returns s = sigma*sqrt(t), or 0 if either is non-positive (the
// zero-vol/zero-time intrinsic-value convention used throughout).
func totalVol(sigma, t float64) float64 {
	if sigma <= 0 || t <= 0 {
		return 0
	}
	return sigma * math.Sqrt(t)
}

// ImpliedBlackVolatility returns the volatility sigma such that
// Black(f,k,sigma,t,theta) reproduces the undiscounted price, price, of a
// European option with forward f, strike k, time to expiry t and call/put
// flag theta. It performs the x<=0 (out-of-the-money) reduction the
// root-finder requires before delegating to LetsBeRational, then rescales
// the returned total volatility s by 1/sqrt(t).
//
// Matches LetsBeRational's sentinel convention unchanged by the 1/sqrt(t)
// rescaling: -math.MaxFloat64 if price is strictly below intrinsic value,
// 0 if price is exactly at intrinsic, +math.MaxFloat64 if price is at or
// above the model's price ceiling (F for a call, K for a put). The
// intrinsic and ceiling comparisons run in the caller's own price units,
// before any renormalisation can smear an exact equality by an ULP.
func ImpliedBlackVolatility(price, f, k, t, theta float64) float64 {
	intrinsic := math.Max(theta*(f-k), 0)
	if price < intrinsic {
		return -math.MaxFloat64
	}
	if price == intrinsic {
		return 0
	}
	ceiling := f
	if theta < 0 {
		ceiling = k
	}
	if price >= ceiling {
		return math.MaxFloat64
	}

	x := logMoneyness(f, k)
	beta := price / math.Sqrt(f*k)
	xr, betar := reduceToOTMCall(x, beta, theta)
	if betar <= 0 {
		// price exceeds intrinsic by less than the normalisation resolves:
		// the implied volatility is indistinguishable from zero.
		return 0
	}
	s := LetsBeRational(betar, xr, DefaultConfig())
	if s == math.MaxFloat64 || s == -math.MaxFloat64 || s == 0 {
		return s
	}
	return s / math.Sqrt(t)
}

// reduceToOTMCall rewrites a price beta at log-moneyness x and call/put
// flag theta as the equivalent call price betar at log-moneyness xr<=0,
// the only form lets_be_rational.go's branch classification and initial
// guesses are derived for. Two identities of the normalised Black map do
// the work:
//
//  1. the joint (x,theta)->(-x,-theta) symmetry: a put at x IS a call at
//     -x, NormalisedBlack(x,s,-1) = NormalisedBlack(-x,s,+1), with the
//     price carried over unchanged — no parity arithmetic, so an
//     out-of-the-money put keeps its full relative precision however many
//     orders of magnitude it sits below bmax;
//  2. put-call parity for what remains (an in-the-money call at x>0):
//     Call(x) = Call(-x) + (e^{x/2}-e^{-x/2}) = Call(-x) + 2*sinh(x/2).
//     The subtraction here costs one ULP of beta, which is the attainable
//     limit: the time value of an in-the-money option genuinely has no
//     more information in it than that.
func reduceToOTMCall(x, beta, theta float64) (xr, betar float64) {
	if theta < 0 {
		x = -x
	}
	if x <= 0 {
		return x, beta
	}
	return -x, beta - 2*math.Sinh(0.5*x)
}

// NormalisedImpliedBlackVolatility returns the total volatility s>0 such
// that blacknorm.NormalisedBlack(x,s,theta) reproduces beta, for any sign
// of x and theta: it applies the same out-of-the-money reduction
// ImpliedBlackVolatility does before delegating to LetsBeRational, which
// only ever sees x<=0, theta=+1 inputs.
func NormalisedImpliedBlackVolatility(beta, x, theta float64) float64 {
	xt := x
	if theta < 0 {
		xt = -x
	}
	intrinsic := math.Max(2*math.Sinh(0.5*xt), 0)
	if beta < intrinsic {
		return -math.MaxFloat64
	}
	if beta == intrinsic {
		return 0
	}
	if beta >= math.Exp(0.5*xt) {
		return math.MaxFloat64
	}
	xr, betar := reduceToOTMCall(x, beta, theta)
	if betar <= 0 {
		return 0
	}
	return LetsBeRational(betar, xr, DefaultConfig())
}

// Bachelier returns the undiscounted Bachelier (normal model) forward price
// of a European option with forward f, strike k, volatility sigma
// (quoted in price units per sqrt(time), not log-return units), time to
// expiry t and call/put flag theta.
func Bachelier(f, k, sigma, t, theta float64) float64 {
	v := totalVol(sigma, t)
	return bachelierV(f, k, v, theta)
}

// ImpliedNormalVolatility returns the volatility sigma such that
// Bachelier(f,k,sigma,t,theta) reproduces the undiscounted price, price.
// Returns -math.MaxFloat64 if price is strictly below intrinsic value, 0 if
// price is exactly at intrinsic.
func ImpliedNormalVolatility(price, f, k, t, theta float64) float64 {
	v := impliedNormalVolatilityV(price, f, k, theta)
	if v <= 0 {
		return v
	}
	return v / math.Sqrt(t)
}

// Vega returns the Black model vega, ∂Price/∂sigma, of a European option
// with forward f, strike k, volatility sigma and time to expiry t:
// sqrt(F*K)*sqrt(t)*NormalisedVega(x,s).
func Vega(f, k, sigma, t float64) float64 {
	s := totalVol(sigma, t)
	x := logMoneyness(f, k)
	return math.Sqrt(f*k) * math.Sqrt(t) * blacknorm.Vega(x, s)
}

// NormalisedVega returns ∂b/∂s of the normalised Black map at (x,s); an
// alias over blacknorm.Vega kept here so the normalised-coordinate surface
// is reachable directly from this package alongside the (F,K,sigma,T) one.
func NormalisedVega(x, s float64) float64 {
	return blacknorm.Vega(x, s)
}

// Volga returns the Black model volga, ∂²Price/∂sigma², of a European
// option with forward f, strike k, volatility sigma and time to expiry t.
func Volga(f, k, sigma, t float64) float64 {
	s := totalVol(sigma, t)
	x := logMoneyness(f, k)
	return math.Sqrt(f*k) * t * blacknorm.Volga(x, s)
}

// NormalisedVolga returns ∂²b/∂s² of the normalised Black map at (x,s); an
// alias over blacknorm.Volga, see NormalisedVega.
func NormalisedVolga(x, s float64) float64 {
	return blacknorm.Volga(x, s)
}

// BlackAccuracyFactor returns s*(∂b/∂s)/b, the elasticity of the
// NormalisedBlack map with respect to s: near the true root a relative
// error d in b corresponds to a relative error d/BlackAccuracyFactor in s.
// ImpliedVolatilityAttainableAccuracy is built on the reciprocal of this
// factor, which it computes directly.
func BlackAccuracyFactor(x, s, theta float64) float64 {
	b := blacknorm.NormalisedBlack(x, s, theta)
	if b == 0 {
		return 0
	}
	return s * blacknorm.Vega(x, s) / b
}

// ImpliedVolatilityAttainableAccuracy returns eps*(1+|b/(s*vega)|), the
// theoretical floor on the relative error of any implied-volatility
// solver at (x,s,theta): even a b known to full binary64 relative
// accuracy cannot, in general, pin down s any more tightly than this,
// because s's sensitivity to b is governed by 1/vega and vega itself
// vanishes in the deep wings.
func ImpliedVolatilityAttainableAccuracy(x, s, theta float64) float64 {
	const eps = 2.220446049250313e-16
	b := blacknorm.NormalisedBlack(x, s, theta)
	vega := blacknorm.Vega(x, s)
	if vega == 0 {
		return math.Inf(1)
	}
	return eps * (1 + math.Abs(b/(s*vega)))
}
