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

import (
	"math"

	"github.com/nakashima-hikaru/implied-vol/specialfunctions"
)

// bachelierNormalisedPrice returns b(eta) = eta*Φ(eta) + φ(eta), the
// undiscounted Bachelier (arithmetic/normal) price of a unit-notional call
// at standardised moneyness eta = (theta*(F-K))/v. It is strictly
// increasing in eta (b'(eta)=Φ(eta)>0), with b(eta) -> max(eta,0) as
// |eta| -> infinity and b(0) = φ(0) = 1/sqrt(2*pi).
func bachelierNormalisedPrice(eta float64) float64 {
	return eta*specialfunctions.NormCDF(eta) + specialfunctions.NormPDF(eta)
}

// bachelierV returns the undiscounted Bachelier (normal model) price of a
// European option with forward f, strike k, total normal volatility
// v = sigma*sqrt(T) (sigma quoted in price units, not log-return units),
// and call/put flag theta (+1 call, -1 put). v<=0 returns the intrinsic
// value max(theta*(f-k),0). Bachelier, the public (F,K,sigma,T,theta) entry
// point in impliedvol.go, rescales to and from this total-vol form.
func bachelierV(f, k, v, theta float64) float64 {
	x := theta * (f - k)
	if v <= 0 {
		return math.Max(x, 0)
	}
	return v * bachelierNormalisedPrice(x/v)
}

// impliedNormalVolatilityV returns the total normal volatility v>0 that
// reproduces the undiscounted Bachelier price, price, of a European option
// with forward f, strike k and call/put flag theta. It mirrors
// LetsBeRational's role for the Black model but needs no branch
// classification: writing x = theta*(f-k) and eta = x/v, the price equation
// price = v*b(eta) rearranges to the single-variable equation
//
//	g(eta) = b(eta) - (price/x)*eta = 0
//
// (well-posed for x != 0, since g is strictly monotone: g'(eta) =
// Φ(eta) - price/x), solved by a Halley iteration (Newton where the Halley
// denominator vanishes, no bracketing safeguard) from a normal-quantile
// initial guess, after which v = x/eta.
// ImpliedNormalVolatility, the public (price,F,K,T,theta) entry point in
// impliedvol.go, rescales the result by 1/sqrt(T).
//
// Returns -math.MaxFloat64 if price is strictly below intrinsic value (the
// same below-intrinsic sentinel LetsBeRational uses for the Black model),
// 0 if price is exactly at intrinsic, and the closed-form
// v = price*sqrt(2*pi) at the degenerate f==k (at-the-money) point, where
// price = v*φ(0) is already linear in v.
func impliedNormalVolatilityV(price, f, k float64, theta float64) float64 {
	x := theta * (f - k)
	intrinsic := math.Max(x, 0)
	if price < intrinsic {
		return -math.MaxFloat64
	}
	if price == intrinsic {
		return 0
	}
	if x == 0 {
		return price * math.Sqrt(2*math.Pi)
	}

	k0 := price / x
	eta := solveBachelierEta(k0)
	return x / eta
}

// solveBachelierEta solves b(eta) - k0*eta = 0 for eta, where
// b(eta) = eta*Φ(eta)+φ(eta), via Halley's method (falling back to Newton
// where the Halley denominator vanishes) from an initial guess built from
// the ordinary normal quantile function: close enough to the true root
// that a handful of iterations converge to machine accuracy.
func solveBachelierEta(k0 float64) float64 {
	eta := specialfunctions.InverseNormCDF(math.Min(math.Max(0.5+0.25*k0, 1e-12), 1-1e-12))
	for iter := 0; iter < 64; iter++ {
		phi := specialfunctions.NormPDF(eta)
		cdf := specialfunctions.NormCDF(eta)
		g := eta*cdf + phi - k0*eta
		gPrime := cdf - k0
		gDoublePrime := phi
		var delta float64
		den := 2*gPrime*gPrime - g*gDoublePrime
		if den != 0 {
			delta = 2 * g * gPrime / den
		} else if gPrime != 0 {
			delta = g / gPrime
		} else {
			break
		}
		etaNext := eta - delta
		if math.Abs(etaNext-eta) <= 1e-15*math.Max(1, math.Abs(etaNext)) {
			return etaNext
		}
		eta = etaNext
	}
	return eta
}
