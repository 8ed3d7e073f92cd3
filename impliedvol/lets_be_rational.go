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
Package impliedvol implements the root-finder that inverts the normalised
Black map (package blacknorm) for the total volatility s that reproduces a
given undiscounted price, plus the analogous inverse for the Bachelier
(normal) model, and the thin (F,K,σ,T,θ) wrappers built on top of them.

LetsBeRational is the hardest part of this package: a numerically careful
inversion of a stiff, monotone map across roughly 700 orders of magnitude
of price, using closed-form derivatives throughout rather than a generic
iterative solver.
*/
package impliedvol

import (
	"math"

	"github.com/nakashima-hikaru/implied-vol/blacknorm"
	"github.com/nakashima-hikaru/implied-vol/rationalcubic"
	"github.com/nakashima-hikaru/implied-vol/specialfunctions"
)

const (
	sqrt8 = 2.8284271247461903
	twoPi = 2 * math.Pi
)

// cbrt2Pi is cbrt(2*pi), used by the lowest-branch f-map below.
var (
	cbrt2Pi    = math.Cbrt(twoPi)
	sqrt27     = math.Sqrt(27)
	lowestMapC = twoPi / sqrt27 // c = 2π/√27
	lowestMapK = math.Sqrt(3) / cbrt2Pi
	eps64      = 2.220446049250313e-16
)

// LetsBeRational returns the total volatility s>0 such that
// blacknorm.NormalisedBlack(x, s, +1) reproduces beta, for x<=0 (the
// out-of-the-money reduction callers must perform before reaching this
// function) and beta in [0, bmax]. It signals domain errors by sentinel
// rather than by error or panic:
//
//	beta <  0 (impossible once the x<=0/OTM reduction is honoured, but
//	           guarded regardless): -math.MaxFloat64
//	beta == 0 (exactly at intrinsic):                               0
//	beta in (0, bmax):           the unique positive root
//	beta >= bmax:                                   +math.MaxFloat64
//
// NaN in beta or x returns NaN.
func LetsBeRational(beta, x float64, cfg Config) float64 {
	if math.IsNaN(beta) || math.IsNaN(x) {
		return math.NaN()
	}
	bmax := blacknorm.BMax(x)
	if beta <= 0 {
		if beta == 0 {
			return 0
		}
		return -math.MaxFloat64
	}
	if beta >= bmax {
		return math.MaxFloat64
	}
	if x == 0 {
		// Closed form: b(s) = erf(s/sqrt8) when x=0 (bmax=1), so
		// s = sqrt8 * erfinv(beta).
		return sqrt8 * specialfunctions.Erfinv(beta)
	}

	xAbs := math.Abs(x)
	sc := math.Sqrt(2 * xAbs)
	// 1-erfcx(sqrt(xAbs)) cancels badly for small xAbs (the near-the-money
	// case), which is exactly OneMinusErfcx's accurate domain.
	ome := specialfunctions.OneMinusErfcx(math.Sqrt(xAbs))
	bc := 0.5 * bmax * ome

	sl := sc - math.Sqrt(math.Pi/2)*ome
	if sl < 0 {
		sl = sc / 2
	}
	bl := blacknorm.NormalisedBlack(x, sl, 1)

	su := sc + math.Sqrt(math.Pi/2)*(2-ome)
	bu := blacknorm.NormalisedBlack(x, su, 1)

	switch {
	case beta <= bl:
		return solveLowestBranch(x, beta, bl, sl, bmax, cfg)
	case beta >= bu:
		return solveHighestBranch(x, beta, bu, su, bmax, cfg)
	default:
		return solveMiddleBranch(x, beta, bl, sl, bc, sc, bu, su, cfg)
	}
}

// objective bundles a root-finding branch's transformed function value and
// its first two derivatives with respect to s, in the form Halley's method
// (the degree-2 member of the Householder class) needs: g(s), g'(s), g''(s).
type objective func(s float64) (g, gPrime, gDoublePrime float64)

// middleObjective is the direct objective for the middle branch:
// g(s) = b(s) - beta, so g'=vega and g''=volga.
func middleObjective(x, beta float64) objective {
	return func(s float64) (float64, float64, float64) {
		b := blacknorm.NormalisedBlack(x, s, 1)
		v := blacknorm.Vega(x, s)
		vol := blacknorm.Volga(x, s)
		return b - beta, v, vol
	}
}

// lowestObjective is the transformed objective for the lowest branch
// (near-zero beta, where b(s) itself is too flat to root-find on directly):
// g(s) = 1/ln(b(s)) - 1/ln(beta). Writing L(s)=ln(b(s)), L'=vega/b,
// L''=volga/b-(vega/b)^2, then g=1/L-const, g'=-L'/L^2,
// g''=-L''/L^2+2L'^2/L^3.
func lowestObjective(x, beta float64) objective {
	lnBeta := math.Log(beta)
	return func(s float64) (float64, float64, float64) {
		b := blacknorm.NormalisedBlack(x, s, 1)
		v := blacknorm.Vega(x, s)
		vol := blacknorm.Volga(x, s)
		l := math.Log(b)
		lPrime := v / b
		lDoublePrime := vol/b - lPrime*lPrime
		g := 1/l - 1/lnBeta
		gPrime := -lPrime / (l * l)
		gDoublePrime := -lDoublePrime/(l*l) + 2*lPrime*lPrime/(l*l*l)
		return g, gPrime, gDoublePrime
	}
}

// highestObjective is the transformed objective for the highest branch
// (beta near its ceiling, where bmax-b(s) is the well-conditioned quantity):
// g(s) = ln(bmax-beta) - ln(bmax-b(s)) = const - ln(C(s)), C=bmax-b.
// C'=-vega, C''=-volga, so g'=vega/C, g''=volga/C+(vega/C)^2.
func highestObjective(x, beta, bmax float64) objective {
	lnTarget := math.Log(bmax - beta)
	return func(s float64) (float64, float64, float64) {
		c := blacknorm.ComplementaryNormalisedBlack(x, s)
		v := blacknorm.Vega(x, s)
		vol := blacknorm.Volga(x, s)
		g := lnTarget - math.Log(c)
		gPrime := v / c
		gDoublePrime := vol/c + (v/c)*(v/c)
		return g, gPrime, gDoublePrime
	}
}

// solveSafeguarded runs a bracket-safeguarded Halley iteration (the
// degree-2 member of the Householder class, used uniformly across all
// three branches rather than a moneyness-dependent higher-order split)
// for the root of obj inside [sLeft,sRight], where g(sLeft) and g(sRight)
// are known (and of opposite sign — the branch classification above
// guarantees this), starting from s0.
//
// Every proposed step is accepted only if it lands strictly inside the
// current bracket; otherwise the step falls back to a bisection of the
// bracket. This guarantees monotone bracket contraction and hence
// convergence regardless of how good the initial guess s0 is.
func solveSafeguarded(obj objective, sLeft, sRight, gLeft float64, s0 float64, cfg Config) float64 {
	s := s0
	if !(s > sLeft && s < sRight) || math.IsNaN(s) {
		s = 0.5 * (sLeft + sRight)
	}
	signLeft := sign(gLeft)

	maxIter := cfg.MaxSafeguardIterations
	if maxIter <= 0 {
		maxIter = 100
	}
	fastIter := cfg.N
	if fastIter <= 0 {
		fastIter = 2
	}

	for iter := 0; iter < maxIter; iter++ {
		g, gPrime, gDoublePrime := obj(s)
		if g == 0 || sRight-sLeft <= eps64*math.Max(1, math.Abs(s)) {
			return s
		}

		if sign(g) == signLeft {
			sLeft = s
		} else {
			sRight = s
		}

		var sNext float64
		useHalley := iter < maxIter-1 // Halley on every iteration but the last, which bisects; the bracket check below is what actually enforces safety.
		if useHalley && gPrime != 0 {
			den := 2*gPrime*gPrime - g*gDoublePrime
			if den != 0 {
				delta := 2 * g * gPrime / den
				sNext = s - delta
			}
		}
		if !(sNext > sLeft && sNext < sRight) || math.IsNaN(sNext) {
			sNext = 0.5 * (sLeft + sRight)
		}

		if math.Abs(sNext-s) <= eps64*math.Abs(sNext) && iter >= fastIter {
			return sNext
		}
		s = sNext
	}
	return s
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// solveLowestBranch handles beta <= bl: bracket [0, sl], lowestObjective's
// transformed objective, initial guess via the analytical f-map inverse
// below.
func solveLowestBranch(x, beta, bl, sl, bmax float64, cfg Config) float64 {
	// g(0+): as s->0, b->0, ln(b)->-inf, 1/ln(b)->0, so g(0+) = -1/ln(beta).
	// The objective is singular at s=0 itself, so this limit is used
	// directly rather than evaluating lowestObjective(0).
	gAtZero := -1 / math.Log(beta)
	s0 := lowestBranchInitialGuess(x, beta, bl, sl)
	return solveSafeguarded(lowestObjective(x, beta), 0, sl, gAtZero, s0, cfg)
}

// solveHighestBranch handles beta >= bu: bracket [su, sRight), where
// sRight is grown until the complementary price at sRight is provably
// below bmax-beta (guaranteeing a sign change), highestObjective's
// transformed objective, initial guess via the direct closed form below
// (no further rational-cubic refinement is layered on top of it).
func solveHighestBranch(x, beta, bu, su, bmax float64, cfg Config) float64 {
	sRight := su
	target := bmax - beta
	for i := 0; i < 64; i++ {
		sRight *= 2
		if blacknorm.ComplementaryNormalisedBlack(x, sRight) < target {
			break
		}
	}
	gLeft := math.Log(target) - math.Log(blacknorm.ComplementaryNormalisedBlack(x, su))
	s0 := -2 * specialfunctions.InverseNormCDF(bmax-beta)
	return solveSafeguarded(highestObjective(x, beta, bmax), su, sRight, gLeft, s0, cfg)
}

// solveMiddleBranch handles bl < beta < bu: bracket [sl, su], direct
// objective b(s)-beta, initial guess via a rational-cubic interpolant of
// s as a function of beta (slopes 1/vega, a well-conditioned quantity
// near the middle of the range), split into [bl,bc] and [bc,bu] with the
// second derivative fitted at the shared anchor bc.
func solveMiddleBranch(x, beta, bl, sl, bc, sc, bu, su float64, cfg Config) float64 {
	s0 := middleBranchInitialGuess(x, beta, bl, sl, bc, sc, bu, su)
	gLeft := bl - beta
	return solveSafeguarded(middleObjective(x, beta), sl, su, gLeft, s0, cfg)
}

// lowestBranchInitialGuess builds the lowest-branch initial guess via the
// map f(b) = -|x| / Phi^-1( cbrt(b/(c*|x|)) ), c=2*pi/sqrt(27),
// interpolated by a rational cubic on (0,bl) with f(0)=0, f'(0)=1 and
// f(bl), f'(bl) (the latter estimated by a central finite difference),
// falling back to a plain quadratic when the interpolant is non-admissible
// (observed for |x|>500). The guess is then mapped back to s via the
// closed-form inverse of the f-map.
func lowestBranchInitialGuess(x, beta, bl, sl float64) float64 {
	xAbs := math.Abs(x)
	fAtBl := lowestFMap(xAbs, bl)
	const h = 1e-6
	bl1 := bl * (1 + h)
	bl0 := bl * (1 - h)
	fPrimeAtBl := (lowestFMap(xAbs, bl1) - lowestFMap(xAbs, bl0)) / (bl1 - bl0)

	var fBeta float64
	r := rationalcubic.ControlParameterToFitSecondDerivativeAtRightSide(0, bl, 0, fAtBl, 1, fPrimeAtBl, 0)
	if rationalcubic.IsAdmissible(0, bl, 0, fAtBl, 1, fPrimeAtBl, r) {
		fBeta = rationalcubic.Interpolate(beta, 0, bl, 0, fAtBl, 1, fPrimeAtBl, r)
	} else {
		fBeta = rationalcubic.QuadraticThroughTwoPointsWithOneKnownSlope(beta, 0, bl, 0, fAtBl, 1)
	}
	if fBeta <= 0 {
		fBeta = fAtBl * beta / bl
	}
	return inverseFLowerMap(xAbs, fBeta)
}

func lowestFMap(xAbs, b float64) float64 {
	u := math.Cbrt(b / (lowestMapC * xAbs))
	return -xAbs / specialfunctions.InverseNormCDF(u)
}

func inverseFLowerMap(xAbs, f float64) float64 {
	arg := lowestMapK * math.Cbrt(f/xAbs)
	return math.Abs(xAbs / (math.Sqrt(3) * specialfunctions.InverseNormCDF(arg)))
}

// middleBranchInitialGuess builds the middle-branch initial guess: a
// rational-cubic interpolant of s(beta) on [bl,bc] and [bc,bu]
// with endpoint slopes 1/vega(sl), 1/vega(sc), 1/vega(su) and the second
// derivative of s(beta) fitted at bc (d(1/v)/dbeta = -volga/v^3, an exact
// closed form from the chain rule through ds/dbeta=1/v).
func middleBranchInitialGuess(x, beta, bl, sl, bc, sc, bu, su float64) float64 {
	vL := blacknorm.Vega(x, sl)
	vC := blacknorm.Vega(x, sc)
	vU := blacknorm.Vega(x, su)
	if vL == 0 || vC == 0 || vU == 0 {
		return 0.5 * (sl + su)
	}
	dL, dC, dU := 1/vL, 1/vC, 1/vU
	volgaC := blacknorm.Volga(x, sc)
	secondDerivAtBc := -volgaC / (vC * vC * vC)

	if beta <= bc {
		r := rationalcubic.ControlParameterToFitSecondDerivativeAtRightSide(bl, bc, sl, sc, dL, dC, secondDerivAtBc)
		if rationalcubic.IsAdmissible(bl, bc, sl, sc, dL, dC, r) {
			return rationalcubic.Interpolate(beta, bl, bc, sl, sc, dL, dC, r)
		}
		return rationalcubic.QuadraticThroughTwoPointsWithOneKnownSlope(beta, bl, bc, sl, sc, dL)
	}
	r := rationalcubic.ControlParameterToFitSecondDerivativeAtLeftSide(bc, bu, sc, su, dC, dU, secondDerivAtBc)
	if rationalcubic.IsAdmissible(bc, bu, sc, su, dC, dU, r) {
		return rationalcubic.Interpolate(beta, bc, bu, sc, su, dC, dU, r)
	}
	return rationalcubic.QuadraticThroughTwoPointsWithOneKnownSlope(beta, bc, bu, sc, su, dC)
}
