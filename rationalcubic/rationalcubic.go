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
Package rationalcubic provides a shape-preserving rational-cubic Hermite
interpolant (the Delbourgo-Gregory family) used by the root-finder package
to build cheap, accurate initial guesses on an interval given the function
values and slopes at its two endpoints.

The family has one free "control parameter" r per segment: increasing r
flattens the curve towards the chord, and r -> infinity degenerates to
linear interpolation. Two constructors solve for the r that matches a
target second derivative at one endpoint; the evaluator is alloc-free
so it is cheap enough to call on every root-finding iteration
that needs a fresh initial guess.
*/
package rationalcubic

import "math"

// Interpolate returns the value at x of the rational-cubic Hermite
// interpolant through (xLeft,yLeft) and (xRight,yRight) with slopes
// (dLeft,dRight) at the two endpoints and control parameter r, using the
// Delbourgo-Gregory form
//
//	R(t) = [yRight*t^3 + (r*yRight-h*dRight)*t^2*(1-t) +
//	        (r*yLeft+h*dLeft)*t*(1-t)^2 + yLeft*(1-t)^3] /
//	       [1 + (r-3)*t*(1-t)]
//
// where h = xRight-xLeft and t = (x-xLeft)/h. This reduces to the unique
// cubic Hermite interpolant through the four pieces of data when r=3, and
// is well-defined (monotone-preserving, for suitably chosen r) for any
// r > -1.
func Interpolate(x, xLeft, xRight, yLeft, yRight, dLeft, dRight, r float64) float64 {
	h := xRight - xLeft
	if h == 0 {
		return 0.5 * (yLeft + yRight)
	}
	t := (x - xLeft) / h
	omt := 1 - t
	denominator := 1 + (r-3)*t*omt
	numerator := yRight*t*t*t +
		(r*yRight-h*dRight)*t*t*omt +
		(r*yLeft+h*dLeft)*t*omt*omt +
		yLeft*omt*omt*omt
	return numerator / denominator
}

// ControlParameterToFitSecondDerivativeAtLeftSide returns the control
// parameter r for which Interpolate's second derivative at xLeft equals
// secondDerivativeLeft, given the endpoint data (xLeft,xRight,yLeft,
// yRight,dLeft,dRight). Per the Delbourgo-Gregory second-derivative
// identity for this family,
//
//	r = (0.5*h*secondDerivativeLeft + (dRight-dLeft)) / (s - dLeft)
//
// where h = xRight-xLeft and s = (yRight-yLeft)/h is the chord slope. When
// the denominator vanishes the result saturates to +/-Inf (matching the
// degenerate cases of the closed form); callers must treat a
// non-admissible r (see IsAdmissible) by falling back to a plain quadratic
// through the two endpoints using the one known slope.
func ControlParameterToFitSecondDerivativeAtLeftSide(xLeft, xRight, yLeft, yRight, dLeft, dRight, secondDerivativeLeft float64) float64 {
	h := xRight - xLeft
	if h == 0 {
		return 0
	}
	s := (yRight - yLeft) / h
	numerator := 0.5*h*secondDerivativeLeft + (dRight - dLeft)
	denominator := s - dLeft
	return ratioOrSignedInf(numerator, denominator)
}

// ControlParameterToFitSecondDerivativeAtRightSide is the symmetric
// counterpart of ControlParameterToFitSecondDerivativeAtLeftSide, solving
// for the r that matches a target second derivative at xRight:
//
//	r = (0.5*h*secondDerivativeRight + (dRight-dLeft)) / (dRight - s)
func ControlParameterToFitSecondDerivativeAtRightSide(xLeft, xRight, yLeft, yRight, dLeft, dRight, secondDerivativeRight float64) float64 {
	h := xRight - xLeft
	if h == 0 {
		return 0
	}
	s := (yRight - yLeft) / h
	numerator := 0.5*h*secondDerivativeRight + (dRight - dLeft)
	denominator := dRight - s
	return ratioOrSignedInf(numerator, denominator)
}

func ratioOrSignedInf(numerator, denominator float64) float64 {
	if denominator == 0 {
		if numerator == 0 {
			return 0
		}
		if numerator > 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return numerator / denominator
}

// IsAdmissible reports whether the interpolant built with control
// parameter r over (xLeft,xRight,yLeft,yRight,dLeft,dRight) is monotone
// (shape-preserving, matching the sign of the chord slope) across the
// whole segment. A closed-form minimum-control-parameter test is
// substituted by direct sampling of the interpolant's derivative at a
// handful of interior points — cheap, since this only runs once per
// initial-guess construction, and conservative, since any sign change
// against the chord slope is treated as non-admissible. Non-finite r
// (the Inf saturation case above) is always inadmissible.
func IsAdmissible(xLeft, xRight, yLeft, yRight, dLeft, dRight, r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= -1 {
		return false
	}
	h := xRight - xLeft
	if h == 0 {
		return true
	}
	chordSlope := (yRight - yLeft) / h
	if chordSlope == 0 {
		return dLeft == 0 && dRight == 0
	}
	const samples = 9
	const bump = 1e-6
	for i := 1; i < samples; i++ {
		t := float64(i) / float64(samples)
		x := xLeft + t*h
		slope := (Interpolate(x+bump*h, xLeft, xRight, yLeft, yRight, dLeft, dRight, r) -
			Interpolate(x-bump*h, xLeft, xRight, yLeft, yRight, dLeft, dRight, r)) / (2 * bump * h)
		if slope*chordSlope < 0 {
			return false
		}
	}
	return true
}

// QuadraticThroughTwoPointsWithOneKnownSlope evaluates, at x, the
// quadratic through (xLeft,yLeft) and (xRight,yRight) whose derivative at
// xLeft equals dLeft. This is the fallback used whenever the rational-cubic
// control parameter produces a non-admissible shape.
func QuadraticThroughTwoPointsWithOneKnownSlope(x, xLeft, xRight, yLeft, yRight, dLeft float64) float64 {
	h := xRight - xLeft
	if h == 0 {
		return 0.5 * (yLeft + yRight)
	}
	a := ((yRight-yLeft)/h - dLeft) / h
	dx := x - xLeft
	return yLeft + dLeft*dx + a*dx*dx
}
