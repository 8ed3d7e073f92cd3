package rationalcubic_test

import (
	"math"
	"testing"

	"github.com/nakashima-hikaru/implied-vol/rationalcubic"
)

func TestInterpolateMatchesEndpoints(t *testing.T) {
	xLeft, xRight := 0.0, 2.0
	yLeft, yRight := 1.0, 4.0
	dLeft, dRight := 0.5, 1.5
	r := 3.0 // r=3 reduces to the plain cubic Hermite interpolant.

	gotLeft := rationalcubic.Interpolate(xLeft, xLeft, xRight, yLeft, yRight, dLeft, dRight, r)
	gotRight := rationalcubic.Interpolate(xRight, xLeft, xRight, yLeft, yRight, dLeft, dRight, r)

	if math.Abs(gotLeft-yLeft) > 1e-12 {
		t.Errorf("interpolant at left endpoint: got %g, want %g", gotLeft, yLeft)
	}
	if math.Abs(gotRight-yRight) > 1e-12 {
		t.Errorf("interpolant at right endpoint: got %g, want %g", gotRight, yRight)
	}
}

func TestInterpolateMatchesSlopesAtEndpoints(t *testing.T) {
	xLeft, xRight := 0.0, 2.0
	yLeft, yRight := 1.0, 4.0
	dLeft, dRight := 0.5, 1.5
	for _, r := range []float64{-0.5, 1, 3, 10, 100} {
		const bump = 1e-6
		slopeLeft := (rationalcubic.Interpolate(xLeft+bump, xLeft, xRight, yLeft, yRight, dLeft, dRight, r) -
			yLeft) / bump
		if math.Abs(slopeLeft-dLeft) > 1e-4 {
			t.Errorf("r=%g: slope at left endpoint: got %g, want %g", r, slopeLeft, dLeft)
		}
		slopeRight := (yRight - rationalcubic.Interpolate(xRight-bump, xLeft, xRight, yLeft, yRight, dLeft, dRight, r)) / bump
		if math.Abs(slopeRight-dRight) > 1e-4 {
			t.Errorf("r=%g: slope at right endpoint: got %g, want %g", r, slopeRight, dRight)
		}
	}
}

func TestControlParameterLeftSideMatchesTargetSecondDerivative(t *testing.T) {
	xLeft, xRight := 0.0, 2.0
	yLeft, yRight := 1.0, 4.0
	dLeft, dRight := 0.5, 1.5
	target := 2.0

	r := rationalcubic.ControlParameterToFitSecondDerivativeAtLeftSide(xLeft, xRight, yLeft, yRight, dLeft, dRight, target)

	const bump = 1e-4
	y0 := rationalcubic.Interpolate(xLeft, xLeft, xRight, yLeft, yRight, dLeft, dRight, r)
	y1 := rationalcubic.Interpolate(xLeft+bump, xLeft, xRight, yLeft, yRight, dLeft, dRight, r)
	y2 := rationalcubic.Interpolate(xLeft+2*bump, xLeft, xRight, yLeft, yRight, dLeft, dRight, r)
	secondDerivative := (y2 - 2*y1 + y0) / (bump * bump)

	if math.Abs(secondDerivative-target) > 1e-1 {
		t.Errorf("second derivative at left: got %g, want %g", secondDerivative, target)
	}
}

func TestIsAdmissibleRejectsNonFiniteR(t *testing.T) {
	if rationalcubic.IsAdmissible(0, 1, 0, 1, 1, 1, math.Inf(1)) {
		t.Error("expected +Inf control parameter to be inadmissible")
	}
	if rationalcubic.IsAdmissible(0, 1, 0, 1, 1, 1, math.NaN()) {
		t.Error("expected NaN control parameter to be inadmissible")
	}
}

func TestIsAdmissibleAcceptsWellBehavedMonotoneCase(t *testing.T) {
	if !rationalcubic.IsAdmissible(0, 1, 0, 1, 1, 1, 3) {
		t.Error("expected the plain monotone Hermite case (r=3) to be admissible")
	}
}

func TestQuadraticFallbackMatchesEndpointsAndSlope(t *testing.T) {
	xLeft, xRight := 0.0, 2.0
	yLeft, yRight := 1.0, 4.0
	dLeft := 0.5

	gotLeft := rationalcubic.QuadraticThroughTwoPointsWithOneKnownSlope(xLeft, xLeft, xRight, yLeft, yRight, dLeft)
	gotRight := rationalcubic.QuadraticThroughTwoPointsWithOneKnownSlope(xRight, xLeft, xRight, yLeft, yRight, dLeft)

	if math.Abs(gotLeft-yLeft) > 1e-12 {
		t.Errorf("quadratic at left endpoint: got %g, want %g", gotLeft, yLeft)
	}
	if math.Abs(gotRight-yRight) > 1e-12 {
		t.Errorf("quadratic at right endpoint: got %g, want %g", gotRight, yRight)
	}
}
