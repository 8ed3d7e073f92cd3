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
Package refnorm provides independently-sourced standard normal CDF/PDF
evaluations, used as a cross-check oracle by the specialfunctions package's
tests. It exists so those tests are not "testing the implementation against
itself": github.com/datastream/probab/dst computes the Gaussian CDF and PDF
via its own code path, unrelated to specialfunctions' erfc/erfcx-based
evaluation, so agreement between the two is real evidence of correctness
rather than a tautology.
*/
package refnorm

import "github.com/datastream/probab/dst"

// CDF returns the oracle's cumulative distribution function of the
// standard normal distribution at x.
func CDF(x float64) float64 {
	return dst.NormalCDFAt(0.0, 1.0, x)
}

// PDF returns the oracle's probability density function of the standard
// normal distribution at x.
func PDF(x float64) float64 {
	return dst.NormalPDFAt(0.0, 1.0, x)
}
