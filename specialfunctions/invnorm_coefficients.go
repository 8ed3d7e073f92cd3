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

package specialfunctions

// Rational-approximation coefficients for algorithm AS 241 (Wichura,
// 1988), the normal-distribution quantile function. These are the same
// published, public-domain coefficients vendored by
// github.com/datastream/probab/dst, renamed here to this package's own
// naming convention.

// asInverseCDFMidA, asInverseCDFMidB evaluate the midrange branch,
// |u-1/2| <= 0.425, as a function of r = 0.180625 - q^2, q = u-1/2.
var asInverseCDFMidA = [8]float64{
	3.387132872796366608, 133.14166789178437745, 1971.5909503065514427,
	13731.693765509461125, 45921.953931549871457, 67265.770927008700853,
	33430.575583588128105, 2509.0809287301226727,
}

var asInverseCDFMidB = [8]float64{
	1.0, 42.313330701600911252, 687.1870074920579083,
	5394.1960214247511077, 21213.794301586595867, 39307.89580009271061,
	28729.085735721942674, 5226.495278852854561,
}

// asInverseCDFIntermediateA, asInverseCDFIntermediateB evaluate the tail
// branch for r = sqrt(-ln(p)) <= 5.0, as a function of (r-1.6).
var asInverseCDFIntermediateA = [8]float64{
	1.42343711074968357734, 4.6303378461565452959, 5.7694972214606914055,
	3.64784832476320460504, 1.27045825245236838258, 0.24178072517745061177,
	0.0227238449892691845833, 7.7454501427834140764e-4,
}

var asInverseCDFIntermediateB = [8]float64{
	1.0, 2.05319162663775882187, 1.6763848301838038494,
	0.68976733498510000455, 0.14810397642748007459, 0.0151986665636164571966,
	5.475938084995344946e-4, 1.05075007164441684324e-9,
}

// asInverseCDFTailA, asInverseCDFTailB evaluate the extreme-tail branch
// for r = sqrt(-ln(p)) > 5.0, as a function of (r-5.0).
var asInverseCDFTailA = [8]float64{
	6.6579046435011037772, 5.4637849111641143699, 1.7848265399172913358,
	0.29656057182850489123, 0.026532189526576123093, 0.0012426609473880784386,
	2.71155556874348757815e-5, 2.01033439929228813265e-7,
}

var asInverseCDFTailB = [8]float64{
	1.0, 0.59983220655588793769, 0.13692988092273580531,
	0.0148753612908506148525, 7.868691311456132591e-4, 1.8463183175100546818e-5,
	1.4215117583164458887e-7, 2.04426310338993978564e-15,
}
