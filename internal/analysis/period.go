package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// Period estimates the oscillation period of xs sampled at times from the
// interpolated upward crossings of its mean. It returns false when fewer
// than two crossings are found.
func Period(times, xs []float64) (float64, bool) {
	if len(xs) < 3 || len(times) != len(xs) {
		return 0, false
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var crossings []float64
	for i := 1; i < len(xs); i++ {
		a, b := xs[i-1]-mean, xs[i]-mean
		if a < 0 && b >= 0 {
			frac := -a / (b - a)
			crossings = append(crossings, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	if len(crossings) < 2 {
		return 0, false
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), true
}

// DominantPeriod returns the period of the strongest non-zero frequency in
// a uniformly sampled series. Only the leading power-of-two samples are
// used.
func DominantPeriod(xs []float64, dt float64) (float64, bool) {
	if len(xs) < 4 || dt <= 0 {
		return 0, false
	}
	n := 1 << (bits.Len(uint(len(xs))) - 1)

	ps := PowerSpectrum(xs[:n])
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, false
	}
	return float64(n) * dt / float64(best), true
}

// FFT is a radix-2 transform; len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of the first half of the transform of
// the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	mean := 0.0
	for _, x := range data {
		mean += x
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, x := range data {
		centered[i] = x - mean
	}

	fft := FFT(centered)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}
