// Package spectral provides the 3D Fourier transform capability and the
// FFT-based Poisson solver for the particle-mesh gravity step.
package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/pthm-cable/darkmesh/mesh"
)

// Transform3D is an in-place forward/inverse discrete transform over a
// flattened complex N^3 volume. Both directions are unnormalized: a forward
// pass followed by an inverse pass scales the field by N^3.
type Transform3D interface {
	// Forward applies the forward transform in place.
	Forward(buf []complex128)
	// Inverse applies the unnormalized inverse transform in place.
	Inverse(buf []complex128)
	// Resolution returns N, the side length of the volume.
	Resolution() int
}

// FFT3D is a separable 3D FFT assembled from batched 1D transforms: each
// axis is transformed as a sequence of length-N lines. The Poisson solver
// and the Zel'dovich generator share one instance per resolution.
type FFT3D struct {
	n   int
	fft *fourier.CmplxFFT

	// line scratch buffers reused across every 1D pass
	src []complex128
	dst []complex128
}

// NewFFT3D plans a transform for an N^3 volume. A non-positive resolution
// is a configuration error, not a runtime condition.
func NewFFT3D(resolution int) (*FFT3D, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("spectral: transform resolution must be positive, got %d", resolution)
	}
	return &FFT3D{
		n:   resolution,
		fft: fourier.NewCmplxFFT(resolution),
		src: make([]complex128, resolution),
		dst: make([]complex128, resolution),
	}, nil
}

// Resolution returns the planned side length N.
func (t *FFT3D) Resolution() int { return t.n }

// Forward applies the forward FFT along z, then y, then x.
func (t *FFT3D) Forward(buf []complex128) { t.apply(buf, true) }

// Inverse applies the unnormalized inverse FFT along z, then y, then x.
func (t *FFT3D) Inverse(buf []complex128) { t.apply(buf, false) }

func (t *FFT3D) apply(buf []complex128, forward bool) {
	n := t.n
	if len(buf) != n*n*n {
		panic(fmt.Sprintf("spectral: buffer length %d does not match %d^3 volume", len(buf), n))
	}

	// Axis strides in the row-major (i*n + j)*n + k layout: z lines are
	// contiguous, y lines stride by n, x lines by n*n.
	for _, stride := range [3]int{1, n, n * n} {
		t.transformAxis(buf, stride, forward)
	}
}

// transformAxis runs every length-n line along one axis through the 1D plan.
func (t *FFT3D) transformAxis(buf []complex128, stride int, forward bool) {
	n := t.n
	total := n * n * n

	// Enumerate line origins: every index whose axis coordinate is zero.
	// A line starting at origin o visits o, o+stride, ..., o+(n-1)*stride.
	span := stride * n
	for block := 0; block < total; block += span {
		for origin := block; origin < block+stride; origin++ {
			for i := 0; i < n; i++ {
				t.src[i] = buf[origin+i*stride]
			}
			if forward {
				t.fft.Coefficients(t.dst, t.src)
			} else {
				t.fft.Sequence(t.dst, t.src)
			}
			for i := 0; i < n; i++ {
				buf[origin+i*stride] = t.dst[i]
			}
		}
	}
}

// WaveVector maps a linear cell index to its wave vector. Indices above N/2
// fold to negative frequencies; kFund is the fundamental wavenumber
// 2*pi/boxSize.
func WaveVector(idx, n int, kFund float64) (kx, ky, kz float64) {
	i, j, k := mesh.Unravel(idx, n)
	return freq(i, n) * kFund, freq(j, n) * kFund, freq(k, n) * kFund
}

func freq(i, n int) float64 {
	if i > n/2 {
		return float64(i - n)
	}
	return float64(i)
}
