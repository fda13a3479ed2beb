package analysis

import (
	"fmt"
	"math/rand"
)

// DefaultPowerIterations is the fixed number of power-iteration steps per
// component. There is no convergence check; the count is part of the output
// contract.
const DefaultPowerIterations = 100

// PrincipalComponent is a unit-length direction in feature space.
type PrincipalComponent struct {
	Index    int
	Vector   []float64
	Variance float64 // Rayleigh quotient vᵀCv
}

// PCAResult holds the extracted components and the projected rows.
type PCAResult struct {
	Components []PrincipalComponent
	Projected  *Matrix // rows × len(Components)
	Covariance *Matrix
}

// Covariance computes cov[i][j] = Σ x_ki·x_kj / (N−1) for already-centered
// data. It requires at least two rows.
func Covariance(centered *Matrix) (*Matrix, error) {
	if centered.Rows <= 1 {
		return nil, fmt.Errorf("%w: covariance needs at least 2 rows, got %d", ErrInsufficientData, centered.Rows)
	}
	m := centered.Cols
	cov := NewMatrix(m, m)
	denom := float64(centered.Rows - 1)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			s := 0.0
			for k := 0; k < centered.Rows; k++ {
				s += centered.At(k, i) * centered.At(k, j)
			}
			s /= denom
			cov.Set(i, j, s)
			cov.Set(j, i, s)
		}
	}
	return cov, nil
}

// PCA extracts k principal components of centered by power iteration with
// Gram–Schmidt deflation and projects every row onto them. rng seeds the
// starting vectors; the same seed reproduces the same output.
func PCA(centered *Matrix, k, iterations int, rng *rand.Rand) (*PCAResult, error) {
	if centered.Rows <= 1 {
		return nil, fmt.Errorf("%w: need at least 2 players, got %d", ErrInsufficientData, centered.Rows)
	}
	if k < 1 || centered.Cols < k {
		return nil, fmt.Errorf("%w: %d components requested for %d features", ErrInvalidComponentCount, k, centered.Cols)
	}
	cov, err := Covariance(centered)
	if err != nil {
		return nil, err
	}

	components := make([]PrincipalComponent, 0, k)
	for c := 0; c < k; c++ {
		v := randomUnitVector(centered.Cols, rng)
		for it := 0; it < iterations; it++ {
			next := cov.MulVec(v)
			for _, prev := range components {
				proj := dot(next, prev.Vector)
				for i := range next {
					next[i] -= proj * prev.Vector[i]
				}
			}
			n := norm(next)
			if n == 0 {
				// Degenerate: keep the current vector for this step.
				continue
			}
			for i := range next {
				next[i] /= n
			}
			v = next
		}
		components = append(components, PrincipalComponent{
			Index:    c,
			Vector:   v,
			Variance: dot(v, cov.MulVec(v)),
		})
	}

	return &PCAResult{
		Components: components,
		Projected:  Project(centered, components),
		Covariance: cov,
	}, nil
}

// Project returns the dot product of every row with every component.
func Project(centered *Matrix, components []PrincipalComponent) *Matrix {
	out := NewMatrix(centered.Rows, len(components))
	for i := 0; i < centered.Rows; i++ {
		row := centered.Row(i)
		for c, pc := range components {
			out.Set(i, c, dot(row, pc.Vector))
		}
	}
	return out
}

func randomUnitVector(n int, rng *rand.Rand) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64()
	}
	if l := norm(v); l > 0 {
		for i := range v {
			v[i] /= l
		}
	}
	return v
}
