package analysis

import "math"

// ColumnStats returns the population mean and standard deviation (divide by
// N) of every column.
func ColumnStats(m *Matrix) (means, stds []float64) {
	means = make([]float64, m.Cols)
	stds = make([]float64, m.Cols)
	if m.Rows == 0 {
		return means, stds
	}
	n := float64(m.Rows)
	for j := 0; j < m.Cols; j++ {
		sum := 0.0
		for i := 0; i < m.Rows; i++ {
			sum += m.At(i, j)
		}
		mean := sum / n

		variance := 0.0
		for i := 0; i < m.Rows; i++ {
			d := m.At(i, j) - mean
			variance += d * d
		}
		means[j] = mean
		stds[j] = math.Sqrt(variance / n)
	}
	return means, stds
}

// Standardize returns a z-scored copy of m. Columns with zero standard
// deviation are only centered, so they come out as all zeros.
func Standardize(m *Matrix) *Matrix {
	means, stds := ColumnStats(m)
	out := NewMatrix(m.Rows, m.Cols)
	for j := 0; j < m.Cols; j++ {
		scale := stds[j]
		if scale == 0 {
			scale = 1
		}
		for i := 0; i < m.Rows; i++ {
			out.Set(i, j, (m.At(i, j)-means[j])/scale)
		}
	}
	return out
}
