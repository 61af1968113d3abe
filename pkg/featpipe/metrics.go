package featpipe

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Classes returns the sorted set of labels in the given lists.  If all
// labels are numbers, they are sorted numerically.  Otherwise they are
// sorted lexically.
func Classes(lists ...[]string) []string {
	set := make(map[string]bool)
	var ret []string
	for _, list := range lists {
		for _, label := range list {
			if !set[label] {
				set[label] = true
				ret = append(ret, label)
			}
		}
	}
	nums := make(map[string]float64, len(ret))
	for _, label := range ret {
		x, err := strconv.ParseFloat(label, 64)
		if err != nil {
			sort.Strings(ret)
			return ret
		}
		nums[label] = x
	}
	sort.Slice(ret, func(i, j int) bool {
		return nums[ret[i]] < nums[ret[j]]
	})
	return ret
}

// ConfusionMatrix calculates the confusion matrix for the given true
// and predicted labels.  Rows are indexed by the true class, columns by
// the predicted class.  The classes are returned in matrix order.
func ConfusionMatrix(yTrue, yPred []string) (*mat.Dense, []string, error) {
	if len(yTrue) != len(yPred) {
		return nil, nil, fmt.Errorf("confusionMatrix: inconsistent lengths %d and %d",
			len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, nil, fmt.Errorf("confusionMatrix: no samples")
	}
	classes := Classes(yTrue, yPred)
	pos := make(map[string]int, len(classes))
	for i, class := range classes {
		pos[class] = i
	}
	m := mat.NewDense(len(classes), len(classes), nil)
	for i := range yTrue {
		r, c := pos[yTrue[i]], pos[yPred[i]]
		m.Set(r, c, m.At(r, c)+1)
	}
	return m, classes, nil
}

// Accuracy returns the fraction of correctly predicted labels.
func Accuracy(yTrue, yPred []string) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("accuracy: inconsistent lengths %d and %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("accuracy: no samples")
	}
	var n int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			n++
		}
	}
	return float64(n) / float64(len(yTrue)), nil
}

// PercentageConfusionMatrix divides each entry of the given confusion
// matrix by the sum of its row and scales it to percent, rounded to 2
// decimal places (half to even).  Rows that sum to zero result in NaN values.
func PercentageConfusionMatrix(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	ret := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		sum := floats.Sum(row)
		for j := range row {
			ret.Set(i, j, Round(100*row[j]/sum, 2))
		}
	}
	return ret
}

// Round rounds x to the given number of decimal places.  Halves are
// rounded to the nearest even digit.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return floats.RoundEven(x, places)
}
