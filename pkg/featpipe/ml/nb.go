package ml

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/sensora/featpipe/pkg/featpipe/internal/jsonfloat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// varSmoothing is the portion of the largest feature variance that is
// added to all variances for numerical stability.
const varSmoothing = 1e-9

// GaussianNB implements gaussian naive bayes.
type GaussianNB struct {
	prior []float64   // log prior per class
	mean  [][]float64 // class x feature
	vari  [][]float64 // class x feature
}

// Fit estimates the class priors and the per class feature means and
// variances.
func (nb *GaussianNB) Fit(x *mat.Dense, y []int) error {
	r, c, nclasses, err := checkFit("naive bayes", x, y)
	if err != nil {
		return err
	}
	var eps float64
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		_, v := stat.PopMeanVariance(col, nil)
		eps = math.Max(eps, v)
	}
	eps *= varSmoothing

	rows := make([][]int, nclasses)
	for i, class := range y {
		rows[class] = append(rows[class], i)
	}
	nb.prior = make([]float64, nclasses)
	nb.mean = make([][]float64, nclasses)
	nb.vari = make([][]float64, nclasses)
	for k := range rows {
		nb.mean[k] = make([]float64, c)
		nb.vari[k] = make([]float64, c)
		if len(rows[k]) == 0 {
			nb.prior[k] = math.Inf(-1)
			continue
		}
		nb.prior[k] = math.Log(float64(len(rows[k])) / float64(r))
		vals := make([]float64, len(rows[k]))
		for j := 0; j < c; j++ {
			for n, i := range rows[k] {
				vals[n] = x.At(i, j)
			}
			nb.mean[k][j], nb.vari[k][j] = stat.PopMeanVariance(vals, nil)
			nb.vari[k][j] += eps
		}
	}
	return nil
}

// LogLikelihood returns the joint log likelihood of each class for
// the given sample.
func (nb *GaussianNB) LogLikelihood(xs []float64) []float64 {
	ret := make([]float64, len(nb.prior))
	for k := range nb.prior {
		sum := nb.prior[k]
		if math.IsInf(sum, -1) {
			ret[k] = sum
			continue
		}
		for j, x := range xs {
			d := x - nb.mean[k][j]
			sum -= 0.5*math.Log(2*math.Pi*nb.vari[k][j]) + d*d/(2*nb.vari[k][j])
		}
		ret[k] = sum
	}
	return ret
}

// Predict returns the most likely class for each row of x.
func (nb *GaussianNB) Predict(x *mat.Dense) []int {
	if x == nil {
		return nil
	}
	r, _ := x.Dims()
	ys := make([]int, r)
	for i := 0; i < r; i++ {
		ys[i] = floats.MaxIdx(nb.LogLikelihood(x.RawRowView(i)))
	}
	return ys
}

type nbdata struct {
	Prior    jsonfloat.Slice   `json:",omitempty"`
	Mean     []jsonfloat.Slice `json:",omitempty"`
	Variance []jsonfloat.Slice `json:",omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.  Classes
// without samples have a prior of -Inf.
func (nb *GaussianNB) MarshalJSON() ([]byte, error) {
	return json.Marshal(nbdata{
		Prior:    nb.prior,
		Mean:     jsonfloat.Matrix(nb.mean),
		Variance: jsonfloat.Matrix(nb.vari),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (nb *GaussianNB) UnmarshalJSON(data []byte) error {
	var tmp nbdata
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if len(tmp.Mean) != len(tmp.Prior) || len(tmp.Variance) != len(tmp.Prior) {
		return fmt.Errorf("naive bayes: inconsistent parameters")
	}
	*nb = GaussianNB{
		prior: tmp.Prior,
		mean:  jsonfloat.Rows(tmp.Mean),
		vari:  jsonfloat.Rows(tmp.Variance),
	}
	return nil
}

var _ Classifier = &GaussianNB{}
