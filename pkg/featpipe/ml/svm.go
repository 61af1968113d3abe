package ml

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/sensora/featpipe/pkg/featpipe/internal/jsonfloat"
	"gonum.org/v1/gonum/mat"
)

// LinearSVM implements a one-vs-rest linear support vector machine.
// Each class gets its own weight vector that is trained with
// stochastic sub-gradient descent on the L2 regularized hinge loss.
type LinearSVM struct {
	weights      *mat.Dense // classes x features
	bias         []float64
	LearningRate float64
	Lambda       float64
	Epochs       int
	Seed         uint64
}

// Fit fits the weights of all classes.
func (svm *LinearSVM) Fit(x *mat.Dense, y []int) error {
	r, c, nclasses, err := checkFit("svm", x, y)
	if err != nil {
		return err
	}
	svm.weights = mat.NewDense(nclasses, c, nil)
	svm.bias = make([]float64, nclasses)
	rnd := rand.New(rand.NewPCG(svm.Seed, svm.Seed))
	order := make([]int, r)
	for i := range order {
		order[i] = i
	}
	for e := 0; e < svm.Epochs; e++ {
		rnd.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		// Decaying step size.
		eta := svm.LearningRate / (1 + float64(e)*svm.Lambda*svm.LearningRate)
		for _, i := range order {
			row := x.RowView(i)
			for k := 0; k < nclasses; k++ {
				w := svm.weights.RowView(k).(*mat.VecDense)
				t := -1.0
				if y[i] == k {
					t = 1.0
				}
				margin := t * (mat.Dot(w, row) + svm.bias[k])
				w.ScaleVec(1-eta*svm.Lambda, w)
				if margin < 1 {
					w.AddScaledVec(w, eta*t, row)
					svm.bias[k] += eta * t
				}
			}
		}
	}
	return nil
}

// Scores returns the decision function values (one column per class)
// for the rows of x.
func (svm *LinearSVM) Scores(x *mat.Dense) *mat.Dense {
	var ret mat.Dense
	ret.Mul(x, svm.weights.T())
	r, c := ret.Dims()
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			ret.Set(i, k, ret.At(i, k)+svm.bias[k])
		}
	}
	return &ret
}

// Predict returns the class with the highest score for each row of x.
func (svm *LinearSVM) Predict(x *mat.Dense) []int {
	if x == nil {
		return nil
	}
	scores := svm.Scores(x)
	r, _ := scores.Dims()
	ys := make([]int, r)
	for i := 0; i < r; i++ {
		ys[i] = argmax(scores.RawRowView(i))
	}
	return ys
}

type svmdata struct {
	LearningRate float64
	Lambda       float64
	Epochs       int
	Seed         uint64
	Features     int             `json:",omitempty"`
	Weights      jsonfloat.Slice `json:",omitempty"`
	Bias         jsonfloat.Slice `json:",omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (svm *LinearSVM) MarshalJSON() ([]byte, error) {
	data := svmdata{
		LearningRate: svm.LearningRate,
		Lambda:       svm.Lambda,
		Epochs:       svm.Epochs,
		Seed:         svm.Seed,
		Bias:         svm.bias,
	}
	if svm.weights != nil {
		_, data.Features = svm.weights.Dims()
		data.Weights = denseData(svm.weights)
	}
	return json.Marshal(data)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (svm *LinearSVM) UnmarshalJSON(data []byte) error {
	var tmp svmdata
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*svm = LinearSVM{
		LearningRate: tmp.LearningRate,
		Lambda:       tmp.Lambda,
		Epochs:       tmp.Epochs,
		Seed:         tmp.Seed,
	}
	if tmp.Features == 0 {
		return nil
	}
	if len(tmp.Bias) == 0 || len(tmp.Weights) != len(tmp.Bias)*tmp.Features {
		return fmt.Errorf("svm: inconsistent weights")
	}
	svm.weights = mat.NewDense(len(tmp.Bias), tmp.Features, tmp.Weights)
	svm.bias = tmp.Bias
	return nil
}

var _ Classifier = &LinearSVM{}
