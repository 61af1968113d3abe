package ml

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Classifier kinds.
const (
	MLP        = "mlp"
	SVM        = "svm"
	KNN        = "knn"
	NaiveBayes = "naive_bayes"
)

// Kinds lists all classifier kinds in evaluation order.
var Kinds = []string{MLP, SVM, KNN, NaiveBayes}

// Predictor predicts class indices for the rows of x.
type Predictor interface {
	Predict(x *mat.Dense) []int
}

// Fitter fits a model to the rows of x and the class indices y.
type Fitter interface {
	Fit(x *mat.Dense, y []int) error
}

// Classifier combines the Fitter and the Predictor interfaces.
type Classifier interface {
	Fitter
	Predictor
}

// Params holds the hyper parameters of the different classifiers.
// Each classifier uses only the parameters that apply to it.
type Params struct {
	Hidden       int     // number of hidden units (mlp)
	Epochs       int     // number of training epochs (mlp, svm)
	LearningRate float64 // learning rate (mlp, svm)
	Lambda       float64 // regularization (svm)
	K            int     // number of neighbours (knn)
	Seed         uint64  // random seed (mlp, svm)
}

// DefaultParams returns the default hyper parameters.
func DefaultParams() Params {
	return Params{
		Hidden:       100,
		Epochs:       200,
		LearningRate: 0.1,
		Lambda:       1e-3,
		K:            5,
		Seed:         6969,
	}
}

// New creates a new, unfitted classifier of the given kind.
func New(kind string, p Params) (Classifier, error) {
	switch kind {
	case MLP:
		return &Network{Hidden: p.Hidden, LearningRate: p.LearningRate, Epochs: p.Epochs, Seed: p.Seed}, nil
	case SVM:
		return &LinearSVM{LearningRate: p.LearningRate, Lambda: p.Lambda, Epochs: p.Epochs, Seed: p.Seed}, nil
	case KNN:
		return &KNearest{K: p.K}, nil
	case NaiveBayes:
		return &GaussianNB{}, nil
	default:
		return nil, fmt.Errorf("new %s: no such classifier", kind)
	}
}

func checkFit(name string, x *mat.Dense, y []int) (r, c, nclasses int, err error) {
	if x == nil {
		return 0, 0, 0, fmt.Errorf("%s: no samples", name)
	}
	r, c = x.Dims()
	if r != len(y) {
		return 0, 0, 0, fmt.Errorf("%s: %d samples and %d labels", name, r, len(y))
	}
	for _, class := range y {
		if class < 0 {
			return 0, 0, 0, fmt.Errorf("%s: bad class %d", name, class)
		}
		if class+1 > nclasses {
			nclasses = class + 1
		}
	}
	return r, c, nclasses, nil
}

func argmax(xs []float64) int {
	best := 0
	for i := range xs {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
