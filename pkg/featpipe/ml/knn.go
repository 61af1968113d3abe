package ml

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sensora/featpipe/pkg/featpipe/internal/jsonfloat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KNearest classifies samples by the majority vote of their K nearest
// training samples (euclidean distance).  Ties are broken in favour
// of the smaller class index.
type KNearest struct {
	x       *mat.Dense
	y       []int
	classes int
	K       int
}

// Fit stores the training samples.
func (knn *KNearest) Fit(x *mat.Dense, y []int) error {
	_, _, nclasses, err := checkFit("knn", x, y)
	if err != nil {
		return err
	}
	if knn.K <= 0 {
		return fmt.Errorf("knn: bad number of neighbours: %d", knn.K)
	}
	knn.x = mat.DenseCopyOf(x)
	knn.y = append([]int(nil), y...)
	knn.classes = nclasses
	return nil
}

type neighbour struct {
	dist  float64
	class int
	pos   int
}

// Predict returns the majority class of the K nearest neighbours for
// each row of x.
func (knn *KNearest) Predict(x *mat.Dense) []int {
	if x == nil {
		return nil
	}
	r, _ := x.Dims()
	n, _ := knn.x.Dims()
	k := knn.K
	if k > n {
		k = n
	}
	ys := make([]int, r)
	ns := make([]neighbour, n)
	votes := make([]float64, knn.classes)
	for i := 0; i < r; i++ {
		row := x.RawRowView(i)
		for j := 0; j < n; j++ {
			ns[j] = neighbour{
				dist:  floats.Distance(row, knn.x.RawRowView(j), 2),
				class: knn.y[j],
				pos:   j,
			}
		}
		sort.Slice(ns, func(a, b int) bool {
			if ns[a].dist == ns[b].dist {
				return ns[a].pos < ns[b].pos
			}
			return ns[a].dist < ns[b].dist
		})
		for c := range votes {
			votes[c] = 0
		}
		for _, nb := range ns[:k] {
			votes[nb.class]++
		}
		ys[i] = argmax(votes)
	}
	return ys
}

type knndata struct {
	K        int
	Classes  int `json:",omitempty"`
	Features int `json:",omitempty"`
	X        jsonfloat.Slice `json:",omitempty"`
	Y        []int           `json:",omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (knn *KNearest) MarshalJSON() ([]byte, error) {
	data := knndata{K: knn.K, Classes: knn.classes, Y: knn.y}
	if knn.x != nil {
		_, data.Features = knn.x.Dims()
		data.X = denseData(knn.x)
	}
	return json.Marshal(data)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (knn *KNearest) UnmarshalJSON(data []byte) error {
	var tmp knndata
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*knn = KNearest{K: tmp.K}
	if tmp.Features == 0 {
		return nil
	}
	if len(tmp.Y) == 0 || len(tmp.X) != len(tmp.Y)*tmp.Features {
		return fmt.Errorf("knn: inconsistent training data")
	}
	knn.x = mat.NewDense(len(tmp.Y), tmp.Features, tmp.X)
	knn.y = tmp.Y
	knn.classes = tmp.Classes
	return nil
}

var _ Classifier = &KNearest{}
