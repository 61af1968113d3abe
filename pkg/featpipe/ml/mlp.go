package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sensora/featpipe/pkg/featpipe/internal/jsonfloat"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Network is a multi layer perceptron with one hidden layer of sigmoid
// units and one sigmoid output unit per class.  It is trained with
// online back propagation.
type Network struct {
	wh, wo       *mat.Dense // hidden x inputs, classes x hidden
	bh, bo       *mat.VecDense
	Hidden       int
	LearningRate float64
	Epochs       int
	Seed         uint64
}

// Fit trains the network on the given data.
func (nn *Network) Fit(x *mat.Dense, y []int) error {
	r, c, nclasses, err := checkFit("mlp", x, y)
	if err != nil {
		return err
	}
	if nn.Hidden <= 0 {
		return fmt.Errorf("mlp: bad number of hidden units: %d", nn.Hidden)
	}
	rnd := rand.New(rand.NewPCG(nn.Seed, nn.Seed))
	nn.wh = mat.NewDense(nn.Hidden, c, nil)
	randomInit(rnd, nn.wh, float64(c))
	nn.wo = mat.NewDense(nclasses, nn.Hidden, nil)
	randomInit(rnd, nn.wo, float64(nn.Hidden))
	nn.bh = mat.NewVecDense(nn.Hidden, nil)
	nn.bo = mat.NewVecDense(nclasses, nil)

	targets := make([]*mat.VecDense, nclasses)
	for k := range targets {
		targets[k] = mat.NewVecDense(nclasses, nil)
		for j := 0; j < nclasses; j++ {
			targets[k].SetVec(j, .01)
		}
		targets[k].SetVec(k, .99)
	}
	var s state
	order := make([]int, r)
	for i := range order {
		order[i] = i
	}
	for e := 0; e < nn.Epochs; e++ {
		rnd.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, i := range order {
			nn.train(&s, x.RowView(i), targets[y[i]])
		}
	}
	return nil
}

// state holds the intermediate vectors of one forward and backward
// pass.
type state struct {
	hidden, out      mat.VecDense
	outErr, hidErr   mat.VecDense
	outGrad, hidGrad mat.VecDense
}

func (nn *Network) forward(s *state, in mat.Vector) {
	s.hidden.MulVec(nn.wh, in)
	s.hidden.AddVec(&s.hidden, nn.bh)
	sigmoid(&s.hidden)
	s.out.MulVec(nn.wo, &s.hidden)
	s.out.AddVec(&s.out, nn.bo)
	sigmoid(&s.out)
}

func (nn *Network) train(s *state, in, target mat.Vector) {
	nn.forward(s, in)

	// Calculate errors.
	s.outErr.SubVec(target, &s.out)
	s.hidErr.MulVec(nn.wo.T(), &s.outErr)

	// Backward propagation.
	sigmoidp(&s.outGrad, &s.out)
	s.outGrad.MulElemVec(&s.outGrad, &s.outErr)
	sigmoidp(&s.hidGrad, &s.hidden)
	s.hidGrad.MulElemVec(&s.hidGrad, &s.hidErr)

	nn.wo.RankOne(nn.wo, nn.LearningRate, &s.outGrad, &s.hidden)
	nn.bo.AddScaledVec(nn.bo, nn.LearningRate, &s.outGrad)
	nn.wh.RankOne(nn.wh, nn.LearningRate, &s.hidGrad, in)
	nn.bh.AddScaledVec(nn.bh, nn.LearningRate, &s.hidGrad)
}

// Predict returns the class with the highest output activation for
// each row of x.
func (nn *Network) Predict(x *mat.Dense) []int {
	if x == nil {
		return nil
	}
	r, _ := x.Dims()
	ys := make([]int, r)
	var s state
	for i := 0; i < r; i++ {
		nn.forward(&s, x.RowView(i))
		ys[i] = argmax(s.out.RawVector().Data)
	}
	return ys
}

func sigmoid(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, 1.0/(1.0+math.Exp(-v.AtVec(i))))
	}
}

// sigmoidp sets dst to the derivative of the sigmoid function given
// its activations act.
func sigmoidp(dst, act *mat.VecDense) {
	dst.CloneFromVec(act)
	for i := 0; i < dst.Len(); i++ {
		a := dst.AtVec(i)
		dst.SetVec(i, a*(1-a))
	}
}

func randomInit(src rand.Source, m *mat.Dense, v float64) {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(v),
		Max: 1 / math.Sqrt(v),
		Src: src,
	}
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, dist.Rand())
		}
	}
}

type nndata struct {
	Hidden       int
	LearningRate float64
	Epochs       int
	Seed         uint64
	Inputs       int             `json:",omitempty"`
	Outputs      int             `json:",omitempty"`
	WH, WO       jsonfloat.Slice `json:",omitempty"`
	BH, BO       jsonfloat.Slice `json:",omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (nn *Network) MarshalJSON() ([]byte, error) {
	data := nndata{
		Hidden:       nn.Hidden,
		LearningRate: nn.LearningRate,
		Epochs:       nn.Epochs,
		Seed:         nn.Seed,
	}
	if nn.wh != nil {
		data.Inputs = nn.wh.RawMatrix().Cols
		data.Outputs = nn.wo.RawMatrix().Rows
		data.WH = denseData(nn.wh)
		data.WO = denseData(nn.wo)
		data.BH = nn.bh.RawVector().Data
		data.BO = nn.bo.RawVector().Data
	}
	return json.Marshal(data)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (nn *Network) UnmarshalJSON(data []byte) error {
	var tmp nndata
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*nn = Network{
		Hidden:       tmp.Hidden,
		LearningRate: tmp.LearningRate,
		Epochs:       tmp.Epochs,
		Seed:         tmp.Seed,
	}
	if tmp.Inputs == 0 {
		return nil
	}
	if len(tmp.WH) != tmp.Hidden*tmp.Inputs || len(tmp.WO) != tmp.Outputs*tmp.Hidden ||
		len(tmp.BH) != tmp.Hidden || len(tmp.BO) != tmp.Outputs {
		return fmt.Errorf("mlp: inconsistent weights")
	}
	nn.wh = mat.NewDense(tmp.Hidden, tmp.Inputs, tmp.WH)
	nn.wo = mat.NewDense(tmp.Outputs, tmp.Hidden, tmp.WO)
	nn.bh = mat.NewVecDense(tmp.Hidden, tmp.BH)
	nn.bo = mat.NewVecDense(tmp.Outputs, tmp.BO)
	return nil
}

// denseData returns a copy of the matrix values in row major order.
func denseData(m *mat.Dense) []float64 {
	r, c := m.Dims()
	ret := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		ret = append(ret, m.RawRowView(i)...)
	}
	return ret
}

var _ Classifier = &Network{}
