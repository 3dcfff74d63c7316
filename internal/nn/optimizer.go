package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	// Step applies one update to every parameter. Gradients are not
	// cleared; callers zero them before the next backward pass.
	Step(params []*Param)
}

// SGD is plain gradient descent: w -= lr * grad.
type SGD struct {
	LR float64
}

// NewSGD returns a gradient descent optimizer with the given learning rate.
func NewSGD(lr float64) *SGD {
	return &SGD{LR: lr}
}

// Step applies one gradient descent update.
func (o *SGD) Step(params []*Param) {
	for _, p := range params {
		var scaled mat.Dense
		scaled.Scale(-o.LR, p.Grad)
		p.W.Add(p.W, &scaled)
	}
}

// Adam implements the Adam optimizer (Kingma & Ba 2015) with
// bias-corrected first and second moment estimates.
type Adam struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64

	t int
	m []*mat.Dense
	v []*mat.Dense
}

// NewAdam returns an Adam optimizer with standard moment decay rates.
func NewAdam(lr float64) *Adam {
	return &Adam{
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
	}
}

// Step applies one Adam update. Moment buffers are allocated lazily on the
// first call and matched to parameters by position, so the same parameter
// slice must be passed on every call.
func (o *Adam) Step(params []*Param) {
	if o.m == nil {
		o.m = make([]*mat.Dense, len(params))
		o.v = make([]*mat.Dense, len(params))
		for i, p := range params {
			rows, cols := p.W.Dims()
			o.m[i] = mat.NewDense(rows, cols, nil)
			o.v[i] = mat.NewDense(rows, cols, nil)
		}
	}
	if len(params) != len(o.m) {
		panic(fmt.Sprintf("nn: Adam.Step called with %d params, state has %d", len(params), len(o.m)))
	}

	o.t++
	c1 := 1 - math.Pow(o.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.Beta2, float64(o.t))

	for i, p := range params {
		rows, cols := p.W.Dims()
		for r := 0; r < rows; r++ {
			w := p.W.RawRowView(r)
			g := p.Grad.RawRowView(r)
			mr := o.m[i].RawRowView(r)
			vr := o.v[i].RawRowView(r)
			for c := 0; c < cols; c++ {
				mr[c] = o.Beta1*mr[c] + (1-o.Beta1)*g[c]
				vr[c] = o.Beta2*vr[c] + (1-o.Beta2)*g[c]*g[c]
				mHat := mr[c] / c1
				vHat := vr[c] / c2
				w[c] -= o.LR * mHat / (math.Sqrt(vHat) + o.Eps)
			}
		}
	}
}

// Optimizer names accepted by NewOptimizer.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// NewOptimizer constructs an optimizer by name.
func NewOptimizer(name string, lr float64) (Optimizer, error) {
	switch name {
	case OptimizerSGD:
		return NewSGD(lr), nil
	case OptimizerAdam:
		return NewAdam(lr), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
}
