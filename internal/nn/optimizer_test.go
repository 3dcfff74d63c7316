package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func quadParam() *Param {
	// Minimize f(w) = w^2 from w = 3; grad = 2w.
	p := newParam("w", 1, 1)
	p.W.Set(0, 0, 3)
	return p
}

func TestSGD_Step(t *testing.T) {
	p := quadParam()
	opt := NewSGD(0.1)

	p.Grad.Set(0, 0, 2*p.W.At(0, 0))
	opt.Step([]*Param{p})

	// w = 3 - 0.1*6 = 2.4
	if got := p.W.At(0, 0); math.Abs(got-2.4) > 1e-12 {
		t.Errorf("after step w = %v, want 2.4", got)
	}
}

func TestSGD_Converges(t *testing.T) {
	p := quadParam()
	opt := NewSGD(0.1)

	for i := 0; i < 100; i++ {
		p.Grad.Set(0, 0, 2*p.W.At(0, 0))
		opt.Step([]*Param{p})
	}
	if got := math.Abs(p.W.At(0, 0)); got > 1e-6 {
		t.Errorf("w = %v after 100 steps, want ~0", got)
	}
}

func TestAdam_FirstStepMagnitude(t *testing.T) {
	p := quadParam()
	opt := NewAdam(0.01)

	p.Grad.Set(0, 0, 2*p.W.At(0, 0))
	opt.Step([]*Param{p})

	// With bias correction, the first Adam step has magnitude ~lr.
	got := 3 - p.W.At(0, 0)
	if math.Abs(got-0.01) > 1e-6 {
		t.Errorf("first step size = %v, want ~0.01", got)
	}
}

func TestAdam_Converges(t *testing.T) {
	p := quadParam()
	opt := NewAdam(0.1)

	for i := 0; i < 500; i++ {
		p.Grad.Set(0, 0, 2*p.W.At(0, 0))
		opt.Step([]*Param{p})
	}
	// Adam oscillates near the minimum at the scale of the learning rate,
	// so only require that it got well away from the start.
	if got := math.Abs(p.W.At(0, 0)); got > 0.5 {
		t.Errorf("w = %v after 500 steps, want near 0", got)
	}
}

func TestAdam_StateFollowsParams(t *testing.T) {
	a := quadParam()
	b := newParam("b", 2, 3)
	b.W.Copy(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))

	opt := NewAdam(0.01)
	a.Grad.Set(0, 0, 1)
	opt.Step([]*Param{a, b})
	a.Grad.Set(0, 0, 1)
	opt.Step([]*Param{a, b})

	// b had zero gradient throughout; its weights must be untouched.
	want := []float64{1, 2, 3, 4, 5, 6}
	raw := b.W.RawMatrix().Data
	for i := range want {
		if math.Abs(raw[i]-want[i]) > 1e-12 {
			t.Errorf("b weight %d = %v, want %v", i, raw[i], want[i])
		}
	}
}

func TestNewOptimizer(t *testing.T) {
	tests := []struct {
		name    string
		optName string
		wantErr bool
	}{
		{name: "sgd", optName: OptimizerSGD, wantErr: false},
		{name: "adam", optName: OptimizerAdam, wantErr: false},
		{name: "unknown", optName: "rmsprop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := NewOptimizer(tt.optName, 0.01)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewOptimizer(%q) error = %v, wantErr %v", tt.optName, err, tt.wantErr)
			}
			if !tt.wantErr && opt == nil {
				t.Errorf("NewOptimizer(%q) returned nil optimizer", tt.optName)
			}
		})
	}
}
