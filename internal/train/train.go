// Package train runs the fixed-epoch gradient descent loop for the link
// prediction model and evaluates it on held-out edges.
package train

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/karatelink/internal/graph"
	"github.com/matsen/karatelink/internal/metrics"
	"github.com/matsen/karatelink/internal/nn"
	"github.com/matsen/karatelink/internal/split"
)

// Validation errors.
var (
	ErrNoEpochs     = errors.New("epochs must be positive")
	ErrBadLR        = errors.New("learning rate must be positive")
	ErrNoTrainEdges = errors.New("split has no training edges")
)

// Options controls a training run.
type Options struct {
	Epochs    int     `json:"epochs"`
	LR        float64 `json:"lr"`
	Optimizer string  `json:"optimizer"`
	Seed      int64   `json:"seed"`
}

// DefaultOptions returns the hyperparameters of the karate club
// demonstration: 100 epochs of Adam at learning rate 0.01.
func DefaultOptions() Options {
	return Options{
		Epochs:    100,
		LR:        0.01,
		Optimizer: nn.OptimizerAdam,
		Seed:      1,
	}
}

// Progress reports the state of an in-flight run.
type Progress struct {
	Epoch  int     `json:"epoch"`
	Epochs int     `json:"epochs"`
	Loss   float64 `json:"loss"`
}

// Result summarizes a finished run.
type Result struct {
	LossHistory []float64     `json:"loss_history"`
	FinalLoss   float64       `json:"final_loss"`
	Duration    time.Duration `json:"duration"`
	Evaluation  Evaluation    `json:"evaluation"`
}

// Evaluation holds held-out metrics.
type Evaluation struct {
	Accuracy  float64           `json:"accuracy"`
	AUC       float64           `json:"auc"`
	Confusion metrics.Confusion `json:"confusion"`
}

// Run trains a fresh model on the split's training edges and evaluates it
// on the test edges. onProgress, when non-nil, receives rate-limited
// per-epoch updates; the final epoch is always delivered.
func Run(g *graph.Graph, s *split.Split, cfg nn.Config, opts Options, onProgress func(Progress)) (*nn.Model, *Result, error) {
	if opts.Epochs <= 0 {
		return nil, nil, ErrNoEpochs
	}
	if opts.LR <= 0 {
		return nil, nil, ErrBadLR
	}

	edges, labels := s.TrainSet()
	if len(edges) == 0 {
		return nil, nil, ErrNoTrainEdges
	}

	opt, err := nn.NewOptimizer(opts.Optimizer, opts.LR)
	if err != nil {
		return nil, nil, fmt.Errorf("building optimizer: %w", err)
	}

	m := nn.NewModel(g, cfg, opts.Seed)
	params := m.Params()

	// Throttle progress so long runs don't flood the caller.
	report := rate.Sometimes{First: 3, Interval: 500 * time.Millisecond}

	start := time.Now()
	history := make([]float64, 0, opts.Epochs)
	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		m.ZeroGrad()
		h := m.Forward()
		scores := nn.Scores(h, edges)
		loss, dScores := nn.BCEWithLogits(scores, labels)
		m.Backward(edges, dScores)
		opt.Step(params)

		history = append(history, loss)
		if onProgress != nil {
			p := Progress{Epoch: epoch, Epochs: opts.Epochs, Loss: loss}
			if epoch == opts.Epochs {
				onProgress(p)
			} else {
				report.Do(func() { onProgress(p) })
			}
		}
	}

	eval, err := Evaluate(m, s)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluating: %w", err)
	}

	res := &Result{
		LossHistory: history,
		FinalLoss:   history[len(history)-1],
		Duration:    time.Since(start),
		Evaluation:  *eval,
	}
	return m, res, nil
}

// Evaluate scores the split's test edges with the model and computes
// accuracy and ROC AUC.
func Evaluate(m *nn.Model, s *split.Split) (*Evaluation, error) {
	edges, labels := s.TestSet()

	h := m.Forward()
	scores := nn.Scores(h, edges)

	confusion, err := metrics.NewConfusion(scores, labels)
	if err != nil {
		return nil, fmt.Errorf("computing confusion counts: %w", err)
	}

	auc, err := metrics.AUC(scores, labels)
	if err != nil {
		return nil, fmt.Errorf("computing AUC: %w", err)
	}

	return &Evaluation{
		Accuracy:  confusion.Accuracy(),
		AUC:       auc,
		Confusion: confusion,
	}, nil
}
