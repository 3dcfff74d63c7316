// Package metrics evaluates link prediction scores against 0/1 labels.
package metrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Errors returned by metric computations.
var (
	ErrLengthMismatch = errors.New("scores and labels must have the same length")
	ErrEmpty          = errors.New("no samples")
	ErrOneClass       = errors.New("need both positive and negative samples")
)

// Confusion holds binary classification counts at the zero-logit threshold
// (equivalently, probability 0.5 after the sigmoid).
type Confusion struct {
	TruePos  int `json:"true_pos"`
	TrueNeg  int `json:"true_neg"`
	FalsePos int `json:"false_pos"`
	FalseNeg int `json:"false_neg"`
}

// NewConfusion classifies each score logit against its label. A sample is
// predicted positive when its logit is non-negative.
func NewConfusion(scores, labels []float64) (Confusion, error) {
	if len(scores) != len(labels) {
		return Confusion{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(scores), len(labels))
	}
	if len(scores) == 0 {
		return Confusion{}, ErrEmpty
	}

	var c Confusion
	for i, s := range scores {
		predicted := s >= 0
		actual := labels[i] >= 0.5
		switch {
		case predicted && actual:
			c.TruePos++
		case predicted && !actual:
			c.FalsePos++
		case !predicted && actual:
			c.FalseNeg++
		default:
			c.TrueNeg++
		}
	}
	return c, nil
}

// Accuracy returns the fraction of correct predictions, in [0, 1].
func (c Confusion) Accuracy() float64 {
	total := c.TruePos + c.TrueNeg + c.FalsePos + c.FalseNeg
	if total == 0 {
		return 0
	}
	return float64(c.TruePos+c.TrueNeg) / float64(total)
}

// AUC computes the area under the ROC curve for score logits against 0/1
// labels. Returns ErrOneClass when all labels agree, since the curve is
// undefined without both classes.
func AUC(scores, labels []float64) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(scores), len(labels))
	}
	if len(scores) == 0 {
		return 0, ErrEmpty
	}

	y := make([]float64, len(scores))
	classes := make([]bool, len(labels))
	var pos int
	for i := range scores {
		y[i] = scores[i]
		classes[i] = labels[i] >= 0.5
		if classes[i] {
			pos++
		}
	}
	if pos == 0 || pos == len(labels) {
		return 0, ErrOneClass
	}

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
