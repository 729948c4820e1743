/*
Package evaluate measures a trained unit against labeled samples.

Reported metrics:
1. Confusion matrix (spam is the positive class)
2. Accuracy, precision, recall and F1
3. Mean squared-error loss 0.5*(score - label)^2, the quantity training minimizes
*/
package evaluate

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/khanglvm/spam-perceptron/internal/perceptron"
	"github.com/khanglvm/spam-perceptron/internal/trainer"
)

// Confusion counts outcomes with spam as the positive class.
type Confusion struct {
	TruePositive  int `json:"truePositive"`
	FalsePositive int `json:"falsePositive"`
	TrueNegative  int `json:"trueNegative"`
	FalseNegative int `json:"falseNegative"`
}

// Result contains evaluation metrics.
type Result struct {
	Samples       int       `json:"samples"`
	Confusion     Confusion `json:"confusion"`
	Accuracy      float64   `json:"accuracy"`
	Precision     float64   `json:"precision"`
	Recall        float64   `json:"recall"`
	F1            float64   `json:"f1"`
	MeanLoss      float64   `json:"meanLoss"`
	Misclassified []string  `json:"misclassified,omitempty"`
}

// Evaluate scores every sample without modifying unit.
func Evaluate(unit *perceptron.LinearUnit, samples []trainer.Sample) (*Result, error) {
	result := &Result{Samples: len(samples)}
	losses := make([]float64, 0, len(samples))

	for _, s := range samples {
		score, err := unit.Score(s.Features)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", s.Source, err)
		}
		pred := perceptron.Activate(score)
		diff := score - float64(s.Label)
		losses = append(losses, 0.5*diff*diff)

		switch {
		case pred == 1 && s.Label == 1:
			result.Confusion.TruePositive++
		case pred == 1 && s.Label == 0:
			result.Confusion.FalsePositive++
		case pred == 0 && s.Label == 0:
			result.Confusion.TrueNegative++
		default:
			result.Confusion.FalseNegative++
		}
		if pred != s.Label {
			result.Misclassified = append(result.Misclassified, s.Source)
		}
	}

	if len(samples) == 0 {
		return result, nil
	}

	c := result.Confusion
	result.Accuracy = ratio(c.TruePositive+c.TrueNegative, len(samples))
	result.Precision = ratio(c.TruePositive, c.TruePositive+c.FalsePositive)
	result.Recall = ratio(c.TruePositive, c.TruePositive+c.FalseNegative)
	if result.Precision+result.Recall > 0 {
		result.F1 = 2 * result.Precision * result.Recall / (result.Precision + result.Recall)
	}
	result.MeanLoss = floats.Sum(losses) / float64(len(losses))

	return result, nil
}

// ratio returns 0 when the denominator is 0.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// FormatResult formats the evaluation result for display.
func FormatResult(result *Result) string {
	var sb strings.Builder
	c := result.Confusion

	sb.WriteString("╔══════════════════════════════════════════════════════════════╗\n")
	sb.WriteString("║                  SPAM FILTER EVALUATION                      ║\n")
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	sb.WriteString(row(fmt.Sprintf("Samples:   %d", result.Samples)))
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	sb.WriteString(row("CONFUSION MATRIX          predicted SPAM   predicted HAM"))
	sb.WriteString(row(fmt.Sprintf("  actual SPAM             %-16d %d", c.TruePositive, c.FalseNegative)))
	sb.WriteString(row(fmt.Sprintf("  actual HAM              %-16d %d", c.FalsePositive, c.TrueNegative)))
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	sb.WriteString(row(fmt.Sprintf("Accuracy:  %.1f%%", result.Accuracy*100)))
	sb.WriteString(row(fmt.Sprintf("Precision: %.1f%%", result.Precision*100)))
	sb.WriteString(row(fmt.Sprintf("Recall:    %.1f%%", result.Recall*100)))
	sb.WriteString(row(fmt.Sprintf("F1:        %.3f", result.F1)))
	sb.WriteString(row(fmt.Sprintf("Mean loss: %.6f", result.MeanLoss)))
	sb.WriteString("╚══════════════════════════════════════════════════════════════╝\n")

	if len(result.Misclassified) > 0 {
		sb.WriteString("\nMisclassified:\n")
		for _, src := range result.Misclassified {
			sb.WriteString("  " + src + "\n")
		}
	}

	return sb.String()
}

// row pads text into a 62-column box line.
func row(text string) string {
	return fmt.Sprintf("║  %-60s║\n", text)
}
