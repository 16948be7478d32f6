package analysis

import (
	"math"
	"sort"
)

// epsilon guards divisions and logarithms against exact zeros. Numerical
// degeneracy returns a guarded value instead of an error.
const epsilon = 1e-10

// calculateMSE calculates Mean Squared Error over raw residuals.
func calculateMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return sum / float64(len(actual))
}

// calculateRMSE calculates Root Mean Squared Error.
func calculateRMSE(actual, predicted []float64) float64 {
	return math.Sqrt(calculateMSE(actual, predicted))
}

// calculateMAE calculates Mean Absolute Error.
func calculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// calculateRSquared computes the coefficient of determination
// 1 - SSres/SStot. A zero total sum of squares short-circuits to 0.
func calculateRSquared(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	ssRes := 0.0
	ssTot := 0.0
	for i := range actual {
		res := actual[i] - predicted[i]
		tot := actual[i] - mean
		ssRes += res * res
		ssTot += tot * tot
	}

	if ssTot < epsilon {
		return 0
	}
	return 1 - ssRes/ssTot
}

// confusionMetrics computes accuracy/precision/recall/F1 from binary actual
// and predicted labels. Zero denominators yield 0, not NaN.
func confusionMetrics(actual, predicted []int) (accuracy, precision, recall, f1 float64) {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0, 0, 0, 0
	}

	var tp, tn, fp, fn float64
	for i := range actual {
		switch {
		case actual[i] == 1 && predicted[i] == 1:
			tp++
		case actual[i] == 0 && predicted[i] == 0:
			tn++
		case actual[i] == 0 && predicted[i] == 1:
			fp++
		default:
			fn++
		}
	}

	accuracy = (tp + tn) / float64(len(actual))
	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return accuracy, precision, recall, f1
}

// calculateAUC approximates the area under the ROC curve by sorting points
// by descending score and accumulating trapezoids over the TPR/FPR sweep.
func calculateAUC(scores []float64, labels []int) float64 {
	if len(scores) != len(labels) || len(scores) == 0 {
		return 0
	}

	var positives, negatives float64
	for _, l := range labels {
		if l == 1 {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return 0
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	auc := 0.0
	tpr, fpr := 0.0, 0.0
	prevTPR, prevFPR := 0.0, 0.0
	for _, idx := range order {
		if labels[idx] == 1 {
			tpr += 1 / positives
		} else {
			fpr += 1 / negatives
		}
		auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
		prevTPR, prevFPR = tpr, fpr
	}
	return auc
}
