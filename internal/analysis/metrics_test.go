package analysis

import (
	"math"
	"testing"
)

func TestCalculateMSE(t *testing.T) {
	actual := []float64{1, 2, 3}
	predicted := []float64{2, 2, 5}

	mse := calculateMSE(actual, predicted)
	if math.Abs(mse-5.0/3.0) > 1e-9 {
		t.Errorf("Expected MSE 5/3, got %f", mse)
	}
	if math.Abs(calculateRMSE(actual, predicted)-math.Sqrt(5.0/3.0)) > 1e-9 {
		t.Errorf("Expected RMSE sqrt(5/3), got %f", calculateRMSE(actual, predicted))
	}
}

func TestCalculateMAE(t *testing.T) {
	mae := calculateMAE([]float64{1, 2, 3}, []float64{2, 2, 5})
	if math.Abs(mae-1) > 1e-9 {
		t.Errorf("Expected MAE 1, got %f", mae)
	}
}

func TestCalculateRSquared_PerfectFit(t *testing.T) {
	actual := []float64{1, 2, 3, 4}
	r2 := calculateRSquared(actual, actual)
	if math.Abs(r2-1) > 1e-9 {
		t.Errorf("Expected R² 1 for perfect fit, got %f", r2)
	}
}

func TestCalculateRSquared_ConstantTarget(t *testing.T) {
	// Zero total sum of squares short-circuits to 0 instead of dividing by
	// zero.
	r2 := calculateRSquared([]float64{5, 5, 5}, []float64{4, 5, 6})
	if r2 != 0 {
		t.Errorf("Expected guarded R² 0, got %f", r2)
	}
}

func TestConfusionMetrics(t *testing.T) {
	actual := []int{1, 1, 0, 0, 1}
	predicted := []int{1, 0, 0, 1, 1}

	accuracy, precision, recall, f1 := confusionMetrics(actual, predicted)
	// tp=2, tn=1, fp=1, fn=1.
	if math.Abs(accuracy-0.6) > 1e-9 {
		t.Errorf("Expected accuracy 0.6, got %f", accuracy)
	}
	if math.Abs(precision-2.0/3.0) > 1e-9 {
		t.Errorf("Expected precision 2/3, got %f", precision)
	}
	if math.Abs(recall-2.0/3.0) > 1e-9 {
		t.Errorf("Expected recall 2/3, got %f", recall)
	}
	if math.Abs(f1-2.0/3.0) > 1e-9 {
		t.Errorf("Expected F1 2/3, got %f", f1)
	}
}

func TestCalculateAUC_PerfectRanking(t *testing.T) {
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	labels := []int{0, 0, 1, 1}

	auc := calculateAUC(scores, labels)
	if math.Abs(auc-1) > 1e-9 {
		t.Errorf("Expected AUC 1 for perfectly ranked scores, got %f", auc)
	}
}

func TestCalculateAUC_InvertedRanking(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.2, 0.1}
	labels := []int{0, 0, 1, 1}

	auc := calculateAUC(scores, labels)
	if math.Abs(auc) > 1e-9 {
		t.Errorf("Expected AUC 0 for inverted ranking, got %f", auc)
	}
}

func TestCalculateAUC_SingleClass(t *testing.T) {
	if auc := calculateAUC([]float64{0.5, 0.6}, []int{1, 1}); auc != 0 {
		t.Errorf("Expected guarded AUC 0 without both classes, got %f", auc)
	}
}
