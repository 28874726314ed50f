package churn

import (
	"math"
	"math/rand"
	"sort"

	"verve/internal/models"
)

// Importance-model training parameters. The model exists to rank
// features, not to serve predictions, so fixed hyperparameters are fine.
const (
	trainEpochs    = 500
	learningRate   = 0.1
	testFraction   = 0.2
	trainSplitSeed = 42
)

// TrainImportanceModel fits a standardized logistic regression on an
// 80/20 split and reports normalized absolute weights as feature
// importances together with holdout metrics. Only the output contract
// matters to the recommender; the classifier choice is an internal
// detail.
func TrainImportanceModel(features []models.UserFeatures, labels []models.ChurnLabel) models.ModelReport {
	matrix, churned := join(features, labels)
	report := models.ModelReport{FeatureImportance: map[string]float64{}}
	if len(matrix) < 10 {
		return report
	}

	// Shuffled split with a fixed seed keeps runs reproducible.
	idx := rand.New(rand.NewSource(trainSplitSeed)).Perm(len(matrix))
	nTest := int(float64(len(matrix)) * testFraction)
	testIdx, trainIdx := idx[:nTest], idx[nTest:]

	means, stddevs := columnStats(matrix, trainIdx)
	weights, bias := fitLogistic(matrix, churned, trainIdx, means, stddevs)

	// Importance: normalized |weight|.
	var total float64
	for _, w := range weights {
		total += math.Abs(w)
	}
	for i, name := range models.FeatureNames {
		if total > 0 {
			report.FeatureImportance[name] = math.Abs(weights[i]) / total
		} else {
			report.FeatureImportance[name] = 0
		}
	}

	// Holdout evaluation.
	probs := make([]float64, len(testIdx))
	truth := make([]float64, len(testIdx))
	for i, row := range testIdx {
		probs[i] = predict(matrix[row], weights, bias, means, stddevs)
		truth[i] = churned[row]
	}
	report.ROCAUC = rocAUC(probs, truth)
	report.Accuracy, report.Precision, report.Recall, report.F1 = classificationMetrics(probs, truth)
	report.TrainSize = len(trainIdx)
	report.TestSize = len(testIdx)
	return report
}

func columnStats(matrix [][]float64, rows []int) (means, stddevs []float64) {
	n := len(models.FeatureNames)
	means = make([]float64, n)
	stddevs = make([]float64, n)
	for _, row := range rows {
		for i, v := range matrix[row] {
			means[i] += v
		}
	}
	for i := range means {
		means[i] /= float64(len(rows))
	}
	for _, row := range rows {
		for i, v := range matrix[row] {
			d := v - means[i]
			stddevs[i] += d * d
		}
	}
	for i := range stddevs {
		stddevs[i] = math.Sqrt(stddevs[i] / float64(len(rows)))
		if stddevs[i] == 0 {
			stddevs[i] = 1 // constant column, standardizes to zero
		}
	}
	return means, stddevs
}

func fitLogistic(matrix [][]float64, churned []float64, rows []int, means, stddevs []float64) ([]float64, float64) {
	nFeatures := len(models.FeatureNames)
	weights := make([]float64, nFeatures)
	bias := 0.0

	x := make([]float64, nFeatures)
	for epoch := 0; epoch < trainEpochs; epoch++ {
		gradW := make([]float64, nFeatures)
		gradB := 0.0
		for _, row := range rows {
			for i, v := range matrix[row] {
				x[i] = (v - means[i]) / stddevs[i]
			}
			z := bias
			for i, w := range weights {
				z += w * x[i]
			}
			err := sigmoid(z) - churned[row]
			for i := range gradW {
				gradW[i] += err * x[i]
			}
			gradB += err
		}
		scale := learningRate / float64(len(rows))
		for i := range weights {
			weights[i] -= scale * gradW[i]
		}
		bias -= scale * gradB
	}
	return weights, bias
}

func predict(row, weights []float64, bias float64, means, stddevs []float64) float64 {
	z := bias
	for i, w := range weights {
		z += w * (row[i] - means[i]) / stddevs[i]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// rocAUC computes the area under the ROC curve as the rank statistic
// P(score(pos) > score(neg)), ties counted half.
func rocAUC(probs, truth []float64) float64 {
	type pair struct{ p, y float64 }
	pairs := make([]pair, len(probs))
	for i := range probs {
		pairs[i] = pair{probs[i], truth[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].p < pairs[j].p })

	var nPos, nNeg float64
	for _, pr := range pairs {
		if pr.y == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5
	}

	// Sum ranks of positives, averaging ranks within tie groups.
	rankSum := 0.0
	i := 0
	for i < len(pairs) {
		j := i
		for j < len(pairs) && pairs[j].p == pairs[i].p {
			j++
		}
		avgRank := float64(i+j+1) / 2 // 1-based average rank of the tie group
		for k := i; k < j; k++ {
			if pairs[k].y == 1 {
				rankSum += avgRank
			}
		}
		i = j
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg)
}

func classificationMetrics(probs, truth []float64) (accuracy, precision, recall, f1 float64) {
	var tp, fp, tn, fn float64
	for i, p := range probs {
		predicted := p >= 0.5
		actual := truth[i] == 1
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && !actual:
			tn++
		default:
			fn++
		}
	}
	total := tp + fp + tn + fn
	if total > 0 {
		accuracy = (tp + tn) / total
	}
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
