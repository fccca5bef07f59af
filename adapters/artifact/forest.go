package artifact

import (
	"context"

	"heartrisk/ports"
)

// forest averages the normalized leaf distributions of its trees.
type forest struct {
	info  ports.ModelInfo
	trees []Tree
}

func newForest(info ports.ModelInfo, trees []Tree) *forest {
	return &forest{info: info, trees: trees}
}

func (f *forest) Info() ports.ModelInfo { return f.info }

func (f *forest) PredictProba(_ context.Context, features []float64) ([2]float64, error) {
	if err := checkWidth(features); err != nil {
		return [2]float64{}, err
	}
	var sum [2]float64
	for _, t := range f.trees {
		leaf := t.leaf(features)
		total := leaf.Value[0] + leaf.Value[1]
		sum[0] += leaf.Value[0] / total
		sum[1] += leaf.Value[1] / total
	}
	n := float64(len(f.trees))
	p1 := sum[1] / n
	return [2]float64{1 - p1, p1}, nil
}

// Predict is the argmax of PredictProba; a tie goes to class 0.
func (f *forest) Predict(ctx context.Context, features []float64) (int, error) {
	p, err := f.PredictProba(ctx, features)
	if err != nil {
		return 0, err
	}
	if p[1] > p[0] {
		return 1, nil
	}
	return 0, nil
}

func (t Tree) leaf(x []float64) Node {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == -1 {
			return n
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
