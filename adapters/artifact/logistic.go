package artifact

import (
	"context"
	"math"

	"heartrisk/ports"
)

type logistic struct {
	info      ports.ModelInfo
	coef      []float64
	intercept float64
}

func newLogistic(info ports.ModelInfo, coef []float64, intercept float64) *logistic {
	return &logistic{info: info, coef: coef, intercept: intercept}
}

func (l *logistic) Info() ports.ModelInfo { return l.info }

func (l *logistic) decision(x []float64) float64 {
	z := l.intercept
	for i, w := range l.coef {
		z += w * x[i]
	}
	return z
}

func (l *logistic) PredictProba(_ context.Context, features []float64) ([2]float64, error) {
	if err := checkWidth(features); err != nil {
		return [2]float64{}, err
	}
	p1 := 1 / (1 + math.Exp(-l.decision(features)))
	return [2]float64{1 - p1, p1}, nil
}

func (l *logistic) Predict(_ context.Context, features []float64) (int, error) {
	if err := checkWidth(features); err != nil {
		return 0, err
	}
	if l.decision(features) > 0 {
		return 1, nil
	}
	return 0, nil
}
