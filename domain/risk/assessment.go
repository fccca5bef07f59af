// Package risk turns a classifier's label and class probabilities into the
// assessment shown to the user.
package risk

import (
	"fmt"
	"math"
	"time"

	"heartrisk/domain/core"
	"heartrisk/domain/patient"
)

// Label is the displayed risk level.
type Label string

const (
	LabelHigh Label = "high"
	LabelLow  Label = "low"
)

// ProbabilityTolerance bounds |p0+p1-1| for a probability vector to be accepted.
const ProbabilityTolerance = 1e-6

// Assessment is the rendered outcome of scoring one record.
type Assessment struct {
	ID            core.AssessmentID `json:"id"`
	Label         Label             `json:"label"`
	Class         int               `json:"class"`
	Probabilities [2]float64        `json:"probabilities"`
	RiskPercent   float64           `json:"risk_percent"`
	NoRiskPercent float64           `json:"no_risk_percent"`
	Message       string            `json:"message"`
	Celebrate     bool              `json:"celebrate"`
	Record        patient.Record    `json:"record"`
	ScoredAt      time.Time         `json:"scored_at"`
}

// High reports whether the classifier predicted the positive class.
func (a *Assessment) High() bool {
	return a.Label == LabelHigh
}

// New builds an assessment from the classifier outputs. The label comes from
// class as-is; proba only feeds the percentages.
func New(rec patient.Record, class int, proba [2]float64) (*Assessment, error) {
	if class != 0 && class != 1 {
		return nil, fmt.Errorf("classifier returned label %d, want 0 or 1", class)
	}
	if err := CheckProbabilities(proba); err != nil {
		return nil, err
	}

	a := &Assessment{
		ID:            core.NewAssessmentID(),
		Class:         class,
		Probabilities: proba,
		RiskPercent:   Percent(proba[1]),
		NoRiskPercent: Percent(proba[0]),
		Record:        rec,
		ScoredAt:      time.Now().UTC(),
	}
	if class == 1 {
		a.Label = LabelHigh
		a.Message = "High risk of heart disease"
		a.Celebrate = true
	} else {
		a.Label = LabelLow
		a.Message = "Low risk of heart disease"
	}
	return a, nil
}

// Percent converts a probability to a percentage rounded to two decimals.
func Percent(p float64) float64 {
	return math.Round(p*100*100) / 100
}

// CheckProbabilities rejects vectors with negative entries or a sum away from 1.
func CheckProbabilities(proba [2]float64) error {
	if proba[0] < 0 || proba[1] < 0 || math.IsNaN(proba[0]) || math.IsNaN(proba[1]) {
		return fmt.Errorf("%w: %v", core.ErrBadProbabilities, proba)
	}
	if math.Abs(proba[0]+proba[1]-1) > ProbabilityTolerance {
		return fmt.Errorf("%w: %v", core.ErrBadProbabilities, proba)
	}
	return nil
}
