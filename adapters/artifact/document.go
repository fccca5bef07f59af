// Package artifact loads exported classifier artifacts from local JSON files.
//
// The estimator is trained and serialized elsewhere and exported to the
// heartrisk-model/v1 document described below. Two estimator kinds are
// understood: a random forest in flattened node-array form and a logistic
// regression.
package artifact

import (
	"encoding/json"
	"fmt"
	"slices"

	"heartrisk/domain/core"
	"heartrisk/domain/patient"
	"heartrisk/ports"
)

// Format is the only document format this package reads.
const Format = "heartrisk-model/v1"

const (
	KindRandomForest       = "random_forest"
	KindLogisticRegression = "logistic_regression"
)

// Document is the on-disk artifact.
type Document struct {
	Format   string             `json:"format"`
	Name     string             `json:"name"`
	Kind     string             `json:"kind"`
	Features []string           `json:"features"`
	Encoding string             `json:"encoding"`
	Classes  []int              `json:"classes,omitempty"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`

	Trees []Tree `json:"trees,omitempty"`

	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
}

// Tree is one decision tree. Node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split (Feature >= 0) or a leaf (Feature == -1). Samples go left
// when x[Feature] <= Threshold. Value holds per-class weights at the node.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// Decode parses and validates an artifact document and returns the classifier
// it describes.
func Decode(data []byte, source string) (ports.Classifier, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", source, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", source, err)
	}

	info := ports.ModelInfo{
		Name:        doc.Name,
		Kind:        doc.Kind,
		Features:    doc.Features,
		Encoding:    doc.Encoding,
		Metrics:     doc.Metrics,
		Source:      source,
		Fingerprint: core.NewArtifactHash(data).String(),
	}

	switch doc.Kind {
	case KindRandomForest:
		return newForest(info, doc.Trees), nil
	case KindLogisticRegression:
		return newLogistic(info, doc.Coefficients, doc.Intercept), nil
	}
	return nil, fmt.Errorf("artifact %s: unsupported kind %q", source, doc.Kind)
}

// Validate checks the document header, schema and estimator structure.
func (d *Document) Validate() error {
	if d.Format != Format {
		return fmt.Errorf("unsupported format %q, want %q", d.Format, Format)
	}
	if !slices.Equal(d.Features, patient.Columns) {
		return fmt.Errorf("%w: artifact features %q, want %q", core.ErrSchemaMismatch, d.Features, patient.Columns)
	}
	if d.Encoding == "" {
		d.Encoding = patient.Encoding
	}
	if d.Encoding != patient.Encoding {
		return fmt.Errorf("%w: artifact uses %q, record uses %q", core.ErrEncodingMismatch, d.Encoding, patient.Encoding)
	}
	if len(d.Classes) > 0 && !slices.Equal(d.Classes, []int{0, 1}) {
		return fmt.Errorf("classes %v, want [0 1]", d.Classes)
	}

	switch d.Kind {
	case KindRandomForest:
		if len(d.Trees) == 0 {
			return fmt.Errorf("random forest has no trees")
		}
		for i, t := range d.Trees {
			if err := t.validate(len(d.Features)); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
	case KindLogisticRegression:
		if len(d.Coefficients) != len(d.Features) {
			return fmt.Errorf("logistic regression has %d coefficients, want %d", len(d.Coefficients), len(d.Features))
		}
	default:
		return fmt.Errorf("unsupported kind %q", d.Kind)
	}
	return nil
}

// validate requires children to come after their parent so every walk ends.
func (t Tree) validate(nFeatures int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Feature == -1 {
			if len(n.Value) != 2 {
				return fmt.Errorf("leaf %d has %d class weights, want 2", i, len(n.Value))
			}
			if n.Value[0] < 0 || n.Value[1] < 0 || n.Value[0]+n.Value[1] <= 0 {
				return fmt.Errorf("leaf %d has invalid class weights %v", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

func checkWidth(features []float64) error {
	if len(features) != len(patient.Columns) {
		return fmt.Errorf("%w: got %d features, want %d", core.ErrSchemaMismatch, len(features), len(patient.Columns))
	}
	return nil
}
