// Package profiles loads the form profiles: which widgets, bounds, option
// labels and defaults each front-end variant shows, and how a submitted form
// maps onto canonical patient inputs.
package profiles

import (
	_ "embed"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"heartrisk/domain/core"
	"heartrisk/domain/patient"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var embedded []byte

// Widget is the control a field renders as.
type Widget string

const (
	WidgetSlider Widget = "slider"
	WidgetNumber Widget = "number"
	WidgetSelect Widget = "select"
	WidgetRadio  Widget = "radio"
)

// Option is one choice of a categorical field. Value is what the form shows
// and submits, Code is what the classifier sees.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value int    `yaml:"value" json:"value"`
	Code  int    `yaml:"code" json:"code"`
}

// Field is one form control bound to a raw patient column.
type Field struct {
	Column  string   `yaml:"column" json:"column"`
	Label   string   `yaml:"label" json:"label"`
	Widget  Widget   `yaml:"widget" json:"widget"`
	Min     float64  `yaml:"min" json:"min,omitempty"`
	Max     float64  `yaml:"max" json:"max,omitempty"`
	Step    float64  `yaml:"step" json:"step,omitempty"`
	Default float64  `yaml:"default" json:"default"`
	Options []Option `yaml:"options" json:"options,omitempty"`
}

// Name is the form input name, e.g. "chest_pain_type".
func (f Field) Name() string {
	return strings.ReplaceAll(strings.ToLower(f.Column), " ", "_")
}

// Categorical reports whether the field is an option set.
func (f Field) Categorical() bool {
	return len(f.Options) > 0
}

// Integral reports whether the field accepts whole numbers only.
func (f Field) Integral() bool {
	return f.Categorical() || (f.Step >= 1 && f.Step == math.Trunc(f.Step))
}

// Profile is one front-end variant.
type Profile struct {
	Key       core.ProfileKey `yaml:"key" json:"key"`
	Title     string          `yaml:"title" json:"title"`
	Layout    string          `yaml:"layout" json:"layout"`
	Encoding  string          `yaml:"encoding" json:"encoding"`
	Celebrate bool            `yaml:"celebrate" json:"celebrate"`
	EDA       bool            `yaml:"eda" json:"eda"`
	Fields    []Field         `yaml:"fields" json:"fields"`
}

// CheckEncoding rejects a profile whose option codes were written for a
// different encoding than the loaded artifact's.
func (p *Profile) CheckEncoding(artifactEncoding string) error {
	if p.Encoding != artifactEncoding {
		return fmt.Errorf("%w: profile %s uses %q, artifact uses %q",
			core.ErrEncodingMismatch, p.Key, p.Encoding, artifactEncoding)
	}
	return nil
}

// Defaults returns the initial form values keyed by input name.
func (p *Profile) Defaults() url.Values {
	values := url.Values{}
	for _, f := range p.Fields {
		values.Set(f.Name(), formatValue(f, f.Default))
	}
	return values
}

// ParseForm converts submitted form values to canonical inputs, enforcing the
// profile's bounds and option sets. Canonical validation happens later in
// patient.NewRecord.
func (p *Profile) ParseForm(values url.Values) (patient.Inputs, error) {
	var in patient.Inputs
	for _, f := range p.Fields {
		v, err := f.parse(strings.TrimSpace(values.Get(f.Name())))
		if err != nil {
			return patient.Inputs{}, err
		}
		if err := in.Set(f.Column, v); err != nil {
			return patient.Inputs{}, err
		}
	}
	return in, nil
}

func (f Field) parse(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", core.ErrInvalidValue, f.Column)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q is not a number", core.ErrInvalidValue, f.Column, raw)
	}
	if f.Integral() && v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s=%q must be a whole number", core.ErrInvalidValue, f.Column, raw)
	}

	if f.Categorical() {
		for _, o := range f.Options {
			if float64(o.Value) == v {
				return float64(o.Code), nil
			}
		}
		return 0, core.NewOptionError(f.Column, v)
	}
	if v < f.Min || v > f.Max {
		return 0, core.NewRangeError(f.Column, v, f.Min, f.Max)
	}
	return v, nil
}

// validate checks a profile against the canonical field table.
func (p *Profile) validate() error {
	if p.Key == "" {
		return fmt.Errorf("profile without key")
	}
	if p.Encoding == "" {
		p.Encoding = patient.Encoding
	}

	seen := make(map[string]bool, len(p.Fields))
	for _, f := range p.Fields {
		spec, ok := patient.FieldFor(f.Column)
		if !ok {
			return fmt.Errorf("profile %s: unknown column %q", p.Key, f.Column)
		}
		if seen[f.Column] {
			return fmt.Errorf("profile %s: column %q listed twice", p.Key, f.Column)
		}
		seen[f.Column] = true

		if err := f.validate(spec); err != nil {
			return fmt.Errorf("profile %s: %w", p.Key, err)
		}
	}
	for _, f := range patient.CanonicalFields {
		if !seen[f.Column] {
			return fmt.Errorf("profile %s: missing column %q", p.Key, f.Column)
		}
	}
	return nil
}

func (f Field) validate(spec patient.FieldSpec) error {
	switch f.Widget {
	case WidgetSlider, WidgetNumber:
		if spec.Kind != patient.KindNumeric {
			return fmt.Errorf("%s: %s widget on a categorical column", f.Column, f.Widget)
		}
		if f.Min > f.Max || f.Min < spec.Min || f.Max > spec.Max {
			return fmt.Errorf("%s: bounds [%g, %g] outside [%g, %g]", f.Column, f.Min, f.Max, spec.Min, spec.Max)
		}
		if f.Step <= 0 {
			return fmt.Errorf("%s: step must be positive", f.Column)
		}
		if f.Default < f.Min || f.Default > f.Max {
			return fmt.Errorf("%s: default %g outside bounds", f.Column, f.Default)
		}
	case WidgetSelect, WidgetRadio:
		if spec.Kind != patient.KindCategorical {
			return fmt.Errorf("%s: %s widget on a numeric column", f.Column, f.Widget)
		}
		if len(f.Options) == 0 {
			return fmt.Errorf("%s: no options", f.Column)
		}
		values := make(map[int]bool, len(f.Options))
		hasDefault := false
		for _, o := range f.Options {
			if !spec.Allows(float64(o.Code)) {
				return fmt.Errorf("%s: option %q maps to unknown code %d", f.Column, o.Label, o.Code)
			}
			if values[o.Value] {
				return fmt.Errorf("%s: option value %d listed twice", f.Column, o.Value)
			}
			values[o.Value] = true
			hasDefault = hasDefault || float64(o.Value) == f.Default
		}
		if !hasDefault {
			return fmt.Errorf("%s: default %g is not an option", f.Column, f.Default)
		}
	default:
		return fmt.Errorf("%s: unknown widget %q", f.Column, f.Widget)
	}
	return nil
}

func formatValue(f Field, v float64) string {
	if f.Integral() {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Registry holds the loaded profiles in file order.
type Registry struct {
	byKey map[core.ProfileKey]*Profile
	order []*Profile
}

// Load parses the embedded profile file.
func Load() (*Registry, error) {
	return Parse(embedded)
}

// Parse builds a registry from YAML.
func Parse(data []byte) (*Registry, error) {
	var doc struct {
		Profiles []*Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("no profiles defined")
	}

	r := &Registry{byKey: make(map[core.ProfileKey]*Profile, len(doc.Profiles))}
	for _, p := range doc.Profiles {
		key, err := core.ParseProfileKey(string(p.Key))
		if err != nil {
			return nil, err
		}
		p.Key = key
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byKey[p.Key]; dup {
			return nil, fmt.Errorf("profile %s defined twice", p.Key)
		}
		r.byKey[p.Key] = p
		r.order = append(r.order, p)
	}
	return r, nil
}

// Get looks a profile up by key, case-insensitively.
func (r *Registry) Get(key string) (*Profile, error) {
	k, err := core.ParseProfileKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnknownProfile, err)
	}
	p, ok := r.byKey[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownProfile, key)
	}
	return p, nil
}

// List returns the profiles in file order.
func (r *Registry) List() []*Profile {
	return append([]*Profile(nil), r.order...)
}

// Incompatible returns the profiles whose encoding differs from the
// artifact's, keyed by profile.
func (r *Registry) Incompatible(artifactEncoding string) map[core.ProfileKey]error {
	out := make(map[core.ProfileKey]error)
	for _, p := range r.order {
		if err := p.CheckEncoding(artifactEncoding); err != nil {
			out[p.Key] = err
		}
	}
	return out
}
