package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"heartrisk/domain/core"
	"heartrisk/domain/risk"
	"heartrisk/internal"
	"heartrisk/internal/eda"
	apperrors "heartrisk/internal/errors"
	"heartrisk/internal/profiles"
	"heartrisk/internal/scoring"
)

// Deps are the services behind both HTTP surfaces. Dashboard is nil when the
// EDA dashboard is disabled.
type Deps struct {
	Scoring   *scoring.Service
	Profiles  *profiles.Registry
	Dashboard *eda.Dashboard
	Copy      *Copy
	Logger    *internal.Logger
}

func (d *Deps) logger() *internal.Logger {
	if d.Logger == nil {
		return internal.DefaultLogger.With("ui")
	}
	return d.Logger
}

type navLink struct {
	Label  string
	Href   string
	Active bool
}

// Page holds what the header and footer need.
type Page struct {
	Title string
	Nav   []navLink
	Copy  *Copy
}

// FormPage is the prediction form, optionally with a result.
type FormPage struct {
	Page
	Profile   *profiles.Profile
	Action    string
	Values    url.Values
	Blocked   string
	ModelName string
	Caption   string
	Error     string
	Result    *risk.Assessment
	ShowEDA   bool
}

type chartLink struct {
	Kind     core.ChartKind
	Title    string
	Selected bool
}

// EDAPage is the exploratory dashboard with one selected chart.
type EDAPage struct {
	Page
	Charts     []chartLink
	ChartURL   string
	ChartTitle string
	Snapshot   *eda.Snapshot
	Error      string
}

// ErrorPage is shown for unknown routes, profiles and charts.
type ErrorPage struct {
	Page
	Heading string
	Error   string
}

// formPage builds the form for p. Scoring is blocked, and no button is
// rendered, when the model is unavailable or speaks another encoding.
func (d *Deps) formPage(ctx context.Context, p *profiles.Profile, values url.Values, action string, nav []navLink) *FormPage {
	merged := p.Defaults()
	for k, v := range values {
		if len(v) > 0 {
			merged.Set(k, v[0])
		}
	}

	fp := &FormPage{
		Page:    Page{Title: p.Title, Nav: nav, Copy: d.Copy},
		Profile: p,
		Action:  action,
		Values:  merged,
		ShowEDA: p.EDA && d.Dashboard != nil,
	}

	clf, err := d.Scoring.Classifier(ctx)
	if err != nil {
		fp.Blocked = fmt.Sprintf("The prediction model could not be loaded (%v). Scoring is disabled.", err)
		return fp
	}
	info := clf.Info()
	if err := p.CheckEncoding(info.Encoding); err != nil {
		fp.Blocked = fmt.Sprintf("This form cannot be scored with the loaded model: %v", err)
		return fp
	}
	fp.ModelName = info.Name
	fp.Caption = Caption(info)
	return fp
}

// predict scores a submitted form and returns the page with its HTTP status.
func (d *Deps) predict(ctx context.Context, p *profiles.Profile, form url.Values, action string, nav []navLink) (*FormPage, int) {
	fp := d.formPage(ctx, p, form, action, nav)
	if fp.Blocked != "" {
		return fp, http.StatusServiceUnavailable
	}

	in, err := p.ParseForm(form)
	if err != nil {
		fp.Error = err.Error()
		return fp, apperrors.HTTPStatus(err)
	}

	a, err := d.Scoring.Score(ctx, in)
	if err != nil {
		d.logger().Warn("scoring failed for profile %s: %v", p.Key, err)
		fp.Error = err.Error()
		return fp, apperrors.HTTPStatus(err)
	}
	fp.Result = a
	return fp, http.StatusOK
}

// edaPage builds the dashboard page for the chart named by kind (first chart
// when empty).
func (d *Deps) edaPage(ctx context.Context, kind string, nav []navLink) (*EDAPage, int) {
	ep := &EDAPage{Page: Page{Title: "Heart disease dashboard", Nav: nav, Copy: d.Copy}}

	selected := eda.Kinds[0]
	if kind != "" {
		k, err := eda.ParseKind(kind)
		if err != nil {
			ep.Error = err.Error()
			return ep, http.StatusNotFound
		}
		selected = k
	}
	for _, k := range eda.Kinds {
		ep.Charts = append(ep.Charts, chartLink{Kind: k, Title: eda.Title(k), Selected: k == selected})
	}
	ep.ChartURL = "/eda/charts/" + selected.String() + ".svg"
	ep.ChartTitle = eda.Title(selected)

	snap, err := d.Dashboard.Snapshot(ctx)
	if err != nil {
		ep.Error = err.Error()
		return ep, apperrors.HTTPStatus(err)
	}
	ep.Snapshot = snap
	return ep, http.StatusOK
}

func (d *Deps) errorPage(status int, err error, nav []navLink) *ErrorPage {
	heading := http.StatusText(status)
	return &ErrorPage{
		Page:    Page{Title: heading, Nav: nav, Copy: d.Copy},
		Heading: heading,
		Error:   err.Error(),
	}
}
