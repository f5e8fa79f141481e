package gofvm

import (
	"context"
	"fmt"

	"gofvm/automaton"
	"gofvm/checking"
	"gofvm/model"
	"gofvm/ts"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// VerifyDocument checks every property of the document and returns one
// report per property, in document order.
//
// Program graphs of the document run with the evaluators the document
// configures unless WithEvaluators is given.
func VerifyDocument(ctx context.Context, d *model.Document, opts ...Option) ([]model.Report, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	fp, err := d.Fingerprint()
	if err != nil {
		return nil, err
	}
	auts := make([]*automaton.Automaton[string, string], 0, len(d.Properties))
	for i := range d.Properties {
		aut, err := d.Properties[i].Build()
		if err != nil {
			return nil, err
		}
		auts = append(auts, aut)
	}
	opts = append([]Option{WithEvaluators(d.Evaluators())}, opts...)

	if d.System != nil {
		sys, err := d.System.Build(d.Name)
		if err != nil {
			return nil, err
		}
		return check(ctx, d, fp, sys, auts, opts)
	}
	pgs, err := d.BuildPrograms()
	if err != nil {
		return nil, err
	}
	sys, err := Unfold(ctx, pgs, opts...)
	if err != nil {
		return nil, err
	}
	return check(ctx, d, fp, sys, auts, opts)
}

func check[S comparable](ctx context.Context, d *model.Document, fp string, sys *ts.TransitionSystem[S, string, string], auts []*automaton.Automaton[string, string], opts []Option) ([]model.Report, error) {
	log := configure(opts).log
	for _, err := range multierr.Errors(sys.Validate()) {
		log.Warn("System has runs that are not checked", zap.String("document", d.Name), zap.Error(err))
	}
	if len(d.Observe) > 0 {
		if err := observe(sys, d.Observe); err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrInvalidDocument, err)
		}
	}

	results, err := VerifyAll(ctx, sys, auts, opts...)
	if err != nil {
		return nil, err
	}
	reports := make([]model.Report, len(results))
	for i, res := range results {
		holds, description := res.Response()
		reports[i] = model.Report{
			Document:    d.Name,
			Fingerprint: fp,
			Property:    d.Properties[i].Name,
			Holds:       holds,
			Description: description,
		}
		if f, ok := res.(checking.Failed[S]); ok {
			reports[i].Prefix = render(f.Prefix)
			reports[i].Cycle = render(f.Cycle)
		}
	}
	return reports, nil
}

// observe restricts every label to the observed propositions.
func observe[S comparable](sys *ts.TransitionSystem[S, string, string], observed []string) error {
	labels := sys.Labeling()
	return sys.Relabel(observed, func(s S) []string {
		label := []string{}
		for _, p := range observed {
			if labels[s].Has(p) {
				label = append(label, p)
			}
		}
		return label
	})
}

func render[S any](states []S) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = fmt.Sprint(s)
	}
	return out
}
