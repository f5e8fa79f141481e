package model

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// Report is the outcome of checking one property of a document.
type Report struct {
	Document    string `yaml:"document"`
	Fingerprint string `yaml:"fingerprint"`
	Property    string `yaml:"property"`
	Holds       bool   `yaml:"holds"`
	Description string `yaml:"description"`

	// The counterexample prefix · cycle^ω, empty when the property holds.
	Prefix []string `yaml:"prefix,omitempty"`
	Cycle  []string `yaml:"cycle,omitempty"`
}

func (r Report) String() string {
	if r.Holds {
		return fmt.Sprintf("%v/%v: holds", r.Document, r.Property)
	}
	return fmt.Sprintf("%v/%v: violated by %v (%v)^ω", r.Document, r.Property,
		strings.Join(r.Prefix, " "), strings.Join(r.Cycle, " "))
}

type reports struct {
	Reports []Report `yaml:"reports"`
}

// ReportsStruct encodes the reports as a protobuf Struct with a single
// "reports" list.
func ReportsStruct(rs []Report) (*structpb.Struct, error) {
	return toStruct(reports{Reports: rs})
}

func ReportsFromStruct(s *structpb.Struct) ([]Report, error) {
	r := reports{}
	if err := fromStruct(s, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return r.Reports, nil
}
