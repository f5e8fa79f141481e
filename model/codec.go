package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON document. Unknown fields are rejected.
// The document is not validated.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	d := &Document{}
	if err := dec.Decode(d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return d, nil
}

// FromStruct decodes a document carried in a protobuf Struct.
func FromStruct(s *structpb.Struct) (*Document, error) {
	b, err := protojson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return Parse(b)
}

func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// Struct encodes the document as a protobuf Struct, the inverse of FromStruct.
func (d *Document) Struct() (*structpb.Struct, error) {
	return toStruct(d)
}

// toStruct converts v through its YAML form, so field names follow the yaml tags.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func fromStruct(s *structpb.Struct, v any) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, v)
}
