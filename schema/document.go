package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	crdb "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/marshalgen/errors"
	"github.com/wippyai/marshalgen/gen"
)

// Format is a document encoding.
type Format int

const (
	YAML Format = iota
	TOML
)

func (f Format) String() string {
	if f == TOML {
		return "toml"
	}
	return "yaml"
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, true
	case ".toml":
		return TOML, true
	default:
		return 0, false
	}
}

// Document is the on-disk description of one package.
type Document struct {
	Package    string          `yaml:"package" toml:"package"`
	Namespace  string          `yaml:"namespace" toml:"namespace"`
	Types      []TypeDecl      `yaml:"types" toml:"types"`
	Interfaces []InterfaceDecl `yaml:"interfaces" toml:"interfaces"`
}

// TypeDecl declares a struct, an enum or a typedef.
type TypeDecl struct {
	Name string `yaml:"name" toml:"name"`
	Kind string `yaml:"kind" toml:"kind"`

	// struct
	Fields []FieldDecl `yaml:"fields,omitempty" toml:"fields,omitempty"`

	// enum
	Storage string      `yaml:"storage,omitempty" toml:"storage,omitempty"`
	Values  []ValueDecl `yaml:"values,omitempty" toml:"values,omitempty"`

	// typedef
	Type string `yaml:"type,omitempty" toml:"type,omitempty"`
}

// FieldDecl is a struct member or a method parameter.
type FieldDecl struct {
	Name string `yaml:"name" toml:"name"`
	Type string `yaml:"type" toml:"type"`
}

// ValueDecl is an enumerator. Value is copied into generated code as written.
type ValueDecl struct {
	Name  string `yaml:"name" toml:"name"`
	Value string `yaml:"value,omitempty" toml:"value,omitempty"`
}

// InterfaceDecl declares a remote interface.
type InterfaceDecl struct {
	Name    string       `yaml:"name" toml:"name"`
	Methods []MethodDecl `yaml:"methods" toml:"methods"`
}

// MethodDecl declares one interface method.
type MethodDecl struct {
	Name    string      `yaml:"name" toml:"name"`
	Args    []FieldDecl `yaml:"args,omitempty" toml:"args,omitempty"`
	Results []FieldDecl `yaml:"results,omitempty" toml:"results,omitempty"`
	Oneway  bool        `yaml:"oneway,omitempty" toml:"oneway,omitempty"`
}

// Parse decodes a document. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "decode yaml document")
		}
	case TOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "decode toml document")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Value(undecoded[0].String()).
				Detail("unknown key %q", undecoded[0].String()).
				Build()
		}
	default:
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(format).
			Detail("unknown document format %d", int(format)).
			Build()
	}

	return &doc, nil
}

// LoadFile reads and decodes the document at path. The format follows the
// file extension.
func LoadFile(path string) (*Document, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, crdb.WithHint(
			crdb.Newf("cannot tell the format of %s", path),
			"schema files must end in .yaml, .yml or .toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crdb.Wrapf(err, "read schema %s", path)
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, errors.WithPath(err, path)
	}
	return doc, nil
}

// Load reads the document at path and resolves it into a package.
func Load(path string) (*gen.Package, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	pkg, err := doc.Resolve()
	if err != nil {
		return nil, errors.WithPath(err, path)
	}
	return pkg, nil
}
