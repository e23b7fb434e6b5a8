package experiment

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/turtacn/landing-ab/pkg/errors"
)

type catalogFile struct {
	Tests []TestDefinition `yaml:"tests"`
}

// LoadCatalogFile reads a YAML catalog of the form
//
//	tests:
//	  - name: faq
//	    variants: [with-faq, without-faq]
//	    weights: [0.5, 0.5]
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidConfig, "read catalog file").WithDetail(path)
	}
	return ParseCatalog(bytes.NewReader(data))
}

// ParseCatalog decodes a YAML catalog from r.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCatalogInvalid, "decode catalog")
	}
	if len(f.Tests) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeCatalogInvalid, "catalog has no tests")
	}
	return NewCatalog(f.Tests...)
}

// MarshalCatalog renders c in the LoadCatalogFile format.
func MarshalCatalog(c *Catalog) ([]byte, error) {
	return yaml.Marshal(catalogFile{Tests: c.Tests()})
}

//Personal.AI order the ending
