package main

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	ifupdownconfig "isc.org/netiface/config/ifupdown"
)

// The YAML view of the interfaces file.
type yamlDocument struct {
	Sources    []string        `yaml:"sources,omitempty"`
	Interfaces []yamlInterface `yaml:"interfaces"`
	Mappings   []yamlMapping   `yaml:"mappings,omitempty"`
}

type yamlInterface struct {
	Name    string       `yaml:"name"`
	Auto    bool         `yaml:"auto,omitempty"`
	Allow   []string     `yaml:"allow,omitempty"`
	Family  string       `yaml:"family,omitempty"`
	Method  string       `yaml:"method,omitempty"`
	Options []yamlOption `yaml:"options,omitempty"`
}

type yamlOption struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value,omitempty"`
	// Empty for the options the model does not recognize.
	Kind string `yaml:"kind,omitempty"`
}

type yamlMapping struct {
	Pattern string       `yaml:"pattern"`
	Script  string       `yaml:"script,omitempty"`
	Maps    []string     `yaml:"maps,omitempty"`
	Options []yamlOption `yaml:"options,omitempty"`
}

func convertOptions(options []ifupdownconfig.Option) (converted []yamlOption) {
	for _, option := range options {
		converted = append(converted, yamlOption{
			Key:   option.Key(),
			Value: option.Value(),
			Kind:  string(option.Kind()),
		})
	}
	return
}

// Writes the document as YAML.
func exportYAML(w io.Writer, document *ifupdownconfig.Document) error {
	yd := yamlDocument{
		Sources:    document.Sources(),
		Interfaces: []yamlInterface{},
	}
	for iface := range document.Interfaces() {
		yd.Interfaces = append(yd.Interfaces, yamlInterface{
			Name:    iface.Name,
			Auto:    iface.Auto,
			Allow:   iface.Allow,
			Family:  iface.Family.String(),
			Method:  iface.Method.String(),
			Options: convertOptions(iface.Options),
		})
	}
	for mapping := range document.Mappings() {
		ym := yamlMapping{
			Pattern: mapping.Pattern,
			Script:  mapping.Script,
			Options: convertOptions(mapping.Options),
		}
		for _, entry := range mapping.Maps {
			ym.Maps = append(ym.Maps, entry.String())
		}
		yd.Mappings = append(yd.Mappings, ym)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yd); err != nil {
		return errors.Wrap(err, "failed to encode YAML")
	}
	return nil
}
