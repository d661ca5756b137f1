/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extract.go
Description: Extract command implementation. Prints the conceptual model the generator
works from as YAML.
*/

package commands

import (
	"fmt"
	"io"

	"github.com/kleascm/akaylee-ontogen/pkg/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ModelView is the printable form of a conceptual model
type ModelView struct {
	Ontology         string         `yaml:"ontology"`
	Classes          []ClassView    `yaml:"classes"`
	ObjectProperties []PropertyView `yaml:"object_properties,omitempty"`
	DataProperties   []PropertyView `yaml:"data_properties,omitempty"`
}

// ClassView is the printable form of a class node
type ClassView struct {
	IRI            string        `yaml:"iri"`
	Super          []string      `yaml:"super,omitempty"`
	Sub            []string      `yaml:"sub,omitempty"`
	Equivalent     []string      `yaml:"equivalent,omitempty"`
	Disjoint       []string      `yaml:"disjoint,omitempty"`
	Restrictions   []string      `yaml:"restrictions,omitempty"`
	Special        []string      `yaml:"special,omitempty"`
	ObjectBindings []BindingView `yaml:"object_bindings,omitempty"`
	DataBindings   []BindingView `yaml:"data_bindings,omitempty"`
	Individuals    []string      `yaml:"individuals,omitempty"`
}

// BindingView is a property with the range it has on a class
type BindingView struct {
	Property string `yaml:"property"`
	Range    string `yaml:"range"`
}

// PropertyView is the printable form of a property node
type PropertyView struct {
	IRI             string   `yaml:"iri"`
	Super           []string `yaml:"super,omitempty"`
	Sub             []string `yaml:"sub,omitempty"`
	Equivalent      []string `yaml:"equivalent,omitempty"`
	Disjoint        []string `yaml:"disjoint,omitempty"`
	Inverse         []string `yaml:"inverse,omitempty"`
	Characteristics []string `yaml:"characteristics,omitempty"`
	Domains         []string `yaml:"domains,omitempty"`
	Range           string   `yaml:"range,omitempty"`
}

// RunExtract prints the extracted model
func RunExtract(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	model, _, err := LoadModel(logger)
	if err != nil {
		return err
	}

	view := NewModelView(model)
	if name := viper.GetString("extract_class"); name != "" {
		c, ok := ResolveClass(model, name)
		if !ok {
			return fmt.Errorf("class %s not found", name)
		}
		view.Classes = []ClassView{newClassView(c)}
		view.ObjectProperties = nil
		view.DataProperties = nil
	}
	return WriteModelView(cmd.OutOrStdout(), view)
}

// NewModelView builds the printable form of model
func NewModelView(model *schema.Model) *ModelView {
	view := &ModelView{Ontology: model.OntologyIRI}
	for _, c := range model.Classes() {
		view.Classes = append(view.Classes, newClassView(c))
	}
	for _, p := range model.ObjectProperties() {
		view.ObjectProperties = append(view.ObjectProperties, newPropertyView(p))
	}
	for _, p := range model.DataProperties() {
		view.DataProperties = append(view.DataProperties, newPropertyView(p))
	}
	return view
}

// WriteModelView encodes view as YAML
func WriteModelView(w io.Writer, view *ModelView) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return enc.Close()
}

func newClassView(c *schema.ClassNode) ClassView {
	v := ClassView{
		IRI:          c.IRI,
		Super:        classIRIs(c.Super),
		Sub:          classIRIs(c.Sub),
		Equivalent:   exprStrings(c.EquivalentExprs),
		Disjoint:     exprStrings(c.DisjointExprs),
		Restrictions: exprStrings(c.AnonymousRestrictions),
		Special:      exprStrings(c.SpecialRestrictions),
		Individuals:  c.Individuals,
	}
	for _, b := range c.ObjectBindings {
		v.ObjectBindings = append(v.ObjectBindings, BindingView{Property: b.Property.IRI, Range: b.Range.String()})
	}
	for _, b := range c.DataBindings {
		v.DataBindings = append(v.DataBindings, BindingView{Property: b.Property.IRI, Range: b.Range.Key()})
	}
	return v
}

func newPropertyView(p *schema.PropertyNode) PropertyView {
	v := PropertyView{
		IRI:             p.IRI,
		Super:           propertyIRIs(p.Super),
		Sub:             propertyIRIs(p.Sub),
		Equivalent:      propertyIRIs(p.Equivalent),
		Disjoint:        propertyIRIs(p.Disjoint),
		Inverse:         propertyIRIs(p.Inverse),
		Characteristics: p.Characteristics.Names(),
		Domains:         p.Domains,
	}
	if p.ObjectRange != nil {
		v.Range = p.ObjectRange.String()
	}
	if p.Range != nil {
		v.Range = p.Range.Key()
	}
	return v
}

func classIRIs(list []*schema.ClassNode) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.IRI)
	}
	return out
}

func propertyIRIs(list []*schema.PropertyNode) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.IRI)
	}
	return out
}

func exprStrings(list []*schema.ClassExpr) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.String())
	}
	return out
}
