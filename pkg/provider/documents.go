/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: documents.go
Description: DocumentProvider answers Provider queries over a set of compiled schema
documents. A structural classifier closes the told subclass, subproperty,
equivalence, disjointness and inverse axioms and decides consistency from the types
of the schema individuals.
*/

package provider

import (
	"fmt"
	"sort"

	"github.com/kleascm/akaylee-ontogen/pkg/schema"
)

type classAxioms struct {
	super      map[string]bool
	anonymous  []*schema.ClassExpr
	equivalent []*schema.ClassExpr
	disjoint   []*schema.ClassExpr
	instances  map[string]bool
}

type propertyAxioms struct {
	kind            schema.PropertyKind
	domains         map[string]bool
	objectRange     *schema.ClassExpr
	dataRange       *schema.DataRange
	super           map[string]bool
	equivalent      map[string]bool
	disjoint        map[string]bool
	inverse         map[string]bool
	characteristics schema.Characteristic
}

// DocumentProvider is a Provider over YAML schema documents
type DocumentProvider struct {
	ontologyIRI string
	classes     map[string]*classAxioms
	properties  map[string]*propertyAxioms

	superClosure    map[string]map[string]bool
	subClosure      map[string]map[string]bool
	superPropertyOf map[string]map[string]bool
	subPropertyOf   map[string]map[string]bool
}

// NewDocumentProvider compiles the documents and classifies the result. The first
// document names the main ontology.
func NewDocumentProvider(docs ...*Document) (*DocumentProvider, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("no schema documents")
	}

	p := &DocumentProvider{
		ontologyIRI: docs[0].IRI,
		classes:     make(map[string]*classAxioms),
		properties:  make(map[string]*propertyAxioms),
	}

	// Declarations first so restrictions can tell object from data properties
	for _, doc := range docs {
		for _, name := range sortedKeys(doc.ObjectProperties) {
			p.property(doc.Resolve(name), schema.ObjectProperty)
		}
		for _, name := range sortedKeys(doc.DataProperties) {
			p.property(doc.Resolve(name), schema.DataProperty)
		}
		for _, name := range sortedKeys(doc.Classes) {
			p.class(doc.Resolve(name))
		}
	}

	for _, doc := range docs {
		if err := p.compile(doc); err != nil {
			return nil, err
		}
	}

	p.classify()
	return p, nil
}

func (p *DocumentProvider) class(iri string) *classAxioms {
	c, ok := p.classes[iri]
	if !ok {
		c = &classAxioms{super: make(map[string]bool), instances: make(map[string]bool)}
		p.classes[iri] = c
	}
	return c
}

func (p *DocumentProvider) property(iri string, kind schema.PropertyKind) *propertyAxioms {
	a, ok := p.properties[iri]
	if !ok {
		a = &propertyAxioms{
			kind:       kind,
			domains:    make(map[string]bool),
			super:      make(map[string]bool),
			equivalent: make(map[string]bool),
			disjoint:   make(map[string]bool),
			inverse:    make(map[string]bool),
		}
		p.properties[iri] = a
	}
	return a
}

func (p *DocumentProvider) isKind(kind schema.PropertyKind) func(string) bool {
	return func(iri string) bool {
		a, ok := p.properties[iri]
		return ok && a.kind == kind
	}
}

// registerSignature adds every named class mentioned by e to the signature
func (p *DocumentProvider) registerSignature(e *schema.ClassExpr) {
	for _, iri := range e.NamedClasses() {
		p.class(iri)
	}
}

func (p *DocumentProvider) compile(doc *Document) error {
	c := &compiler{doc: doc, objectProp: p.isKind(schema.ObjectProperty), dataProp: p.isKind(schema.DataProperty)}

	for _, name := range sortedKeys(doc.Classes) {
		iri := doc.Resolve(name)
		axioms := p.class(iri)
		cd := doc.Classes[name]

		for i := range cd.SubClassOf {
			e, err := c.classExpr(&cd.SubClassOf[i])
			if err != nil {
				return err
			}
			p.registerSignature(e)
			if e.IsAnonymous() {
				axioms.anonymous = schema.InsertExpr(axioms.anonymous, e)
			} else {
				axioms.super[e.Class] = true
			}
		}
		for i := range cd.EquivalentTo {
			e, err := c.classExpr(&cd.EquivalentTo[i])
			if err != nil {
				return err
			}
			p.registerSignature(e)
			if e.Class == iri {
				continue
			}
			axioms.equivalent = schema.InsertExpr(axioms.equivalent, e)
			if !e.IsAnonymous() {
				other := p.class(e.Class)
				other.equivalent = schema.InsertExpr(other.equivalent, schema.NamedClass(iri))
			}
		}
		for i := range cd.DisjointWith {
			e, err := c.classExpr(&cd.DisjointWith[i])
			if err != nil {
				return err
			}
			p.registerSignature(e)
			axioms.disjoint = schema.InsertExpr(axioms.disjoint, e)
			if !e.IsAnonymous() {
				other := p.class(e.Class)
				other.disjoint = schema.InsertExpr(other.disjoint, schema.NamedClass(iri))
			}
		}
		for _, ind := range cd.Individuals {
			axioms.instances[doc.Resolve(ind)] = true
		}
	}

	for _, ind := range sortedKeys(doc.Individuals) {
		for _, cls := range doc.Individuals[ind] {
			p.class(doc.Resolve(cls)).instances[doc.Resolve(ind)] = true
		}
	}

	for _, section := range []struct {
		props map[string]PropertyDoc
		kind  schema.PropertyKind
	}{
		{doc.ObjectProperties, schema.ObjectProperty},
		{doc.DataProperties, schema.DataProperty},
	} {
		for _, name := range sortedKeys(section.props) {
			if err := p.compileProperty(c, doc.Resolve(name), section.kind, section.props[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *DocumentProvider) compileProperty(c *compiler, iri string, kind schema.PropertyKind, pd PropertyDoc) error {
	doc := c.doc
	axioms := p.property(iri, kind)

	for i := range pd.Domain {
		e, err := c.classExpr(&pd.Domain[i])
		if err != nil {
			return err
		}
		p.registerSignature(e)
		for _, cls := range e.NamedClasses() {
			axioms.domains[cls] = true
		}
	}

	if pd.Range.Kind != 0 {
		if kind == schema.DataProperty {
			r, err := c.dataRange(&pd.Range)
			if err != nil {
				return err
			}
			axioms.dataRange = r
		} else {
			e, err := c.classExpr(&pd.Range)
			if err != nil {
				return err
			}
			p.registerSignature(e)
			axioms.objectRange = e
		}
	}

	link := func(names []string, set func(*propertyAxioms) map[string]bool, symmetric bool) error {
		for _, name := range names {
			other := doc.Resolve(name)
			otherAxioms, ok := p.properties[other]
			if !ok {
				return fmt.Errorf("%s: property %s refers to undeclared property %s", doc.Source, iri, other)
			}
			if otherAxioms.kind != kind {
				return fmt.Errorf("%s: property %s relates to %s property %s", doc.Source, iri, otherAxioms.kind, other)
			}
			set(axioms)[other] = true
			if symmetric {
				set(otherAxioms)[iri] = true
			}
		}
		return nil
	}

	if err := link(pd.SubPropertyOf, func(a *propertyAxioms) map[string]bool { return a.super }, false); err != nil {
		return err
	}
	if err := link(pd.EquivalentTo, func(a *propertyAxioms) map[string]bool { return a.equivalent }, true); err != nil {
		return err
	}
	if err := link(pd.DisjointWith, func(a *propertyAxioms) map[string]bool { return a.disjoint }, true); err != nil {
		return err
	}
	if kind == schema.ObjectProperty {
		if err := link(pd.InverseOf, func(a *propertyAxioms) map[string]bool { return a.inverse }, true); err != nil {
			return err
		}
	}

	for _, name := range pd.Characteristics {
		flag, ok := schema.ParseCharacteristic(name)
		if !ok {
			return fmt.Errorf("%s: unknown characteristic %q on %s", doc.Source, name, iri)
		}
		if kind == schema.DataProperty && flag != schema.Functional {
			return fmt.Errorf("%s: data property %s can only be functional", doc.Source, iri)
		}
		axioms.characteristics |= flag
	}
	return nil
}

// classify computes the super/sub closures of classes and properties
func (p *DocumentProvider) classify() {
	told := make(map[string][]string, len(p.classes))
	for iri, a := range p.classes {
		for s := range a.super {
			told[iri] = append(told[iri], s)
		}
		// Named equivalence is mutual subsumption
		for _, e := range a.equivalent {
			if !e.IsAnonymous() {
				told[iri] = append(told[iri], e.Class)
			}
		}
	}
	p.superClosure, p.subClosure = closure(told)

	toldProps := make(map[string][]string, len(p.properties))
	for iri, a := range p.properties {
		for s := range a.super {
			toldProps[iri] = append(toldProps[iri], s)
		}
		for e := range a.equivalent {
			toldProps[iri] = append(toldProps[iri], e)
		}
	}
	p.superPropertyOf, p.subPropertyOf = closure(toldProps)
}

// closure returns the transitive up and down closures of the told edges, self excluded
func closure(told map[string][]string) (up, down map[string]map[string]bool) {
	up = make(map[string]map[string]bool, len(told))
	down = make(map[string]map[string]bool)
	for start := range told {
		seen := make(map[string]bool)
		stack := append([]string(nil), told[start]...)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[n] {
				continue
			}
			seen[n] = true
			stack = append(stack, told[n]...)
		}
		delete(seen, start)
		up[start] = seen
		for s := range seen {
			if down[s] == nil {
				down[s] = make(map[string]bool)
			}
			down[s][start] = true
		}
	}
	return up, down
}

func sortedSet(set map[string]bool, skip ...string) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if !contains(skip, k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// OntologyIRI returns the IRI of the main document
func (p *DocumentProvider) OntologyIRI() string {
	return p.ontologyIRI
}

// IsConsistent fails when an individual falls into two disjoint classes or into owl:Nothing
func (p *DocumentProvider) IsConsistent() bool {
	types := make(map[string]map[string]bool)
	for cls, a := range p.classes {
		for ind := range a.instances {
			if types[ind] == nil {
				types[ind] = make(map[string]bool)
			}
			types[ind][cls] = true
			for s := range p.superClosure[cls] {
				types[ind][s] = true
			}
		}
	}
	for _, ts := range types {
		if ts[schema.OWLNothing] {
			return false
		}
		for cls := range ts {
			for _, d := range p.classes[cls].disjoint {
				if !d.IsAnonymous() && ts[d.Class] {
					return false
				}
			}
		}
	}
	return true
}

// Classes returns every named class in the signature
func (p *DocumentProvider) Classes() []string {
	out := make([]string, 0, len(p.classes))
	for iri := range p.classes {
		out = append(out, iri)
	}
	sort.Strings(out)
	return out
}

func (p *DocumentProvider) propertiesOf(kind schema.PropertyKind) []string {
	var out []string
	for iri, a := range p.properties {
		if a.kind == kind {
			out = append(out, iri)
		}
	}
	sort.Strings(out)
	return out
}

// ObjectProperties returns every object property
func (p *DocumentProvider) ObjectProperties() []string {
	return p.propertiesOf(schema.ObjectProperty)
}

// DataProperties returns every data property
func (p *DocumentProvider) DataProperties() []string {
	return p.propertiesOf(schema.DataProperty)
}

// DirectSuperclasses returns the told named superclasses
func (p *DocumentProvider) DirectSuperclasses(class string) []string {
	if a, ok := p.classes[class]; ok {
		return sortedSet(a.super, class)
	}
	return nil
}

// AnonymousSuperclasses returns the told anonymous superclasses
func (p *DocumentProvider) AnonymousSuperclasses(class string) []*schema.ClassExpr {
	if a, ok := p.classes[class]; ok {
		return a.anonymous
	}
	return nil
}

// EquivalentClasses returns the told equivalent class expressions
func (p *DocumentProvider) EquivalentClasses(class string) []*schema.ClassExpr {
	if a, ok := p.classes[class]; ok {
		return a.equivalent
	}
	return nil
}

// DisjointClasses returns the told disjoint class expressions
func (p *DocumentProvider) DisjointClasses(class string) []*schema.ClassExpr {
	if a, ok := p.classes[class]; ok {
		return a.disjoint
	}
	return nil
}

// InferredSubclasses returns every subclass, owl:Nothing excluded
func (p *DocumentProvider) InferredSubclasses(class string) []string {
	return sortedSet(p.subClosure[class], class, schema.OWLNothing)
}

// InferredSuperclasses returns every superclass, owl:Thing excluded
func (p *DocumentProvider) InferredSuperclasses(class string) []string {
	return sortedSet(p.superClosure[class], class, schema.OWLThing)
}

// InferredEquivalents returns the classes that subsume each other with class
func (p *DocumentProvider) InferredEquivalents(class string) []string {
	out := make(map[string]bool)
	for s := range p.superClosure[class] {
		if p.superClosure[s][class] {
			out[s] = true
		}
	}
	return sortedSet(out, class)
}

// InferredDisjoints returns the classes disjoint with class or any of its
// superclasses, together with their subclasses
func (p *DocumentProvider) InferredDisjoints(class string) []string {
	out := make(map[string]bool)
	sources := append([]string{class}, sortedSet(p.superClosure[class])...)
	for _, s := range sources {
		a, ok := p.classes[s]
		if !ok {
			continue
		}
		for _, d := range a.disjoint {
			if d.IsAnonymous() {
				continue
			}
			out[d.Class] = true
			for sub := range p.subClosure[d.Class] {
				out[sub] = true
			}
		}
	}
	return sortedSet(out, class, schema.OWLNothing)
}

// InstancesOf returns the individuals of class and of its subclasses
func (p *DocumentProvider) InstancesOf(class string) []string {
	out := make(map[string]bool)
	for _, c := range append([]string{class}, sortedSet(p.subClosure[class])...) {
		if a, ok := p.classes[c]; ok {
			for ind := range a.instances {
				out[ind] = true
			}
		}
	}
	return sortedSet(out)
}

// Domains returns the named domain classes of property
func (p *DocumentProvider) Domains(property string) []string {
	if a, ok := p.properties[property]; ok {
		return sortedSet(a.domains)
	}
	return nil
}

// ObjectRange returns the range of an object property, or nil
func (p *DocumentProvider) ObjectRange(property string) *schema.ClassExpr {
	if a, ok := p.properties[property]; ok {
		return a.objectRange
	}
	return nil
}

// DataRange returns the range of a data property, or nil
func (p *DocumentProvider) DataRange(property string) *schema.DataRange {
	if a, ok := p.properties[property]; ok {
		return a.dataRange
	}
	return nil
}

// DirectSuperProperties returns the told super-properties
func (p *DocumentProvider) DirectSuperProperties(property string) []string {
	if a, ok := p.properties[property]; ok {
		return sortedSet(a.super, property)
	}
	return nil
}

// EquivalentProperties returns the told equivalent properties
func (p *DocumentProvider) EquivalentProperties(property string) []string {
	if a, ok := p.properties[property]; ok {
		return sortedSet(a.equivalent, property)
	}
	return nil
}

// DisjointProperties returns the told disjoint properties
func (p *DocumentProvider) DisjointProperties(property string) []string {
	if a, ok := p.properties[property]; ok {
		return sortedSet(a.disjoint, property)
	}
	return nil
}

// InverseProperties returns the told inverse properties
func (p *DocumentProvider) InverseProperties(property string) []string {
	if a, ok := p.properties[property]; ok {
		return sortedSet(a.inverse)
	}
	return nil
}

// Characteristics returns the characteristic flags of property
func (p *DocumentProvider) Characteristics(property string) schema.Characteristic {
	if a, ok := p.properties[property]; ok {
		return a.characteristics
	}
	return 0
}

// InferredSubProperties returns every sub-property
func (p *DocumentProvider) InferredSubProperties(property string) []string {
	return sortedSet(p.subPropertyOf[property], property, schema.OWLBottomObjectProperty, schema.OWLBottomDataProperty)
}

// InferredSuperProperties returns every super-property
func (p *DocumentProvider) InferredSuperProperties(property string) []string {
	return sortedSet(p.superPropertyOf[property], property, schema.OWLTopObjectProperty, schema.OWLTopDataProperty)
}

// InferredEquivalentProperties returns the properties that subsume each other with property
func (p *DocumentProvider) InferredEquivalentProperties(property string) []string {
	out := make(map[string]bool)
	for s := range p.superPropertyOf[property] {
		if p.superPropertyOf[s][property] {
			out[s] = true
		}
	}
	return sortedSet(out, property)
}

// InferredInverseProperties returns the inverses of property and of its equivalents
func (p *DocumentProvider) InferredInverseProperties(property string) []string {
	out := make(map[string]bool)
	for _, q := range append([]string{property}, p.InferredEquivalentProperties(property)...) {
		a, ok := p.properties[q]
		if !ok {
			continue
		}
		for inv := range a.inverse {
			out[inv] = true
			for _, e := range p.InferredEquivalentProperties(inv) {
				out[e] = true
			}
		}
	}
	return sortedSet(out)
}
