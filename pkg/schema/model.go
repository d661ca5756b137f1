/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: model.go
Description: The conceptual model built by the extractor. One ClassNode per named class
and one PropertyNode per named object or data property, with hierarchy, equivalence,
disjointness and inverse relations kept as IRI-sorted slices so that every traversal
and every random draw over them is deterministic.
*/

package schema

import (
	"sort"
)

// PropertyKind distinguishes object and data properties
type PropertyKind int

const (
	ObjectProperty PropertyKind = iota
	DataProperty
)

// String returns the kind name
func (k PropertyKind) String() string {
	if k == DataProperty {
		return "data"
	}
	return "object"
}

// Characteristic is a property characteristic flag
type Characteristic uint8

const (
	Functional Characteristic = 1 << iota
	InverseFunctional
	Transitive
	Symmetric
	Asymmetric
	Reflexive
	Irreflexive
)

var characteristicNames = []struct {
	flag Characteristic
	name string
}{
	{Functional, "functional"},
	{InverseFunctional, "inverseFunctional"},
	{Transitive, "transitive"},
	{Symmetric, "symmetric"},
	{Asymmetric, "asymmetric"},
	{Reflexive, "reflexive"},
	{Irreflexive, "irreflexive"},
}

// ParseCharacteristic maps a characteristic name to its flag
func ParseCharacteristic(name string) (Characteristic, bool) {
	for _, c := range characteristicNames {
		if c.name == name {
			return c.flag, true
		}
	}
	return 0, false
}

// Names returns the names of the set flags
func (c Characteristic) Names() []string {
	var names []string
	for _, n := range characteristicNames {
		if c&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

// ObjectBinding pairs an object property with its range on a domain class
type ObjectBinding struct {
	Property *PropertyNode
	Range    *ClassExpr
}

// DataBinding pairs a data property with its range on a domain class
type DataBinding struct {
	Property *PropertyNode
	Range    *DataRange
}

// ClassNode is a named class of the conceptual model
type ClassNode struct {
	IRI string

	DirectSuper []*ClassNode // Told named superclasses
	Super       []*ClassNode // Closed superclasses, excluding owl:Thing
	DirectSub   []*ClassNode // Told named subclasses
	Sub         []*ClassNode // Closed subclasses, excluding owl:Nothing

	EquivalentExprs []*ClassExpr // Equivalent class expressions, self excluded
	DisjointExprs   []*ClassExpr // Disjoint class expressions

	DirectAnonymousRestrictions []*ClassExpr // Told anonymous superclasses
	AnonymousRestrictions       []*ClassExpr // Inherited and reduced anonymous superclasses
	SpecialRestrictions         []*ClassExpr // Object max-cardinality and universal restrictions

	ObjectBindings []ObjectBinding // Object property ranges with this class as domain
	DataBindings   []DataBinding   // Data property ranges with this class as domain

	Individuals []string // Schema-asserted instances
}

// SubOrSelf returns the class and its subclasses ordered by IRI
func (c *ClassNode) SubOrSelf() []*ClassNode {
	return InsertClass(append([]*ClassNode(nil), c.Sub...), c)
}

// Covers reports whether other is this class or one of its subclasses
func (c *ClassNode) Covers(other *ClassNode) bool {
	if other == nil {
		return false
	}
	return c == other || ContainsClass(c.Sub, other)
}

// IsDisjointWith reports whether the expression is among this class's disjoints
func (c *ClassNode) IsDisjointWith(e *ClassExpr) bool {
	return ContainsExpr(c.DisjointExprs, e)
}

// PropertyNode is a named object or data property
type PropertyNode struct {
	IRI  string
	Kind PropertyKind

	DirectSuper    []*PropertyNode
	Super          []*PropertyNode
	DirectSub      []*PropertyNode
	Sub            []*PropertyNode
	Equivalent     []*PropertyNode
	DirectDisjoint []*PropertyNode
	Disjoint       []*PropertyNode // Closed under super-properties, sub-properties and equivalence

	Characteristics Characteristic
	Domains         []string

	Inverse     []*PropertyNode // Object properties only
	ObjectRange *ClassExpr      // Object properties only
	Range       *DataRange      // Data properties only
}

// Is reports whether the property carries the characteristic
func (p *PropertyNode) Is(c Characteristic) bool {
	return p.Characteristics&c != 0
}

// Covers reports whether q is this property or one of its sub-properties
func (p *PropertyNode) Covers(q *PropertyNode) bool {
	if q == nil {
		return false
	}
	return p == q || ContainsProperty(p.Sub, q)
}

// HasSub reports whether q is a strict sub-property
func (p *PropertyNode) HasSub(q *PropertyNode) bool {
	return ContainsProperty(p.Sub, q)
}

// Model is the conceptual model of a schema
type Model struct {
	OntologyIRI string

	classes   map[string]*ClassNode
	objects   map[string]*PropertyNode
	data      map[string]*PropertyNode
	classList []*ClassNode
	objList   []*PropertyNode
	dataList  []*PropertyNode
}

// NewModel creates an empty model
func NewModel(ontologyIRI string) *Model {
	return &Model{
		OntologyIRI: ontologyIRI,
		classes:     make(map[string]*ClassNode),
		objects:     make(map[string]*PropertyNode),
		data:        make(map[string]*PropertyNode),
	}
}

// AddClass returns the node for iri, creating it if needed
func (m *Model) AddClass(iri string) *ClassNode {
	if c, ok := m.classes[iri]; ok {
		return c
	}
	c := &ClassNode{IRI: iri}
	m.classes[iri] = c
	m.classList = InsertClass(m.classList, c)
	return c
}

// AddProperty returns the property node for iri, creating it if needed
func (m *Model) AddProperty(iri string, kind PropertyKind) *PropertyNode {
	index, list := m.objects, &m.objList
	if kind == DataProperty {
		index, list = m.data, &m.dataList
	}
	if p, ok := index[iri]; ok {
		return p
	}
	p := &PropertyNode{IRI: iri, Kind: kind}
	index[iri] = p
	*list = InsertProperty(*list, p)
	return p
}

// Class looks up a class by IRI
func (m *Model) Class(iri string) (*ClassNode, bool) {
	c, ok := m.classes[iri]
	return c, ok
}

// ObjectProperty looks up an object property by IRI
func (m *Model) ObjectProperty(iri string) (*PropertyNode, bool) {
	p, ok := m.objects[iri]
	return p, ok
}

// DataProperty looks up a data property by IRI
func (m *Model) DataProperty(iri string) (*PropertyNode, bool) {
	p, ok := m.data[iri]
	return p, ok
}

// Classes returns all classes ordered by IRI
func (m *Model) Classes() []*ClassNode {
	return m.classList
}

// ObjectProperties returns all object properties ordered by IRI
func (m *Model) ObjectProperties() []*PropertyNode {
	return m.objList
}

// DataProperties returns all data properties ordered by IRI
func (m *Model) DataProperties() []*PropertyNode {
	return m.dataList
}

// InsertClass adds c to an IRI-sorted slice unless already present
func InsertClass(list []*ClassNode, c *ClassNode) []*ClassNode {
	if c == nil {
		return list
	}
	i := sort.Search(len(list), func(i int) bool { return list[i].IRI >= c.IRI })
	if i < len(list) && list[i] == c {
		return list
	}
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = c
	return list
}

// ContainsClass reports whether an IRI-sorted slice holds c
func ContainsClass(list []*ClassNode, c *ClassNode) bool {
	if c == nil {
		return false
	}
	i := sort.Search(len(list), func(i int) bool { return list[i].IRI >= c.IRI })
	return i < len(list) && list[i] == c
}

// RemoveClass removes c from an IRI-sorted slice
func RemoveClass(list []*ClassNode, c *ClassNode) []*ClassNode {
	i := sort.Search(len(list), func(i int) bool { return list[i].IRI >= c.IRI })
	if i < len(list) && list[i] == c {
		return append(list[:i], list[i+1:]...)
	}
	return list
}

// InsertProperty adds p to an IRI-sorted slice unless already present
func InsertProperty(list []*PropertyNode, p *PropertyNode) []*PropertyNode {
	if p == nil {
		return list
	}
	i := sort.Search(len(list), func(i int) bool { return list[i].IRI >= p.IRI })
	if i < len(list) && list[i] == p {
		return list
	}
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = p
	return list
}

// ContainsProperty reports whether an IRI-sorted slice holds p
func ContainsProperty(list []*PropertyNode, p *PropertyNode) bool {
	if p == nil {
		return false
	}
	i := sort.Search(len(list), func(i int) bool { return list[i].IRI >= p.IRI })
	return i < len(list) && list[i] == p
}

// MergeProperties adds every element of src to dst
func MergeProperties(dst []*PropertyNode, src []*PropertyNode) []*PropertyNode {
	for _, p := range src {
		dst = InsertProperty(dst, p)
	}
	return dst
}
