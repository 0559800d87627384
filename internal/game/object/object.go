package object

import "github.com/google/uuid"

// Object is one stack of a kind lying in the dungeon.
type Object struct {
	InstanceID string
	Kind       *Kind
	Quantity   int
	Artifact   bool
	// Proofed elements are ignored on top of the kind's innate ones.
	Proofed Material
}

// New creates an object of kind with a fresh instance id.
//
// Precondition: kind is non-nil; qty >= 1.
func New(kind *Kind, qty int) *Object {
	return NewWithID(uuid.New().String(), kind, qty)
}

// NewWithID creates an object with a caller-chosen instance id.
func NewWithID(id string, kind *Kind, qty int) *Object {
	return &Object{InstanceID: id, Kind: kind, Quantity: max(qty, 1)}
}

// Name returns the kind name.
func (o *Object) Name() string { return o.Kind.Name }

// Hates reports whether m can damage the object at all.
func (o *Object) Hates(m Material) bool {
	return o.Kind.Hates&m != 0
}

// Ignores reports whether the object is proof against m.
func (o *Object) Ignores(m Material) bool {
	return (o.Kind.Ignores|o.Proofed)&m != 0
}
