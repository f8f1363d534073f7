package contract

import "github.com/buger/jsonparser"

// Variant is a leaf concept that producers emit either as a bare scalar
// (the landlord's name, the deposit amount) or as an object with named
// sub-properties. It is resolved once, at import, and never re-inspected.
type Variant struct {
	structured bool
	object     node
	scalar     string
}

// resolveVariant treats arrays like objects: a list where a name or an
// amount was expected fills no field.
func resolveVariant(n node) Variant {
	if n.isObject() || n.kind == jsonparser.Array {
		return Variant{structured: true, object: n}
	}
	return Variant{scalar: n.String()}
}

// Structured reports whether the raw value was an object or an array.
func (v Variant) Structured() bool {
	return v.structured
}

// Sub returns a sub-property of a structured value, "" for scalars.
func (v Variant) Sub(path string) string {
	if !v.structured {
		return ""
	}
	return v.object.lookup(path).String()
}

// Primary returns the sub-property a bare scalar stands in for.
func (v Variant) Primary(path string) string {
	if v.structured {
		return v.Sub(path)
	}
	return v.scalar
}

// LabelPair is the fixed text shown for a literal JSON true or false.
type LabelPair struct {
	True  string
	False string
}

var (
	// YesNo labels indexation and registration.
	YesNo = LabelPair{True: "Ja", False: "Nee"}
	// Allowed labels pets and subletting.
	Allowed = LabelPair{True: "Toegestaan", False: "Niet toegestaan"}
)

// label maps a literal boolean to the pair; anything else is stringified.
func (p LabelPair) label(n node) string {
	if b, ok := n.boolean(); ok {
		if b {
			return p.True
		}
		return p.False
	}
	return n.String()
}

// IndefiniteDuration replaces an empty end date.
const IndefiniteDuration = "Onbepaalde duur"
