// Package contract maps extracted lease-contract documents to a flat,
// editable record and back.
//
// Producer documents are untrusted and inconsistently shaped. Import never
// fails: any missing or wrongly typed subtree degrades to the default value of
// the fields it would have populated. Export always emits the full canonical
// shape.
package contract

import (
	"fmt"

	"github.com/starford/contractviewer/internal/apperr"
)

// Field names a single entry of the flat record.
type Field string

const (
	FieldDocumentType       Field = "document_type"
	FieldDatum              Field = "datum"
	FieldVerhuurderNaam     Field = "verhuurder_naam"
	FieldVerhuurderAdres    Field = "verhuurder_adres"
	FieldVerhuurderTelefoon Field = "verhuurder_telefoon"
	FieldVerhuurderEmail    Field = "verhuurder_email"
	FieldHuurderNaam        Field = "huurder_naam"
	FieldHuurderAdres       Field = "huurder_adres"
	FieldHuurderTelefoon    Field = "huurder_telefoon"
	FieldHuurderEmail       Field = "huurder_email"
	FieldPandAdres          Field = "pand_adres"
	FieldPandType           Field = "pand_type"
	FieldPandOppervlakte    Field = "pand_oppervlakte"
	FieldPandKamers         Field = "pand_kamers"
	FieldPandVerdieping     Field = "pand_verdieping"
	FieldPandEPC            Field = "pand_epc"
	FieldHuurprijs          Field = "huurprijs"
	FieldWaarborg           Field = "waarborg"
	FieldWaarborgLocatie    Field = "waarborg_locatie"
	FieldKosten             Field = "kosten"
	FieldIndexatie          Field = "indexatie"
	FieldIngangsdatum       Field = "ingangsdatum"
	FieldEinddatum          Field = "einddatum"
	FieldDuur               Field = "duur"
	FieldOpzegtermijn       Field = "opzegtermijn"
	FieldHuisdieren         Field = "huisdieren"
	FieldOnderverhuur       Field = "onderverhuur"
	FieldVoorwaardenExtra   Field = "voorwaarden_extra"
	FieldToepasselijkRecht  Field = "toepasselijk_recht"
	FieldRegistratie        Field = "registratie"
	FieldSummary            Field = "summary"
)

// Fields lists every known field in form order.
var Fields = []Field{
	FieldDocumentType,
	FieldDatum,
	FieldVerhuurderNaam,
	FieldVerhuurderAdres,
	FieldVerhuurderTelefoon,
	FieldVerhuurderEmail,
	FieldHuurderNaam,
	FieldHuurderAdres,
	FieldHuurderTelefoon,
	FieldHuurderEmail,
	FieldPandAdres,
	FieldPandType,
	FieldPandOppervlakte,
	FieldPandKamers,
	FieldPandVerdieping,
	FieldPandEPC,
	FieldHuurprijs,
	FieldWaarborg,
	FieldWaarborgLocatie,
	FieldKosten,
	FieldIndexatie,
	FieldIngangsdatum,
	FieldEinddatum,
	FieldDuur,
	FieldOpzegtermijn,
	FieldHuisdieren,
	FieldOnderverhuur,
	FieldVoorwaardenExtra,
	FieldToepasselijkRecht,
	FieldRegistratie,
	FieldSummary,
}

var knownFields = func() map[Field]struct{} {
	m := make(map[Field]struct{}, len(Fields))
	for _, f := range Fields {
		m[f] = struct{}{}
	}
	return m
}()

// IsKnown reports whether f is one of the record's fields.
func IsKnown(f Field) bool {
	_, ok := knownFields[f]
	return ok
}

// Record is the flat form state. A Record built with NewRecord, Import or
// FromMap always holds every known field; absence is the empty string.
type Record map[Field]string

// NewRecord returns a record with every field set to "".
func NewRecord() Record {
	r := make(Record, len(Fields))
	for _, f := range Fields {
		r[f] = ""
	}
	return r
}

// FromMap builds a record from loosely keyed values. Missing fields default
// to "" and unknown keys are rejected.
func FromMap(m map[string]string) (Record, error) {
	r := NewRecord()
	for k, v := range m {
		if err := r.Set(Field(k), v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Get returns the value of f, or "" when unset.
func (r Record) Get(f Field) string {
	return r[f]
}

// Set assigns a value to a known field.
func (r Record) Set(f Field, value string) error {
	if !IsKnown(f) {
		return fmt.Errorf("%w: %q", apperr.ErrUnknownField, string(f))
	}
	r[f] = value
	return nil
}

// Clone returns an independent copy that still holds every known field.
func (r Record) Clone() Record {
	out := NewRecord()
	for f, v := range r {
		out[f] = v
	}
	return out
}

// Map returns the record keyed by plain strings.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, f := range Fields {
		out[string(f)] = r[f]
	}
	return out
}
