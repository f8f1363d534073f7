package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/starford/contractviewer/internal/apperr"
)

// wrapperKeys is the ordered fallback chain for the working subtree. The
// first key holding an object wins; alternatives are never merged.
var wrapperKeys = []string{"extracted_data", "contract_data", "data"}

// notesKey holds the free-text conditions written by Export.
const notesKey = "opmerkingen"

// namedConditions are the conditions members with a field of their own.
var namedConditions = map[string]struct{}{
	"huisdieren":   {},
	"onderverhuur": {},
}

type resolver func(sub node) string

type importRule struct {
	field   Field
	resolve resolver
}

func byPath(path string) resolver {
	return func(sub node) string {
		return sub.lookup(path).String()
	}
}

func firstOf(rs ...resolver) resolver {
	return func(sub node) string {
		for _, r := range rs {
			if v := r(sub); v != "" {
				return v
			}
		}
		return ""
	}
}

func primary(path, key string) resolver {
	return func(sub node) string {
		return resolveVariant(sub.lookup(path)).Primary(key)
	}
}

func secondary(path, key string) resolver {
	return func(sub node) string {
		return resolveVariant(sub.lookup(path)).Sub(key)
	}
}

func labelled(path string, pair LabelPair) resolver {
	return func(sub node) string {
		return pair.label(sub.lookup(path))
	}
}

func orLiteral(r resolver, literal string) resolver {
	return func(sub node) string {
		if v := r(sub); v != "" {
			return v
		}
		return literal
	}
}

func residual(path string) resolver {
	return func(sub node) string {
		return collectResidual(sub.lookup(path))
	}
}

var importRules = []importRule{
	{FieldDocumentType, byPath("document_type")},
	{FieldDatum, firstOf(byPath("datum"), byPath("datum_contract"))},

	{FieldVerhuurderNaam, primary("partijen.verhuurder", "naam")},
	{FieldVerhuurderAdres, secondary("partijen.verhuurder", "adres")},
	{FieldVerhuurderTelefoon, secondary("partijen.verhuurder", "telefoon")},
	{FieldVerhuurderEmail, secondary("partijen.verhuurder", "email")},
	{FieldHuurderNaam, primary("partijen.huurder", "naam")},
	{FieldHuurderAdres, secondary("partijen.huurder", "adres")},
	{FieldHuurderTelefoon, secondary("partijen.huurder", "telefoon")},
	{FieldHuurderEmail, secondary("partijen.huurder", "email")},

	{FieldPandAdres, firstOf(byPath("pand.adres"), byPath("onderwerp.adres"))},
	{FieldPandType, byPath("pand.type")},
	{FieldPandOppervlakte, byPath("pand.oppervlakte")},
	{FieldPandKamers, byPath("pand.aantal_kamers")},
	{FieldPandVerdieping, byPath("pand.verdieping")},
	{FieldPandEPC, primary("pand.epc", "energielabel")},

	{FieldHuurprijs, byPath("financieel.huurprijs")},
	{FieldWaarborg, primary("financieel.waarborg", "bedrag")},
	{FieldWaarborgLocatie, secondary("financieel.waarborg", "locatie")},
	{FieldKosten, byPath("financieel.kosten")},
	{FieldIndexatie, labelled("financieel.indexatie", YesNo)},

	{FieldIngangsdatum, byPath("periodes.ingangsdatum")},
	{FieldEinddatum, orLiteral(byPath("periodes.einddatum"), IndefiniteDuration)},
	{FieldDuur, byPath("periodes.duur")},
	{FieldOpzegtermijn, byPath("periodes.opzegtermijn")},

	{FieldHuisdieren, labelled("voorwaarden.huisdieren", Allowed)},
	{FieldOnderverhuur, labelled("voorwaarden.onderverhuur", Allowed)},
	{FieldVoorwaardenExtra, residual("voorwaarden")},

	{FieldToepasselijkRecht, byPath("juridisch.toepasselijk_recht")},
	{FieldRegistratie, labelled("juridisch.registratie", YesNo)},
}

// Import maps a producer document onto a flat record. It never fails:
// text that is not JSON at all yields the default record.
func Import(data []byte) (Record, *Metadata) {
	doc := parseNode(data)
	sub := workingSubtree(doc)

	r := NewRecord()
	for _, rule := range importRules {
		r[rule.field] = rule.resolve(sub)
	}
	r[FieldSummary] = doc.child("summary").String()
	if r[FieldSummary] == "" {
		r[FieldSummary] = sub.child("summary").String()
	}
	return r, readMetadata(doc, sub)
}

// Parse rejects text that is not valid JSON and imports the rest.
func Parse(data []byte) (Record, *Metadata, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperr.ErrInvalidJSON, err.Error())
	}
	r, meta := Import(data)
	return r, meta, nil
}

func workingSubtree(doc node) node {
	for _, key := range wrapperKeys {
		if n := doc.child(key); n.isObject() {
			return n
		}
	}
	return doc
}

// residualValue renders one unnamed condition. A literal null is spelled
// out so the key does not read as an empty condition.
func residualValue(n node) string {
	if n.kind == jsonparser.Null {
		return "null"
	}
	return n.String()
}

// collectResidual renders the unnamed members of the conditions object as
// "key: value" lines in document order. A string notes member is the text a
// previous export wrote and leads the result verbatim.
func collectResidual(conditions node) string {
	if !conditions.isObject() {
		return ""
	}
	var lines []string
	if notes := conditions.child(notesKey); notes.kind == jsonparser.String {
		if s := notes.String(); s != "" {
			lines = append(lines, s)
		}
	}
	conditions.each(func(key string, value node) {
		if _, named := namedConditions[key]; named {
			return
		}
		if key == notesKey && value.kind == jsonparser.String {
			return
		}
		lines = append(lines, key+": "+residualValue(value))
	})
	return strings.Join(lines, "\n")
}
