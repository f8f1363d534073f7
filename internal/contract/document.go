package contract

import (
	"bytes"
	"encoding/json"
)

// ExportFilename is the name offered for downloaded exports.
const ExportFilename = "contract_data.json"

// Document is the canonical nested shape written on export. Every group is
// an object and every leaf is present, empty or not.
type Document struct {
	ContractData ContractData `json:"contract_data"`
	Summary      string       `json:"summary"`
}

// ContractData is the wrapped contract body.
type ContractData struct {
	DocumentType string      `json:"document_type"`
	Datum        string      `json:"datum"`
	Partijen     Partijen    `json:"partijen"`
	Pand         Pand        `json:"pand"`
	Financieel   Financieel  `json:"financieel"`
	Periodes     Periodes    `json:"periodes"`
	Voorwaarden  Voorwaarden `json:"voorwaarden"`
	Juridisch    Juridisch   `json:"juridisch"`
}

// Partijen holds both contracting parties.
type Partijen struct {
	Verhuurder Party `json:"verhuurder"`
	Huurder    Party `json:"huurder"`
}

// Party is a landlord or tenant contact block.
type Party struct {
	Naam     string `json:"naam"`
	Adres    string `json:"adres"`
	Telefoon string `json:"telefoon"`
	Email    string `json:"email"`
}

// Pand describes the rented property.
type Pand struct {
	Adres        string      `json:"adres"`
	Type         string      `json:"type"`
	Oppervlakte  string      `json:"oppervlakte"`
	AantalKamers string      `json:"aantal_kamers"`
	Verdieping   string      `json:"verdieping"`
	EPC          EnergyLabel `json:"epc"`
}

// EnergyLabel is the structured form of the EPC certificate.
type EnergyLabel struct {
	Energielabel string `json:"energielabel"`
}

// Financieel holds rent, deposit and indexation.
type Financieel struct {
	Huurprijs string  `json:"huurprijs"`
	Waarborg  Deposit `json:"waarborg"`
	Kosten    string  `json:"kosten"`
	Indexatie string  `json:"indexatie"`
}

// Deposit is the rental guarantee and where it is held.
type Deposit struct {
	Bedrag  string `json:"bedrag"`
	Locatie string `json:"locatie"`
}

// Periodes holds the contract dates.
type Periodes struct {
	Ingangsdatum string `json:"ingangsdatum"`
	Einddatum    string `json:"einddatum"`
	Duur         string `json:"duur"`
	Opzegtermijn string `json:"opzegtermijn"`
}

// Voorwaarden holds the conditions. Opmerkingen carries every condition
// without a field of its own as free text.
type Voorwaarden struct {
	Huisdieren   string `json:"huisdieren"`
	Onderverhuur string `json:"onderverhuur"`
	Opmerkingen  string `json:"opmerkingen"`
}

// Juridisch holds the legal clauses.
type Juridisch struct {
	ToepasselijkRecht string `json:"toepasselijk_recht"`
	Registratie       string `json:"registratie"`
}

// Export re-nests a flat record into the canonical document.
func Export(r Record) Document {
	return Document{
		ContractData: ContractData{
			DocumentType: r.Get(FieldDocumentType),
			Datum:        r.Get(FieldDatum),
			Partijen: Partijen{
				Verhuurder: Party{
					Naam:     r.Get(FieldVerhuurderNaam),
					Adres:    r.Get(FieldVerhuurderAdres),
					Telefoon: r.Get(FieldVerhuurderTelefoon),
					Email:    r.Get(FieldVerhuurderEmail),
				},
				Huurder: Party{
					Naam:     r.Get(FieldHuurderNaam),
					Adres:    r.Get(FieldHuurderAdres),
					Telefoon: r.Get(FieldHuurderTelefoon),
					Email:    r.Get(FieldHuurderEmail),
				},
			},
			Pand: Pand{
				Adres:        r.Get(FieldPandAdres),
				Type:         r.Get(FieldPandType),
				Oppervlakte:  r.Get(FieldPandOppervlakte),
				AantalKamers: r.Get(FieldPandKamers),
				Verdieping:   r.Get(FieldPandVerdieping),
				EPC:          EnergyLabel{Energielabel: r.Get(FieldPandEPC)},
			},
			Financieel: Financieel{
				Huurprijs: r.Get(FieldHuurprijs),
				Waarborg: Deposit{
					Bedrag:  r.Get(FieldWaarborg),
					Locatie: r.Get(FieldWaarborgLocatie),
				},
				Kosten:    r.Get(FieldKosten),
				Indexatie: r.Get(FieldIndexatie),
			},
			Periodes: Periodes{
				Ingangsdatum: r.Get(FieldIngangsdatum),
				Einddatum:    r.Get(FieldEinddatum),
				Duur:         r.Get(FieldDuur),
				Opzegtermijn: r.Get(FieldOpzegtermijn),
			},
			Voorwaarden: Voorwaarden{
				Huisdieren:   r.Get(FieldHuisdieren),
				Onderverhuur: r.Get(FieldOnderverhuur),
				Opmerkingen:  r.Get(FieldVoorwaardenExtra),
			},
			Juridisch: Juridisch{
				ToepasselijkRecht: r.Get(FieldToepasselijkRecht),
				Registratie:       r.Get(FieldRegistratie),
			},
		},
		Summary: r.Get(FieldSummary),
	}
}

// MarshalIndent encodes the document with two-space indentation and without
// HTML escaping, ready to be written as an export file.
func (d Document) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
