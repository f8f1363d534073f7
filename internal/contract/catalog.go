package contract

// FieldSpec describes how a field is presented.
type FieldSpec struct {
	Name        Field  `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Multiline   bool   `json:"multiline,omitempty"`
	ReadOnly    bool   `json:"read_only,omitempty"`
}

// Section is a titled group of fields on the form and the printout.
type Section struct {
	Title  string      `json:"title"`
	Fields []FieldSpec `json:"fields"`
}

// Sections is the form layout. Every field appears exactly once.
var Sections = []Section{
	{
		Title: "Document Informatie",
		Fields: []FieldSpec{
			{Name: FieldDocumentType, Label: "Document Type", Placeholder: "Bijv. Huurovereenkomst"},
			{Name: FieldDatum, Label: "Datum Contract", Placeholder: "Bijv. 01-01-2024"},
		},
	},
	{
		Title: "Verhuurder",
		Fields: []FieldSpec{
			{Name: FieldVerhuurderNaam, Label: "Naam"},
			{Name: FieldVerhuurderAdres, Label: "Adres"},
			{Name: FieldVerhuurderTelefoon, Label: "Telefoon"},
			{Name: FieldVerhuurderEmail, Label: "Email"},
		},
	},
	{
		Title: "Huurder",
		Fields: []FieldSpec{
			{Name: FieldHuurderNaam, Label: "Naam"},
			{Name: FieldHuurderAdres, Label: "Adres"},
			{Name: FieldHuurderTelefoon, Label: "Telefoon"},
			{Name: FieldHuurderEmail, Label: "Email"},
		},
	},
	{
		Title: "Pand Informatie",
		Fields: []FieldSpec{
			{Name: FieldPandAdres, Label: "Adres"},
			{Name: FieldPandType, Label: "Type", Placeholder: "Bijv. Appartement, Huis"},
			{Name: FieldPandOppervlakte, Label: "Oppervlakte (m²)"},
			{Name: FieldPandKamers, Label: "Aantal Kamers"},
			{Name: FieldPandVerdieping, Label: "Verdieping"},
			{Name: FieldPandEPC, Label: "EPC Label"},
		},
	},
	{
		Title: "Financiële Gegevens",
		Fields: []FieldSpec{
			{Name: FieldHuurprijs, Label: "Huurprijs (€/maand)"},
			{Name: FieldWaarborg, Label: "Waarborg (€)"},
			{Name: FieldWaarborgLocatie, Label: "Waarborg Locatie", Placeholder: "Bijv. Geblokkeerde rekening"},
			{Name: FieldKosten, Label: "Kosten (€/maand)"},
			{Name: FieldIndexatie, Label: "Indexatie", Placeholder: "Ja/Nee"},
		},
	},
	{
		Title: "Periodes & Data",
		Fields: []FieldSpec{
			{Name: FieldIngangsdatum, Label: "Ingangsdatum"},
			{Name: FieldEinddatum, Label: "Einddatum"},
			{Name: FieldDuur, Label: "Duur", Placeholder: "Bijv. 9 jaar"},
			{Name: FieldOpzegtermijn, Label: "Opzegtermijn"},
		},
	},
	{
		Title: "Voorwaarden",
		Fields: []FieldSpec{
			{Name: FieldHuisdieren, Label: "Huisdieren", Placeholder: "Toegestaan/Niet toegestaan"},
			{Name: FieldOnderverhuur, Label: "Onderverhuur", Placeholder: "Toegestaan/Niet toegestaan"},
			{Name: FieldVoorwaardenExtra, Label: "Opmerkingen / Bijzondere Voorwaarden", Multiline: true},
		},
	},
	{
		Title: "Juridisch",
		Fields: []FieldSpec{
			{Name: FieldToepasselijkRecht, Label: "Toepasselijk Recht"},
			{Name: FieldRegistratie, Label: "Registratie", Placeholder: "Ja/Nee"},
		},
	},
	{
		Title: "Samenvatting",
		Fields: []FieldSpec{
			{Name: FieldSummary, Label: "Samenvatting", Multiline: true, ReadOnly: true},
		},
	},
}

// Spec returns the presentation of f.
func Spec(f Field) (FieldSpec, bool) {
	for _, s := range Sections {
		for _, fs := range s.Fields {
			if fs.Name == f {
				return fs, true
			}
		}
	}
	return FieldSpec{}, false
}
