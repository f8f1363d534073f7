package contract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExport_FullShapeForEmptyRecord(t *testing.T) {
	out, err := Export(NewRecord()).MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	body, ok := doc["contract_data"].(map[string]any)
	if !ok {
		t.Fatalf("contract_data missing in %s", out)
	}
	for _, group := range []string{"partijen", "pand", "financieel", "periodes", "voorwaarden", "juridisch"} {
		if _, ok := body[group].(map[string]any); !ok {
			t.Errorf("group %s is not an object", group)
		}
	}
	landlord := body["partijen"].(map[string]any)["verhuurder"].(map[string]any)
	for _, key := range []string{"naam", "adres", "telefoon", "email"} {
		if v, ok := landlord[key]; !ok || v != "" {
			t.Errorf("verhuurder.%s = %v (present %v), want empty string", key, v, ok)
		}
	}
	if v, ok := doc["summary"]; !ok || v != "" {
		t.Errorf("summary = %v, want empty string", v)
	}
}

func TestExport_IndexationScenario(t *testing.T) {
	r := mustImport(t, `{"data": {"financieel": {"indexatie": true}}}`)
	if got := r.Get(FieldIndexatie); got != YesNo.True {
		t.Fatalf("indexatie = %q, want %q", got, YesNo.True)
	}

	out, err := Export(r).MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		ContractData struct {
			Financieel struct {
				Indexatie string `json:"indexatie"`
			} `json:"financieel"`
		} `json:"contract_data"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ContractData.Financieel.Indexatie != "Ja" {
		t.Errorf("exported indexatie = %q, want Ja", doc.ContractData.Financieel.Indexatie)
	}
}

func TestExport_KeyOrderIsCanonical(t *testing.T) {
	out, err := Export(NewRecord()).MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	order := []string{`"contract_data"`, `"document_type"`, `"datum"`, `"partijen"`, `"pand"`, `"financieel"`, `"periodes"`, `"voorwaarden"`, `"juridisch"`, `"summary"`}
	last := -1
	for _, key := range order {
		i := strings.Index(s, key)
		if i < 0 {
			t.Fatalf("key %s missing", key)
		}
		if i < last {
			t.Errorf("key %s out of order", key)
		}
		last = i
	}
}

func TestExport_NoHTMLEscaping(t *testing.T) {
	r := NewRecord()
	_ = r.Set(FieldVoorwaardenExtra, "tuin: <gedeeld> & verzorgd")
	out, err := Export(r).MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "<gedeeld> & verzorgd") {
		t.Errorf("export escaped HTML: %s", out)
	}
}

func TestRoundTrip_Idempotent(t *testing.T) {
	docs := []string{
		`{}`,
		`{"data": {"financieel": {"indexatie": true}}}`,
		`{
			"extracted_data": {
				"document_type": "Huurovereenkomst",
				"datum_contract": "01-01-2024",
				"partijen": {"verhuurder": "Jan", "huurder": {"naam": "Els", "adres": "Markt 1", "telefoon": 123}},
				"onderwerp": {"adres": "Kerkstraat 5"},
				"pand": {"type": "Appartement", "epc": {"energielabel": "C"}, "aantal_kamers": 2},
				"financieel": {"huurprijs": 950, "waarborg": {"bedrag": 1900, "locatie": "Bank"}, "indexatie": false},
				"periodes": {"ingangsdatum": "01-02-2024", "duur": "3 jaar"},
				"voorwaarden": {"huisdieren": true, "onderverhuur": "Nee", "tuin": "gedeeld", "rook": false, "opmerkingen": "Sleutels bij buur"},
				"juridisch": {"toepasselijk_recht": "Belgisch recht", "registratie": true}
			},
			"summary": "Samenvatting",
			"confidence": {"score": 92}
		}`,
		`{"voorwaarden": {"x": "regel 1\nregel 2", "opmerkingen": null}, "summary": 7}`,
		`{"contract_data": {"partijen": "onbekend", "pand": "Kerkstraat 1", "periodes": {"einddatum": "31-12-2030"}}}`,
	}
	for _, doc := range docs {
		first := mustImport(t, doc)
		out, err := Export(first).MarshalIndent()
		if err != nil {
			t.Fatal(err)
		}
		second := mustImport(t, string(out))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip changed record (-first +second):\n%s", diff)
		}
		out2, err := Export(second).MarshalIndent()
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != string(out2) {
			t.Errorf("re-export differs:\n%s\n---\n%s", out, out2)
		}
	}
}
