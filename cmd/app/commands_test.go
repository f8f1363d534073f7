package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/contract"
)

func TestDecodeRecordFile(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"flat json", `{"huurprijs": "850", "pand_epc": "C"}`},
		{"wrapped json", `{"record": {"huurprijs": "850", "pand_epc": "C"}}`},
		{"flat yaml", "huurprijs: 850\npand_epc: C\n"},
		{"wrapped yaml", "record:\n  huurprijs: \"850\"\n  pand_epc: C\nmetadata:\n  score: 90\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := decodeRecordFile([]byte(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if r.Get(contract.FieldHuurprijs) != "850" || r.Get(contract.FieldPandEPC) != "C" {
				t.Errorf("record = %v", r.Map())
			}
			if len(r) != len(contract.Fields) {
				t.Errorf("record has %d fields, want %d", len(r), len(contract.Fields))
			}
		})
	}
}

func TestDecodeRecordFile_UnknownField(t *testing.T) {
	_, err := decodeRecordFile([]byte(`{"bogus": "x"}`))
	if !errors.Is(err, apperr.ErrUnknownField) {
		t.Fatalf("err = %v", err)
	}
}

func TestEncodeImported(t *testing.T) {
	record, meta := contract.Import([]byte(`{"data": {"datum": "01-03-2024"}, "confidence": {"score": 97}}`))
	in := importedRecord{Record: record.Map(), Metadata: meta, Source: "doc.json"}

	var buf bytes.Buffer
	if err := encodeImported(&buf, formatJSON, in); err != nil {
		t.Fatal(err)
	}
	var out importedRecord
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Record["datum"] != "01-03-2024" || out.Metadata.Quality() != contract.QualityGood {
		t.Errorf("decoded %+v", out)
	}

	buf.Reset()
	if err := encodeImported(&buf, formatYAML, in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "01-03-2024") || !strings.Contains(buf.String(), "score: 97") {
		t.Errorf("yaml = %s", buf.String())
	}

	if err := encodeImported(&buf, "xml", in); err == nil {
		t.Error("expected error for unknown format")
	}
}
