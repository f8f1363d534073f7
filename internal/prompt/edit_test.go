package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/contract"
	"github.com/starford/contractviewer/internal/formservice"
)

// scriptedDriver answers prompts whose message contains a key of answers;
// everything else keeps its default.
type scriptedDriver struct {
	answers   map[string]string
	confirm   bool
	failOn    string
	asked     []string
	textAreas []string
}

func (d *scriptedDriver) answer(msg, def string) (string, error) {
	d.asked = append(d.asked, msg)
	if d.failOn != "" && strings.Contains(msg, d.failOn) {
		return "", ErrAborted
	}
	for k, v := range d.answers {
		if strings.Contains(msg, k) {
			return v, nil
		}
	}
	return def, nil
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return d.answer(cfg.Message, cfg.Default)
}

func (d *scriptedDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	d.textAreas = append(d.textAreas, cfg.Message)
	return d.answer(cfg.Message, cfg.Default)
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.confirm, nil
}

func TestEditRecord_UpdatesAnsweredFields(t *testing.T) {
	svc := formservice.New()
	ctx := context.Background()
	if _, err := svc.Load(ctx, "a.json", []byte(`{"data": {"document_type": "Huurovereenkomst"}, "summary": "x"}`)); err != nil {
		t.Fatal(err)
	}

	d := &scriptedDriver{answers: map[string]string{
		"Huurder - Naam":                 "Jan Peeters",
		"Financiële Gegevens - Huurprijs": "850",
	}}
	n, err := EditRecord(ctx, svc, d)
	if err != nil {
		t.Fatalf("EditRecord: %v", err)
	}
	if n != 2 {
		t.Errorf("changed = %d, want 2", n)
	}

	rec := svc.Snapshot().Record
	want := map[contract.Field]string{
		contract.FieldHuurderNaam:  "Jan Peeters",
		contract.FieldHuurprijs:    "850",
		contract.FieldDocumentType: "Huurovereenkomst",
		contract.FieldSummary:      "x",
	}
	for f, v := range want {
		if got := rec.Get(f); got != v {
			t.Errorf("%s = %q, want %q", f, got, v)
		}
	}
}

func TestEditRecord_SkipsReadOnlyAndUsesTextArea(t *testing.T) {
	d := &scriptedDriver{}
	if _, err := EditRecord(context.Background(), formservice.New(), d); err != nil {
		t.Fatal(err)
	}

	editable := 0
	for _, s := range contract.Sections {
		for _, f := range s.Fields {
			if !f.ReadOnly {
				editable++
			}
		}
	}
	if len(d.asked) != editable {
		t.Errorf("asked %d prompts, want %d", len(d.asked), editable)
	}
	for _, msg := range d.asked {
		if strings.HasPrefix(msg, "Samenvatting") {
			t.Errorf("read-only field prompted: %q", msg)
		}
	}
	want := []string{"Voorwaarden - Opmerkingen / Bijzondere Voorwaarden:"}
	if diff := cmp.Diff(want, d.textAreas); diff != "" {
		t.Errorf("text areas (-want +got):\n%s", diff)
	}
}

func TestEditRecord_AbortKeepsEarlierChanges(t *testing.T) {
	svc := formservice.New()
	d := &scriptedDriver{
		answers: map[string]string{"Document Informatie - Datum": "01-01-2024"},
		failOn:  "Verhuurder - Naam",
	}
	n, err := EditRecord(context.Background(), svc, d)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	if n != 1 {
		t.Errorf("changed = %d, want 1", n)
	}
	if got := svc.Snapshot().Record.Get(contract.FieldDatum); got != "01-01-2024" {
		t.Errorf("datum = %q", got)
	}
}

func TestConfirmer(t *testing.T) {
	svc := formservice.New()
	ctx := context.Background()
	if err := svc.Set(ctx, contract.FieldDuur, "9 jaar"); err != nil {
		t.Fatal(err)
	}

	refuse := &scriptedDriver{confirm: false}
	if err := svc.Reset(ctx, Confirmer(refuse)); !errors.Is(err, apperr.ErrNotConfirmed) {
		t.Fatalf("err = %v, want ErrNotConfirmed", err)
	}
	if diff := cmp.Diff([]string{formservice.ResetPrompt}, refuse.asked); diff != "" {
		t.Errorf("prompt (-want +got):\n%s", diff)
	}

	if err := svc.Reset(ctx, Confirmer(&scriptedDriver{confirm: true})); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := svc.Snapshot().Record.Get(contract.FieldDuur); got != "" {
		t.Errorf("duur = %q after reset", got)
	}
}

func TestEditRecord_ClearValueEmptiesField(t *testing.T) {
	svc := formservice.New()
	ctx := context.Background()
	if err := svc.Set(ctx, contract.FieldPandEPC, "C"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Set(ctx, contract.FieldVoorwaardenExtra, "geen huisdieren"); err != nil {
		t.Fatal(err)
	}

	d := &scriptedDriver{answers: map[string]string{
		"EPC Label":      ClearValue,
		"Bijzondere":     " -\n",
		"Huurder - Naam": "-x",
	}}
	n, err := EditRecord(ctx, svc, d)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("changed = %d, want 3", n)
	}
	rec := svc.Snapshot().Record
	want := map[contract.Field]string{
		contract.FieldPandEPC:          "",
		contract.FieldVoorwaardenExtra: "",
		contract.FieldHuurderNaam:      "-x",
	}
	for f, v := range want {
		if got := rec.Get(f); got != v {
			t.Errorf("%s = %q, want %q", f, got, v)
		}
	}
}

func TestEditRecord_ClearOnEmptyFieldIsNoChange(t *testing.T) {
	d := &scriptedDriver{answers: map[string]string{"EPC Label": ClearValue}}
	n, err := EditRecord(context.Background(), formservice.New(), d)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("changed = %d, want 0", n)
	}
}

func TestResetForm(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		confirm     bool
		wantCleared bool
		wantDuur    string
	}{
		{"declined keeps values", false, false, "9 jaar"},
		{"confirmed clears", true, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := formservice.New()
			if err := svc.Set(ctx, contract.FieldDuur, "9 jaar"); err != nil {
				t.Fatal(err)
			}
			cleared, err := ResetForm(ctx, svc, &scriptedDriver{confirm: tt.confirm})
			if err != nil {
				t.Fatalf("ResetForm: %v", err)
			}
			if cleared != tt.wantCleared {
				t.Errorf("cleared = %v, want %v", cleared, tt.wantCleared)
			}
			if got := svc.Snapshot().Record.Get(contract.FieldDuur); got != tt.wantDuur {
				t.Errorf("duur = %q, want %q", got, tt.wantDuur)
			}
		})
	}
}

func TestSurveyDriver_CancelledContext(t *testing.T) {
	d := NewSurveyDriver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Input(ctx, InputConfig{Message: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Input err = %v", err)
	}
	if _, err := d.Confirm(ctx, ConfirmConfig{Message: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Confirm err = %v", err)
	}
	if _, err := d.TextArea(ctx, TextAreaConfig{Message: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("TextArea err = %v", err)
	}
}
