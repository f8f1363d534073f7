package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/contract"
	"github.com/starford/contractviewer/internal/formservice"
)

// Confirmer asks reset confirmations through d.
func Confirmer(d Driver) formservice.Confirmer {
	return formservice.ConfirmFunc(func(ctx context.Context, message string) (bool, error) {
		return d.Confirm(ctx, ConfirmConfig{Message: message})
	})
}

// ClearValue is the answer that empties a field. Survey substitutes the
// default for a blank answer, so a blank cannot clear a filled field.
const ClearValue = "-"

const clearHelp = "Typ " + ClearValue + " om het veld te legen."

// ResetForm asks to clear the form and reports whether it was cleared. A
// refusal keeps every value and is not an error.
func ResetForm(ctx context.Context, svc *formservice.Service, d Driver) (bool, error) {
	err := svc.Reset(ctx, Confirmer(d))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrNotConfirmed):
		return false, nil
	default:
		return false, err
	}
}

func helpText(placeholder string) string {
	if placeholder == "" {
		return clearHelp
	}
	return placeholder + ". " + clearHelp
}

// EditRecord walks the form section by section and asks for every editable
// field, offering the current value as the default. Answering ClearValue
// empties the field. Read-only fields are skipped. It returns the number of
// fields that changed.
func EditRecord(ctx context.Context, svc *formservice.Service, d Driver) (int, error) {
	current := svc.Snapshot().Record
	changed := 0

	for _, section := range contract.Sections {
		for _, spec := range section.Fields {
			if spec.ReadOnly {
				continue
			}
			old := current.Get(spec.Name)
			msg := fmt.Sprintf("%s - %s:", section.Title, spec.Label)
			help := helpText(spec.Placeholder)

			var (
				value string
				err   error
			)
			if spec.Multiline {
				value, err = d.TextArea(ctx, TextAreaConfig{Message: msg, Default: old, Help: help})
			} else {
				value, err = d.Input(ctx, InputConfig{Message: msg, Default: old, Help: help})
			}
			if err != nil {
				return changed, fmt.Errorf("edit %s: %w", spec.Name, err)
			}
			if strings.TrimSpace(value) == ClearValue {
				value = ""
			}
			if value == old {
				continue
			}
			if err := svc.Set(ctx, spec.Name, value); err != nil {
				return changed, err
			}
			changed++
		}
	}
	return changed, nil
}
