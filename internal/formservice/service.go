// Package formservice owns the single flat record the user edits and the
// load, edit, reset and export actions around it.
package formservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/contract"
)

// ResetPrompt is the question asked before clearing the form.
const ResetPrompt = "Weet je zeker dat je alle velden wilt legen?"

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// State is a point-in-time copy of the form.
type State struct {
	Record   contract.Record    `json:"record"`
	Metadata *contract.Metadata `json:"metadata,omitempty"`
	Source   string             `json:"source,omitempty"`
}

// Service holds the current record. The zero value is not usable; call New.
type Service struct {
	mu     sync.RWMutex
	record contract.Record
	meta   *contract.Metadata
	source string
}

// New returns a service holding an empty record.
func New() *Service {
	return &Service{record: contract.NewRecord()}
}

// Load parses data and replaces the whole form with it. On invalid JSON the
// form is left untouched.
func (s *Service) Load(_ context.Context, source string, data []byte) (*State, error) {
	record, meta, err := contract.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
	s.meta = meta
	s.source = source
	return s.snapshotLocked(), nil
}

// Set changes a single field. Unknown names yield ErrUnknownField.
func (s *Service) Set(_ context.Context, field contract.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Set(field, value)
}

// Reset clears the form after the confirmer approves. A refusal returns
// ErrNotConfirmed and keeps every value.
func (s *Service) Reset(ctx context.Context, c Confirmer) error {
	ok, err := c.Confirm(ctx, ResetPrompt)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if !ok {
		return apperr.ErrNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = contract.NewRecord()
	s.meta = nil
	s.source = ""
	return nil
}

// Snapshot returns a copy of the current form.
func (s *Service) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Export renders the current record as an indented canonical document.
func (s *Service) Export() ([]byte, error) {
	s.mu.RLock()
	doc := contract.Export(s.record)
	s.mu.RUnlock()

	out, err := doc.MarshalIndent()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return out, nil
}

func (s *Service) snapshotLocked() *State {
	st := &State{
		Record: s.record.Clone(),
		Source: s.source,
	}
	if s.meta != nil {
		m := *s.meta
		st.Metadata = &m
	}
	return st
}
