package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ProposalStore is the persistence collaborator. Record maps must already be
// compacted; see CompactRecord.
type ProposalStore interface {
	Create(record map[string]any) (string, error)
	Update(id string, partial map[string]any) error
	Delete(id string) error
	Get(id string) (*Proposal, error)
}

// RecordStore keeps proposals in the PocketBase proposals collection.
type RecordStore struct {
	app core.App
}

func NewRecordStore(app core.App) *RecordStore {
	return &RecordStore{app: app}
}

func (s *RecordStore) Create(record map[string]any) (string, error) {
	col, err := s.app.FindCollectionByNameOrId("proposals")
	if err != nil {
		return "", fmt.Errorf("proposals collection: %w", err)
	}
	r := core.NewRecord(col)
	for k, v := range record {
		r.Set(k, v)
	}
	if err := s.app.Save(r); err != nil {
		return "", fmt.Errorf("create proposal: %w", err)
	}
	return r.Id, nil
}

func (s *RecordStore) Update(id string, partial map[string]any) error {
	r, err := s.find(id)
	if err != nil {
		return err
	}
	for k, v := range partial {
		r.Set(k, v)
	}
	if err := s.app.Save(r); err != nil {
		return fmt.Errorf("update proposal %s: %w", id, err)
	}
	return nil
}

func (s *RecordStore) Delete(id string) error {
	r, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.app.Delete(r); err != nil {
		return fmt.Errorf("delete proposal %s: %w", id, err)
	}
	return nil
}

func (s *RecordStore) Get(id string) (*Proposal, error) {
	r, err := s.find(id)
	if err != nil {
		return nil, err
	}
	p, err := ProposalFromRecord(r)
	if err != nil {
		return nil, fmt.Errorf("read proposal %s: %w", id, err)
	}
	return p, nil
}

func (s *RecordStore) find(id string) (*core.Record, error) {
	r, err := s.app.FindRecordById("proposals", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProposalNotFound, id)
	}
	return r, nil
}
