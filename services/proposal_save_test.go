package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	records map[string]map[string]any
	nextID  int
	failOn  string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]map[string]any{}}
}

func (m *memoryStore) Create(record map[string]any) (string, error) {
	if m.failOn == "create" {
		return "", errors.New("store offline")
	}
	m.nextID++
	id := fmt.Sprintf("rec%d", m.nextID)
	m.records[id] = record
	return id, nil
}

func (m *memoryStore) Update(id string, partial map[string]any) error {
	rec, ok := m.records[id]
	if !ok {
		return ErrProposalNotFound
	}
	for k, v := range partial {
		rec[k] = v
	}
	return nil
}

func (m *memoryStore) Delete(id string) error {
	delete(m.records, id)
	return nil
}

func (m *memoryStore) Get(id string) (*Proposal, error) {
	return nil, ErrProposalNotFound
}

func TestPrepareForSave_RefreshesDerivedFields(t *testing.T) {
	p := validCommercialProposal()
	p.Products[0].LineTotal = 999 // stale
	p.GrandTotal = 1

	snap, totals, err := PrepareForSave(p, nil)
	require.NoError(t, err)

	assert.Equal(t, 198.0, snap.Products[0].LineTotal)
	assert.Equal(t, 198.0, snap.GrandTotal)
	assert.Equal(t, 18.0, snap.TaxAmount)
	assert.True(t, totals.GrandTotal.Equal(dec("198")))

	assert.Equal(t, 999.0, p.Products[0].LineTotal, "in-memory model must not change")
	assert.Equal(t, 1.0, p.GrandTotal)
}

func TestPrepareForSave_Converges(t *testing.T) {
	p := validTechnicalProposal()
	p.RFQItems = append(p.RFQItems, TechnicalItem{ID: "r2", ItemNumber: 2, Description: "VALVE", Quantity: 2, UnitPrice: 30})

	first, _, err := PrepareForSave(p, nil)
	require.NoError(t, err)
	second, _, err := PrepareForSave(first, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 121.0, second.GrandTotal)
	assert.Equal(t, 0.0, second.TotalDiscount)
}

func TestPrepareForSave_DefaultsAndProfiles(t *testing.T) {
	p := validCommercialProposal()
	p.Status = ""
	p.Company = "Northwind"
	profiles := CompanyProfiles{"northwind": {Name: "Northwind Engineering"}}

	snap, _, err := PrepareForSave(p, profiles)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, snap.Status)
	assert.Equal(t, "Northwind Engineering", snap.CompanyDetails.Name)
}

func TestPrepareForSave_RejectsUnknownTemplate(t *testing.T) {
	p := validCommercialProposal()
	p.TemplateType = "memo"
	_, _, err := PrepareForSave(p, nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestSaveProposal_CreateThenUpdate(t *testing.T) {
	store := newMemoryStore()
	p := validCommercialProposal()

	saved, err := SaveProposal(store, p, nil)
	require.NoError(t, err)
	require.Equal(t, "rec1", saved.ID)
	assert.Empty(t, p.ID, "caller's model keeps its own identity until it adopts the snapshot")

	rec := store.records["rec1"]
	assert.Equal(t, 198.0, rec["grand_total"])
	assert.Equal(t, []TechnicalItem{}, rec["rfq_items"], "nil collections are stored as empty lists")

	saved.TaxRate = 20
	_, err = SaveProposal(store, saved, nil)
	require.NoError(t, err)
	assert.Equal(t, 216.0, store.records["rec1"]["grand_total"])
	assert.Len(t, store.records, 1)
}

func TestSaveProposal_PropagatesStoreError(t *testing.T) {
	store := newMemoryStore()
	store.failOn = "create"

	_, err := SaveProposal(store, validCommercialProposal(), nil)
	assert.EqualError(t, err, "store offline")
}

func TestCompactRecord(t *testing.T) {
	var nilSlice []CommercialItem
	var nilPtr *Proposal
	in := map[string]any{
		"a": "x",
		"b": nil,
		"c": nilSlice,
		"d": nilPtr,
		"e": 0,
		"f": []CommercialItem{},
	}

	out := CompactRecord(in)

	assert.Equal(t, map[string]any{"a": "x", "e": 0, "f": []CommercialItem{}}, out)
	assert.Len(t, in, 6)
}
