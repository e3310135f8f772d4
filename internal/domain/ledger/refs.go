package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TargetKind identifies the kind of entity a payment is recorded against
type TargetKind string

const (
	TargetKindAsset       TargetKind = "asset"
	TargetKindSale        TargetKind = "sale"
	TargetKindProcurement TargetKind = "procurement"
	TargetKindExpense     TargetKind = "expense"
)

// IsValid checks if the target kind is valid
func (k TargetKind) IsValid() bool {
	switch k {
	case TargetKindAsset, TargetKindSale, TargetKindProcurement, TargetKindExpense:
		return true
	}
	return false
}

// String returns the string representation of TargetKind
func (k TargetKind) String() string {
	return string(k)
}

// TargetRef is a tagged reference to the entity a payment settles.
// Use sites switch exhaustively on Kind rather than resolving type strings
// dynamically.
type TargetRef struct {
	Kind TargetKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// NewTargetRef creates a validated target reference
func NewTargetRef(kind TargetKind, id uuid.UUID) (TargetRef, error) {
	if !kind.IsValid() {
		return TargetRef{}, fmt.Errorf("invalid target kind %q", kind)
	}
	if id == uuid.Nil {
		return TargetRef{}, fmt.Errorf("target id cannot be empty")
	}
	return TargetRef{Kind: kind, ID: id}, nil
}

// IsZero returns true for the zero reference
func (r TargetRef) IsZero() bool {
	return r.Kind == "" && r.ID == uuid.Nil
}

// String returns a human-readable representation, e.g. "sale/4f…"
func (r TargetRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}

// PartyKind identifies the counterparty side of an obligation
type PartyKind string

const (
	PartyKindClient PartyKind = "client" // receivable side
	PartyKindVendor PartyKind = "vendor" // payable side
)

// IsValid checks if the party kind is valid
func (k PartyKind) IsValid() bool {
	return k == PartyKindClient || k == PartyKindVendor
}

// String returns the string representation of PartyKind
func (k PartyKind) String() string {
	return string(k)
}

// PartyRef is a tagged reference to a payment's counterparty
type PartyRef struct {
	Kind PartyKind `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// NewPartyRef creates a validated party reference
func NewPartyRef(kind PartyKind, id uuid.UUID) (PartyRef, error) {
	if !kind.IsValid() {
		return PartyRef{}, fmt.Errorf("invalid party kind %q", kind)
	}
	if id == uuid.Nil {
		return PartyRef{}, fmt.Errorf("party id cannot be empty")
	}
	return PartyRef{Kind: kind, ID: id}, nil
}

// IsZero returns true for the zero reference
func (r PartyRef) IsZero() bool {
	return r.Kind == "" && r.ID == uuid.Nil
}

// String returns a human-readable representation, e.g. "vendor/9c…"
func (r PartyRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.ID)
}
