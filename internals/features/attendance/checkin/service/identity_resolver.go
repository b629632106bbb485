// internals/features/attendance/checkin/service/identity_resolver.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type ResolutionKind string

const (
	ResolutionIdentified   ResolutionKind = "identified"
	ResolutionUnidentified ResolutionKind = "unidentified"
	ResolutionInvalid      ResolutionKind = "invalid"
)

// Resolution: hasil pemetaan kredensial ke identitas.
type Resolution struct {
	Kind       ResolutionKind `json:"kind"`
	MemberID   *uuid.UUID     `json:"member_id,omitempty"`
	MemberName string         `json:"member_name,omitempty"`

	// Unidentified: token mentah dikembalikan supaya caller bisa
	// menawarkan enrollment — tidak pernah otomatis jadi visitor baru.
	RawToken string `json:"raw_token,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// ResolveBiometric: exact-match lookup token biometrik, tanpa fuzzy match.
// Manual lookup bukan urusan resolver ini — staff memilih kandidat secara
// eksplisit dari hasil pencarian nama.
func (s *CheckinService) ResolveBiometric(ctx context.Context, tenantID uuid.UUID, rawToken string) (*Resolution, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return &Resolution{Kind: ResolutionInvalid, Reason: "Token biometrik kosong"}, nil
	}

	m, err := s.store.FindMemberByBiometricToken(ctx, tenantID, token)
	if err == ErrNotFound {
		return &Resolution{Kind: ResolutionUnidentified, RawToken: token}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Resolution{
		Kind:       ResolutionIdentified,
		MemberID:   &m.MemberID,
		MemberName: m.DisplayName(),
	}, nil
}
