// internals/features/gatherings/gathering/dto/gathering_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"gerejaku_backend/internals/features/gatherings/gathering/model"
)

type CreateGatheringRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=120"`
	Type       string     `json:"type" validate:"omitempty,max=40"`
	Location   *string    `json:"location" validate:"omitempty,max=160"`
	Recurrence string     `json:"recurrence" validate:"omitempty,oneof=once weekly monthly"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
}

func (r CreateGatheringRequest) ToModel(tenantID uuid.UUID) model.GatheringModel {
	typ := r.Type
	if typ == "" {
		typ = "service"
	}
	rec := model.GatheringRecurrence(r.Recurrence)
	if rec == "" {
		rec = model.RecurrenceWeekly
	}
	return model.GatheringModel{
		GatheringTenantID:   tenantID,
		GatheringName:       r.Name,
		GatheringType:       typ,
		GatheringLocation:   r.Location,
		GatheringRecurrence: rec,
		GatheringStartsAt:   r.StartsAt,
		GatheringEndsAt:     r.EndsAt,
		GatheringIsActive:   true,
	}
}

type UpdateGatheringRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Type       *string    `json:"type" validate:"omitempty,max=40"`
	Location   *string    `json:"location" validate:"omitempty,max=160"`
	Recurrence *string    `json:"recurrence" validate:"omitempty,oneof=once weekly monthly"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	IsActive   *bool      `json:"is_active"`
}

type GatheringResponse struct {
	GatheringID     string     `json:"gathering_id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Location        *string    `json:"location,omitempty"`
	Recurrence      string     `json:"recurrence"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
	IsActive        bool       `json:"is_active"`
	ExternalEnabled bool       `json:"external_enabled"`
	CreatedAt       time.Time  `json:"created_at"`
}

func FromGatheringModel(g model.GatheringModel) GatheringResponse {
	return GatheringResponse{
		GatheringID:     g.GatheringID.String(),
		Name:            g.GatheringName,
		Type:            g.GatheringType,
		Location:        g.GatheringLocation,
		Recurrence:      string(g.GatheringRecurrence),
		StartsAt:        g.GatheringStartsAt,
		EndsAt:          g.GatheringEndsAt,
		IsActive:        g.GatheringIsActive,
		ExternalEnabled: g.GatheringExternalEnabled,
		CreatedAt:       g.GatheringCreatedAt,
	}
}

func ToGatheringResponseList(gs []model.GatheringModel) []GatheringResponse {
	out := make([]GatheringResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, FromGatheringModel(g))
	}
	return out
}

// ExternalCheckinCredentials hanya muncul sekali di respons enable; PIN dan
// token tidak pernah ikut di respons GET biasa.
type ExternalCheckinCredentials struct {
	GatheringID string    `json:"gathering_id"`
	URLToken    string    `json:"url_token"`
	CheckinURL  string    `json:"checkin_url"`
	PIN         string    `json:"pin"`
	EnabledAt   time.Time `json:"enabled_at"`
}
