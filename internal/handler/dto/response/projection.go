package response

import (
	"time"

	"saddleview/internal/infra/projection"
)

type RefreshResponse struct {
	Projection string `json:"projection"`
	Outcome    string `json:"outcome"`
}

type ProjectionStatusResponse struct {
	Name        string     `json:"name"`
	Built       bool       `json:"built"`
	RefreshedAt *time.Time `json:"refreshedAt,omitempty"`
}

func FromRefreshOutcome(name string, outcome projection.Outcome) *RefreshResponse {
	return &RefreshResponse{Projection: name, Outcome: string(outcome)}
}

func FromProjectionStatus(name string, st projection.Status) *ProjectionStatusResponse {
	resp := &ProjectionStatusResponse{Name: name, Built: st.Built}
	if st.Built {
		at := st.RefreshedAt
		resp.RefreshedAt = &at
	}
	return resp
}
