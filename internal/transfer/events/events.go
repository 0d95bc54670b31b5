// Package events publishes transfer lifecycle events for downstream consumers.
package events

import (
	"time"

	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
)

type Type string

const (
	TypeInitiated Type = "transfer.initiated"
	TypeCompleted Type = "transfer.completed"
	TypeCancelled Type = "transfer.cancelled"
)

// Event is the JSON record written to the transfer topic, keyed by slip id.
type Event struct {
	Type       Type          `json:"type"`
	SlipID     id.SlipID     `json:"slip_id"`
	HumanID    string        `json:"human_id"`
	ProductID  id.ProductID  `json:"product_id"`
	Quantity   int           `json:"quantity"`
	FromBranch id.BranchID   `json:"from_branch"`
	ToBranch   id.BranchID   `json:"to_branch"`
	Status     models.Status `json:"status"`
	ActorID    id.StaffID    `json:"actor_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func FromSlip(t Type, slip *models.Slip, actor id.StaffID, at time.Time) Event {
	return Event{
		Type:       t,
		SlipID:     slip.ID,
		HumanID:    slip.HumanID,
		ProductID:  slip.ProductID,
		Quantity:   slip.Quantity,
		FromBranch: slip.FromBranch,
		ToBranch:   slip.ToBranch,
		Status:     slip.Status,
		ActorID:    actor,
		OccurredAt: at,
	}
}
