package dto

import (
	"time"

	"github.com/edudesk/admin-api/internal/models"
)

// ActivityResponse serializes one audit trail entry for the activity feed.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorName  string                 `json:"actor_name"`
	ActionType string                 `json:"action_type"`
	TargetType string                 `json:"target_type"`
	TargetID   *uint                  `json:"target_id"`
	TargetName string                 `json:"target_name"`
	Details    map[string]interface{} `json:"details"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityResponse converts an activity log model into a DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	details := map[string]interface{}{}
	for key, value := range entry.Details {
		details[key] = value
	}

	return ActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		ActionType: entry.ActionType,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		TargetName: entry.TargetName,
		Details:    details,
		CreatedAt:  entry.CreatedAt,
	}
}
