package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/events"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/observability"
	"github.com/edudesk/admin-api/internal/repository"
)

const (
	defaultFeedLimit = 15
	maxFeedLimit     = 100
)

// ActivityActor identifies the admin performing an audited action.
type ActivityActor struct {
	ID   uint
	Name string
}

// ActivityEntry captures the details required to persist one audit record.
type ActivityEntry struct {
	Actor      ActivityActor
	ActionType string
	TargetType string
	TargetID   *uint
	TargetName string
	Details    map[string]interface{}
}

// ActivityRecorder records audit entries as a side effect of admin
// operations. Recording is best-effort: failures must never propagate to the
// operation that triggered them.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// ActivityService records audit entries and serves the activity feed.
type ActivityService interface {
	ActivityRecorder
	Feed(ctx context.Context, limit int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	publisher *events.ActivityPublisher
	logger    zerolog.Logger
}

// NewActivityService constructs the activity log service. The publisher is
// optional; pass nil when no event sink is configured.
func NewActivityService(repo repository.ActivityLogRepository, publisher *events.ActivityPublisher, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	if entry.Actor.ID == 0 || entry.Actor.Name == "" {
		s.logger.Warn().Str("action", entry.ActionType).Msg("skipping activity record: actor not populated")
		return
	}

	model := models.ActivityLog{
		ActorID:    entry.Actor.ID,
		ActorName:  entry.Actor.Name,
		ActionType: entry.ActionType,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		TargetName: entry.TargetName,
		Details:    jsonMap(entry.Details),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.ActionType).Msg("failed to persist activity log")
		observability.ActivityDrops().Inc()
		return
	}

	s.publisher.Publish(dto.NewActivityResponse(model))
}

func (s *activityService) Feed(ctx context.Context, limit int) ([]dto.ActivityResponse, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}
	return responses, nil
}

func jsonMap(details map[string]interface{}) datatypes.JSONMap {
	data := datatypes.JSONMap{}
	for key, value := range details {
		data[key] = value
	}
	return data
}
