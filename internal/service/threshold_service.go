package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/septivank/fleet-admin-api/internal/db"
	"github.com/septivank/fleet-admin-api/internal/logging"
	"github.com/septivank/fleet-admin-api/internal/metrics"
	"github.com/septivank/fleet-admin-api/internal/mq"
	"github.com/septivank/fleet-admin-api/internal/validator"
	"github.com/septivank/fleet-admin-api/tools/civiltime"
	"go.uber.org/zap"
)

// listExcludedStatuses hides inactive and deleted thresholds from the list
var listExcludedStatuses = []int{db.ThresholdInactive, db.ThresholdDeleted}

// CreateThresholdRequest is the flat form posted by the admin console.
// Every field is optional.
type CreateThresholdRequest struct {
	CustomerID *string      `json:"customer_id"`
	Title      *string      `json:"title"`
	Status     *db.IntValue `json:"status"`
	CreatedBy  *string      `json:"userUUID"`

	Brake       *db.Number `json:"brake"`
	Tailgating  *db.Number `json:"tailgating"`
	RashDriving *db.Number `json:"rash_driving"`
	SleepAlert  *db.Number `json:"sleep_alert"`
	OverSpeed   *db.Number `json:"over_speed"`
	GreenZone   *db.Number `json:"green_zone"`

	MinimumDistance     *db.Number `json:"minimum_distance"`
	MinimumDriverRating *db.Number `json:"minimum_driver_rating"`

	TTCDifferencePercentage *db.Number `json:"ttc_difference_percentage"`
	TotalDistance           *db.Number `json:"total_distance"`
	Duration                *db.Number `json:"duration"`
}

// UpdateThresholdRequest replaces every field of a threshold
type UpdateThresholdRequest struct {
	UserUUID        *string                 `json:"user_uuid"`
	Title           *string                 `json:"title"`
	Score           *db.ScoreRule           `json:"score"`
	Incentive       *db.IncentiveRule       `json:"incentive"`
	Accident        *db.AccidentRule        `json:"accident"`
	LeadershipBoard *db.LeadershipBoardRule `json:"leadership_board"`
	Halt            *db.HaltRule            `json:"halt"`
	Status          *db.IntValue            `json:"status"`
	ModifiedBy      *string                 `json:"userUUID"`
}

func (r *CreateThresholdRequest) UnmarshalJSON(data []byte) error {
	type plain CreateThresholdRequest
	return db.DecodeForm(data, (*plain)(r))
}

func (r *UpdateThresholdRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateThresholdRequest
	return db.DecodeForm(data, (*plain)(r))
}

// ThresholdService implements the analytics threshold operations
type ThresholdService struct {
	store     ThresholdStore
	publisher EventPublisher
	clock     *civiltime.Clock
	newID     func() string
	logger    *zap.Logger
}

// NewThresholdService creates a new threshold service
func NewThresholdService(store ThresholdStore, publisher EventPublisher, clock *civiltime.Clock, logger *zap.Logger) *ThresholdService {
	return &ThresholdService{
		store:     store,
		publisher: publisher,
		clock:     clock,
		newID:     uuid.NewString,
		logger:    logger,
	}
}

// Create stores a new threshold built from the flat request
func (s *ThresholdService) Create(ctx context.Context, req CreateThresholdRequest) (*db.Threshold, error) {
	t := &db.Threshold{
		ThresholdUUID: s.newID(),
		UserUUID:      deref(req.CustomerID),
		Title:         deref(req.Title),
		Score: db.ScoreRule{
			Brake:       req.Brake,
			Tailgating:  req.Tailgating,
			RashDriving: req.RashDriving,
			SleepAlert:  req.SleepAlert,
			OverSpeed:   req.OverSpeed,
			GreenZone:   req.GreenZone,
		},
		Incentive: db.IncentiveRule{
			MinimumDistance:     req.MinimumDistance,
			MinimumDriverRating: req.MinimumDriverRating,
		},
		Accident:        db.AccidentRule{TTCDifferencePercentage: req.TTCDifferencePercentage},
		LeadershipBoard: db.LeadershipBoardRule{TotalDistance: req.TotalDistance},
		Halt:            db.HaltRule{Duration: req.Duration},
		Status:          db.IntOr(req.Status, db.ThresholdActive),
		CreatedAt:       s.clock.Now(),
		CreatedBy:       deref(req.CreatedBy),
	}

	if err := s.store.CreateThreshold(ctx, t); err != nil {
		return nil, s.storeFailed(ctx, "create_threshold", err)
	}

	logging.FromContext(ctx, s.logger).Info("threshold created",
		zap.String("threshold_uuid", t.ThresholdUUID),
		zap.String("user_uuid", t.UserUUID),
	)
	s.publish(ctx, mq.EventCreated, t.ThresholdUUID, t.CreatedBy, t.CreatedAt)

	return t, nil
}

// List returns thresholds that are neither inactive nor deleted
func (s *ThresholdService) List(ctx context.Context) ([]db.ThresholdWithCustomer, error) {
	list, err := s.store.ListThresholds(ctx, listExcludedStatuses)
	if err != nil {
		return nil, s.storeFailed(ctx, "list_thresholds", err)
	}
	return list, nil
}

// Update rewrites the threshold identified by thresholdUUID. The request is
// rejected before touching the store when a required field is missing.
func (s *ThresholdService) Update(ctx context.Context, thresholdUUID string, req UpdateThresholdRequest) (*db.Threshold, error) {
	result := validator.Validate(
		validator.String("user_uuid", req.UserUUID),
		validator.String("title", req.Title),
		validator.Object("score", req.Score),
		validator.Object("incentive", req.Incentive),
		validator.Object("accident", req.Accident),
		validator.Object("leadership_board", req.LeadershipBoard),
		validator.Object("halt", req.Halt),
	)
	if !result.IsValid {
		return nil, &ValidationError{Fields: result.MissingFields}
	}

	modifiedAt := s.clock.Now()
	modifiedBy := deref(req.ModifiedBy)
	t := &db.Threshold{
		ThresholdUUID:   thresholdUUID,
		UserUUID:        *req.UserUUID,
		Title:           *req.Title,
		Score:           *req.Score,
		Incentive:       *req.Incentive,
		Accident:        *req.Accident,
		LeadershipBoard: *req.LeadershipBoard,
		Halt:            *req.Halt,
		Status:          db.IntOr(req.Status, db.ThresholdActive),
		ModifiedAt:      &modifiedAt,
		ModifiedBy:      &modifiedBy,
	}

	if err := s.store.UpdateThreshold(ctx, t); err != nil {
		return nil, s.storeFailed(ctx, "update_threshold", err)
	}

	s.publish(ctx, mq.EventUpdated, thresholdUUID, modifiedBy, modifiedAt)
	return t, nil
}

// Delete marks a threshold deleted. Repeating it succeeds.
func (s *ThresholdService) Delete(ctx context.Context, thresholdUUID, actor string) error {
	modifiedAt := s.clock.Now()
	if err := s.store.SetThresholdStatus(ctx, thresholdUUID, db.ThresholdDeleted, modifiedAt, actor); err != nil {
		return s.storeFailed(ctx, "delete_threshold", err)
	}

	s.publish(ctx, mq.EventDeleted, thresholdUUID, actor, modifiedAt)
	return nil
}

// Get returns an active threshold
func (s *ThresholdService) Get(ctx context.Context, thresholdUUID string) (*db.Threshold, error) {
	t, err := s.store.GetThreshold(ctx, thresholdUUID, db.ThresholdActive)
	if err != nil {
		return nil, s.storeFailed(ctx, "get_threshold", err)
	}
	return t, nil
}

func (s *ThresholdService) publish(ctx context.Context, eventType, id, actor, at string) {
	publishEvent(ctx, s.publisher, s.logger, mq.AdminEvent{
		EventType:  eventType,
		Resource:   mq.ResourceThreshold,
		ResourceID: id,
		Actor:      actor,
		OccurredAt: at,
	})
}

func (s *ThresholdService) storeFailed(ctx context.Context, op string, err error) error {
	return storeFailed(ctx, s.logger, op, err)
}

// publishEvent sends event and logs a failure without returning it
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, event mq.AdminEvent) {
	if err := publisher.PublishAdminEvent(ctx, event); err != nil {
		logging.FromContext(ctx, logger).Error("failed to publish admin event",
			zap.Error(err),
			zap.String("routing_key", event.RoutingKey()),
			zap.String("resource_id", event.ResourceID),
		)
	}
}

// storeFailed passes domain errors through and counts and logs everything else
func storeFailed(ctx context.Context, logger *zap.Logger, op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateSIM) || errors.Is(err, ErrDuplicateDeviceID) {
		return err
	}
	metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	logging.FromContext(ctx, logger).Error("store operation failed", zap.String("operation", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
