package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/honeynil/player-service/internal/infrastructure/kafka"
	"github.com/honeynil/player-service/internal/infrastructure/observability"
	"github.com/honeynil/player-service/internal/models"
	"github.com/honeynil/player-service/internal/repository"
	pkgerrors "github.com/honeynil/player-service/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Page selects one zero-based page of a sorted listing.
type Page struct {
	Number int
	Size   int
	Order  models.PlayerOrder
}

type PlayerService interface {
	List(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error)
	ListPage(ctx context.Context, filter models.PlayerFilter, page Page) ([]*models.Player, error)
	Count(ctx context.Context, filter models.PlayerFilter) (int, error)
	Create(ctx context.Context, input models.PlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id string) (*models.Player, error)
	Update(ctx context.Context, id string, input models.PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id string) error
}

type playerService struct {
	repo      repository.PlayerRepository
	publisher kafka.EventPublisher
	now       func() time.Time
}

func NewPlayerService(repo repository.PlayerRepository, publisher kafka.EventPublisher) *playerService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &playerService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *playerService) List(ctx context.Context, filter models.PlayerFilter) ([]*models.Player, error) {
	ctx, span := otel.Tracer("player-service").Start(ctx, "List")
	defer span.End()

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load players")
		observability.WithContext(ctx).Error("failed to load players", "error", err)
		return nil, err
	}

	result := make([]*models.Player, 0, len(all))
	for _, p := range all {
		if filter.Matches(p) {
			result = append(result, p)
		}
	}
	span.SetAttributes(attribute.Int("players.total", len(all)), attribute.Int("players.matched", len(result)))
	return result, nil
}

func (s *playerService) ListPage(ctx context.Context, filter models.PlayerFilter, page Page) ([]*models.Player, error) {
	players, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return SortAndPage(players, page.Number, page.Size, page.Order), nil
}

func (s *playerService) Count(ctx context.Context, filter models.PlayerFilter) (int, error) {
	players, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(players), nil
}

// SortAndPage sorts a copy of players ascending by order and returns page
// pageNumber of size pageSize. Equal keys keep their input order. A page past
// the end, a negative page number or a non-positive size give an empty page.
func SortAndPage(players []*models.Player, pageNumber, pageSize int, order models.PlayerOrder) []*models.Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, order.Compare)

	// compare by page count so a huge pageNumber cannot overflow the offset
	if pageNumber < 0 || pageSize <= 0 || len(sorted) == 0 || pageNumber > (len(sorted)-1)/pageSize {
		return []*models.Player{}
	}
	from := pageNumber * pageSize
	to := from + min(pageSize, len(sorted)-from)
	return sorted[from:to]
}

func (s *playerService) Create(ctx context.Context, input models.PlayerInput) (*models.Player, error) {
	ctx, span := otel.Tracer("player-service").Start(ctx, "Create")
	defer span.End()

	player, err := input.Build()
	if err != nil {
		span.SetStatus(codes.Error, "invalid player")
		observability.WithContext(ctx).Warn("rejected player creation", "error", err)
		return nil, err
	}

	if err := s.repo.Save(ctx, player); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save player")
		observability.WithContext(ctx).Error("failed to create player", "name", player.Name, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("player_id", player.ID))
	observability.WithContext(ctx).Info("player created", "player_id", player.ID, "name", player.Name, "level", player.Level)
	s.publish(ctx, models.EventPlayerCreated, player.ID, player)
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id string) (*models.Player, error) {
	ctx, span := otel.Tracer("player-service").Start(ctx, "GetByID")
	defer span.End()

	playerID, err := ParseID(id)
	if err != nil {
		span.SetStatus(codes.Error, "invalid id")
		return nil, err
	}
	span.SetAttributes(attribute.Int64("player_id", playerID))

	player, err := s.repo.FindByID(ctx, playerID)
	if err != nil {
		if !stderrors.Is(err, pkgerrors.ErrPlayerNotFound) {
			span.RecordError(err)
			observability.WithContext(ctx).Error("failed to get player", "player_id", playerID, "error", err)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return player, nil
}

func (s *playerService) Update(ctx context.Context, id string, input models.PlayerInput) (*models.Player, error) {
	ctx, span := otel.Tracer("player-service").Start(ctx, "Update")
	defer span.End()

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	player, err := input.Merge(existing).Build()
	if err != nil {
		span.SetStatus(codes.Error, "invalid player")
		observability.WithContext(ctx).Warn("rejected player update", "player_id", existing.ID, "error", err)
		return nil, err
	}
	player.ID = existing.ID

	if err := s.repo.Save(ctx, player); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save player")
		observability.WithContext(ctx).Error("failed to update player", "player_id", player.ID, "error", err)
		return nil, err
	}

	observability.WithContext(ctx).Info("player updated", "player_id", player.ID, "level", player.Level)
	s.publish(ctx, models.EventPlayerUpdated, player.ID, player)
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("player-service").Start(ctx, "Delete")
	defer span.End()

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete player")
		observability.WithContext(ctx).Error("failed to delete player", "player_id", existing.ID, "error", err)
		return err
	}

	observability.WithContext(ctx).Info("player deleted", "player_id", existing.ID)
	s.publish(ctx, models.EventPlayerDeleted, existing.ID, nil)
	return nil
}

// publish never fails the caller: the store already holds the change.
func (s *playerService) publish(ctx context.Context, eventType models.PlayerEventType, playerID int64, player *models.Player) {
	event := models.PlayerEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		PlayerID:   playerID,
		Player:     player,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		observability.WithContext(ctx).Error("failed to publish player event", "event_type", eventType, "player_id", playerID, "error", err)
	}
}

// ParseID parses a positive base-10 player id.
func ParseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid player id %q", pkgerrors.ErrBadRequest, id)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%w: player id must be positive, got %d", pkgerrors.ErrBadRequest, parsed)
	}
	return parsed, nil
}
