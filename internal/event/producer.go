package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kobykotiv/printvisionbolt-sub000/internal/domain"
	pkgkafka "github.com/kobykotiv/printvisionbolt-sub000/pkg/kafka"
)

// Kafka topic constants for selection domain events.
const (
	TopicSelectionAdded   = "printvision.selection.added"
	TopicSelectionRemoved = "printvision.selection.removed"
)

// Aggregate type constant.
const AggregateTypeSelection = "selection"

// Source identifier for events originating from the blueprint service.
const SourceBlueprintService = "blueprint-service"

// SelectionAddedData is the payload for a selection.added event.
type SelectionAddedData struct {
	ID          string `json:"id"`
	ShopID      string `json:"shop_id"`
	ProviderID  string `json:"provider_id"`
	BlueprintID string `json:"blueprint_id"`
	Name        string `json:"name"`
	PrintAreas  int    `json:"print_areas"`
	Variants    int    `json:"variants"`
}

// SelectionRemovedData is the payload for a selection.removed event.
type SelectionRemovedData struct {
	ID          string `json:"id"`
	ShopID      string `json:"shop_id"`
	ProviderID  string `json:"provider_id"`
	BlueprintID string `json:"blueprint_id"`
}

// Producer publishes selection domain events to Kafka. The downstream
// product-sync pipeline consumes them.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the blueprint service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSelectionAdded publishes a selection.added event.
func (p *Producer) PublishSelectionAdded(ctx context.Context, item *domain.SelectionItem) error {
	data := SelectionAddedData{
		ID:          item.ID,
		ShopID:      item.ShopID,
		ProviderID:  item.ProviderID,
		BlueprintID: item.BlueprintID,
		Name:        item.Name,
		PrintAreas:  item.PrintAreas,
		Variants:    item.Variants,
	}

	event, err := pkgkafka.NewEvent(TopicSelectionAdded, item.ID, AggregateTypeSelection, SourceBlueprintService, data)
	if err != nil {
		return fmt.Errorf("create selection.added event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSelectionAdded, event); err != nil {
		return fmt.Errorf("publish selection.added event: %w", err)
	}

	p.logger.DebugContext(ctx, "published selection.added event",
		slog.String("selection_id", item.ID),
		slog.String("shop_id", item.ShopID),
	)

	return nil
}

// PublishSelectionRemoved publishes a selection.removed event.
func (p *Producer) PublishSelectionRemoved(ctx context.Context, item *domain.SelectionItem) error {
	data := SelectionRemovedData{
		ID:          item.ID,
		ShopID:      item.ShopID,
		ProviderID:  item.ProviderID,
		BlueprintID: item.BlueprintID,
	}

	event, err := pkgkafka.NewEvent(TopicSelectionRemoved, item.ID, AggregateTypeSelection, SourceBlueprintService, data)
	if err != nil {
		return fmt.Errorf("create selection.removed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSelectionRemoved, event); err != nil {
		return fmt.Errorf("publish selection.removed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published selection.removed event",
		slog.String("selection_id", item.ID),
		slog.String("shop_id", item.ShopID),
	)

	return nil
}
