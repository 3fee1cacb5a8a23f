package producer

import (
	"context"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
	"github.com/radieske/trivia-roulette-platform/internal/shared/kafka"
	"github.com/radieske/trivia-roulette-platform/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer kafka.MessageWriter
	Topic  string
}

func NewKafkaPublisher(w kafka.MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic}
}

// PublishRoundSettled usa o user id como key: as rodadas de um usuário ficam ordenadas na partição
func (p *KafkaPublisher) PublishRoundSettled(ctx context.Context, rec domain.SettlementRecord) error {
	return kafka.WriteJSON(ctx, p.Writer, rec.UserID, events.FromRecord(rec))
}
