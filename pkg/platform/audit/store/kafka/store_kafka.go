// Package kafka publishes audit events to a Kafka topic so downstream
// compliance consumers own retention, not this service.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"campushire/pkg/platform/audit"
)

const DefaultTopic = "campushire.audit"

// Store implements audit.Store by producing one JSON record per event.
// Records are keyed by candidate ID so per-candidate ordering holds within a
// partition.
type Store struct {
	client *kgo.Client
	topic  string
}

type Option func(*Store)

func WithTopic(topic string) Option {
	return func(s *Store) {
		s.topic = topic
	}
}

// New dials the brokers and returns a Kafka-backed audit store.
func New(brokers []string, opts ...Option) (*Store, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	s := &Store{client: client, topic: DefaultTopic}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// recordPayload is the wire shape consumed by the compliance pipeline.
type recordPayload struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	CandidateID string `json:"candidate_id,omitempty"`
	RoleID      string `json:"role_id,omitempty"`
	ChallengeID string `json:"challenge_id,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload := recordPayload{
		ID:        uuid.NewString(),
		Action:    event.Action,
		Detail:    event.Detail,
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
	}
	if !event.CandidateID.IsNil() {
		payload.CandidateID = event.CandidateID.String()
	}
	if !event.RoleID.IsNil() {
		payload.RoleID = event.RoleID.String()
	}
	if !event.ChallengeID.IsNil() {
		payload.ChallengeID = event.ChallengeID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(payload.CandidateID),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.client.Close()
}
