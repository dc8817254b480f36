package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
	Topic   string
}

// Publisher is a thin wrapper around segmentio/kafka-go Writer.
type Publisher struct {
	w *kafka.Writer
}

func NewPublisherFromConfig(c Config) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{w: w}
}

// RatesRefreshed is the event payload published after a successful refresh.
type RatesRefreshed struct {
	Base      string    `json:"base"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (p *Publisher) PublishRatesRefreshed(ctx context.Context, ev RatesRefreshed) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Base),
		Value: b,
	})
}

func (p *Publisher) Close() error { return p.w.Close() }
