package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"rail-ticketing/internal/config"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/models"
)

// Producer streams ticket lifecycle events to Kafka, one topic per event
// kind. The ticket id keys the message so a consumer sees one ticket's
// events in order.
type Producer struct {
	Writer *kafka.Writer
	Topics config.TopicConfig
	Logger *logger.Logger
}

func NewProducer(brokers []string, topics config.TopicConfig, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
	})
	return &Producer{Writer: writer, Topics: topics, Logger: log}
}

func (p *Producer) PublishTicketIssued(ticket models.Ticket) error {
	return p.publish(p.Topics.TicketIssued, ticket)
}

func (p *Producer) PublishTicketBooked(ticket models.Ticket) error {
	return p.publish(p.Topics.TicketBooked, ticket)
}

func (p *Producer) PublishTicketCancelled(ticket models.Ticket) error {
	return p.publish(p.Topics.TicketCancelled, ticket)
}

func (p *Producer) publish(topic string, ticket models.Ticket) error {
	msgBytes, err := json.Marshal(ticket)
	if err != nil {
		return err
	}

	if p.Logger != nil {
		p.Logger.LogKafka("PUBLISH", topic, ticket.TicketNumber)
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(strconv.Itoa(ticket.ID)),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// MockProducer logs events instead of writing to a broker. Used when Kafka
// runs in mock mode and in tests.
type MockProducer struct {
	Logger *logger.Logger
}

func (m *MockProducer) PublishTicketIssued(ticket models.Ticket) error {
	return m.log("ticket.issued", ticket)
}

func (m *MockProducer) PublishTicketBooked(ticket models.Ticket) error {
	return m.log("ticket.booked", ticket)
}

func (m *MockProducer) PublishTicketCancelled(ticket models.Ticket) error {
	return m.log("ticket.cancelled", ticket)
}

func (m *MockProducer) log(event string, ticket models.Ticket) error {
	if m.Logger != nil {
		m.Logger.LogKafka("MOCK", event, ticket.TicketNumber)
	}
	return nil
}
