package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"rail-ticketing/internal/logger"
)

// EnsureTopicsExist creates the lifecycle topics if the broker does not have
// them yet. Creation failures are reported but do not stop the others.
func EnsureTopicsExist(brokers []string, topics []string, log *logger.Logger) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", controller.Host)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		topicConfigs := []kafka.TopicConfig{
			{
				Topic:             topic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			},
		}

		err = controllerConn.CreateTopics(topicConfigs...)
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			if log != nil {
				log.Warn("KAFKA", "Error creating topic "+topic+": "+err.Error())
			}
		} else if log != nil {
			log.Info("KAFKA", "Created topic: "+topic)
		}
	}

	// Give the broker a moment to settle newly created topics.
	time.Sleep(1 * time.Second)
	return nil
}
