package broker

import (
	"context"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one inbound message. Returning an error only logs it;
// the subscription stays up.
type Handler func(topic string, msg mqtt.Message) error

// Consumer subscribes to a single topic and dispatches to a handler.
type Consumer struct {
	client  mqtt.Client
	topic   string
	qos     byte
	handler Handler
}

func NewConsumer(client mqtt.Client, topic string, qos byte, handler Handler) *Consumer {
	return &Consumer{client: client, topic: topic, qos: qos, handler: handler}
}

// Run subscribes and blocks until ctx is done, then unsubscribes.
func (c *Consumer) Run(ctx context.Context) error {
	token := c.client.Subscribe(c.topic, c.qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := c.handler(c.topic, msg); err != nil {
			log.Printf("broker: handler error on %s: %v", c.topic, err)
		}
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("broker: subscribed to %s (qos %d)", c.topic, c.qos)

	<-ctx.Done()
	c.client.Unsubscribe(c.topic).Wait()
	return nil
}
