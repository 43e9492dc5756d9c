package queue

import (
    "encoding/json"
    "fmt"

    "github.com/sirupsen/logrus"
    "github.com/streadway/amqp"
)

// AMQPQueue publishes and consumes JSON payloads over RabbitMQ. Queues are
// declared durable on first use.
type AMQPQueue struct {
    conn *amqp.Connection
    ch   *amqp.Channel
    Log  *logrus.Logger
}

func DialAMQP(url string, log *logrus.Logger) (*AMQPQueue, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, fmt.Errorf("connecting to RabbitMQ: %w", err)
    }

    ch, err := conn.Channel()
    if err != nil {
        conn.Close()
        return nil, fmt.Errorf("opening RabbitMQ channel: %w", err)
    }

    if log == nil {
        log = logrus.New()
    }
    return &AMQPQueue{conn: conn, ch: ch, Log: log}, nil
}

func (q *AMQPQueue) Close() {
    q.ch.Close()
    q.conn.Close()
}

func (q *AMQPQueue) declare(topic string) error {
    _, err := q.ch.QueueDeclare(
        topic, // name
        true,  // durable
        false, // delete when unused
        false, // exclusive
        false, // no-wait
        nil,   // arguments
    )
    return err
}

// Publish marshals the payload to JSON and sends it to the named queue.
func (q *AMQPQueue) Publish(topic string, payload any) error {
    if err := q.declare(topic); err != nil {
        return fmt.Errorf("declaring queue %s: %w", topic, err)
    }

    body, err := json.Marshal(payload)
    if err != nil {
        return fmt.Errorf("marshaling payload: %w", err)
    }

    return q.ch.Publish(
        "",    // exchange
        topic, // routing key
        false, // mandatory
        false, // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            Body:         body,
        },
    )
}

// maxDeliveryRetries caps redeliveries of a failed message.
const maxDeliveryRetries = 3

// nextRetry reads the delivery's retry header and reports the attempt number
// a redelivery would carry, plus whether the cap still allows one.
func nextRetry(headers amqp.Table) (int32, bool) {
    var count int32
    if v, ok := headers["x-retry-count"].(int32); ok {
        count = v
    }
    return count + 1, count < maxDeliveryRetries
}

// Subscribe consumes the named queue and hands each raw JSON body to the
// handler. A failed delivery is republished with an incremented
// x-retry-count header; after three failed attempts it is dropped.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
    if err := q.declare(topic); err != nil {
        return fmt.Errorf("declaring queue %s: %w", topic, err)
    }

    msgs, err := q.ch.Consume(
        topic,
        "",    // consumer tag
        false, // autoAck off for reliability
        false,
        false,
        false,
        nil,
    )
    if err != nil {
        return fmt.Errorf("registering consumer for %s: %w", topic, err)
    }

    go func() {
        for d := range msgs {
            err := handler(d.Body)
            if err == nil {
                d.Ack(false)
                continue
            }

            attempt, retry := nextRetry(d.Headers)
            if !retry {
                q.Log.WithFields(logrus.Fields{
                    "topic": topic,
                    "error": err,
                }).Error("delivery permanently failed, dropping")
                d.Ack(false)
                continue
            }

            q.Log.WithFields(logrus.Fields{
                "topic":   topic,
                "attempt": attempt,
                "error":   err,
            }).Warn("delivery failed, requeueing")

            pub := amqp.Publishing{
                ContentType:  "application/json",
                DeliveryMode: amqp.Persistent,
                Headers:      amqp.Table{"x-retry-count": attempt},
                Body:         d.Body,
            }
            if pubErr := q.ch.Publish("", topic, false, false, pub); pubErr != nil {
                q.Log.WithFields(logrus.Fields{
                    "topic": topic,
                    "error": pubErr,
                }).Error("requeue publish failed")
                d.Nack(false, true) // let the broker redeliver as-is
                continue
            }
            d.Ack(false)
        }
    }()

    return nil
}

var _ Queue = (*AMQPQueue)(nil)
