// Package rabbitmq публикует события фронтенда в RabbitMQ для сервиса уведомлений.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// RoutingPaymentReturned — ключ события о возврате со шлюза.
const RoutingPaymentReturned = "payment.returned"

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует события в один exchange. Нулевой канал отключает публикацию.
type Publisher struct {
	ch       Channel
	exchange string
	log      *slog.Logger
}

// NewPublisher создаёт Publisher. ch может быть nil, если RabbitMQ не настроен.
func NewPublisher(ch Channel, exchange string, log *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		log:      log,
	}
}

// Publish отправляет событие. Ошибка публикации логируется и возвращается,
// но не должна прерывать обработку запроса.
func (p *Publisher) Publish(routingKey string, event any) error {
	if p == nil || p.ch == nil {
		return nil
	}
	if err := PublishMessage(p.ch, p.exchange, routingKey, event); err != nil {
		p.log.Warn("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
		return err
	}
	return nil
}
