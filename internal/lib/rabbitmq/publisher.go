// Package rabbitmq публикует события изменения прав доступа в очередь
// уведомлений. Публикация опциональна: при отсутствии настроенного
// подключения сервис работает без неё.
package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// EntitlementQueue — очередь, которую слушает воркер почтовых уведомлений.
const EntitlementQueue = "entitlement.events"

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// Connect открывает подключение, объявляет очередь событий и возвращает
// публикатора вместе с функцией закрытия.
func Connect(url string) (*Publisher, func(), error) {
	const op = "rabbitmq.Connect"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := ch.QueueDeclare(EntitlementQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	closer := func() {
		_ = ch.Close()
		_ = conn.Close()
	}
	return &Publisher{ch: ch}, closer, nil
}

// Publish сериализует сообщение в JSON и кладёт его в очередь событий.
func (p *Publisher) Publish(message any) error {
	const op = "rabbitmq.Publish"

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		"",
		EntitlementQueue,
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
