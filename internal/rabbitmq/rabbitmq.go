package rabbitmq

import (
	"context"
	"fmt"
	"nudgebot/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const delay = 3 // reconnect after delay seconds

// Connection amqp.Connection wrapper that redials on unexpected close.
type Connection struct {
	conn *amqp.Connection
	log  logging.Logger
	lock sync.RWMutex
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	connection := &Connection{conn: conn, log: log}
	go connection.watch(url)
	return connection, nil
}

func (c *Connection) watch(url string) {
	for {
		reason, ok := <-c.current().NotifyClose(make(chan *amqp.Error, 1))
		if !ok {
			c.log.Info(context.Background(), "RabbitMQ connection closed.")
			return
		}

		c.log.Warning(context.Background(), "RabbitMQ connection closed.", logging.Entry("reason", reason.Error()))
		for {
			time.Sleep(delay * time.Second)

			conn, err := amqp.Dial(url)
			if err == nil {
				c.lock.Lock()
				c.conn = conn
				c.lock.Unlock()
				c.log.Info(context.Background(), "RabbitMQ reconnect success.")
				break
			}
			c.log.Error(context.Background(), "RabbitMQ reconnect failed.", logging.Entry("err", err))
		}
	}
}

func (c *Connection) current() *amqp.Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	return c.current().Close()
}

// Channel opens a channel that is recreated when it is closed by the
// broker or by a connection loss.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}

	channel := &Channel{ch: ch, log: c.log}
	go func() {
		for {
			reason, ok := <-channel.current().NotifyClose(make(chan *amqp.Error, 1))
			// exit this goroutine if closed by developer
			if !ok || channel.IsClosed() {
				channel.Close() // close again, ensure closed flag set when connection closed
				return
			}

			c.log.Warning(context.Background(), "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))
			for {
				time.Sleep(delay * time.Second)

				ch, err := c.current().Channel()
				if err == nil {
					channel.lock.Lock()
					channel.ch = ch
					channel.lock.Unlock()
					c.log.Info(context.Background(), "Channel recreate success.")
					break
				}
				c.log.Error(context.Background(), "Channel recreate failed.", logging.Entry("err", err))
			}
		}
	}()

	return channel, nil
}

// Channel amqp.Channel wrapper
type Channel struct {
	ch     *amqp.Channel
	closed int32
	log    logging.Logger
	lock   sync.RWMutex
}

func (ch *Channel) current() *amqp.Channel {
	ch.lock.RLock()
	defer ch.lock.RUnlock()
	return ch.ch
}

// IsClosed indicate closed by developer
func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

// Close ensure closed flag set
func (ch *Channel) Close() error {
	if ch.IsClosed() {
		return amqp.ErrClosed
	}
	atomic.StoreInt32(&ch.closed, 1)
	return ch.current().Close()
}

// DeclareTopicExchange declares a durable topic exchange for events.
func (ch *Channel) DeclareTopicExchange(name string) error {
	return ch.current().ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil)
}

func (ch *Channel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	if ch.IsClosed() {
		return amqp.ErrClosed
	}
	return ch.current().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}
