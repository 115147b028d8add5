package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartActivityConsumer connects to RabbitMQ, declares the follow.confirmed
// and comment.created queues (durable) and appends every delivery to
// logs/activity.log in a single-line format. It runs a reconnect loop with
// exponential backoff and keeps the worker alive through broker restarts;
// bad messages are rejected without requeue so a poison message cannot spin
// the consumer.
func StartActivityConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("activity-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("activity-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("activity-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{FollowConfirmedQueue, CommentCreatedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	follows, err := ch.Consume(FollowConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", FollowConfirmedQueue, err)
	}
	comments, err := ch.Consume(CommentCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", CommentCreatedQueue, err)
	}

	for {
		select {
		case d, ok := <-follows:
			if !ok {
				return errors.New("follow deliveries channel closed")
			}
			ackOrNack(d, handleFollowConfirmed(d.Body))
		case d, ok := <-comments:
			if !ok {
				return errors.New("comment deliveries channel closed")
			}
			ackOrNack(d, handleCommentCreated(d.Body))
		}
	}
}

func ackOrNack(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("activity-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func handleFollowConfirmed(body []byte) error {
	var ev FollowConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Follow confirmed | follower_id=%d | followee_id=%d\n",
		ev.ConfirmedAt, ev.FollowerID, ev.FolloweeID)
	return appendActivity(line)
}

func handleCommentCreated(body []byte) error {
	var ev CommentCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Comment created | comment_id=%d | post_id=%d | author_id=%d\n",
		ev.CreatedAt, ev.CommentID, ev.PostID, ev.AuthorID)
	return appendActivity(line)
}

func appendActivity(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "activity.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
