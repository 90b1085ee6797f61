package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/Capitan-Parrot/surveillance-console/internal/store"
	"github.com/IBM/sarama"
)

const consumeRetryDelay = 5 * time.Second

// AlarmIntake слушает топик тревог и вносит их в стор командой AddAlarm.
// Это единственный источник AddAlarm: оффсет подтверждается только после
// диспатча, поэтому каждая тревога попадает в стор не более одного раза —
// инвариант, который стор сам не проверяет.
type AlarmIntake struct {
	group sarama.ConsumerGroup
	topic string
	store *store.Store
}

func NewAlarmIntake(brokers []string, groupID, topic string, st *store.Store) (*AlarmIntake, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &AlarmIntake{group: group, topic: topic, store: st}, nil
}

// Start блокируется до отмены ctx; запускать в горутине
func (a *AlarmIntake) Start(ctx context.Context) {
	handler := &alarmHandler{store: a.store}

	for {
		select {
		case <-ctx.Done():
			log.Println("AlarmIntake: stopped")
			return
		default:
			err := a.group.Consume(ctx, []string{a.topic}, handler)
			if err != nil {
				log.Printf("AlarmIntake: consume error: %v, retrying in %v", err, consumeRetryDelay)
				select {
				case <-ctx.Done():
					return
				case <-time.After(consumeRetryDelay):
				}
				continue
			}

			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (a *AlarmIntake) Close() error {
	return a.group.Close()
}

// alarmHandler реализует sarama.ConsumerGroupHandler
type alarmHandler struct {
	store *store.Store
}

func (h *alarmHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *alarmHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *alarmHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.handle(msg.Value); err != nil {
				// Не подтверждаем при ошибке разбора
				log.Printf("AlarmIntake: %v", err)
				continue
			}
			sess.MarkMessage(msg, "")
		case <-sess.Context().Done():
			return nil
		}
	}
}

func (h *alarmHandler) handle(raw []byte) error {
	var event models.AlarmEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return fmt.Errorf("invalid alarm event: %w", err)
	}
	if event.Alarm.ID == "" {
		return fmt.Errorf("alarm event without id")
	}

	h.store.Dispatch(store.AddAlarm{Alarm: event.Alarm})
	log.Printf("AlarmIntake: alarm %s from tower %s", event.Alarm.ID, event.TowerID)
	return nil
}
