package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event *ScheduleEvent) error
}

// Bus 进程内事件总线（对外导出）
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus 创建事件总线
func NewBus(debug bool) *Bus {
	// 非debug模式下不输出watermill内部日志（如无订阅者时的丢弃提示）
	var logger watermill.LoggerAdapter = watermill.NopLogger{}
	if debug {
		logger = watermill.NewStdLogger(true, false)
	}
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            64,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)
	return &Bus{pubsub: pubsub, logger: logger}
}

// Publish 发布事件，没有订阅者时事件被丢弃
func (b *Bus) Publish(ctx context.Context, event *ScheduleEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("run_id", event.RunID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339Nano))

	if err := b.pubsub.Publish(string(event.Type), msg); err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}
	return nil
}

// Subscribe 订阅一个或多个事件类型，未指定时订阅全部
// ctx 取消后返回的通道会被关闭
func (b *Bus) Subscribe(ctx context.Context, types ...EventType) (<-chan *ScheduleEvent, error) {
	if len(types) == 0 {
		types = AllEventTypes
	}

	out := make(chan *ScheduleEvent, 16)
	var wg sync.WaitGroup

	for _, eventType := range types {
		messages, err := b.pubsub.Subscribe(ctx, string(eventType))
		if err != nil {
			return nil, fmt.Errorf("订阅事件失败: %s, Error=%w", eventType, err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range messages {
				var event ScheduleEvent
				if err := json.Unmarshal(msg.Payload, &event); err != nil {
					log.Printf("⚠️ [EventBus] 事件反序列化失败: MessageID=%s, Error=%v", msg.UUID, err)
					msg.Ack()
					continue
				}
				msg.Ack()

				select {
				case out <- &event:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// Close 关闭事件总线
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
