package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LENAX/step-scheduler/pkg/api/dto"
	"github.com/LENAX/step-scheduler/pkg/core/engine"
	"github.com/LENAX/step-scheduler/pkg/core/events"
)

const eventWriteTimeout = 10 * time.Second

// EventHandler 调度事件WebSocket推送
type EventHandler struct {
	engine   *engine.Engine
	upgrader websocket.Upgrader
}

// NewEventHandler 创建EventHandler
func NewEventHandler(eng *engine.Engine) *EventHandler {
	return &EventHandler{
		engine: eng,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Stream 推送调度事件
// GET /api/v1/events?types=schedule.completed,schedule.stuck
func (h *EventHandler) Stream(c *gin.Context) {
	types, ok := parseEventTypes(c.Query("types"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, "未知的事件类型: "+c.Query("types")))
		return
	}

	// 先订阅再升级，握手完成后发布的事件不会丢失
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := h.engine.Subscribe(ctx, types...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(500, err.Error()))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ [Events] WebSocket升级失败: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Time{}) // 清除http.Server的ReadTimeout

	// 读循环只用于感知客户端断开
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("⚠️ [Events] 连接异常关闭: %v", err)
				}
				return
			}
		}
	}()

	for ev := range ch {
		conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("⚠️ [Events] 推送事件失败: %v", err)
			return
		}
	}
}

func parseEventTypes(raw string) ([]events.EventType, bool) {
	if raw == "" {
		return nil, true
	}
	var types []events.EventType
	for _, name := range strings.Split(raw, ",") {
		t := events.EventType(strings.TrimSpace(name))
		known := false
		for _, k := range events.AllEventTypes {
			if t == k {
				known = true
				break
			}
		}
		if !known {
			return nil, false
		}
		types = append(types, t)
	}
	return types, true
}
