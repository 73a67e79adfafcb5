package feed

import (
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/localhive/event-catalog/internal/handler"
	"github.com/localhive/event-catalog/pkg/model"
)

func NewHandler(logger *slog.Logger, broker broker) Handler {
	return Handler{logger, broker}
}

type Handler struct {
	logger *slog.Logger
	broker broker
}

type broker interface {
	Subscribe(user model.User)
	Unsubscribe(id uint)
	Receive(id uint) (Activity, bool)
}

// Subscribe to the activity feed
func (h Handler) Subscribe(c *gin.Context) {
	// swagger:route GET /feed streamFeed
	//
	// Stream the activity feed
	//
	// Stream catalog activity as server-sent events. Every event created, updated or deleted on
	// the catalog is streamed as one activity.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200:
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.broker.Subscribe(*user)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Transfer-Encoding", "chunked")

	go func() {
		<-c.Done()
		h.broker.Unsubscribe(user.ID)
		h.logger.Info("Feed subscriber disconnected", "user", user.ID)
	}()

	c.Stream(func(w io.Writer) bool {
		if activity, ok := h.broker.Receive(user.ID); ok {
			c.SSEvent(activity.Action, activity)
			return true
		}
		return false
	})
}
