package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/requestdata"
)

type RealtimeHandler struct {
	Log *logger.Logger
	Hub *realtime.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		Log:     log,
		Hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// SSEStream opens the event stream. The optional `channels` query param is a
// comma separated list of table channels to subscribe to up front; without it
// the client gets the submissions and activities channels.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	client := h.Hub.NewSSEClient(rd.UserID)
	h.Log.Info("SSE stream open", "user_id", rd.UserID, "client_id", client.ID)

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	channels := []string{realtime.ChannelSubmissions, realtime.ChannelActivities}
	if raw := c.Query("channels"); raw != "" {
		channels = strings.Split(raw, ",")
	}
	for _, ch := range channels {
		h.Hub.AddChannel(client, ch)
	}

	h.Hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	delete(h.clients, client.ID)
	h.mu.Unlock()
	h.Hub.CloseClient(client)
}

func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	h.updateSubscription(c, h.Hub.AddChannel, "subscribed")
}

func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	h.updateSubscription(c, h.Hub.RemoveChannel, "unsubscribed")
}

func (h *RealtimeHandler) updateSubscription(c *gin.Context, apply func(*realtime.SSEClient, string), verb string) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req struct {
		ClientID string `json:"client_id"`
		Channel  string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	h.mu.RLock()
	client, exists := h.clients[clientID]
	h.mu.RUnlock()
	if !exists || client.UserID != rd.UserID {
		c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this client"})
		return
	}

	apply(client, req.Channel)
	c.JSON(http.StatusOK, gin.H{"message": verb, "channel": req.Channel})
}
