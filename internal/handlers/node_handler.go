package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"node-cache-api/internal/database"
	"node-cache-api/internal/middleware"
	"node-cache-api/internal/models"
	"node-cache-api/internal/naming"
	"node-cache-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNodes handles GET /api/nodes.
// The body is a bare JSON array so the nodes client can decode it directly.
func GetNodes(c *gin.Context) {
	nodes := make([]models.Node, 0)
	if err := database.GetDB().Order("id asc").Find(&nodes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch nodes"})
		return
	}
	c.JSON(http.StatusOK, nodes)
}

// CreateNode handles POST /api/nodes; the name comes from today's date.
func CreateNode(c *gin.Context) {
	name, err := naming.GenerateName(serverClock)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	node := models.Node{Name: name}
	if err := database.GetDB().Create(&node).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create node"})
		return
	}
	c.JSON(http.StatusCreated, node)
}

func nodeIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Node ID must be an integer"})
		return 0, false
	}
	return id, true
}

// GetNodeEntry handles GET /api/nodes/:id/entry.
// It returns the node's live cache entry, creating one if none is live.
func GetNodeEntry(c *gin.Context) {
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}

	var node models.Node
	if err := database.GetDB().First(&node, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch node"})
		}
		return
	}

	entry, created := entries.Fetch(node.ID)
	if created {
		expiresAt := entry.ExpiresAt
		publish(c, realtime.Event{Type: realtime.EntryCreated, NodeID: entry.ID, ExpiresAt: &expiresAt})
	}
	c.JSON(http.StatusOK, entry)
}

// RemoveNodeEntry handles DELETE /api/nodes/:id/entry. Removing an absent
// entry is not an error, but only an actual removal is broadcast.
func RemoveNodeEntry(c *gin.Context) {
	id, ok := nodeIDParam(c)
	if !ok {
		return
	}

	if entries.Delete(id) {
		publish(c, realtime.Event{Type: realtime.EntryRemoved, NodeID: id})
	}
	c.Status(http.StatusNoContent)
}

func publish(c *gin.Context, evt realtime.Event) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return
	}
	if err := realtime.GetHub().Publish(userID, evt); err != nil {
		log.Printf("publish %s for node %d: %v", evt.Type, evt.NodeID, err)
	}
}
