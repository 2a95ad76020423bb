package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Items are not stored; every handler echoes the decoded request back.

type itemRequest struct {
	Name    string   `json:"name" binding:"required"`
	Price   *float64 `json:"price" binding:"required"`
	IsOffer *bool    `json:"is_offer"`
}

type listItemsQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

// userItemQuery is validated but does not shape the response.
type userItemQuery struct {
	Q     *string `form:"q"`
	Short bool    `form:"short"`
}

const greeting = "hello its vibhaw , my first api"

// handleRoot greets API clients with a one element array.
func (s *Server) handleRoot(c *gin.Context) {
	respondSuccess(c, http.StatusOK, []string{greeting})
}

// handleListItems returns a window of generated item names.
func (s *Server) handleListItems(c *gin.Context) {
	var q listItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondBindError(c, err)
		return
	}

	items := make([]string, 0, q.Limit)
	for i := q.Skip; i < q.Skip+q.Limit; i++ {
		items = append(items, fmt.Sprintf("Item %d", i))
	}
	respondSuccess(c, http.StatusOK, gin.H{"skip": q.Skip, "limit": q.Limit, "items": items})
}

// handleCreateItem echoes a decoded item.
func (s *Server) handleCreateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBindError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{
		"item_name":     req.Name,
		"item_price":    *req.Price,
		"item_is_offer": req.IsOffer,
	})
}

// handleUpdateItem echoes the item name against its path id.
func (s *Server) handleUpdateItem(c *gin.Context) {
	id, ok := s.parseID(c, "item_id")
	if !ok {
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBindError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"item_name": req.Name, "item_id": id})
}

// handleDeleteItem acknowledges the id it was given.
func (s *Server) handleDeleteItem(c *gin.Context) {
	id, ok := s.parseID(c, "item_id")
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"item_id": id})
}

// handleUserItem describes an item owned by a user.
func (s *Server) handleUserItem(c *gin.Context) {
	userID, ok := s.parseID(c, "user_id")
	if !ok {
		return
	}
	itemID, ok := s.parseID(c, "item_id")
	if !ok {
		return
	}

	var q userItemQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondBindError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"user_id":     userID,
		"item_id":     itemID,
		"description": fmt.Sprintf("Item %d belongs to User %d", itemID, userID),
	})
}
