package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mohsinsiddi/bidcli/internal/auction"
	"github.com/Mohsinsiddi/bidcli/internal/session"
)

// itemView adds ether-formatted amounts to an item.
type itemView struct {
	auction.Item
	StartingPriceEth string `json:"startingPriceEth"`
	HighestBidEth    string `json:"highestBidEth"`
}

func viewOf(it auction.Item) itemView {
	return itemView{
		Item:             it,
		StartingPriceEth: auction.FormatEther(it.StartingPrice),
		HighestBidEth:    auction.FormatEther(it.HighestBid),
	}
}

type addItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	StartingPrice string `json:"startingPrice" binding:"required"`
}

type bidRequest struct {
	BidderName string `json:"bidderName" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
}

func (s *Server) deploymentInfo(c *gin.Context) {
	d := s.sess.Deployment()
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no deployment found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.sess.State())
}

func (s *Server) items(c *gin.Context) {
	items := s.sess.GetAllItems(c.Request.Context())
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		if c.Query("active") == "true" && !it.Active {
			continue
		}
		views = append(views, viewOf(it))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (s *Server) item(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	it, found := s.sess.GetItem(c.Request.Context(), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrItemNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, viewOf(it))
}

func (s *Server) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, st, err := s.sess.AddItem(c.Request.Context(), req.Name, req.Description, req.StartingPrice)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.settled(c, st, gin.H{"item": viewOf(it)})
}

func (s *Server) placeBid(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req bidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, st, err := s.sess.PlaceBid(c.Request.Context(), id, req.BidderName, req.Amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.settled(c, st, gin.H{"bid": b})
}

func (s *Server) endAuction(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.wait)
	defer cancel()

	receipt, err := s.sess.EndAuction(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp := gin.H{"itemId": id}
	if receipt != nil {
		resp["txHash"] = receipt.TxHash.Hex()
		resp["blockNumber"] = receipt.BlockNumber
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) cacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.sess.CacheStats())
}

func (s *Server) clearCache(c *gin.Context) {
	s.sess.ClearCache()
	c.Status(http.StatusNoContent)
}

func (s *Server) refreshDeployment(c *gin.Context) {
	if !s.sess.RefreshDeployment(c.Request.Context()) {
		c.JSON(http.StatusNotFound, gin.H{"refreshed": false, "error": "no deployment found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true, "deployment": s.sess.Deployment()})
}

// settled answers a write. With ?wait=true it blocks until the write
// confirms or reverts, otherwise it returns 202 straight away.
func (s *Server) settled(c *gin.Context, st *session.Settlement, body gin.H) {
	if st != nil {
		body["txHash"] = st.Hash().Hex()
	}
	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.wait)
	defer cancel()
	if err := st.Wait(ctx); err != nil {
		body["error"] = err.Error()
		c.JSON(http.StatusBadGateway, body)
		return
	}
	body["confirmed"] = true
	c.JSON(http.StatusOK, body)
}

func (s *Server) fail(c *gin.Context, err error) {
	code := http.StatusBadGateway
	switch {
	case errors.Is(err, auction.ErrInvalidAmount):
		code = http.StatusBadRequest
	case errors.Is(err, session.ErrNotConnected), errors.Is(err, auction.ErrReadOnly):
		code = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func itemID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}
