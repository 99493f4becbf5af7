package handler

import (
	"net/http"

	model "heartbids/internal/models"
	"heartbids/internal/repository"
	"heartbids/services/auction/helpers"
	"heartbids/utils"

	"github.com/gin-gonic/gin"
)

type AuctionHandler struct {
	store repository.AuctionDB
}

func NewAuctionHandler(store repository.AuctionDB) *AuctionHandler {
	return &AuctionHandler{store: store}
}

// LoginHandler handles POST /auth/login
func (h *AuctionHandler) LoginHandler(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	data, err := h.store.Login(req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", err, map[string]any{"email": req.Email})
		return
	}

	utils.JSONResponse(c, http.StatusOK, data, model.PageMeta{})
	helpers.LogSuccess("LoginHandler", "token issued", map[string]any{"user": data.Name})
}

// RegisterHandler handles POST /auth/register
func (h *AuctionHandler) RegisterHandler(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	profile, err := h.store.Register(req)
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err, map[string]any{"name": req.Name})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, profile, model.PageMeta{})
	helpers.LogSuccess("RegisterHandler", "profile registered", map[string]any{"user": profile.Name})
}

// ListListingsHandler handles GET /auction/listings and GET /auction/listings/search
func (h *AuctionHandler) ListListingsHandler(c *gin.Context) {
	var q helpers.ListingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "ListListingsHandler", err)
		return
	}

	items, meta := h.store.ListListings(q.ToRepo())
	utils.JSONResponse(c, http.StatusOK, items, meta)
}

// GetListingHandler handles GET /auction/listings/:id
func (h *AuctionHandler) GetListingHandler(c *gin.Context) {
	var q helpers.ListingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "GetListingHandler", err)
		return
	}

	id := c.Param("id")
	listing, err := h.store.GetListing(id, q.ToRepo())
	if err != nil {
		helpers.RespondError(c, "GetListingHandler", err, map[string]any{"listing_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, listing, model.PageMeta{})
}

// CreateListingHandler handles POST /auction/listings
func (h *AuctionHandler) CreateListingHandler(c *gin.Context) {
	var req model.ListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	user := helpers.CurrentUser(c)
	listing, err := h.store.CreateListing(user, req)
	if err != nil {
		helpers.RespondError(c, "CreateListingHandler", err, map[string]any{"user": user})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, listing, model.PageMeta{})
	helpers.LogSuccess("CreateListingHandler", "listing created", map[string]any{
		"listing_id": listing.ID,
		"user":       user,
		"ends_at":    listing.EndsAt,
	})
}

// UpdateListingHandler handles PUT /auction/listings/:id
func (h *AuctionHandler) UpdateListingHandler(c *gin.Context) {
	var req model.ListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateListingHandler", err)
		return
	}

	id, user := c.Param("id"), helpers.CurrentUser(c)
	listing, err := h.store.UpdateListing(user, id, req)
	if err != nil {
		helpers.RespondError(c, "UpdateListingHandler", err, map[string]any{"listing_id": id, "user": user})
		return
	}

	utils.JSONResponse(c, http.StatusOK, listing, model.PageMeta{})
}

// DeleteListingHandler handles DELETE /auction/listings/:id
func (h *AuctionHandler) DeleteListingHandler(c *gin.Context) {
	id, user := c.Param("id"), helpers.CurrentUser(c)
	if err := h.store.DeleteListing(user, id); err != nil {
		helpers.RespondError(c, "DeleteListingHandler", err, map[string]any{"listing_id": id, "user": user})
		return
	}

	c.Status(http.StatusNoContent)
	helpers.LogSuccess("DeleteListingHandler", "listing deleted", map[string]any{"listing_id": id, "user": user})
}

// PlaceBidHandler handles POST /auction/listings/:id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req model.BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	id, user := c.Param("id"), helpers.CurrentUser(c)
	bid, err := h.store.RecordBid(id, user, req.Amount)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"listing_id": id,
			"user":       user,
			"amount":     req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, bid, model.PageMeta{})
	helpers.LogSuccess("PlaceBidHandler", "bid recorded", map[string]any{
		"bid_id":     bid.ID,
		"listing_id": id,
		"user":       user,
		"amount":     bid.Amount,
	})
}

// GetProfileHandler handles GET /auction/profiles/:name
func (h *AuctionHandler) GetProfileHandler(c *gin.Context) {
	var q helpers.ProfileQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "GetProfileHandler", err)
		return
	}

	name := c.Param("name")
	profile, err := h.store.GetProfile(name, q.ToRepo())
	if err != nil {
		helpers.RespondError(c, "GetProfileHandler", err, map[string]any{"name": name})
		return
	}

	// credits and email are private to their owner
	if name != helpers.CurrentUser(c) {
		profile.Credits = 0
		profile.Email = ""
	}
	utils.JSONResponse(c, http.StatusOK, profile, model.PageMeta{})
}

// UpdateProfileHandler handles PUT /auction/profiles/:name
func (h *AuctionHandler) UpdateProfileHandler(c *gin.Context) {
	var req model.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateProfileHandler", err)
		return
	}

	name := c.Param("name")
	if name != helpers.CurrentUser(c) {
		utils.JSONError(c, http.StatusForbidden, "You can only update your own profile")
		return
	}

	profile, err := h.store.UpdateProfile(name, req)
	if err != nil {
		helpers.RespondError(c, "UpdateProfileHandler", err, map[string]any{"name": name})
		return
	}

	utils.JSONResponse(c, http.StatusOK, profile, model.PageMeta{})
	helpers.LogSuccess("UpdateProfileHandler", "profile updated", map[string]any{"user": name})
}

// ProfileBidsHandler handles GET /auction/profiles/:name/bids
func (h *AuctionHandler) ProfileBidsHandler(c *gin.Context) {
	name := c.Param("name")
	bids, err := h.store.ProfileBids(name)
	if err != nil {
		helpers.RespondError(c, "ProfileBidsHandler", err, map[string]any{"name": name})
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}
	utils.JSONResponse(c, http.StatusOK, bids, model.PageMeta{})
}
