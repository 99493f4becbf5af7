package server

import (
	"heartbids/internal/repository"
	"heartbids/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the sandbox auction API on top of store
func SetupRouter(store repository.AuctionDB, apiKey string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware)
	router.Use(CallCounter(store))

	h := handler.NewAuctionHandler(store)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.LoginHandler)
		auth.POST("/register", h.RegisterHandler)
	}

	public := router.Group("/auction")
	{
		public.GET("/listings", h.ListListingsHandler)
		public.GET("/listings/search", h.ListListingsHandler)
		public.GET("/listings/:id", h.GetListingHandler)
	}

	protected := router.Group("/auction", APIKeyMiddleware(apiKey), BearerMiddleware(store))
	{
		protected.POST("/listings", h.CreateListingHandler)
		protected.PUT("/listings/:id", h.UpdateListingHandler)
		protected.DELETE("/listings/:id", h.DeleteListingHandler)
		protected.POST("/listings/:id/bids", h.PlaceBidHandler)

		protected.GET("/profiles/:name", h.GetProfileHandler)
		protected.PUT("/profiles/:name", h.UpdateProfileHandler)
		protected.GET("/profiles/:name/bids", h.ProfileBidsHandler)
	}

	return router
}
