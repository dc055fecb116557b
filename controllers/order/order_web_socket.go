package orderControllers

import (
	"github.com/fruitika/storefront-api/orderfeed"
	"github.com/gin-gonic/gin"
)

// OrderWebSocketHandler subscribes an admin dashboard to new orders.
func OrderWebSocketHandler(hub *orderfeed.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request)
	}
}
