package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ithesk/axeweb/internal/http/handlers"
	"github.com/ithesk/axeweb/internal/http/middleware"
)

// RegisterValidators installs the portal's custom binding validations.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("otpcode", func(fl validator.FieldLevel) bool {
			code := fl.Field().String()
			if len(code) != 7 {
				return false
			}
			for _, r := range code {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		})
	}
}

// BuildRouter wires the portal's HTTP surface.
func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PortalHandlers, authmw *middleware.AuthMW) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/code/send", ah.SendCode)
	auth.POST("/code/verify", ah.VerifyCode)

	portal := r.Group("/portal").Use(authmw.WithToken())
	portal.GET("/orders", ph.Orders)
	portal.POST("/orders/:id/select", ph.Select)
	portal.GET("/order", ph.Detail)
	portal.GET("/order/invoice", ph.Invoice)
	portal.POST("/order/authorization", ph.Authorization)
	portal.POST("/order/messages", ph.Message)
	portal.POST("/order/signature", ph.Signature)
	portal.POST("/back", ph.Back)

	return r
}
