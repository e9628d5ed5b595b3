package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"delicias-backend/internal/mercadopago"
	"delicias-backend/internal/models"
	"delicias-backend/internal/service"
	"delicias-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	checkout   *service.CheckoutService
	webhook    *service.WebhookService
	catalog    *service.CatalogService
	club       *service.ClubService
	orders     *service.OrderService
	adminToken string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	checkout *service.CheckoutService,
	webhook *service.WebhookService,
	catalog *service.CatalogService,
	club *service.ClubService,
	orders *service.OrderService,
	adminToken string,
) *Handler {
	return &Handler{
		checkout:   checkout,
		webhook:    webhook,
		catalog:    catalog,
		club:       club,
		orders:     orders,
		adminToken: adminToken,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(corsMiddleware())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/payments", h.createPayment)
		v1.POST("/payments/webhook", h.paymentWebhook)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/recipes", h.listRecipes)
		v1.GET("/recipes/:id", h.getRecipe)

		v1.GET("/club/subscriptions", h.listSubscriptions)
		v1.GET("/club/discounts", h.listDiscounts)
		v1.GET("/club/messages", h.listMessages)

		v1.GET("/orders", h.listOrdersByEmail)
		v1.POST("/contact-requests", h.createContactRequest)
	}

	admin := v1.Group("/admin")
	admin.Use(h.adminAuth())
	{
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.DELETE("/products/:id", h.deleteProduct)

		admin.POST("/recipes", h.createRecipe)
		admin.PUT("/recipes/:id", h.updateRecipe)
		admin.DELETE("/recipes/:id", h.deleteRecipe)

		admin.POST("/club/subscriptions", h.createSubscription)
		admin.POST("/club/discounts", h.createDiscount)
		admin.POST("/club/messages", h.createMessage)

		admin.GET("/orders", h.listOrders)
		admin.PUT("/orders/:id/status", h.overrideOrderStatus)
		admin.GET("/contact-requests", h.listContactRequests)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createPayment turns a cart into a gateway checkout session
func (h *Handler) createPayment(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.checkout.CreatePayment(c.Request.Context(), &req, c.GetHeader("Origin"))
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		var apiErr *mercadopago.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"details": apiErr.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// paymentWebhook receives asynchronous gateway notifications. Responses are
// the bare strings the gateway expects.
func (h *Handler) paymentWebhook(c *gin.Context) {
	var n service.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.String(http.StatusInternalServerError, "Error")
		return
	}

	err := h.webhook.ProcessNotification(c.Request.Context(), &n)
	switch {
	case err == nil:
		c.String(http.StatusOK, "OK")
	case errors.Is(err, models.ErrOrderNotFound):
		c.String(http.StatusNotFound, "Order not found")
	default:
		c.String(http.StatusInternalServerError, "Error")
	}
}

// listProducts returns the catalog
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct returns one product
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// listRecipes returns recipe metadata; gated content is stripped
func (h *Handler) listRecipes(c *gin.Context) {
	recipes, err := h.catalog.ListRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// getRecipe returns a recipe, with content visible to a sufficient tier
func (h *Handler) getRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	recipe, err := h.catalog.GetRecipe(c.Request.Context(), id, c.Query("tier"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// listSubscriptions returns the active club plans
func (h *Handler) listSubscriptions(c *gin.Context) {
	subs, err := h.club.ListSubscriptions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscriptions", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// listDiscounts returns the discounts a tier may redeem
func (h *Handler) listDiscounts(c *gin.Context) {
	discounts, err := h.club.ListDiscounts(c.Request.Context(), c.Query("tier"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list discounts", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": discounts})
}

// listMessages returns the announcements visible to a tier
func (h *Handler) listMessages(c *gin.Context) {
	messages, err := h.club.ListMessages(c.Request.Context(), c.Query("tier"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// listOrdersByEmail returns a buyer's order history
func (h *Handler) listOrdersByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}
	orders, err := h.orders.ListOrdersByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// createContactRequest records a custom cake inquiry
func (h *Handler) createContactRequest(c *gin.Context) {
	var cr models.ContactRequest
	if err := c.ShouldBindJSON(&cr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if cr.Name == "" || cr.Phone == "" || cr.Product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, phone and product are required"})
		return
	}
	if err := h.club.CreateContactRequest(c.Request.Context(), &cr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact request", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cr)
}

// --- admin handlers ---

func (h *Handler) createProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if p.Name == "" || p.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and a positive price are required"})
		return
	}
	if err := h.catalog.CreateProduct(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	p.ID = id
	if err := h.catalog.UpdateProduct(c.Request.Context(), &p); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createRecipe(c *gin.Context) {
	var r models.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if r.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if err := h.catalog.CreateRecipe(c.Request.Context(), &r); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) updateRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var r models.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	r.ID = id
	if err := h.catalog.UpdateRecipe(c.Request.Context(), &r); err != nil {
		if errors.Is(err, models.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) deleteRecipe(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteRecipe(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createSubscription(c *gin.Context) {
	var sub models.ClubSubscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.club.CreateSubscription(c.Request.Context(), &sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscription", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) createDiscount(c *gin.Context) {
	var d models.ClubDiscount
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.club.CreateDiscount(c.Request.Context(), &d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discount", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) createMessage(c *gin.Context) {
	var m models.ClubMessage
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.club.CreateMessage(c.Request.Context(), &m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) overrideOrderStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orders.OverrideStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, models.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) listContactRequests(c *gin.Context) {
	requests, err := h.club.ListContactRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contact requests", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact_requests": requests})
}

// --- middleware ---

// adminAuth guards the admin group with a static bearer token
func (h *Handler) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.adminToken == "" || c.GetHeader("Authorization") != "Bearer "+h.adminToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// corsMiddleware allows all origins and answers preflights with no body
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}
