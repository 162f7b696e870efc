package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	billingapp "github.com/lumio/backend/internal/application/billing"
)

// BillingHandler serves plans, customers and the payment account connect
// redirect
type BillingHandler struct {
	BaseHandler
	billing   *billingapp.Service
	launchpad *billingapp.LaunchpadService
	baseURL   string
}

// NewBillingHandler creates a BillingHandler. baseURL is the public app URL
// with a trailing slash; connect redirects land under it.
func NewBillingHandler(billing *billingapp.Service, launchpad *billingapp.LaunchpadService, baseURL string) *BillingHandler {
	return &BillingHandler{billing: billing, launchpad: launchpad, baseURL: baseURL}
}

// Pricing lists the pricing cards
func (h *BillingHandler) Pricing(c *gin.Context) {
	cards, err := h.billing.ListPlans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, cards, len(cards))
}

// CreateCustomerResponse carries the new billing customer id
type CreateCustomerResponse struct {
	CustomerID string `json:"customerId"`
}

// CreateCustomer creates a billing customer
func (h *BillingHandler) CreateCustomer(c *gin.Context) {
	var req billingapp.CreateCustomerInput
	if !h.bindJSON(c, &req) {
		return
	}
	id, err := h.billing.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, CreateCustomerResponse{CustomerID: id})
}

// ConnectCallback is the provider's OAuth redirect target. It completes the
// connection for the signed-in user and sends the browser on to the
// launchpad it came from.
func (h *BillingHandler) ConnectCallback(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	accountType := c.Param("accountType")
	result, err := h.launchpad.ConnectCallback(c.Request.Context(), actorID, accountType, c.Query("code"), c.Query("state"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.baseURL+accountType+"/"+result.Launchpad.EntityID.String()+"/"+result.ReturnPath)
}
