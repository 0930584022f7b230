package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supportdesk/models"
)

const customerNotFound = "Customer not found"

func (a *API) listCustomers(c *gin.Context) {
	customers, err := a.store.ListCustomers(c.Request.Context())
	if err != nil {
		fail(c, err, customerNotFound, "Failed to fetch customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (a *API) getCustomer(c *gin.Context) {
	customer, err := a.store.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, customerNotFound, "Failed to fetch customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (a *API) createCustomer(c *gin.Context) {
	var payload models.NewCustomer
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalid(c, err)
		return
	}

	customer, err := a.store.CreateCustomer(c.Request.Context(), payload)
	if err != nil {
		fail(c, err, customerNotFound, "Failed to create customer")
		return
	}

	a.publish(c.Request.Context(), models.EventCustomerCreated, customer.ID, customer)
	c.JSON(http.StatusCreated, customer)
}
