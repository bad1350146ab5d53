package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"min=6"`
}

var registerMessages = map[string]string{
	"name":     "Please enter a valid name",
	"email":    "Please include a valid email",
	"password": "please enter a password with 6 or more characters",
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = map[string]string{
	"email":    "Please include a valid email",
	"password": "Password is required",
}

// register POST /customers
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	errs, err := bindJSON(c, &req, registerMessages)
	if err != nil {
		respondFieldErrors(c, fieldErrors{"body": msgInvalidBody})
		return
	}
	if len(errs) > 0 {
		respondFieldErrors(c, errs)
		return
	}

	token, err := h.customers.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// login POST /auth
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	errs, err := bindJSON(c, &req, loginMessages)
	if err != nil {
		respondFieldErrors(c, fieldErrors{"body": msgInvalidBody})
		return
	}
	if len(errs) > 0 {
		respondFieldErrors(c, errs)
		return
	}

	token, err := h.customers.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// profile GET /customers
func (h *Handler) profile(c *gin.Context) {
	customer, err := h.customers.Profile(c.Request.Context(), customerID(c))
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// deleteCustomer DELETE /customers
func (h *Handler) deleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), customerID(c)); err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msgCustomerDeleted})
}
