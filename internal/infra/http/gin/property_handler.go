package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booknblock/internal/app/properties"
	domainproperty "booknblock/internal/domain/property"
	domainuser "booknblock/internal/domain/user"
)

type PropertyHandler struct {
	Service *properties.Service
}

type createPropertyRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (h PropertyHandler) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prop, err := h.Service.Create(c.Request.Context(), principal, properties.CreateParams{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPropertyResponse(prop))
}

func (h PropertyHandler) Get(c *gin.Context) {
	prop, err := h.Service.Get(c.Request.Context(), domainproperty.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPropertyResponse(prop))
}

type managerRequest struct {
	UserID string `json:"user_id"`
}

func (h PropertyHandler) AddManager(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req managerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prop, err := h.Service.AddManager(c.Request.Context(), principal, domainproperty.ID(c.Param("id")), domainuser.ID(req.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPropertyResponse(prop))
}

func (h PropertyHandler) RemoveManager(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	prop, err := h.Service.RemoveManager(c.Request.Context(), principal, domainproperty.ID(c.Param("id")), domainuser.ID(c.Param("userId")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPropertyResponse(prop))
}
