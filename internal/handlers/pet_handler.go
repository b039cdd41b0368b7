package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// PetHandler handles HTTP requests related to pets
type PetHandler struct {
	petService *services.PetService
}

// NewPetHandler creates a new PetHandler
func NewPetHandler(petService *services.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

// RegisterPetRoutes registers pet-related routes
func (h *PetHandler) RegisterPetRoutes(g *echo.Group) {
	g.POST("/pets", h.CreatePet)
	g.GET("/pets/:id", h.GetPet)
	g.PUT("/pets/:id", h.UpdatePet)
	g.DELETE("/pets/:id", h.DeletePet)
	g.GET("/users/:id/pets", h.GetPetsByOwner)
}

// CreatePet adds a pet for the authenticated user. Linking it to the
// owner's profile finishes in the background.
func (h *PetHandler) CreatePet(c echo.Context) error {
	var req models.CreatePetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pet, _, err := h.petService.CreatePet(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, pet)
}

// GetPet retrieves a pet by ID
func (h *PetHandler) GetPet(c echo.Context) error {
	pet, err := h.petService.GetPet(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pet)
}

// GetPetsByOwner lists one member's pets
func (h *PetHandler) GetPetsByOwner(c echo.Context) error {
	pets, err := h.petService.ListPets(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pets)
}

// UpdatePet edits a pet owned by the authenticated user
func (h *PetHandler) UpdatePet(c echo.Context) error {
	var req models.UpdatePetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pet, err := h.petService.UpdatePet(c.Request().Context(), identityFrom(c), c.Param("id"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pet)
}

// DeletePet removes a pet owned by the authenticated user
func (h *PetHandler) DeletePet(c echo.Context) error {
	if _, err := h.petService.DeletePet(c.Request().Context(), identityFrom(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
