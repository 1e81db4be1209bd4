// Package api exposes the contact stores over a small REST interface.
package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/db_contact_go/internal/store"
)

const requestTimeout = 3 * time.Second

// ContactStore is implemented by *store.ContactStore.
type ContactStore interface {
	Create(ctx context.Context, c store.Contact) (*store.Contact, error)
	Read(ctx context.Context, id int64) (*store.Contact, error)
	ReadAll(ctx context.Context) ([]store.Contact, error)
	Update(ctx context.Context, c store.Contact) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ContactInfoStore is implemented by *store.ContactInfoStore.
type ContactInfoStore interface {
	Create(ctx context.Context, info store.ContactInfo) (*store.ContactInfo, error)
	Read(ctx context.Context, id int64) (*store.ContactInfo, error)
	ReadAll(ctx context.Context) ([]store.ContactInfo, error)
	Update(ctx context.Context, info store.ContactInfo) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// EntityReader is implemented by *store.ContactEntityReader.
type EntityReader interface {
	Read(ctx context.Context, id int64) (*store.ContactEntity, error)
	ReadAll(ctx context.Context) ([]store.ContactEntity, error)
}

// Handler serves the contact API.
type Handler struct {
	contacts ContactStore
	infos    ContactInfoStore
	entities EntityReader
}

// NewHandler creates a new Handler.
func NewHandler(contacts ContactStore, infos ContactInfoStore, entities EntityReader) *Handler {
	return &Handler{contacts: contacts, infos: infos, entities: entities}
}

type contactRequest struct {
	SSN       string `json:"ssn" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type contactInfoRequest struct {
	Info      string `json:"info" binding:"required"`
	ContactID *int64 `json:"contact_id"`
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	api.POST("/contacts", h.createContact)
	api.GET("/contacts", h.listContacts)
	api.GET("/contacts/:id", h.getContact)
	api.PUT("/contacts/:id", h.updateContact)
	api.DELETE("/contacts/:id", h.deleteContact)
	api.GET("/contacts/:id/entity", h.getEntity)
	api.GET("/entities", h.listEntities)

	api.POST("/contact-infos", h.createContactInfo)
	api.GET("/contact-infos", h.listContactInfos)
	api.GET("/contact-infos/:id", h.getContactInfo)
	api.PUT("/contact-infos/:id", h.updateContactInfo)
	api.DELETE("/contact-infos/:id", h.deleteContactInfo)
}

func (h *Handler) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ssn, first_name and last_name are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	created, err := h.contacts.Create(ctx, store.NewContact(req.SSN, req.FirstName, req.LastName))
	if err != nil {
		internalError(c, "create contact", err)
		return
	}
	if created == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "ssn already exists"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listContacts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	contacts, err := h.contacts.ReadAll(ctx)
	if err != nil {
		internalError(c, "read all contacts", err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *Handler) getContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	contact, err := h.contacts.Read(ctx, id)
	if err != nil {
		internalError(c, "read contact", err)
		return
	}
	if contact == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *Handler) updateContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ssn, first_name and last_name are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	contact := store.NewContact(req.SSN, req.FirstName, req.LastName).WithID(id)
	updated, err := h.contacts.Update(ctx, contact)
	if store.IsDuplicateKey(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "ssn already exists"})
		return
	}
	if err != nil {
		internalError(c, "update contact", err)
		return
	}
	if !updated {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *Handler) deleteContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.contacts.Delete(ctx, id)
	if err != nil {
		internalError(c, "delete contact", err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getEntity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	entity, err := h.entities.Read(ctx, id)
	if err != nil {
		internalError(c, "read contact entity", err)
		return
	}
	if entity == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, entity)
}

func (h *Handler) listEntities(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	entities, err := h.entities.ReadAll(ctx)
	if err != nil {
		internalError(c, "read all contact entities", err)
		return
	}
	c.JSON(http.StatusOK, entities)
}

func (h *Handler) createContactInfo(c *gin.Context) {
	var req contactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "info is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	created, err := h.infos.Create(ctx, store.NewContactInfo(req.Info, req.ContactID))
	if err != nil {
		internalError(c, "create contact info", err)
		return
	}
	if created == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "info already exists"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listContactInfos(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	infos, err := h.infos.ReadAll(ctx)
	if err != nil {
		internalError(c, "read all contact info", err)
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (h *Handler) getContactInfo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	info, err := h.infos.Read(ctx, id)
	if err != nil {
		internalError(c, "read contact info", err)
		return
	}
	if info == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) updateContactInfo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "info is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	info := store.NewContactInfo(req.Info, req.ContactID).WithID(id)
	updated, err := h.infos.Update(ctx, info)
	if store.IsDuplicateKey(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "info already exists"})
		return
	}
	if err != nil {
		internalError(c, "update contact info", err)
		return
	}
	if !updated {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) deleteContactInfo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.infos.Delete(ctx, id)
	if err != nil {
		internalError(c, "delete contact info", err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func internalError(c *gin.Context, op string, err error) {
	log.Printf("%s error: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
