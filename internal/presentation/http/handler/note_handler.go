package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List handles listing notes
func (h *NoteHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var query struct {
		Search     string `form:"search"`
		CustomerID string `form:"customer_id"`
		BillID     string `form:"bill_id"`
		Pinned     *bool  `form:"pinned"`
		Page       int    `form:"page"`
		PerPage    int    `form:"per_page"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.NoteFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    query.Page,
			PerPage: query.PerPage,
		},
		Search: query.Search,
		Pinned: query.Pinned,
	}

	if query.CustomerID != "" {
		customerID, err := uuid.Parse(query.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID filter")
			return
		}
		params.CustomerID = &customerID
	}
	if query.BillID != "" {
		billID, err := uuid.Parse(query.BillID)
		if err != nil {
			response.BadRequest(c, "Invalid bill ID filter")
			return
		}
		params.BillID = &billID
	}

	notes, pag, err := h.noteService.ListNotes(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Notes retrieved successfully", pagination.NewPaginatedResult(notes, pag))
}

// Create handles creating a note
func (h *NoteHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CustomerID *uuid.UUID `json:"customer_id"`
		BillID     *uuid.UUID `json:"bill_id"`
		Title      string     `json:"title" binding:"omitempty,max=255"`
		Body       string     `json:"body" binding:"required"`
		Pinned     bool       `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), &service.CreateNoteInput{
		UserID:     *userID,
		CustomerID: req.CustomerID,
		BillID:     req.BillID,
		Title:      req.Title,
		Body:       req.Body,
		Pinned:     req.Pinned,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Note created successfully", note)
}

// Get handles getting a single note
func (h *NoteHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid note ID")
		return
	}

	note, err := h.noteService.GetNote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Note retrieved successfully", note)
}

// Update handles updating a note
func (h *NoteHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid note ID")
		return
	}

	var req struct {
		Title  *string `json:"title" binding:"omitempty,max=255"`
		Body   *string `json:"body"`
		Pinned *bool   `json:"pinned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), id, &service.UpdateNoteInput{
		Title:  req.Title,
		Body:   req.Body,
		Pinned: req.Pinned,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Note updated successfully", note)
}

// Delete handles deleting a note
func (h *NoteHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid note ID")
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
