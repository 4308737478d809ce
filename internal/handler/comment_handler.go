package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/middleware"
	"reviewhub/internal/model"
	"reviewhub/internal/service"
)

// CommentHandler serves comments nested under a review.
type CommentHandler struct {
	svc service.CommentService
}

// NewCommentHandler creates the comment handlers.
func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// CommentRequest is the comment payload.
type CommentRequest struct {
	Text *string `json:"text"`
}

// CommentResponse is the public representation of a comment.
type CommentResponse struct {
	ID      uint      `json:"id"`
	Review  uint      `json:"review"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func newCommentResponse(cm *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:      cm.ID,
		Review:  cm.ReviewID,
		Text:    cm.Text,
		PubDate: cm.PubDate,
	}
	if cm.Author != nil {
		resp.Author = cm.Author.Username
	}
	return resp
}

// ListComments godoc
// @Summary List a review's comments
// @Tags comments
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse[CommentResponse]
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments [get]
func (h *CommentHandler) ListComments(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	comments, total, err := h.svc.List(c.Request().Context(), titleID, reviewID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(comments, total, newCommentResponse))
}

// CreateComment godoc
// @Summary Comment on a review
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment body CommentRequest true "Comment text"
// @Success 201 {object} CommentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	comment, err := h.svc.Create(c.Request().Context(), middleware.IdentityFrom(c), titleID, reviewID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newCommentResponse(comment))
}

// GetComment godoc
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} CommentResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [get]
func (h *CommentHandler) GetComment(c echo.Context) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}
	comment, err := h.svc.Get(c.Request().Context(), titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCommentResponse(comment))
}

// UpdateComment godoc
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Param comment body CommentRequest true "Comment text"
// @Success 200 {object} CommentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [patch]
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	comment, err := h.svc.Update(c.Request().Context(), middleware.IdentityFrom(c), titleID, reviewID, commentID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCommentResponse(comment))
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param comment_id path int true "Comment ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [delete]
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	titleID, reviewID, commentID, err := commentPath(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.IdentityFrom(c), titleID, reviewID, commentID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func commentPath(c echo.Context) (titleID, reviewID, commentID uint, err error) {
	if titleID, reviewID, err = reviewPath(c); err != nil {
		return 0, 0, 0, err
	}
	if commentID, err = pathID(c, "comment_id"); err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
