package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/middleware"
	"reviewhub/internal/model"
	"reviewhub/internal/service"
)

// ReviewHandler serves reviews nested under a title.
type ReviewHandler struct {
	svc service.ReviewService
}

// NewReviewHandler creates the review handlers.
func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// ReviewRequest is the review payload. Author and title are never read
// from it.
type ReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// ReviewResponse is the public representation of a review.
type ReviewResponse struct {
	ID      uint      `json:"id"`
	Title   uint      `json:"title"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func newReviewResponse(r *model.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:      r.ID,
		Title:   r.TitleID,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
	if r.Author != nil {
		resp.Author = r.Author.Username
	}
	return resp
}

// ListReviews godoc
// @Summary List a title's reviews
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse[ReviewResponse]
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews [get]
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	reviews, total, err := h.svc.List(c.Request().Context(), titleID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(reviews, total, newReviewResponse))
}

// CreateReview godoc
// @Summary Review a title
// @Description Each user may review a title once.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review body ReviewRequest true "Text and score from 1 to 10"
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	review, err := h.svc.Create(c.Request().Context(), middleware.IdentityFrom(c), titleID,
		service.ReviewInput{Text: req.Text, Score: req.Score})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newReviewResponse(review))
}

// GetReview godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 200 {object} ReviewResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id} [get]
func (h *ReviewHandler) GetReview(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}
	review, err := h.svc.Get(c.Request().Context(), titleID, reviewID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReviewResponse(review))
}

// UpdateReview godoc
// @Summary Partially update a review
// @Description Allowed for the author, moderators and administrators.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Param review body ReviewRequest true "Fields to change"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id} [patch]
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	review, err := h.svc.Update(c.Request().Context(), middleware.IdentityFrom(c), titleID, reviewID,
		service.ReviewInput{Text: req.Text, Score: req.Score})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReviewResponse(review))
}

// DeleteReview godoc
// @Summary Delete a review with its comments
// @Tags reviews
// @Security BearerAuth
// @Param title_id path int true "Title ID"
// @Param review_id path int true "Review ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /titles/{title_id}/reviews/{review_id} [delete]
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.IdentityFrom(c), titleID, reviewID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func reviewPath(c echo.Context) (titleID, reviewID uint, err error) {
	if titleID, err = pathID(c, "title_id"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = pathID(c, "review_id"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}
