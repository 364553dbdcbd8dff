package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"comment-sync-api/internal/domain"
	"comment-sync-api/internal/dto"
	"comment-sync-api/internal/repository"
	"comment-sync-api/internal/response"
	"comment-sync-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
	rescanService  service.RescanService
}

func NewCommentHandler(commentService service.CommentService, rescanService service.RescanService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		rescanService:  rescanService,
	}
}

// ListComments godoc
// @Summary      List comments
// @Description  Lists stored comments, hidden ones excluded unless requested
// @Tags         comments
// @Produce      json
// @Param        platform query string false "Platform" Enums(facebook, instagram)
// @Param        post_id query string false "External post ID"
// @Param        status query string false "Comment status"
// @Param        include_hidden query bool false "Include hidden comments"
// @Param        limit query int false "Maximum rows"
// @Success      200 {object} response.SuccessResponse{data=[]domain.Comment}
// @Failure      500 {object} response.ErrorResponse
// @Router       /comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	filters := &repository.CommentFilters{
		Platform:       domain.Platform(c.Query("platform")),
		ExternalPostID: c.Query("post_id"),
		Status:         domain.CommentStatus(c.Query("status")),
	}
	if includeHidden, err := strconv.ParseBool(c.Query("include_hidden")); err == nil {
		filters.IncludeHidden = includeHidden
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}

	comments, err := h.commentService.List(c.Request.Context(), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comments)
}

// GetComment godoc
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=domain.Comment}
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId} [get]
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// HideComment godoc
// @Summary      Hide a comment
// @Description  Marks the comment hidden and cancels any scheduled auto-reply
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=domain.Comment}
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId}/hide [post]
func (h *CommentHandler) HideComment(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Hide(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// UnhideComment godoc
// @Summary      Unhide a comment
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=domain.Comment}
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId}/unhide [post]
func (h *CommentHandler) UnhideComment(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Unhide(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// ReplyToComment godoc
// @Summary      Reply to a comment
// @Description  Posts a manual reply through the platform and marks the comment replied
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Param        request body dto.ReplyRequest true "Reply body"
// @Success      200 {object} response.SuccessResponse{data=domain.Comment}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId}/reply [post]
func (h *CommentHandler) ReplyToComment(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	var req dto.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.Reply(c.Request.Context(), commentID, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Removes the comment together with its logs, suggestions and scheduled replies
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

// GetActivityLogs godoc
// @Summary      Get a comment's audit trail
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]domain.ActivityLog}
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId}/activity [get]
func (h *CommentHandler) GetActivityLogs(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	logs, err := h.commentService.ActivityLogs(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, logs)
}

// GetSuggestions godoc
// @Summary      List stored reply suggestions for a comment
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]domain.ReplySuggestion}
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId}/suggestions [get]
func (h *CommentHandler) GetSuggestions(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	suggestions, err := h.commentService.Suggestions(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, suggestions)
}

// GenerateSuggestion godoc
// @Summary      Generate a reply suggestion
// @Description  Produces and stores a reply candidate without sending it
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      201 {object} response.SuccessResponse{data=domain.ReplySuggestion}
// @Failure      404 {object} response.ErrorResponse
// @Router       /comments/{commentId}/suggestions [post]
func (h *CommentHandler) GenerateSuggestion(c *gin.Context) {
	commentID, ok := h.parseCommentID(c)
	if !ok {
		return
	}

	suggestion, err := h.commentService.GenerateSuggestion(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, suggestion)
}

// RescanPost godoc
// @Summary      Rescan a post
// @Description  Re-reads the post's live comment list and converges the local store
// @Tags         rescan
// @Accept       json
// @Produce      json
// @Param        request body dto.RescanRequest true "Rescan target"
// @Success      200 {object} response.SuccessResponse{data=service.RescanSummary}
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "Rescan already in progress"
// @Router       /rescan [post]
func (h *CommentHandler) RescanPost(c *gin.Context) {
	var req dto.RescanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	summary, err := h.rescanService.RescanPost(c.Request.Context(), domain.Platform(req.Platform), req.PostID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, summary)
}

func (h *CommentHandler) parseCommentID(c *gin.Context) (uuid.UUID, bool) {
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return uuid.Nil, false
	}
	return commentID, true
}
