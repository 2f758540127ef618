package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/form-service/internal/editor"
	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/render"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// EditorHandler exposes authoring sessions. Every mutating route answers with the updated draft.
type EditorHandler struct {
	BaseHandler
	editorService services.EditorService
}

func NewEditorHandler(editorService services.EditorService, v *validator.Validator, logger utils.Logger) *EditorHandler {
	return &EditorHandler{
		BaseHandler:   NewBaseHandler(logger, v),
		editorService: editorService,
	}
}

type OpenSessionRequest struct {
	FormID string `json:"formId"`
}

type FormDetailsRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	HeaderImage *string `json:"headerImage"`
}

type AddQuestionRequest struct {
	Type models.QuestionType `json:"type" validate:"required,question_type"`
}

type ReorderRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

type SectionRequest struct {
	Section string `json:"section"`
}

type CategorizeItemRequest struct {
	Text          string        `json:"text" validate:"not_blank"`
	CorrectColumn models.Column `json:"correctColumn" validate:"omitempty,column_name"`
}

type MoveItemRequest struct {
	Text        string        `json:"text" validate:"required"`
	Destination models.Column `json:"destination" validate:"required,oneof=pool column1 column2"`
}

type FragmentRequest struct {
	Fragment string `json:"fragment" validate:"not_blank"`
}

type SubQuestionUpdateRequest struct {
	Field editor.SubQuestionField `json:"field" validate:"required,oneof=prompt correctOptionIndex"`
	Value any                     `json:"value"`
}

type OptionValueRequest struct {
	Value string `json:"value"`
}

// OpenSession starts an editor session on a new or existing form
// @Summary Open editor session
// @Tags editor
// @Accept json
// @Param session body OpenSessionRequest false "Existing form to edit"
// @Success 201 {object} services.EditorSession
// @Router /editor/sessions [post]
func (h *EditorHandler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	session, err := h.editorService.Open(c.Request.Context(), req.FormID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *EditorHandler) GetDraft(c *gin.Context) {
	session := ParseStringIDParam(c, "session")
	if session == "" {
		return
	}

	form, err := h.editorService.Draft(c.Request.Context(), session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *EditorHandler) DiscardSession(c *gin.Context) {
	session := ParseStringIDParam(c, "session")
	if session == "" {
		return
	}

	if err := h.editorService.Discard(c.Request.Context(), session); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Editor session discarded"})
}

// RenderDraft renders the draft in edit mode, or fill mode with mode=fill
// @Summary Render draft
// @Tags editor
// @Param session path string true "Session ID"
// @Param mode query string false "edit or fill"
// @Success 200 {object} render.FormView
// @Router /editor/sessions/{session}/render [get]
func (h *EditorHandler) RenderDraft(c *gin.Context) {
	session := ParseStringIDParam(c, "session")
	if session == "" {
		return
	}

	mode, err := render.ParseMode(c.Query("mode"))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid mode", nil, err.Error())
		return
	}
	h.render(c, session, mode)
}

// PreviewDraft shows the draft as a respondent would see it.
func (h *EditorHandler) PreviewDraft(c *gin.Context) {
	session := ParseStringIDParam(c, "session")
	if session == "" {
		return
	}
	h.render(c, session, render.ModeFill)
}

func (h *EditorHandler) render(c *gin.Context, session string, mode render.Mode) {
	view, err := h.editorService.Render(c.Request.Context(), session, mode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveDraft validates and persists the draft
// @Summary Save draft
// @Tags editor
// @Param session path string true "Session ID"
// @Success 200 {object} models.Form
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "save already in progress"
// @Router /editor/sessions/{session}/save [post]
func (h *EditorHandler) SaveDraft(c *gin.Context) {
	session := ParseStringIDParam(c, "session")
	if session == "" {
		return
	}

	h.LogRequest(c, "Saving editor draft", "session_id", session)

	form, err := h.editorService.Save(c.Request.Context(), session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *EditorHandler) UpdateDetails(c *gin.Context) {
	var req FormDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		if req.Title != nil {
			e.SetTitle(*req.Title)
		}
		if req.HeaderImage != nil {
			e.SetHeaderImage(*req.HeaderImage)
		}
		return nil
	})
}

func (h *EditorHandler) AddQuestion(c *gin.Context) {
	var req AddQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		_, err := e.AddQuestion(req.Type)
		return err
	})
}

func (h *EditorHandler) UpdateQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var patch editor.QuestionPatch
	if !h.bindJSON(c, &patch) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		_, err := e.UpdateQuestion(id, patch)
		return err
	})
}

func (h *EditorHandler) DeleteQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		if !e.DeleteQuestion(id) {
			return apperrors.NewNotFoundError("question", id)
		}
		return nil
	})
}

func (h *EditorHandler) ReorderQuestions(c *gin.Context) {
	var req ReorderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		return e.ReorderQuestions(req.From, req.To)
	})
}

func (h *EditorHandler) SetSection(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var req SectionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		if !e.SetSection(id, req.Section) {
			return apperrors.NewNotFoundError("question", id)
		}
		return nil
	})
}

func (h *EditorHandler) ReorderOptions(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var req ReorderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		return e.ReorderOptions(id, req.From, req.To)
	})
}

func (h *EditorHandler) AddCategorizeItem(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var req CategorizeItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		cat, err := e.Categorize(id)
		if err != nil {
			return err
		}
		_, err = cat.AddPoolItem(req.Text, req.CorrectColumn)
		return err
	})
}

func (h *EditorHandler) MoveCategorizeItem(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var req MoveItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		cat, err := e.Categorize(id)
		if err != nil {
			return err
		}
		moved, err := cat.MoveItem(req.Text, req.Destination)
		if err != nil {
			return err
		}
		if !moved {
			return apperrors.NewNotFoundError("item", req.Text)
		}
		return nil
	})
}

func (h *EditorHandler) RemoveCategorizeItem(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var req CategorizeItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		cat, err := e.Categorize(id)
		if err != nil {
			return err
		}
		if !cat.RemoveItem(req.Text) {
			return apperrors.NewNotFoundError("item", req.Text)
		}
		return nil
	})
}

// CreateBlank turns the first occurrence of a fragment in the cloze text into a blank.
func (h *EditorHandler) CreateBlank(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var req FragmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		cloze, err := e.Cloze(id)
		if err != nil {
			return err
		}
		if cloze.CreateBlank(req.Fragment) == "" {
			return apperrors.ValidationErrors{
				*apperrors.NewValidationErrorWithRule("fragment", "must appear in the text outside existing blanks", "contains", req.Fragment),
			}
		}
		return nil
	})
}

func (h *EditorHandler) AddClozeOption(c *gin.Context) {
	h.clozeOption(c, func(cloze *editor.ClozeEditor, fragment string) error {
		cloze.AddOption(fragment)
		return nil
	})
}

func (h *EditorHandler) RemoveClozeOption(c *gin.Context) {
	h.clozeOption(c, func(cloze *editor.ClozeEditor, fragment string) error {
		if !cloze.RemoveOption(fragment) {
			return apperrors.NewNotFoundError("option", fragment)
		}
		return nil
	})
}

func (h *EditorHandler) clozeOption(c *gin.Context, op func(*editor.ClozeEditor, string) error) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	var req FragmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		cloze, err := e.Cloze(id)
		if err != nil {
			return err
		}
		return op(cloze, req.Fragment)
	})
}

func (h *EditorHandler) AddSubQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		comp, err := e.Comprehension(id)
		if err != nil {
			return err
		}
		comp.AddSubQuestion()
		return nil
	})
}

func (h *EditorHandler) UpdateSubQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	index, ok := ParseIntParam(c, "index")
	if !ok {
		return
	}
	var req SubQuestionUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		comp, err := e.Comprehension(id)
		if err != nil {
			return err
		}
		return comp.UpdateSubQuestion(index, req.Field, req.Value)
	})
}

func (h *EditorHandler) UpdateSubQuestionOption(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	index, ok := ParseIntParam(c, "index")
	if !ok {
		return
	}
	option, ok := ParseIntParam(c, "option")
	if !ok {
		return
	}
	var req OptionValueRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		comp, err := e.Comprehension(id)
		if err != nil {
			return err
		}
		return comp.UpdateOption(index, option, req.Value)
	})
}

func (h *EditorHandler) RemoveSubQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "questionId")
	if id == "" {
		return
	}
	index, ok := ParseIntParam(c, "index")
	if !ok {
		return
	}
	h.apply(c, func(e *editor.Editor) error {
		comp, err := e.Comprehension(id)
		if err != nil {
			return err
		}
		return comp.RemoveSubQuestion(index)
	})
}

func (h *EditorHandler) apply(c *gin.Context, op func(*editor.Editor) error) {
	session := ParseStringIDParam(c, "session")
	if session == "" {
		return
	}

	form, err := h.editorService.Apply(c.Request.Context(), session, op)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}
