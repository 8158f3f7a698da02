package handlers

import (
	"errors"
	"net/http"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/handlers/render"
	"github.com/pcarvalho/editassist/internal/handlers/userctx"
	"github.com/pcarvalho/editassist/internal/logger"
	"github.com/pcarvalho/editassist/internal/models"
)

func handleChat(chatService chatService, l logger.Logger) http.Handler {
	type message struct {
		Role    string `json:"role" validate:"required,oneof=user assistant system"`
		Content string `json:"content" validate:"required"`
	}
	type mediaFile struct {
		Name string `json:"name" validate:"required"`
		Type string `json:"type"`
		Size int64  `json:"size" validate:"min=0"`
	}
	type request struct {
		Messages     []message   `json:"messages" validate:"required,min=1,dive"`
		MediaContext []mediaFile `json:"mediaContext" validate:"dive"`
		EditRequest  string      `json:"editRequest"`
		Carousel     bool        `json:"carousel"`
	}
	type response struct {
		Message string `json:"message"`
		Credits int    `json:"credits"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		editReq := models.EditRequest{
			Messages:     make([]models.ChatMessage, 0, len(data.Messages)),
			MediaContext: make([]models.MediaFile, 0, len(data.MediaContext)),
			EditRequest:  data.EditRequest,
			Carousel:     data.Carousel,
		}
		for _, m := range data.Messages {
			editReq.Messages = append(editReq.Messages, models.ChatMessage{Role: m.Role, Content: m.Content})
		}
		for _, m := range data.MediaContext {
			editReq.MediaContext = append(editReq.MediaContext, models.MediaFile{Name: m.Name, Type: m.Type, Size: m.Size})
		}

		result, err := chatService.Edit(r.Context(), user.ID, editReq)

		switch {
		case err == nil:
			render.JSON(w, response{Message: result.Message, Credits: result.Credits})
		case errors.Is(err, apperrors.ErrInsufficientCredits):
			render.ServiceError(w, "Insufficient credits", http.StatusPaymentRequired)
		case errors.Is(err, apperrors.ErrAssistantNotConfigured):
			render.ServiceError(w, "Assistant API key is not configured", http.StatusInternalServerError)
		default:
			l.Error("Failed to process chat request", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
