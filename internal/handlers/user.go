package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pcarvalho/editassist/internal/handlers/render"
	"github.com/pcarvalho/editassist/internal/handlers/userctx"
)

func handleUserMe() http.Handler {
	type response struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{ID: user.ID, Email: user.Email})
	})
}
