package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/handlers/render"
	"github.com/pcarvalho/editassist/internal/handlers/userctx"
	"github.com/pcarvalho/editassist/internal/logger"
)

func handleCredits(ledgerService ledgerService, l logger.Logger) http.Handler {
	type response struct {
		Credits int `json:"credits"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		profile, err := ledgerService.GetProfile(r.Context(), user.ID)

		switch err {
		case nil:
			render.JSON(w, response{Credits: profile.Credits})
		default:
			l.Error("Failed to get profile", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListTransactions(ledgerService ledgerService, l logger.Logger) http.Handler {
	type transaction struct {
		Amount      int       `json:"amount"`
		Kind        string    `json:"type"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		trs, err := ledgerService.ListTransactions(r.Context(), user.ID)

		switch err {
		case nil:
			transactions := make([]transaction, 0, len(trs))
			for _, t := range trs {
				transactions = append(transactions, transaction{
					Amount:      t.Amount,
					Kind:        t.Kind,
					Description: t.Description,
					CreatedAt:   t.CreatedAt,
				})
			}
			render.JSON(w, transactions)
		default:
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handlePackages(ledgerService ledgerService) http.Handler {
	type creditPackage struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Credits int    `json:"credits"`
		Bonus   int    `json:"bonus,omitempty"`
		Price   string `json:"price"`
		Popular bool   `json:"popular,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkgs := ledgerService.Packages()

		packages := make([]creditPackage, 0, len(pkgs))
		for _, p := range pkgs {
			packages = append(packages, creditPackage{
				ID:      p.ID,
				Name:    p.Name,
				Credits: p.Credits,
				Bonus:   p.Bonus,
				Price:   p.Price.StringFixed(2),
				Popular: p.Popular,
			})
		}
		render.JSON(w, packages)
	})
}

func handlePurchase(ledgerService ledgerService, l logger.Logger) http.Handler {
	type request struct {
		Package string `json:"package" validate:"required"`
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

		profile, err := ledgerService.Purchase(r.Context(), user.ID, data.Package)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "Purchase completed successfully", Credits: profile.Credits})
		case errors.Is(err, apperrors.ErrPackageNotFound):
			render.ServiceError(w, "Unknown package", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrPaymentDeclined):
			render.ServiceError(w, "Payment declined", http.StatusPaymentRequired)
		default:
			l.Error("Failed to process purchase", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
