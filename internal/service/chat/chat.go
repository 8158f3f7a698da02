// Package chat orchestrates one assistant interaction: reserve a credit,
// relay the conversation, refund the reservation if the relay fails. The
// debit-first order means two concurrent submissions from a one-credit
// balance can never both reach the relay.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcarvalho/editassist/internal/apperrors"
	"github.com/pcarvalho/editassist/internal/logger"
	"github.com/pcarvalho/editassist/internal/metrics"
	"github.com/pcarvalho/editassist/internal/models"
)

// Completer relays a conversation to the text-generation service.
type Completer interface {
	Complete(ctx context.Context, req models.EditRequest) (string, error)

	// Configured reports whether a usable upstream credential is present.
	Configured() bool
}

// CreditLedger is the slice of the ledger service the chat flow needs.
type CreditLedger interface {
	SpendCredit(ctx context.Context, userID uuid.UUID) (models.Profile, error)
	RefundCredit(ctx context.Context, userID uuid.UUID) (models.Profile, error)
}

type ChatService struct {
	log       logger.Logger
	ledger    CreditLedger
	assistant Completer
}

func NewService(log logger.Logger, ledger CreditLedger, assistant Completer) *ChatService {
	if log == nil {
		log = logger.NewNoOp()
	}

	return &ChatService{
		log:       log,
		ledger:    ledger,
		assistant: assistant,
	}
}

// Edit runs the gated interaction for the user. On success the returned
// result carries the reply and the balance left after the debit. A failed
// relay call refunds the reserved credit; an unusable credential is
// detected before any credit is reserved.
func (s *ChatService) Edit(ctx context.Context, userID uuid.UUID, req models.EditRequest) (models.EditResult, error) {
	if len(req.Messages) == 0 {
		return models.EditResult{}, fmt.Errorf("conversation must not be empty")
	}

	if !s.assistant.Configured() {
		return models.EditResult{}, apperrors.ErrAssistantNotConfigured
	}

	profile, err := s.ledger.SpendCredit(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientCredits) {
			metrics.RelayCalls.WithLabelValues("rejected").Inc()
		}
		return models.EditResult{}, err
	}

	message, err := s.assistant.Complete(ctx, req)
	if err != nil {
		metrics.RelayCalls.WithLabelValues("failed").Inc()
		refunded, refundErr := s.ledger.RefundCredit(ctx, userID)
		if refundErr != nil {
			// The reservation stays debited. Keep both errors visible.
			s.log.Error("failed to refund reserved credit",
				"user_id", userID.String(), "error", refundErr.Error())
			return models.EditResult{}, errors.Join(err, refundErr)
		}

		s.log.Info("relay call failed, credit refunded",
			"user_id", userID.String(), "credits", refunded.Credits)
		return models.EditResult{}, err
	}

	metrics.RelayCalls.WithLabelValues("ok").Inc()
	metrics.CreditsSpent.Inc()

	return models.EditResult{Message: message, Credits: profile.Credits}, nil
}
