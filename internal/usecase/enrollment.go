package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/marathon-wallet/internal/domain"
)

// EnrollTx adds a paying user to a marathon inside tx. The marathon row is
// locked first so the capacity and membership checks hold until commit.
func (uc *PaymentUseCase) EnrollTx(ctx context.Context, tx Transaction, marathonID, userID, paymentID string) (*domain.Participant, error) {
	marathon, err := uc.marathonRepo.GetByIDForUpdate(ctx, tx, marathonID)
	if err != nil {
		return nil, err
	}

	if !marathon.HasCapacity() {
		return nil, fmt.Errorf("%w: marathon %s has %d/%d players", domain.ErrCapacityExceeded, marathonID, marathon.CurrentPlayers, marathon.MaxPlayers)
	}

	enrolled, err := uc.marathonRepo.IsParticipantTx(ctx, tx, marathonID, userID)
	if err != nil {
		return nil, err
	}

	if enrolled {
		return nil, fmt.Errorf("%w: user %s in marathon %s", domain.ErrAlreadyEnrolled, userID, marathonID)
	}

	participant := &domain.Participant{
		ID:         uc.idGen.Generate(),
		MarathonID: marathonID,
		UserID:     userID,
		PaymentID:  paymentID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := uc.marathonRepo.AddParticipant(ctx, tx, participant); err != nil {
		return nil, err
	}

	return participant, nil
}

// isEnrollmentRejection reports whether a completion failure leaves the
// payment COMPLETED with a failed fulfillment instead of rolling back.
func isEnrollmentRejection(err error) bool {
	return errors.Is(err, domain.ErrCapacityExceeded) || errors.Is(err, domain.ErrAlreadyEnrolled)
}

func enrollmentFailureReason(err error) string {
	if errors.Is(err, domain.ErrAlreadyEnrolled) {
		return "already_enrolled"
	}
	return "capacity_exceeded"
}
