package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
	"github.com/leggyong/berkeley-expense2/internal/domain/workflow"
)

// ClaimService owns the claim lifecycle: submission of the staging set as a
// claim snapshot and the role-gated approve/reject transitions.
type ClaimService interface {
	Submit(ctx context.Context, user *entity.User) (*entity.Claim, error)
	Get(ctx context.Context, user *entity.User, id string) (*entity.Claim, error)
	List(ctx context.Context, user *entity.User) ([]*entity.Claim, error)
	Approve(ctx context.Context, user *entity.User, id, comment string) (*entity.Claim, error)
	Reject(ctx context.Context, user *entity.User, id, comment string) (*entity.Claim, error)
}

type claimServiceImpl struct {
	claimRepo   port.ClaimRepository
	expenseRepo port.ExpenseRepository
	seqRepo     port.SequenceRepository
	txManager   port.TransactionManager
	logger      Logger
	now         func() time.Time
}

// NewClaimService creates a new ClaimService.
func NewClaimService(
	claimRepo port.ClaimRepository,
	expenseRepo port.ExpenseRepository,
	seqRepo port.SequenceRepository,
	txManager port.TransactionManager,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		claimRepo:   claimRepo,
		expenseRepo: expenseRepo,
		seqRepo:     seqRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit bundles the user's staged items into a claim in state
// pending_admin and clears the staging set. Snapshot creation, display-id
// allocation and the staging wipe all happen in one transaction, so an
// interrupted submission leaves the staging set intact.
func (s *claimServiceImpl) Submit(ctx context.Context, user *entity.User) (*entity.Claim, error) {
	if user == nil {
		return nil, permissionErr("no active user")
	}

	office := user.Office()
	if office == nil {
		return nil, validationErr("user %d has unknown office %q", user.ID, user.OfficeCode)
	}

	var claim *entity.Claim
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		staged, err := s.expenseRepo.ListByUser(txCtx, user.ID)
		if err != nil {
			return fmt.Errorf("list staged expenses: %w", err)
		}
		if len(staged) == 0 {
			return validationErr("no staged expenses to submit")
		}

		total := decimal.Zero
		hasOld := false
		for _, item := range staged {
			total = total.Add(item.Amount)
			if item.OlderThanTwoMonths {
				hasOld = true
			}
		}

		now := s.now()
		seq, err := s.seqRepo.Next(txCtx, now.Year())
		if err != nil {
			return fmt.Errorf("allocate claim number: %w", err)
		}

		flags := []string{}
		if hasOld {
			flags = append(flags, entity.FlagOldExpenses)
		}

		claim = &entity.Claim{
			ID:           uuid.NewString(),
			DisplayID:    fmt.Sprintf("EXP-%d-%03d", now.Year(), seq),
			EmployeeID:   user.ID,
			EmployeeName: user.Name,
			Office:       office.Name,
			Currency:     office.Currency,
			Total:        total,
			ItemCount:    len(staged),
			Status:       entity.StatusPendingAdmin,
			SubmittedAt:  now,
			Flags:        flags,
			Items:        staged,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.claimRepo.Create(txCtx, claim); err != nil {
			return fmt.Errorf("create claim: %w", err)
		}
		if err := s.expenseRepo.DeleteByUser(txCtx, user.ID); err != nil {
			return fmt.Errorf("clear staging: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit claim", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("Claim submitted",
		"id", claim.ID,
		"display_id", claim.DisplayID,
		"items", claim.ItemCount,
		"total", claim.Total.String())
	return claim, nil
}

// Get retrieves one claim. Employees may only see their own claims.
func (s *claimServiceImpl) Get(ctx context.Context, user *entity.User, id string) (*entity.Claim, error) {
	if user == nil {
		return nil, permissionErr("no active user")
	}

	claim, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, notFoundErr("claim %s", id)
	}
	if !user.Role.IsReviewer() && claim.EmployeeID != user.ID {
		return nil, permissionErr("claim %s belongs to another employee", id)
	}
	return claim, nil
}

// List returns claims visible to the user: reviewers see every claim,
// employees only their own.
func (s *claimServiceImpl) List(ctx context.Context, user *entity.User) ([]*entity.Claim, error) {
	if user == nil {
		return nil, permissionErr("no active user")
	}
	if user.Role.IsReviewer() {
		return s.claimRepo.List(ctx)
	}
	return s.claimRepo.ListByEmployee(ctx, user.ID)
}

// Approve advances the claim along the approval chain: admin moves
// pending_admin to pending_finance, finance moves pending_finance to
// approved. Finance cannot skip the admin stage.
func (s *claimServiceImpl) Approve(ctx context.Context, user *entity.User, id, comment string) (*entity.Claim, error) {
	return s.transition(ctx, user, id, comment, workflow.TriggerApprove)
}

// Reject moves a pending claim to rejected, terminal.
func (s *claimServiceImpl) Reject(ctx context.Context, user *entity.User, id, comment string) (*entity.Claim, error) {
	return s.transition(ctx, user, id, comment, workflow.TriggerReject)
}

func (s *claimServiceImpl) transition(ctx context.Context, user *entity.User, id, comment string, trigger workflow.Trigger) (*entity.Claim, error) {
	if user == nil {
		return nil, permissionErr("no active user")
	}
	if !user.Role.IsReviewer() {
		return nil, permissionErr("role %s may not %s claims", user.Role, trigger)
	}

	claim, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, notFoundErr("claim %s", id)
	}

	machine := workflow.NewClaimMachine(workflow.State(claim.Status))
	if err := machine.Fire(trigger, user.Role); err != nil {
		return nil, stateErr("%s on claim %s (%s): %v", trigger, claim.DisplayID, claim.Status, err)
	}

	claim.Status = machine.State().String()
	claim.ReviewComment = comment
	claim.UpdatedAt = s.now()
	if err := s.claimRepo.UpdateStatus(ctx, claim.ID, claim.Status, comment); err != nil {
		s.logger.Error("Failed to update claim status", "error", err, "id", claim.ID)
		return nil, err
	}

	s.logger.Info("Claim transitioned",
		"id", claim.ID,
		"display_id", claim.DisplayID,
		"trigger", trigger.String(),
		"status", claim.Status,
		"actor", user.ID)
	return claim, nil
}
