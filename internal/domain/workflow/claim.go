package workflow

import "github.com/leggyong/berkeley-expense2/internal/domain/entity"

// NewClaimMachine returns a state machine positioned at the given state and
// loaded with the claim approval chain:
//
//	pending_admin   --APPROVE(admin)-->   pending_finance
//	pending_finance --APPROVE(finance)--> approved
//	pending_*       --REJECT(reviewer)--> rejected
//
// Finance approval deliberately requires the admin stage to have completed
// first; there is no shortcut from pending_admin straight to approved.
func NewClaimMachine(current State) StateMachine {
	b := NewBuilder()

	b.Configure(StatePendingAdmin).
		PermitIf(TriggerApprove, StatePendingFinance, actorIs(entity.RoleAdmin)).
		PermitIf(TriggerReject, StateRejected, reviewers)

	b.Configure(StatePendingFinance).
		PermitIf(TriggerApprove, StateApproved, actorIs(entity.RoleFinance)).
		PermitIf(TriggerReject, StateRejected, reviewers)

	return b.Build(current)
}

func actorIs(role entity.Role) GuardFunc {
	return func(actor entity.Role) bool { return actor == role }
}

func reviewers(actor entity.Role) bool {
	return actor.IsReviewer()
}
