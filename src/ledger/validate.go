package ledger

import (
	"fmt"

	"ledger-server/src/models"
)

// ValidateDraft checks the structural invariants that hold for every draft
// regardless of store state: a known kind, a strictly positive amount, an
// effective date, and the kind-dependent account/category shape. Violations
// are reported as ValidationError and never mutate the stored draft.
func ValidateDraft(d *models.Draft) error {
	if !d.Kind.Valid() {
		return validationf("unknown transaction type %q", d.Kind)
	}
	if !d.Amount.IsPositive() {
		return validationf("amount must be greater than zero, got %s", d.Amount)
	}
	if d.Date.IsZero() {
		return validationf("effective date is required")
	}
	switch d.Kind {
	case models.KindTransfer:
		if d.TargetAccountID == nil {
			return validationf("transfer requires a target account")
		}
		if *d.TargetAccountID == d.AccountID {
			return validationf("transfer source and target accounts must differ")
		}
		if d.CategoryID != nil {
			return validationf("transfer must not have a category")
		}
	case models.KindIncome, models.KindExpense:
		if d.TargetAccountID != nil {
			return validationf("%s must not have a target account", d.Kind)
		}
	}
	return nil
}

// CheckRefs validates the draft's references at save time: accounts must
// exist and be active, and the category, when set, must exist and match the
// draft's kind. Violations are ValidationError.
func CheckRefs(d *models.Draft, src, tgt *models.Account, cat *models.Category) error {
	return checkRefs(d, src, tgt, cat, false)
}

// CheckRefsAtCommit re-validates the same references at commit time.
// A reference that has vanished or been disabled since the draft was last
// edited is a StaleReferenceError, and income/expense drafts must carry a
// category by the time they commit.
func CheckRefsAtCommit(d *models.Draft, src, tgt *models.Account, cat *models.Category) error {
	return checkRefs(d, src, tgt, cat, true)
}

func checkRefs(d *models.Draft, src, tgt *models.Account, cat *models.Category, commit bool) error {
	fail := func(format string, args ...any) error {
		if commit {
			return &StaleReferenceError{Reason: fmt.Sprintf(format, args...)}
		}
		return validationf(format, args...)
	}
	if src == nil {
		return fail("account %d does not exist", d.AccountID)
	}
	if !src.Active {
		return fail("account %d is disabled", src.ID)
	}
	if d.Kind == models.KindTransfer {
		if tgt == nil {
			return fail("target account %d does not exist", *d.TargetAccountID)
		}
		if !tgt.Active {
			return fail("target account %d is disabled", tgt.ID)
		}
	}
	if d.CategoryID != nil {
		if cat == nil {
			return fail("category %d does not exist", *d.CategoryID)
		}
		if cat.Kind != d.Kind {
			// A mismatched category is a structural problem, not a stale
			// reference, even at commit time.
			return validationf("category %q is a %s category, draft is %s", cat.Name, cat.Kind, d.Kind)
		}
	} else if commit && d.Kind != models.KindTransfer {
		return validationf("%s requires a category to commit", d.Kind)
	}
	return nil
}
