package lifecycle

// Status constants used by the complaint lifecycle.
const (
	StatusUnderReview    = "Em Análise"
	StatusInProgress     = "Em Andamento"
	StatusInVerification = "Em Verificação"
	StatusResolved       = "Resolvido"
	StatusReopened       = "Reaberto"
	StatusCanceled       = "Cancelado"
)

// All lists every status a complaint may hold, in display order.
var All = []string{
	StatusUnderReview,
	StatusInProgress,
	StatusInVerification,
	StatusResolved,
	StatusReopened,
	StatusCanceled,
}

var valid = map[string]struct{}{
	StatusUnderReview:    {},
	StatusInProgress:     {},
	StatusInVerification: {},
	StatusResolved:       {},
	StatusReopened:       {},
	StatusCanceled:       {},
}

// Initial returns the status a complaint is created with.
func Initial() string {
	return StatusUnderReview
}

// IsValid reports whether s is one of the known statuses.
func IsValid(s string) bool {
	_, ok := valid[s]
	return ok
}

// CanTransition reports whether a complaint may move from one status to the
// other. City hall workflows move complaints back and forth freely (a resolved
// complaint can be reopened, a canceled one re-examined), so any valid status
// may follow any valid status. Tightening the graph later means editing only
// this function.
func CanTransition(from, to string) bool {
	return IsValid(from) && IsValid(to)
}
