// Package auth holds the administrator roster and the guard used by every
// administrative entry point.
package auth

// NotAuthorizedError signals that a non-admin attempted an admin action.
type NotAuthorizedError struct {
	UserID int64
}

func (e *NotAuthorizedError) Error() string {
	return "auth: user is not an administrator"
}

// Code implements the error-code contract used by handler summaries.
func (e *NotAuthorizedError) Code() string { return "NOT_AUTHORIZED" }

// Roster is the read-only set of administrator user ids, loaded once at startup.
type Roster struct {
	ids map[int64]struct{}
}

// NewRoster builds a roster from configured admin ids.
func NewRoster(ids []int64) *Roster {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			set[id] = struct{}{}
		}
	}
	return &Roster{ids: set}
}

// IsAdmin reports whether the user may perform administrative operations.
func (r *Roster) IsAdmin(userID int64) bool {
	_, ok := r.ids[userID]
	return ok
}

// RequireAdmin returns a NotAuthorizedError for non-admin users.
// Authorization failure is terminal for the invocation; callers must abort.
func (r *Roster) RequireAdmin(userID int64) error {
	if !r.IsAdmin(userID) {
		return &NotAuthorizedError{UserID: userID}
	}
	return nil
}

// Size returns the number of roster members.
func (r *Roster) Size() int { return len(r.ids) }
