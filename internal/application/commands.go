package application

// UpdateAccountCommand carries the optional edits applied by Monitor.Update.
// A nil field leaves the stored value unchanged.
type UpdateAccountCommand struct {
	Name       *string
	Credential *string
}
