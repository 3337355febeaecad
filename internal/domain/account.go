package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxAccounts caps how many accounts can be linked at the same time.
const MaxAccounts = 5

type AccountID string

// Account is a linked account. ID, Name, Credential and LastNotifiedThreshold
// are persisted; everything else is rebuilt by polling.
type Account struct {
	ID                    AccountID
	Name                  string
	Credential            string
	LastNotifiedThreshold int

	Session            UsageWindow
	Weekly             UsageWindow
	Secondary          UsageWindow
	HasSecondaryMetric bool
	HasFetchedData     bool
	IsLoading          bool
	ErrorMessage       string
	LastUpdated        time.Time
}

// NewAccount returns an account with unfetched usage windows.
func NewAccount(id AccountID, name, credential string) Account {
	account := Account{ID: id, Name: name, Credential: credential}
	account.ResetFetchState()
	return account
}

// IsConfigured reports whether the account carries a credential.
func (a Account) IsConfigured() bool {
	return strings.TrimSpace(a.Credential) != ""
}

func (a Account) SessionPercentage() int {
	return a.Session.Percentage()
}

func (a Account) WeeklyPercentage() int {
	return a.Weekly.Percentage()
}

func (a Account) SecondaryPercentage() int {
	return a.Secondary.Percentage()
}

// ResetFetchState drops every volatile field back to its unfetched default.
func (a *Account) ResetFetchState() {
	a.Session = NewUsageWindow()
	a.Weekly = NewUsageWindow()
	a.Secondary = NewUsageWindow()
	a.HasSecondaryMetric = false
	a.HasFetchedData = false
	a.IsLoading = false
	a.ErrorMessage = ""
	a.LastUpdated = time.Time{}
}

// NormalizeName trims name and falls back to "Account N" for blank input,
// where position is the 1-based slot of the account.
func NormalizeName(name string, position int) string {
	trimmed := strings.TrimSpace(name)
	if trimmed != "" {
		return trimmed
	}

	return fmt.Sprintf("Account %d", position)
}
