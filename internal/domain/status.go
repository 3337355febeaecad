package domain

// AccountPercentage is the session percentage of one fetched account.
type AccountPercentage struct {
	AccountID  AccountID
	Name       string
	Percentage int
}

// StatusSignal is the single value pushed to the display. The zero value is
// the "no data" signal and renders as 0%.
type StatusSignal struct {
	Percentage int
	Accounts   []AccountPercentage
	HasData    bool
}

// AggregateStatus reduces the session percentages of every account that has
// fetched data at least once to their maximum.
func AggregateStatus(accounts []Account) StatusSignal {
	var signal StatusSignal
	for _, account := range accounts {
		if !account.HasFetchedData {
			continue
		}

		percentage := account.SessionPercentage()
		signal.Accounts = append(signal.Accounts, AccountPercentage{
			AccountID:  account.ID,
			Name:       account.Name,
			Percentage: percentage,
		})
		if !signal.HasData || percentage > signal.Percentage {
			signal.Percentage = percentage
		}
		signal.HasData = true
	}

	return signal
}
