package accounts

import "context"

type Stats struct {
	TotalAccounts    int64            `json:"total_accounts"`
	TotalProfiles    int64            `json:"total_profiles"`
	Unsubscribed     int64            `json:"unsubscribed"`
	AccountsPerPlan  map[string]int64 `json:"accounts_per_plan"`
	MonthlyRecurring float64          `json:"monthly_recurring"`
}

type planCount struct {
	Name         string
	MonthlyPrice float64
	Count        int64
}

// Stats summarises accounts for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	out := &Stats{AccountsPerPlan: map[string]int64{}}

	if err := db.Model(&Account{}).Count(&out.TotalAccounts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Profile{}).Count(&out.TotalProfiles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Account{}).Where("subscription_id IS NULL").Count(&out.Unsubscribed).Error; err != nil {
		return nil, err
	}

	var rows []planCount
	err := db.Table("accounts").
		Select("subscriptions.name AS name, subscriptions.monthly_price AS monthly_price, COUNT(*) AS count").
		Joins("JOIN subscriptions ON subscriptions.subscription_id = accounts.subscription_id").
		Group("subscriptions.subscription_id, subscriptions.name, subscriptions.monthly_price").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out.AccountsPerPlan[r.Name] = r.Count
		out.MonthlyRecurring += r.MonthlyPrice * float64(r.Count)
	}
	return out, nil
}
