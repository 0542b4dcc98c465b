package core

// DefaultCurrency is the base currency every stored amount is assumed to
// be denominated in.
const DefaultCurrency = "NGN"

type (
	// Preferences is the per-user settings document. Each group is
	// persisted under its own key and written on every change.
	Preferences struct {
		Currency      string            `json:"currency"`
		DarkMode      bool              `json:"darkMode"`
		Notifications NotificationPrefs `json:"notifications"`
		Profile       ProfilePrefs      `json:"profile"`
	}

	NotificationPrefs struct {
		Email        bool `json:"email"`
		Push         bool `json:"push"`
		Weekly       bool `json:"weekly"`
		Monthly      bool `json:"monthly"`
		BudgetAlerts bool `json:"budgetAlerts"`
	}

	ProfilePrefs struct {
		DisplayName string `json:"displayName"`
		Phone       string `json:"phone"`
		Timezone    string `json:"timezone"`
	}
)

// DefaultPreferences returns the settings a user starts with before ever
// saving anything.
func DefaultPreferences() Preferences {
	return Preferences{
		Currency: DefaultCurrency,
		Notifications: NotificationPrefs{
			Email:        true,
			Weekly:       true,
			Monthly:      true,
			BudgetAlerts: true,
		},
		Profile: ProfilePrefs{Timezone: "Africa/Lagos"},
	}
}
