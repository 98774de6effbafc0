package domain

// MemberPreference holds per-channel display and notification flags chosen
// by a client user
type MemberPreference struct {
	Display bool `json:"display"`
	Notify  bool `json:"notify"`
}

// DefaultMemberPreference is applied to channels without an explicit entry
func DefaultMemberPreference() MemberPreference {
	return MemberPreference{Display: true, Notify: true}
}

// Preferences maps channel ids to member preferences
type Preferences map[string]MemberPreference

// For returns the preference for a channel, falling back to the default
func (p Preferences) For(channelID string) MemberPreference {
	if pref, ok := p[channelID]; ok {
		return pref
	}
	return DefaultMemberPreference()
}

// HideChannels builds preferences that hide the given channels from display
func HideChannels(channelIDs ...string) Preferences {
	prefs := make(Preferences, len(channelIDs))
	for _, id := range channelIDs {
		if id == "" {
			continue
		}
		pref := DefaultMemberPreference()
		pref.Display = false
		prefs[id] = pref
	}
	return prefs
}
