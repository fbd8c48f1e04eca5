package domain

// Session holds the caller's credentials and resolved tier for one
// interactive run. It is owned by the dispatcher and passed to handlers
// explicitly; it is never persisted. Invariant: the tier is Guest exactly
// when the credentials are empty.
type Session struct {
	Email  string
	Secret string
	Tier   Tier
}

// NewSession returns a fresh Guest session.
func NewSession() *Session {
	return &Session{Tier: TierGuest}
}

// Authenticated reports whether the session has left the Guest tier.
func (s *Session) Authenticated() bool {
	return s.Tier != TierGuest
}

// Promote installs credentials and the tier resolved for them.
func (s *Session) Promote(email, secret string, tier Tier) {
	s.Email = email
	s.Secret = secret
	s.Tier = tier
}

// Reset returns the session to Guest and clears the credentials.
func (s *Session) Reset() {
	s.Email = ""
	s.Secret = ""
	s.Tier = TierGuest
}
