package models

// Privacy controls who may see a piece of content.
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyFriends Privacy = "friends_only"
	PrivacyPrivate Privacy = "private"
)

// Valid reports whether p is one of the known privacy levels.
func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyFriends, PrivacyPrivate:
		return true
	}
	return false
}
