package domain

import "slices"

// ContactList holds one user's outgoing relationships. Contacts and Blocked
// never share a member, and the owner is never in Contacts.
type ContactList struct {
	Username string
	Contacts []string
	Blocked  []string
}

func (c ContactList) HasContact(username string) bool {
	return slices.Contains(c.Contacts, username)
}

func (c ContactList) HasBlocked(username string) bool {
	return slices.Contains(c.Blocked, username)
}
