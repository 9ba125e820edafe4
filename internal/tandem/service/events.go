package service

// EventKind names the activity that may change a user's badges.
type EventKind string

const (
	EventLogin          EventKind = "login"
	EventMessageSent    EventKind = "message_sent"
	EventContactAdded   EventKind = "contact_added"
	EventProfileUpdated EventKind = "profile_updated"
)

type Event struct {
	Kind     EventKind
	Username string
}

// Publisher accepts activity events. Publish must not block.
type Publisher interface {
	Publish(e Event)
}

func publish(p Publisher, kind EventKind, username string) {
	if p == nil {
		return
	}
	p.Publish(Event{Kind: kind, Username: username})
}
