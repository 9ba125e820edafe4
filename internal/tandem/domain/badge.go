package domain

type CriteriaKind string

const (
	// CriteriaMessagesSent: total messages sent >= Threshold.
	CriteriaMessagesSent CriteriaKind = "messages_sent"
	// CriteriaHasConversation: at least one message sent and one received
	// with the same partner.
	CriteriaHasConversation CriteriaKind = "has_conversation"
	// CriteriaLanguagesLearning: languages being learnt > Threshold.
	CriteriaLanguagesLearning CriteriaKind = "languages_learning"
	// CriteriaContactsAdded: contacts >= Threshold.
	CriteriaContactsAdded CriteriaKind = "contacts_added"
)

type Criteria struct {
	Kind      CriteriaKind `json:"kind" bson:"kind"`
	Threshold int          `json:"threshold,omitempty" bson:"threshold,omitempty"`
}

type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Criteria    Criteria
}

// Activity is the set of counters badge criteria are evaluated against.
type Activity struct {
	MessagesSent      int
	HasConversation   bool
	LanguagesLearning int
	Contacts          int
}

// SatisfiedBy evaluates the criterion against a. Unknown kinds never match.
func (c Criteria) SatisfiedBy(a Activity) bool {
	switch c.Kind {
	case CriteriaMessagesSent:
		return a.MessagesSent >= c.Threshold
	case CriteriaHasConversation:
		return a.HasConversation
	case CriteriaLanguagesLearning:
		return a.LanguagesLearning > c.Threshold
	case CriteriaContactsAdded:
		return a.Contacts >= c.Threshold
	default:
		return false
	}
}
