package booking

// Classification is the outcome of classifying one user utterance. Exactly one
// of Ready, NoBooking or NeedsInfo; an unrecognized model reply is reported as
// a *BookingParseError instead.
type Classification interface {
	classification()
}

// Ready carries the four raw fields as the model extracted them. Fields may
// be empty; they are not validated yet.
type Ready struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// NoBooking means the utterance carries no booking intent.
type NoBooking struct{}

// NeedsInfo holds a single clarifying question to relay verbatim.
type NeedsInfo struct {
	Prompt string
}

func (Ready) classification()     {}
func (NoBooking) classification() {}
func (NeedsInfo) classification() {}
