package service

// EventPublisher receives domain events for the admin live feed. A nil
// publisher disables events; services must tolerate that.
type EventPublisher interface {
	Publish(event string, payload any)
}
