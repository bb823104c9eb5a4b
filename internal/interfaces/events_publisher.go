package interfaces

// EventPublisher delivers account lifecycle events to interested consumers.
type EventPublisher interface {
	Publish(event string, payload any) error
}
