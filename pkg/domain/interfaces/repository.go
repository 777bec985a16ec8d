package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Profile() ProfileRepository
	Session() SessionRepository
	Message() MessageRepository

	Close() error
}
