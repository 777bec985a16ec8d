package memory

import (
	"github.com/pitchside-lab/pitchside/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	profile *profileRepository
	session *sessionRepository
	message *messageRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		profile: newProfileRepository(),
		session: newSessionRepository(),
		message: newMessageRepository(),
	}
}

func (m *Memory) Profile() interfaces.ProfileRepository {
	return m.profile
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

func (m *Memory) Message() interfaces.MessageRepository {
	return m.message
}

func (m *Memory) Close() error {
	return nil
}
