package repository

import "office_web/internal/storage"

type Repositories struct {
	User               UserRepository
	ChatRoom           ChatRoomRepository
	ChatMember         ChatMemberRepository
	ChatMessage        ChatMessageRepository
	MeetingRoom        MeetingRoomRepository
	MeetingParticipant MeetingParticipantRepository
	MeetingMessage     MeetingMessageRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:               NewUserRepository(db),
		ChatRoom:           NewChatRoomRepository(db),
		ChatMember:         NewChatMemberRepository(db),
		ChatMessage:        NewChatMessageRepository(db),
		MeetingRoom:        NewMeetingRoomRepository(db),
		MeetingParticipant: NewMeetingParticipantRepository(db),
		MeetingMessage:     NewMeetingMessageRepository(db),
	}
}
