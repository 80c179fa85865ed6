package service

import (
	"office_web/internal/config"
	"office_web/internal/hub"
	"office_web/internal/repository"
)

type Services struct {
	User        *UserService
	Chat        *ChatService
	MeetingRoom *MeetingRoomService
	MeetingChat *MeetingChatService
	Hub         *hub.Hub
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	userService := NewUserService(repos.User)
	chatService := NewChatService(repos.ChatRoom, repos.ChatMember, repos.ChatMessage, repos.User)
	meetingRoomService := NewMeetingRoomService(repos.MeetingRoom, repos.MeetingParticipant)
	meetingChatService := NewMeetingChatService(repos.MeetingMessage, repos.MeetingRoom)

	// one hub serves both channels; the persistence gateway differs by kind
	h := hub.New(
		hub.Options{
			HistoryLimit: cfg.Hub.HistoryLimit,
			SendBuffer:   cfg.Hub.SendBuffer,
			ReadLimit:    cfg.Hub.ReadLimit,
		},
		map[hub.RoomKind]hub.MessageStore{
			hub.KindChat:    chatService,
			hub.KindMeeting: meetingChatService,
		},
		meetingRoomService,
	)

	return &Services{
		User:        userService,
		Chat:        chatService,
		MeetingRoom: meetingRoomService,
		MeetingChat: meetingChatService,
		Hub:         h,
	}
}
