package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/godocompany/roomchat-api/models"
	"github.com/godocompany/roomchat-api/utils"
	socketio "github.com/googollee/go-socket.io"
)

// Response codes carried in every event response payload
const (
	CodeOK       = 200
	CodeError    = 400
	CodeNotFound = 404
)

// globalRoom is the socket.io room every connection joins on connect.
// New-message broadcasts go to every connected client, not only to
// members of the chat room the message was posted in.
const globalRoom = "global"

// SocketContext is the per-connection state. The user id is set at login,
// but event handlers still authorize against the ids carried in each
// payload, not against the connection.
type SocketContext struct {
	UserID       uint64
	SessionToken string
}

// SocketServer is the part of the socket.io server the router uses:
// registering handlers and fanning events out to connected clients.
// Satisfied by *socketio.Server.
type SocketServer interface {
	OnConnect(namespace string, f func(socketio.Conn) error)
	OnDisconnect(namespace string, f func(socketio.Conn, string))
	OnEvent(namespace, event string, f interface{})
	BroadcastToRoom(namespace string, room string, event string, args ...interface{}) bool
}

// SocketsService routes inbound socket.io events to the data services and
// emits the response events
type SocketsService struct {
	Server          SocketServer
	UsersService    *UsersService
	RoomsService    *RoomsService
	MessagesService *MessagesService
	AuthTokens      *AuthTokensService
}

// Setup registers the connection lifecycle hooks and all of the event
// handlers on the socket.io server
func (s *SocketsService) Setup() {

	// When a socket connects
	s.Server.OnConnect("/", func(conn socketio.Conn) error {
		fmt.Println("client connected: ", utils.GetIpAddress(conn.RemoteHeader(), conn.RemoteAddr()))
		conn.SetContext(SocketContext{})
		conn.Join(globalRoom)
		return nil
	})

	// When a socket disconnects
	s.Server.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		fmt.Println("client disconnected: ", utils.GetIpAddress(conn.RemoteHeader(), conn.RemoteAddr()))
		conn.LeaveAll()
	})

	// Register all of the event handlers
	s.Server.OnEvent("/", "registration", s.OnRegistration)
	s.Server.OnEvent("/", "login", s.OnLogin)
	s.Server.OnEvent("/", "create_room", s.OnCreateRoom)
	s.Server.OnEvent("/", "get_rooms", s.OnGetRooms)
	s.Server.OnEvent("/", "get_rooms_by_name", s.OnGetRoomsByName)
	s.Server.OnEvent("/", "add_room", s.OnAddRoom)
	s.Server.OnEvent("/", "get_room_info", s.OnGetRoomInfo)
	s.Server.OnEvent("/", "send_message", s.OnSendMessage)
	s.Server.OnEvent("/", "get_messages", s.OnGetMessages)
	s.Server.OnEvent("/", "leave_room", s.OnLeaveRoom)

}

// Broadcast emits an event to every connected client
func (s *SocketsService) Broadcast(event string, args ...interface{}) bool {
	return s.Server.BroadcastToRoom("/", globalRoom, event, args...)
}

//====================================================================================================
// registration event handler
// Called when a client submits the signup form
//====================================================================================================

type RegistrationMsg struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *SocketsService) OnRegistration(conn socketio.Conn, data RegistrationMsg) error {

	// Create the user with a hashed password
	_, err := s.UsersService.CreateUser(data.Email, data.Name, data.Password)
	if errors.Is(err, ErrDuplicateEmail) {
		conn.Emit("registration_response", map[string]interface{}{
			"code":    CodeError,
			"message": "Email is already registered",
		})
		return nil
	}
	if err != nil {
		return err
	}

	conn.Emit("registration_response", map[string]interface{}{
		"code":    CodeOK,
		"message": "You have registered successfully",
	})
	return nil

}

//====================================================================================================
// login event handler
// Called when a client submits its credentials
//====================================================================================================

type LoginMsg struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (s *SocketsService) OnLogin(conn socketio.Conn, data LoginMsg) error {

	// Find the user with the provided credentials
	user, err := s.UsersService.FindByLogin(data.Email, data.Password)
	if err != nil {
		return err
	}
	if user == nil {
		conn.Emit("login_response", map[string]interface{}{
			"code":    CodeError,
			"message": "Could not log you in",
		})
		return nil
	}

	// Bind the session to the connection. The "remember" flag selects the
	// long token lifetime.
	token, err := s.AuthTokens.CreateToken(user, data.Remember)
	if err != nil {
		return err
	}
	conn.SetContext(SocketContext{
		UserID:       user.ID,
		SessionToken: token,
	})

	conn.Emit("login_response", map[string]interface{}{
		"code": CodeOK,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
	return nil

}

//====================================================================================================
// create_room event handler
// Called when a user creates a new room. The creator becomes a member
// immediately, without a separate add_room call.
//====================================================================================================

type CreateRoomMsg struct {
	RoomName string `json:"room_name"`
	ID       uint64 `json:"id"`
}

func (s *SocketsService) OnCreateRoom(conn socketio.Conn, data CreateRoomMsg) error {

	// Make sure the creator exists
	user, err := s.UsersService.GetUserByID(data.ID)
	if err != nil {
		return err
	}
	if user == nil {
		conn.Emit("add_room_response", map[string]interface{}{
			"code":    CodeNotFound,
			"message": "User not found",
		})
		return nil
	}

	// Create the room along with the creator's membership
	if _, err := s.RoomsService.CreateRoom(data.RoomName, user.ID); err != nil {
		return err
	}

	conn.Emit("add_room_response", map[string]interface{}{
		"code":    CodeOK,
		"message": "You have been added to the room",
	})
	return s.emitRoomsList(conn, user.ID)

}

//====================================================================================================
// get_rooms event handler
// Called to list the rooms the user is a member of
//====================================================================================================

type GetRoomsMsg struct {
	ID uint64 `json:"id"`
}

func (s *SocketsService) OnGetRooms(conn socketio.Conn, data GetRoomsMsg) error {

	// Make sure the user exists
	user, err := s.UsersService.GetUserByID(data.ID)
	if err != nil {
		return err
	}
	if user == nil {
		conn.Emit("get_rooms_response", map[string]interface{}{
			"code":    CodeNotFound,
			"message": "User not found",
		})
		return nil
	}

	return s.emitRoomsList(conn, user.ID)

}

// emitRoomsList sends the caller a refreshed list of the rooms the user
// is a member of
func (s *SocketsService) emitRoomsList(conn socketio.Conn, userID uint64) error {
	rooms, err := s.RoomsService.GetRoomsForUser(userID)
	if err != nil {
		return err
	}
	conn.Emit("get_rooms_response", map[string]interface{}{
		"code":  CodeOK,
		"rooms": serializeRooms(rooms),
	})
	return nil
}

//====================================================================================================
// get_rooms_by_name event handler
// Called to search all rooms by name substring, regardless of membership
//====================================================================================================

type GetRoomsByNameMsg struct {
	RoomName string `json:"room_name"`
}

func (s *SocketsService) OnGetRoomsByName(conn socketio.Conn, data GetRoomsByNameMsg) error {
	rooms, err := s.RoomsService.SearchRoomsByName(data.RoomName)
	if err != nil {
		return err
	}
	conn.Emit("get_rooms_by_name_response", map[string]interface{}{
		"code":  CodeOK,
		"rooms": serializeRooms(rooms),
	})
	return nil
}

//====================================================================================================
// add_room event handler
// Called when a user joins an existing room
//====================================================================================================

type AddRoomMsg struct {
	RoomID uint64 `json:"room_id"`
	UserID uint64 `json:"user_id"`
}

func (s *SocketsService) OnAddRoom(conn socketio.Conn, data AddRoomMsg) error {

	// Make sure both sides of the membership exist
	room, _, err := s.requireRoomAndUser(conn, "add_room_response", data.RoomID, data.UserID)
	if err != nil || room == nil {
		return err
	}

	// Record the membership
	err = s.RoomsService.AddMember(data.RoomID, data.UserID)
	if errors.Is(err, ErrAlreadyMember) {
		conn.Emit("add_room_response", map[string]interface{}{
			"code":    CodeError,
			"message": "You are already in this room",
		})
		return nil
	}
	if err != nil {
		return err
	}

	conn.Emit("add_room_response", map[string]interface{}{
		"code":    CodeOK,
		"message": "You have been added to the room",
	})
	return s.emitRoomsList(conn, data.UserID)

}

//====================================================================================================
// get_room_info event handler
// Called to fetch the details of a room the user is a member of
//====================================================================================================

type GetRoomInfoMsg struct {
	RoomID uint64 `json:"room_id"`
	UserID uint64 `json:"user_id"`
}

func (s *SocketsService) OnGetRoomInfo(conn socketio.Conn, data GetRoomInfoMsg) error {

	// Make sure the room and user exist
	room, _, err := s.requireRoomAndUser(conn, "get_room_info_response", data.RoomID, data.UserID)
	if err != nil || room == nil {
		return err
	}

	// Room details are only visible to members
	member, err := s.RoomsService.IsMember(data.RoomID, data.UserID)
	if err != nil {
		return err
	}
	if !member {
		conn.Emit("get_room_info_response", map[string]interface{}{
			"code":    CodeError,
			"message": "You are not in this room",
		})
		return nil
	}

	conn.Emit("get_room_info_response", map[string]interface{}{
		"code":    CodeOK,
		"message": "Room info retrieved",
		"room":    serializeRoom(room),
	})
	return nil

}

//====================================================================================================
// send_message event handler
// Called when a user posts a message to a room
//====================================================================================================

type SendMessageMsg struct {
	RoomID  uint64 `json:"room_id"`
	UserID  uint64 `json:"user_id"`
	Content string `json:"content"`
	Color   string `json:"color"`
}

func (s *SocketsService) OnSendMessage(conn socketio.Conn, data SendMessageMsg) error {

	// Make sure the room and author exist. There is no membership gate
	// here, unlike get_messages and leave_room: existing clients rely on
	// posting to a room id without having joined it.
	room, user, err := s.requireRoomAndUser(conn, "send_message_response", data.RoomID, data.UserID)
	if err != nil || room == nil {
		return err
	}

	// Persist the message with the server clock
	message, err := s.MessagesService.CreateMessage(data.RoomID, data.UserID, data.Content, data.Color)
	if err != nil {
		return err
	}

	// Acknowledge to the sender, then fan out to every connected client
	conn.Emit("send_message_response", map[string]interface{}{
		"code":    CodeOK,
		"message": "Message sent successfully",
	})
	s.Broadcast("new_message_broadcast", map[string]interface{}{
		"code":    CodeOK,
		"message": serializeMessage(message, user.Name),
	})
	return nil

}

//====================================================================================================
// get_messages event handler
// Called to fetch the recent history of a room the user is a member of
//====================================================================================================

type GetMessagesMsg struct {
	RoomID uint64 `json:"room_id"`
	UserID uint64 `json:"user_id"`
}

func (s *SocketsService) OnGetMessages(conn socketio.Conn, data GetMessagesMsg) error {

	// Make sure the room and user exist
	room, _, err := s.requireRoomAndUser(conn, "get_messages_response", data.RoomID, data.UserID)
	if err != nil || room == nil {
		return err
	}

	// History is only visible to members
	member, err := s.RoomsService.IsMember(data.RoomID, data.UserID)
	if err != nil {
		return err
	}
	if !member {
		conn.Emit("get_messages_response", map[string]interface{}{
			"code":    CodeError,
			"message": "You are not in this room",
		})
		return nil
	}

	// Fetch the recent window, oldest first, with each message annotated
	// with its author's display name
	messages, err := s.MessagesService.GetRecentMessages(data.RoomID)
	if err != nil {
		return err
	}
	serialized := make([]map[string]interface{}, 0, len(messages))
	for _, message := range messages {
		name := ""
		if message.User != nil {
			name = message.User.Name
		}
		serialized = append(serialized, serializeMessage(message, name))
	}
	conn.Emit("get_messages_response", map[string]interface{}{
		"code":     CodeOK,
		"messages": serialized,
	})
	return nil

}

//====================================================================================================
// leave_room event handler
// Called when a member leaves a room
//====================================================================================================

type LeaveRoomMsg struct {
	RoomID uint64 `json:"room_id"`
	UserID uint64 `json:"user_id"`
}

func (s *SocketsService) OnLeaveRoom(conn socketio.Conn, data LeaveRoomMsg) error {

	// Make sure the room and user exist
	room, _, err := s.requireRoomAndUser(conn, "leave_room_response", data.RoomID, data.UserID)
	if err != nil || room == nil {
		return err
	}

	// Remove the membership
	err = s.RoomsService.RemoveMember(data.RoomID, data.UserID)
	if errors.Is(err, ErrNotMember) {
		conn.Emit("leave_room_response", map[string]interface{}{
			"code":    CodeError,
			"message": "You are not in this room",
		})
		return nil
	}
	if err != nil {
		return err
	}

	conn.Emit("leave_room_response", map[string]interface{}{
		"code":    CodeOK,
		"message": "You have left the room",
	})
	return s.emitRoomsList(conn, data.UserID)

}

//====================================================================================================
// Shared helpers
//====================================================================================================

// requireRoomAndUser resolves the room and user referenced by an event
// payload. When one is missing it emits a not-found response on the given
// event and returns nil for both.
func (s *SocketsService) requireRoomAndUser(conn socketio.Conn, responseEvent string, roomID, userID uint64) (*models.Room, *models.User, error) {
	room, err := s.RoomsService.GetRoomByID(roomID)
	if err != nil {
		return nil, nil, err
	}
	if room == nil {
		conn.Emit(responseEvent, map[string]interface{}{
			"code":    CodeNotFound,
			"message": "Room not found",
		})
		return nil, nil, nil
	}
	user, err := s.UsersService.GetUserByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		conn.Emit(responseEvent, map[string]interface{}{
			"code":    CodeNotFound,
			"message": "User not found",
		})
		return nil, nil, nil
	}
	return room, user, nil
}

func serializeRoom(room *models.Room) map[string]interface{} {
	return map[string]interface{}{
		"id":              room.ID,
		"name":            room.Name,
		"creator_user_id": room.CreatorUserID,
	}
}

func serializeRooms(rooms []*models.Room) []map[string]interface{} {
	serialized := make([]map[string]interface{}, 0, len(rooms))
	for _, room := range rooms {
		serialized = append(serialized, serializeRoom(room))
	}
	return serialized
}

func serializeMessage(message *models.Message, userName string) map[string]interface{} {
	return map[string]interface{}{
		"id":        message.ID,
		"user_name": userName,
		"room_id":   message.RoomID,
		"user_id":   message.UserID,
		"time":      formatMessageTime(message.Time),
		"content":   message.Content,
		"color":     message.Color,
	}
}

// formatMessageTime renders a timestamp the way clients expect it: clock
// fields without zero-padding, then the ISO date
func formatMessageTime(t time.Time) string {
	return fmt.Sprintf("%d:%d:%d %s", t.Hour(), t.Minute(), t.Second(), t.Format("2006-01-02"))
}
