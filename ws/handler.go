package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/mehendiverse/marketplace-app/models"
	"github.com/mehendiverse/marketplace-app/services"
	"github.com/mehendiverse/marketplace-app/utils"
	"go.uber.org/zap"
)

// Client-to-server events.
const (
	eventArtistConfirmAppointment = "artist_confirm_appointment"
	eventUserCancelAppointment    = "user_cancel_appointment"
	eventJoinAppointmentRoom      = "join_appointment_room"
	eventSendMessageToRoom        = "send_message_to_appointment_room"
)

// Server-to-client events (besides the ones the lifecycle engine pushes).
const (
	eventAppointmentConfirmed       = "appointment_confirmed"
	eventAppointmentCancelledByUser = "appointment_cancelled_by_user"
	eventAppointmentActionError     = "appointment_action_error"
	eventConfirmationSuccess        = "appointment_confirmation_success"
	eventCancellationSuccess        = "appointment_cancellation_success"
	eventRoomJoined                 = "room_joined"
	eventNewMessageInRoom           = "new_message_in_room"
)

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type appointmentActionData struct {
	AppointmentID uint `json:"appointment_id"`
	ClientID      uint `json:"client_id"`
	ArtistID      uint `json:"artist_id"`
}

type roomMessageData struct {
	AppointmentID uint   `json:"appointment_id"`
	Message       string `json:"message"`
}

// Upgrade authenticates the handshake and allows the websocket upgrade.
// Connections without a valid credential are rejected before any event
// handler runs.
func Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		token = c.Get("x-socket-token")
	}
	if token == "" {
		utils.Log.Warn("socket connection attempt without token")
		return c.Status(fiber.StatusUnauthorized).JSON(utils.NewErrorResponse("Authentication error: Token not provided.", nil))
	}

	userID, role, err := verifySocketToken(token)
	if err != nil {
		utils.Log.Warn("socket authentication failed", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(utils.NewErrorResponse("Authentication error: Invalid token.", nil))
	}

	c.Locals("userID", userID)
	c.Locals("role", role)
	return c.Next()
}

func verifySocketToken(tokenString string) (uint, models.UserRole, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key"
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("no user id in token")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return 0, "", fmt.Errorf("no role in token")
	}
	return uint(id), models.UserRole(role), nil
}

// Handler runs the per-connection event loop: registers the session,
// dispatches client events through the lifecycle engine and cleans up on
// disconnect.
func Handler(hub *Hub, appointments services.IAppointmentService) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID := c.Locals("userID").(uint)
		role := c.Locals("role").(models.UserRole)

		sessionID := hub.RegisterSession(userID, c)
		if role == models.RoleArtist {
			hub.JoinRoom("artists", sessionID, userID)
		}
		defer hub.UnregisterSession(userID, sessionID)

		for {
			var frame inboundFrame
			if err := c.ReadJSON(&frame); err != nil {
				return
			}
			handleFrame(hub, appointments, userID, role, sessionID, frame)
		}
	})
}

func handleFrame(hub *Hub, appointments services.IAppointmentService, userID uint, role models.UserRole, sessionID string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch frame.Event {
	case eventArtistConfirmAppointment:
		var data appointmentActionData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			pushActionError(hub, userID, "Malformed event payload.")
			return
		}
		_, err := appointments.UpdateStatus(ctx, userID, role, data.AppointmentID, services.UpdateStatusRequest{
			Status: string(models.StatusConfirmed),
		})
		if err != nil {
			pushActionError(hub, userID, err.Error())
			return
		}
		hub.PushToUser(data.ClientID, eventAppointmentConfirmed, map[string]interface{}{
			"appointment_id": data.AppointmentID,
			"message":        fmt.Sprintf("Your appointment (ID: %d) has been confirmed by the artist!", data.AppointmentID),
		})
		hub.PushToUser(userID, eventConfirmationSuccess, map[string]interface{}{
			"appointment_id": data.AppointmentID,
		})

	case eventUserCancelAppointment:
		var data appointmentActionData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			pushActionError(hub, userID, "Malformed event payload.")
			return
		}
		_, err := appointments.UpdateStatus(ctx, userID, role, data.AppointmentID, services.UpdateStatusRequest{
			Status: string(models.StatusCancelled),
		})
		if err != nil {
			pushActionError(hub, userID, err.Error())
			return
		}
		hub.PushToUser(data.ArtistID, eventAppointmentCancelledByUser, map[string]interface{}{
			"appointment_id": data.AppointmentID,
			"message":        fmt.Sprintf("Appointment (ID: %d) has been cancelled by the user.", data.AppointmentID),
		})
		hub.PushToUser(userID, eventCancellationSuccess, map[string]interface{}{
			"appointment_id": data.AppointmentID,
		})

	case eventJoinAppointmentRoom:
		var data appointmentActionData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			pushActionError(hub, userID, "Malformed event payload.")
			return
		}
		// Only a party to the appointment (or an admin) may join its room.
		if _, err := appointments.GetByID(ctx, userID, role, data.AppointmentID); err != nil {
			pushActionError(hub, userID, "Not authorized to join this room.")
			return
		}
		room := appointmentRoom(data.AppointmentID)
		hub.JoinRoom(room, sessionID, userID)
		hub.PushToUser(userID, eventRoomJoined, fmt.Sprintf("Successfully joined room %s", room))

	case eventSendMessageToRoom:
		var data roomMessageData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			pushActionError(hub, userID, "Malformed event payload.")
			return
		}
		hub.BroadcastToRoomExcept(eventNewMessageInRoom, map[string]interface{}{
			"sender_id":   userID,
			"sender_role": role,
			"message":     data.Message,
			"timestamp":   time.Now(),
		}, appointmentRoom(data.AppointmentID), sessionID)

	default:
		utils.Log.Debug("ignoring unknown ws event",
			zap.String("event", frame.Event),
			zap.Uint("user_id", userID))
	}
}

func appointmentRoom(appointmentID uint) string {
	return fmt.Sprintf("appointment:%d", appointmentID)
}

func pushActionError(hub *Hub, userID uint, message string) {
	hub.PushToUser(userID, eventAppointmentActionError, map[string]interface{}{
		"message": message,
	})
}
