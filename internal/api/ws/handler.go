package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alanya/signaling-server/internal/logger"
	"github.com/alanya/signaling-server/internal/model"
)

// SignalingService defines the protocol operations the handler dispatches
// to. Responses are emitted by the service directly to the involved
// sessions.
type SignalingService interface {
	Authenticate(ctx context.Context, sess *model.Session, data model.AuthenticateData)
	RegisterPeerServer(ctx context.Context, sess *model.Session, data model.ClientServerStartedData)
	GetPeerInfo(sess *model.Session, data model.GetPeerInfoData)
	InitiateCall(sess *model.Session, data model.InitiateCallData, callType string)
	RespondToCall(sess *model.Session, data model.CallResponseData, raw json.RawMessage)
	EndCall(sess *model.Session, data model.EndCallData)
	Cleanup(ctx context.Context, sess *model.Session)
}

// Handler upgrades HTTP requests to websocket connections and runs one
// message loop per connection: decode the envelope, enforce the
// authentication gate, dispatch to the signaling service. Per-connection
// ordering is preserved because only this loop dispatches for its session;
// sessions on different connections interleave freely.
type Handler struct {
	signaling SignalingService
	logger    *logger.Logger
	upgrader  websocket.Upgrader
}

// NewHandler creates a connection handler over the signaling service.
func NewHandler(signaling SignalingService, logger *logger.Logger) *Handler {
	return &Handler{
		signaling: signaling,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles one client connection for its whole lifetime.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("WS handler: upgrade failed",
			"remote_addr", r.RemoteAddr,
			"error", err.Error())
		return
	}
	defer conn.Close()

	sess := model.NewSession(uuid.New(), NewConn(conn))
	h.logger.Info("WS handler: client connected",
		"session_id", sess.ID,
		"remote_addr", r.RemoteAddr)

	ctx := r.Context()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd model.Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			// Malformed envelope: no valid recipient type to answer with.
			h.logger.Debug("WS handler: dropping non-JSON message",
				"session_id", sess.ID,
				"error", err.Error())
			continue
		}

		if h.dispatch(ctx, sess, cmd) {
			break
		}
	}

	// Registry removal must complete before the connection handling
	// returns, so use a context that survives the request's.
	h.signaling.Cleanup(context.WithoutCancel(ctx), sess)
}

// dispatch routes one decoded command. It reports true when the connection
// should close.
func (h *Handler) dispatch(ctx context.Context, sess *model.Session, cmd model.Command) bool {
	h.logger.Debug("WS handler: command received",
		"session_id", sess.ID,
		"command_type", cmd.Type)

	if !sess.Authenticated() && cmd.Type != model.CommandAuthenticate {
		if err := sess.Send(model.NewResponse(model.ResponseAuthenticationFailed, false, "Authentication required.", nil)); err != nil {
			return true
		}
		return false
	}

	switch cmd.Type {
	case model.CommandAuthenticate:
		var data model.AuthenticateData
		if !h.decode(sess, cmd, &data) {
			return false
		}
		h.signaling.Authenticate(ctx, sess, data)

	case model.CommandClientServerStarted:
		var data model.ClientServerStartedData
		if !h.decode(sess, cmd, &data) {
			return false
		}
		h.signaling.RegisterPeerServer(ctx, sess, data)

	case model.CommandGetPeerInfo:
		var data model.GetPeerInfoData
		if !h.decode(sess, cmd, &data) {
			return false
		}
		h.signaling.GetPeerInfo(sess, data)

	case model.CommandInitiateAudioCall:
		var data model.InitiateCallData
		if !h.decode(sess, cmd, &data) {
			return false
		}
		h.signaling.InitiateCall(sess, data, model.CallTypeAudio)

	case model.CommandInitiateVideoCall:
		var data model.InitiateCallData
		if !h.decode(sess, cmd, &data) {
			return false
		}
		h.signaling.InitiateCall(sess, data, model.CallTypeVideo)

	case model.CommandCallResponse:
		var data model.CallResponseData
		if !h.decode(sess, cmd, &data) {
			return false
		}
		h.signaling.RespondToCall(sess, data, cmd.Data)

	case model.CommandEndCall:
		var data model.EndCallData
		if !h.decode(sess, cmd, &data) {
			return false
		}
		h.signaling.EndCall(sess, data)

	case model.CommandDisconnect:
		return true

	default:
		_ = sess.Send(model.NewResponse(model.ResponseGenericError, false,
			fmt.Sprintf("Unknown command type: %s", cmd.Type), nil))
	}

	return false
}

// decode unmarshals the command payload. A payload that does not match the
// command's shape is dropped like any other malformed message.
func (h *Handler) decode(sess *model.Session, cmd model.Command, into any) bool {
	if err := json.Unmarshal(cmd.Data, into); err != nil {
		h.logger.Debug("WS handler: dropping command with malformed payload",
			"session_id", sess.ID,
			"command_type", cmd.Type,
			"error", err.Error())
		return false
	}
	return true
}
