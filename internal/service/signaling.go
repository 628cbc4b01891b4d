package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/alanya/signaling-server/internal/digest"
	"github.com/alanya/signaling-server/internal/logger"
	"github.com/alanya/signaling-server/internal/model"
	"github.com/alanya/signaling-server/internal/registry"
)

// storeWriteTimeout bounds the best-effort status and address writes that
// run detached from the response path.
const storeWriteTimeout = 5 * time.Second

// Signaling implements the signaling protocol semantics: the authentication
// flow, presence, the two-sided peer address exchange and the call relay.
// It emits responses directly to the involved sessions; transport handlers
// only decode commands and call in here.
type Signaling struct {
	users    model.UserStore
	registry *registry.Registry
	logger   *logger.Logger
}

// NewSignaling creates the protocol engine over the given credential store
// and presence registry.
func NewSignaling(users model.UserStore, registry *registry.Registry, logger *logger.Logger) *Signaling {
	return &Signaling{
		users:    users,
		registry: registry,
		logger:   logger,
	}
}

// Authenticate resolves the identifier against the credential store,
// compares digests and, on success, claims the username in the presence
// registry. A username that already has a live session is refused and the
// new connection is closed; the existing session is untouched.
func (s *Signaling) Authenticate(ctx context.Context, sess *model.Session, data model.AuthenticateData) {
	s.logger.Debug("Signaling service: processing authentication",
		"session_id", sess.ID,
		"identifier", data.Identifier)

	if sess.Authenticated() {
		s.send(sess, model.NewResponse(model.ResponseGenericError, false, "Session is already authenticated.", nil))
		return
	}

	computed := digest.Password(data.Password)

	user, err := s.users.GetByIdentifier(ctx, data.Identifier)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		s.logger.Error("Signaling service: credential lookup failed",
			"session_id", sess.ID,
			"error", err.Error())
		s.send(sess, model.NewResponse(model.ResponseAuthenticationFailed, false, "Server error during authentication.", nil))
		return
	}

	// An unknown identifier and a wrong password produce the same response,
	// so the failure does not reveal which identifiers exist.
	if errors.Is(err, model.ErrNotFound) || user.PasswordDigest != computed {
		s.send(sess, model.NewResponse(model.ResponseAuthenticationFailed, false, "Invalid identifier or password.", nil))
		return
	}

	if !s.registry.InsertIfAbsent(user.Username, sess) {
		s.logger.Info("Signaling service: duplicate login refused",
			"username", user.Username,
			"session_id", sess.ID)
		s.send(sess, model.NewResponse(model.ResponseUserAlreadyConnected, false, "This account is already connected.", nil))
		_ = sess.Close()
		return
	}

	sess.Authenticate(user.ID, user.Username)

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeWriteTimeout)
		defer cancel()
		if err := s.users.SetOnline(ctx, user.ID); err != nil {
			s.logger.Error("Signaling service: failed to mark user online",
				"username", user.Username,
				"error", err.Error())
		}
	}()

	s.logger.Info("Signaling service: user authenticated",
		"username", user.Username,
		"user_id", user.ID,
		"session_id", sess.ID)

	s.send(sess, model.NewResponse(model.ResponseAuthenticationSuccess, true, "Authentication successful.",
		model.AuthSuccessData{ID: user.ID.String(), Username: user.Username}))
}

// RegisterPeerServer records the address the session's user can be reached
// at for direct peer connections. The store write is a best-effort cache
// update and never delays or undoes the success response.
func (s *Signaling) RegisterPeerServer(ctx context.Context, sess *model.Session, data model.ClientServerStartedData) {
	ident, ok := sess.Identity()
	if !ok {
		return
	}

	sess.SetAddress(model.PeerAddress{Host: data.Host, Port: data.Port})

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeWriteTimeout)
		defer cancel()
		if err := s.users.UpdateAdvertisedAddress(ctx, ident.ID, data.Host, data.Port); err != nil {
			s.logger.Error("Signaling service: failed to persist advertised address",
				"username", ident.Username,
				"error", err.Error())
		}
	}()

	s.logger.Info("Signaling service: peer address registered",
		"username", ident.Username,
		"host", data.Host,
		"port", data.Port)

	s.send(sess, model.NewResponse(model.ResponseP2PServerRegistered, true, "Connected and visible to other users.", nil))
}

// GetPeerInfo performs the two-sided address exchange. The requester learns
// the target's address first, then the target is told the requester's, so
// both sides can attempt simultaneous outbound connections.
func (s *Signaling) GetPeerInfo(sess *model.Session, data model.GetPeerInfoData) {
	ident, ok := sess.Identity()
	if !ok {
		return
	}

	target, online := s.registry.Get(data.TargetUsername)
	var targetAddr model.PeerAddress
	hasAddr := false
	if online {
		targetAddr, hasAddr = target.Address()
	}

	if !online || !hasAddr {
		s.send(sess, model.NewResponse(model.ResponseP2PPeerInfo, false, "Peer not reachable.",
			model.PeerInfoData{Username: data.TargetUsername}))
		return
	}

	s.send(sess, model.NewResponse(model.ResponseP2PPeerInfo, true, "Peer online.",
		model.PeerInfoData{Username: data.TargetUsername, Host: targetAddr.Host, Port: targetAddr.Port}))

	requesterAddr, _ := sess.Address()
	s.send(target, model.NewResponse(model.ResponseP2PConnectRequest, true, "Peer requests a direct connection.",
		model.ConnectRequestData{Username: ident.Username, Host: requesterAddr.Host, Port: requesterAddr.Port}))

	s.logger.Info("Signaling service: peer addresses exchanged",
		"requester", ident.Username,
		"target", data.TargetUsername)
}

// InitiateCall relays a call invite to the target. The call identifier must
// parse and name the caller as initiator, otherwise the later CALL_RESPONSE
// could not route back.
func (s *Signaling) InitiateCall(sess *model.Session, data model.InitiateCallData, callType string) {
	ident, ok := sess.Identity()
	if !ok {
		return
	}

	cid, err := model.ParseCallID(data.CallID)
	if err != nil || cid.Initiator != ident.Username {
		s.send(sess, model.NewResponse(model.ResponseGenericError, false, "Invalid call id.", nil))
		return
	}

	target, online := s.registry.Get(data.TargetUsername)
	if !online {
		s.send(sess, model.NewResponse(model.ResponseCallRejectedByPeer, false, "User is not connected.",
			model.CallRejectedData{ResponderUsername: data.TargetUsername}))
		return
	}

	s.logger.Info("Signaling service: relaying call invite",
		"caller", ident.Username,
		"target", data.TargetUsername,
		"call_id", data.CallID,
		"call_type", callType)

	s.send(target, model.NewResponse(model.ResponseNewIncomingCall, true, "Incoming call.",
		model.IncomingCallData{CallerUsername: ident.Username, CallID: data.CallID, Type: callType}))
}

// RespondToCall relays the callee's answer back to the initiator recovered
// from the call identifier, augmented with the callee's advertised address
// so an accepted call can be connected immediately. A vanished initiator
// drops the response silently.
func (s *Signaling) RespondToCall(sess *model.Session, data model.CallResponseData, raw json.RawMessage) {
	ident, ok := sess.Identity()
	if !ok {
		return
	}

	cid, err := model.ParseCallID(data.CallID)
	if err != nil {
		s.send(sess, model.NewResponse(model.ResponseGenericError, false, "Invalid call id.", nil))
		return
	}

	initiator, online := s.registry.Get(cid.Initiator)
	if !online {
		s.logger.Debug("Signaling service: call response dropped, initiator gone",
			"responder", ident.Username,
			"call_id", data.CallID)
		return
	}

	payload := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = map[string]any{"callId": data.CallID, "accepted": data.Accepted}
		}
	}
	addr, _ := sess.Address()
	payload["ip"] = addr.Host
	payload["port"] = addr.Port

	respType := model.ResponseCallRejectedByPeer
	if data.Accepted == "true" {
		respType = model.ResponseCallAcceptedByPeer
	}

	s.logger.Info("Signaling service: relaying call response",
		"responder", ident.Username,
		"initiator", cid.Initiator,
		"call_id", data.CallID,
		"accepted", data.Accepted)

	s.send(initiator, model.NewResponse(respType, true, "Call response.", payload))
}

// EndCall relays a hang-up to the other party. An absent target is dropped
// silently.
func (s *Signaling) EndCall(sess *model.Session, data model.EndCallData) {
	ident, ok := sess.Identity()
	if !ok {
		return
	}

	target, online := s.registry.Get(data.TargetUsername)
	if !online {
		s.logger.Debug("Signaling service: end-call dropped, target gone",
			"caller", ident.Username,
			"target", data.TargetUsername,
			"call_id", data.CallID)
		return
	}

	s.logger.Info("Signaling service: relaying end of call",
		"caller", ident.Username,
		"target", data.TargetUsername,
		"call_id", data.CallID)

	s.send(target, model.NewResponse(model.ResponseCallEndedByPeer, true, "Call ended by peer.",
		model.CallEndedData{Username: ident.Username, CallID: data.CallID, Type: data.Type}))
}

// Cleanup runs when a connection closes. The registry entry is removed
// synchronously, so a reconnect for the same username never races the stale
// entry; the offline status write follows best-effort.
func (s *Signaling) Cleanup(ctx context.Context, sess *model.Session) {
	ident, ok := sess.Identity()
	if !ok {
		s.logger.Debug("Signaling service: unauthenticated client disconnected",
			"session_id", sess.ID)
		return
	}

	s.registry.Remove(ident.Username, sess)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeWriteTimeout)
	defer cancel()
	if err := s.users.SetOffline(ctx, ident.ID); err != nil {
		s.logger.Error("Signaling service: failed to mark user offline",
			"username", ident.Username,
			"error", err.Error())
	}

	s.logger.Info("Signaling service: user disconnected",
		"username", ident.Username,
		"session_id", sess.ID)
}

func (s *Signaling) send(sess *model.Session, resp model.Response) {
	if err := sess.Send(resp); err != nil {
		s.logger.Debug("Signaling service: failed to push response",
			"session_id", sess.ID,
			"response_type", resp.Type,
			"error", err.Error())
	}
}
