package model

import "encoding/json"

// Command is the inbound message envelope.
type Command struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Response is the outbound message envelope. Data is always a JSON object,
// never null; NewResponse enforces that.
type Response struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// NewResponse builds an outbound response. A nil payload is sent as an empty
// object.
func NewResponse(respType string, success bool, message string, data any) Response {
	if data == nil {
		data = struct{}{}
	}
	return Response{
		Type:    respType,
		Success: success,
		Message: message,
		Data:    data,
	}
}

// Command types accepted from clients.
const (
	CommandAuthenticate        = "AUTHENTICATE"
	CommandClientServerStarted = "CLIENT_SERVER_STARTED"
	CommandGetPeerInfo         = "GET_PEER_INFO"
	CommandInitiateAudioCall   = "INITIATE_AUDIO_CALL"
	CommandInitiateVideoCall   = "INITIATE_VIDEO_CALL"
	CommandCallResponse        = "CALL_RESPONSE"
	CommandEndCall             = "END_CALL"
	CommandDisconnect          = "DISCONNECT"
)

// Response types emitted to clients.
const (
	ResponseAuthenticationSuccess = "AUTHENTICATION_SUCCESS"
	ResponseAuthenticationFailed  = "AUTHENTICATION_FAILED"
	ResponseUserAlreadyConnected  = "USER_ALREADY_CONNECTED"
	ResponseP2PServerRegistered   = "P2P_SERVER_REGISTERED"
	ResponseP2PPeerInfo           = "P2P_PEER_INFO"
	ResponseP2PConnectRequest     = "P2P_CONNECT_REQUEST"
	ResponseNewIncomingCall       = "NEW_INCOMING_CALL"
	ResponseCallAcceptedByPeer    = "CALL_ACCEPTED_BY_PEER"
	ResponseCallRejectedByPeer    = "CALL_REJECTED_BY_PEER"
	ResponseCallEndedByPeer       = "CALL_ENDED_BY_PEER"
	ResponseGenericError          = "GENERIC_ERROR"
)

// Call media types carried in call signaling payloads.
const (
	CallTypeAudio = "audio"
	CallTypeVideo = "video"
)

// AuthenticateData is the AUTHENTICATE command payload.
type AuthenticateData struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// ClientServerStartedData is the CLIENT_SERVER_STARTED command payload.
type ClientServerStartedData struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// GetPeerInfoData is the GET_PEER_INFO command payload.
type GetPeerInfoData struct {
	TargetUsername string `json:"targetUsername"`
}

// InitiateCallData is the payload of both INITIATE_AUDIO_CALL and
// INITIATE_VIDEO_CALL.
type InitiateCallData struct {
	TargetUsername string `json:"targetUsername"`
	CallID         string `json:"callId"`
}

// CallResponseData is the CALL_RESPONSE command payload. Accepted is the
// literal string "true" on acceptance, anything else rejects.
type CallResponseData struct {
	CallID   string `json:"callId"`
	Accepted string `json:"accepted"`
}

// EndCallData is the END_CALL command payload.
type EndCallData struct {
	TargetUsername string `json:"targetUsername"`
	CallID         string `json:"callId"`
	Type           string `json:"type"`
}

// AuthSuccessData is the AUTHENTICATION_SUCCESS response payload.
type AuthSuccessData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PeerInfoData is the P2P_PEER_INFO response payload. On failure only the
// username is present.
type PeerInfoData struct {
	Username string `json:"username"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
}

// ConnectRequestData is the P2P_CONNECT_REQUEST response payload pushed to
// the target of a peer-info exchange. Host and port are empty when the
// requester has not advertised an address.
type ConnectRequestData struct {
	Username string `json:"username"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
}

// IncomingCallData is the NEW_INCOMING_CALL response payload.
type IncomingCallData struct {
	CallerUsername string `json:"callerUsername"`
	CallID         string `json:"callId"`
	Type           string `json:"type"`
}

// CallRejectedData is the CALL_REJECTED_BY_PEER payload used when the callee
// is not connected.
type CallRejectedData struct {
	ResponderUsername string `json:"responderUsername"`
}

// CallEndedData is the CALL_ENDED_BY_PEER response payload.
type CallEndedData struct {
	Username string `json:"username"`
	CallID   string `json:"callId"`
	Type     string `json:"type"`
}
