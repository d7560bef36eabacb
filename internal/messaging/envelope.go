package messaging

import (
	"encoding/json"

	"pylocator/internal/model"
)

// JSONRPCVersion is the protocol marker carried by every envelope.
const JSONRPCVersion = "2.0"

// Method names, one per payload kind.
const (
	MethodManager     = "envManager"
	MethodEnvironment = "pythonEnvironment"
	MethodExit        = "exit"
	MethodLog         = "log"
)

// Message is anything the Framer can put on the wire.
type Message interface {
	json.Marshaler
	Method() string
}

// Envelope is one JSON-RPC notification carrying a typed payload. The
// zero value is not useful; build envelopes with the New*Envelope
// functions. Envelopes are immutable.
type Envelope[P any] struct {
	method    string
	params    P
	hasParams bool
}

// wireEnvelope is the JSON shape of an Envelope.
type wireEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

func newEnvelope[P any](method string, params P) Envelope[P] {
	return Envelope[P]{method: method, params: params, hasParams: true}
}

// NewManagerEnvelope wraps a manager report.
func NewManagerEnvelope(manager model.Manager) Envelope[model.Manager] {
	return newEnvelope(MethodManager, manager)
}

// NewEnvironmentEnvelope wraps an environment report.
func NewEnvironmentEnvelope(env model.Environment) Envelope[model.Environment] {
	return newEnvelope(MethodEnvironment, env)
}

// NewExitEnvelope builds the termination notification, which has no params.
func NewExitEnvelope() Envelope[struct{}] {
	return Envelope[struct{}]{method: MethodExit}
}

// NewLogEnvelope wraps one diagnostic log line.
func NewLogEnvelope(message string, level LogLevel) Envelope[LogMessage] {
	return newEnvelope(MethodLog, LogMessage{Message: message, Level: level})
}

// Method returns the JSON-RPC method name.
func (e Envelope[P]) Method() string {
	return e.method
}

// Params returns the payload.
func (e Envelope[P]) Params() P {
	return e.params
}

// MarshalJSON encodes the envelope in its wire form. Params is omitted
// entirely for envelopes built without a payload.
func (e Envelope[P]) MarshalJSON() ([]byte, error) {
	wire := wireEnvelope{JSONRPC: JSONRPCVersion, Method: e.method}
	if e.hasParams {
		wire.Params = e.params
	}
	return json.Marshal(wire)
}

// LogLevel is the severity spelling used in log envelopes.
type LogLevel string

const (
	LogDebug   LogLevel = "debug"
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
)

// LogMessage is the payload of a log envelope.
type LogMessage struct {
	Message string   `json:"message"`
	Level   LogLevel `json:"level"`
}
