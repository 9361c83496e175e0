package dispatch

import (
	"encoding/json"
	"errors"

	"stagecast/pkg/logger"
	"stagecast/pkg/protocol"
	"stagecast/pkg/registry"
)

// ErrFrameTooLarge is returned when a frame exceeds protocol.MaxPayload.
// The transport must close the offending connection.
var ErrFrameTooLarge = errors.New("frame exceeds maximum payload size")

// Reply is an optional response produced by the external command processor
type Reply struct {
	Payload interface{} `json:"payload"`
}

// Processor interprets all non-administrative command types. Implementations
// may return a reply to be echoed to the originating client, or an error,
// which is logged and swallowed without affecting the connection.
type Processor interface {
	Dispatch(msgType string, payload json.RawMessage, origin string) (*Reply, error)
}

// ProcessorFunc adapts a function to the Processor interface
type ProcessorFunc func(msgType string, payload json.RawMessage, origin string) (*Reply, error)

// Dispatch implements Processor
func (f ProcessorFunc) Dispatch(msgType string, payload json.RawMessage, origin string) (*Reply, error) {
	return f(msgType, payload, origin)
}

// Renamer is the registry surface the dispatcher mutates. Satisfied by
// *registry.Registry.
type Renamer interface {
	Rename(client *registry.Client, newIdentity string) string
	SetURL(identity, url string)
	SetParameters(identity, parameters string)
}

// Dispatcher executes one inbound frame at a time against the registry
type Dispatcher struct {
	registry  Renamer
	processor Processor
}

// New creates a dispatcher bound to a registry and an external processor.
// The processor may be nil, in which case unknown types are dropped.
func New(reg Renamer, processor Processor) *Dispatcher {
	return &Dispatcher{
		registry:  reg,
		processor: processor,
	}
}

// HandleFrame processes one inbound frame for the given client. Only an
// oversized frame yields an error; the caller must then close the
// connection. Everything else is handled or swallowed here.
func (d *Dispatcher) HandleFrame(client *registry.Client, data []byte) error {
	if len(data) > protocol.MaxPayload {
		return ErrFrameTooLarge
	}

	msg, err := protocol.Decode(data)
	if err != nil {
		// Contract: frames that do not follow the format are ignored
		logger.Get().DebugWith("discarding malformed frame", "identity", client.Identity())
		return nil
	}

	switch msg.Type {
	case protocol.TypeGetClientName:
		d.reply(client, protocol.ClientNameMessage(client.Identity()))

	case protocol.TypeSetClientName:
		identity := client.Identity()
		if name, ok := msg.PayloadString(); ok {
			identity = d.registry.Rename(client, name)
		}
		// The current identity is echoed whether or not the rename happened
		d.reply(client, protocol.ClientNameMessage(identity))

	case protocol.TypeSetClientURL:
		if url, ok := msg.PayloadString(); ok {
			d.registry.SetURL(client.Identity(), url)
		}

	case protocol.TypeSetClientParameters:
		if params, ok := payloadText(msg); ok {
			d.registry.SetParameters(client.Identity(), params)
		}

	case protocol.TypeHello:
		if err := client.Send([]byte(protocol.HelloReply)); err != nil {
			logger.Get().DebugWith("hello reply dropped", "identity", client.Identity(), "error", err)
		}

	case protocol.TypeRemoteLog:
		var entry protocol.RemoteLogPayload
		if err := msg.ParsePayload(&entry); err != nil {
			return nil
		}
		if entry.Level != "" && entry.Origin != "" && entry.Text != "" {
			logger.Get().Emit(entry.Level, logger.Origin(entry.Origin), entry.Text)
		}

	default:
		d.forward(client, msg)
	}

	return nil
}

// forward hands an unrecognized command to the external processor and echoes
// any reply back under the same type. Processor errors must never close the
// connection or leak to other clients.
func (d *Dispatcher) forward(client *registry.Client, msg *protocol.Message) {
	if d.processor == nil {
		logger.Get().DebugWith("no processor for message type", "type", string(msg.Type))
		return
	}

	reply, err := d.processor.Dispatch(string(msg.Type), msg.Payload, protocol.OriginWS)
	if err != nil {
		logger.Get().ErrorWithErr("processor rejected command", err,
			"type", string(msg.Type), "identity", client.Identity())
		return
	}
	if reply == nil {
		return
	}

	out, err := protocol.NewMessage(msg.Type, reply.Payload)
	if err != nil {
		logger.Get().ErrorWithErr("failed to encode processor reply", err, "type", string(msg.Type))
		return
	}
	d.reply(client, out)
}

// reply serializes and enqueues a message for the originating client
func (d *Dispatcher) reply(client *registry.Client, msg *protocol.Message) {
	data, err := msg.Encode()
	if err != nil {
		logger.Get().ErrorWithErr("failed to encode reply", err, "type", string(msg.Type))
		return
	}
	if err := client.Send(data); err != nil {
		logger.Get().DebugWith("reply dropped", "identity", client.Identity(), "error", err)
	}
}

// payloadText renders a payload as text: strings verbatim, any other
// non-null value as its raw JSON. Parameters are an opaque payload and keep
// whatever shape the client sent.
func payloadText(msg *protocol.Message) (string, bool) {
	if s, ok := msg.PayloadString(); ok {
		return s, true
	}
	if msg.HasPayload() {
		return string(msg.Payload), true
	}
	return "", false
}
