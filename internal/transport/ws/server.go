package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"lineae.dev/internal/host"
	"lineae.dev/internal/protocol"
)

type Server struct {
	sess *host.Session
	log  *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(sess *host.Session, logger *log.Logger) *Server {
	s := &Server{
		sess: sess,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out := make(chan []byte, 32)
		seat, ok := s.handshake(conn, out)
		if !ok {
			return
		}
		defer s.sess.Leave(out)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()
		s.sess.Sync(out)

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			res, ok := s.handle(seat, msg)
			if !ok {
				continue
			}
			b, err := json.Marshal(res)
			if err != nil {
				s.log.Printf("encode result: %v", err)
				continue
			}
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handle answers one inbound message. Messages of unknown type are ignored.
func (s *Server) handle(seat int, msg []byte) (protocol.ResultMsg, bool) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return badRequest("", protocol.ErrProtoBadRequest, err.Error()), true
	}
	if base.ProtocolVersion != protocol.Version {
		return badRequest("", protocol.ErrProtoVersion, "protocol_version must be "+protocol.Version), true
	}
	switch base.Type {
	case protocol.TypeAct:
		act, suggestion, err := protocol.DecodeAct(msg)
		if err != nil {
			code := protocol.ErrProtoBadRequest
			if suggestion != "" || act.Action.Type != "" {
				code = protocol.ErrUnknownAction
			}
			r := badRequest(act.ActID, code, err.Error())
			r.Suggestion = suggestion
			return r, true
		}
		return s.sess.Act(seat, act.ActID, act.Action), true
	case protocol.TypeAdvance:
		var adv protocol.AdvanceMsg
		if err := json.Unmarshal(msg, &adv); err != nil {
			return badRequest("", protocol.ErrProtoBadRequest, err.Error()), true
		}
		return s.sess.Advance(seat, adv.ActID), true
	}
	return protocol.ResultMsg{}, false
}

func badRequest(actID, code, msg string) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ResultFor:       actID,
		Code:            code,
		Message:         msg,
	}
}

func (s *Server) handshake(conn *websocket.Conn, out chan []byte) (int, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return 0, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, "expected HELLO")
		return 0, false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return 0, false
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, "bad protocol_version")
		return 0, false
	}

	w, err := s.sess.Join(hello.PlayerName, hello.Spectator, out)
	if err != nil {
		s.log.Printf("join %q: %v", hello.PlayerName, err)
		closeWith(conn, err.Error())
		return 0, false
	}
	if err := writeJSON(conn, w); err != nil {
		s.sess.Leave(out)
		return 0, false
	}
	s.log.Printf("seat %d joined as %q", w.Seat, hello.PlayerName)
	return w.Seat, true
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
