package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cx-tal-miterani/table-booking/internal/booking"
	"github.com/cx-tal-miterani/table-booking/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	// sent by the browser
	MessageTypeSelectDate MessageType = "select_date"
	MessageTypeUpdateForm MessageType = "update_form"
	MessageTypeSubmit     MessageType = "submit"

	// sent by the server
	MessageTypeState    MessageType = "state"
	MessageTypeNavigate MessageType = "navigate"
	MessageTypeError    MessageType = "error"
)

// ClientMessage is a request from the booking page
type ClientMessage struct {
	Type MessageType     `json:"type"`
	Date string          `json:"date,omitempty"`
	Form json.RawMessage `json:"form,omitempty"`
}

// ServerMessage is pushed to the booking page
type ServerMessage struct {
	Type      MessageType   `json:"type"`
	State     *booking.View `json:"state,omitempty"`
	Path      string        `json:"path,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// Session is one browser connected to the booking page
type Session struct {
	id         string
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	controller *booking.Controller
	location   *time.Location
	logger     *zap.Logger

	mu       sync.Mutex
	navigate string
}

// Navigate records the page to send the guest to once the current
// submission has been reported.
func (s *Session) Navigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigate = path
}

func (s *Session) takeNavigation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.navigate
	s.navigate = ""
	return path
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) push(msg ServerMessage) {
	msg.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	select {
	case s.send <- data:
	case <-s.done:
	}
}

func (s *Session) pushState(view booking.View) {
	s.push(ServerMessage{Type: MessageTypeState, State: &view})
}

func (s *Session) pushError(message string) {
	s.push(ServerMessage{Type: MessageTypeError, Error: message})
}

// decodeForm overlays raw onto the form currently shown
func (s *Session) decodeForm(raw json.RawMessage) (models.BookingForm, error) {
	form := s.controller.View().Form
	if len(raw) == 0 {
		return form, nil
	}
	if err := json.Unmarshal(raw, &form); err != nil {
		return form, err
	}
	return form, nil
}

func (s *Session) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MessageTypeSelectDate:
		date, err := models.ParseDate(msg.Date, s.location)
		if err != nil {
			s.pushError("Date must be formatted as YYYY-MM-DD")
			return
		}
		// fetches may overlap; the controller drops superseded results
		go func() {
			view, err := s.controller.SelectDate(ctx, date)
			if err != nil {
				s.pushError(err.Error())
			}
			s.pushState(view)
		}()

	case MessageTypeUpdateForm:
		form, err := s.decodeForm(msg.Form)
		if err != nil {
			s.pushError("Invalid form")
			return
		}
		s.pushState(s.controller.UpdateForm(form))

	case MessageTypeSubmit:
		form, err := s.decodeForm(msg.Form)
		if err != nil {
			s.pushError("Invalid form")
			return
		}
		go func() {
			view, err := s.controller.Submit(ctx, form)
			if err != nil {
				s.pushError(err.Error())
			}
			s.pushState(view)
			if path := s.takeNavigation(); path != "" {
				s.push(ServerMessage{Type: MessageTypeNavigate, Path: path})
			}
		}()

	default:
		s.pushError("Unknown message type: " + string(msg.Type))
	}
}

func (s *Session) readPump(ctx context.Context) {
	defer func() {
		s.hub.remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.pushError("Invalid message")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket read failed", zap.String("sessionId", s.id), zap.Error(err))
			}
			return
		}
		s.handle(ctx, msg)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// Handler upgrades requests to booking sessions
type Handler struct {
	hub      *Hub
	service  booking.Service
	location *time.Location
	options  []booking.ControllerOption
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a Handler. opts are applied to every session's controller.
func NewHandler(hub *Hub, service booking.Service, logger *zap.Logger, loc *time.Location, opts ...booking.ControllerOption) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		hub:      hub,
		service:  service,
		location: loc,
		options:  opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP handles GET /api/booking/ws
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	s := &Session{
		id:       uuid.New().String(),
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 16),
		done:     make(chan struct{}),
		location: h.location,
		logger:   h.logger,
	}
	opts := append([]booking.ControllerOption{}, h.options...)
	opts = append(opts, booking.WithNavigator(s))
	s.controller = booking.NewController(h.service, h.logger, opts...)

	if !h.hub.add(s) {
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.writePump()
	go func() {
		s.pushState(s.controller.Mount(ctx))
	}()
	s.readPump(ctx)
}
