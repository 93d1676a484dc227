package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"trivia-rush/internal/app"
	"trivia-rush/internal/domain"
	"trivia-rush/internal/scoreboard"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	banks       app.BankRepository
	scores      *scoreboard.Store
	defaultBank string
	upgrader    websocket.Upgrader
}

func NewWSHandler(banks app.BankRepository, scores *scoreboard.Store, defaultBank string) *WSHandler {
	return &WSHandler{
		banks:       banks,
		scores:      scores,
		defaultBank: defaultBank,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Choice int `json:"choice"`
}

type submitScorePayload struct {
	Name string `json:"name"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type questionPayload struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

type scorePayload struct {
	Score int `json:"score"`
}

type timePayload struct {
	Seconds float64 `json:"seconds"`
	Display string  `json:"display"`
}

type answerResultPayload struct {
	Correct bool `json:"correct"`
}

type sessionEndPayload struct {
	Reason domain.EndReason `json:"reason"`
}

type scoreboardPayload struct {
	Entries []domain.ScoreEntry `json:"entries"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wsRenderer forwards session render notifications to the connection's send
// channel. Pushes never block: the session calls the renderer while holding
// its own lock, so a slow client drops stale frames instead of stalling the
// countdown.
type wsRenderer struct {
	send chan outboundMessage[any]
}

func (r *wsRenderer) push(msg outboundMessage[any]) {
	select {
	case r.send <- msg:
	default:
		select {
		case <-r.send:
		default:
		}
		select {
		case r.send <- msg:
		default:
		}
	}
}

func (r *wsRenderer) RenderQuestion(q domain.Question, number int) {
	// The answer index stays server-side.
	r.push(outboundMessage[any]{Type: "question", Payload: questionPayload{
		Number:  number,
		Text:    q.Text,
		Choices: q.Choices,
	}})
}

func (r *wsRenderer) RenderScore(score int) {
	r.push(outboundMessage[any]{Type: "score", Payload: scorePayload{Score: score}})
}

func (r *wsRenderer) RenderTimeRemaining(seconds float64) {
	r.push(outboundMessage[any]{Type: "time", Payload: timePayload{
		Seconds: seconds,
		Display: domain.FormatClock(seconds),
	}})
}

func (r *wsRenderer) RenderAnswerResult(correct bool) {
	r.push(outboundMessage[any]{Type: "answerResult", Payload: answerResultPayload{Correct: correct}})
}

func (r *wsRenderer) RenderSessionEndMessage(reason domain.EndReason) {
	r.push(outboundMessage[any]{Type: "sessionEnd", Payload: sessionEndPayload{Reason: reason}})
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz session per
// connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bank")
	if bankID == "" {
		bankID = h.defaultBank
	}

	bank, err := h.banks.GetBank(r.Context(), bankID)
	if err != nil {
		if errors.Is(err, domain.ErrBankNotFound) {
			http.Error(w, "unknown question bank", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load question bank", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 64)
	renderer := &wsRenderer{send: send}
	session := app.NewSession(uuid.NewString(), bank.Questions, renderer,
		app.WithFinishHandler(func(finalScore int, _ domain.EndReason) {
			renderer.push(outboundMessage[any]{Type: "finalScore", Payload: scorePayload{Score: finalScore}})
		}),
	)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			session.Start()
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				renderer.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			session.SubmitAnswer(payload.Choice)
		case "submitScore":
			var payload submitScorePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				renderer.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid score payload"}})
				continue
			}
			entries, err := h.scores.Add(r.Context(), payload.Name, session.FinalScore())
			if err != nil {
				renderer.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			renderer.push(outboundMessage[any]{Type: "scoreboard", Payload: scoreboardPayload{Entries: entries}})
		case "listScores":
			entries, err := h.scores.List(r.Context())
			if err != nil {
				renderer.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			renderer.push(outboundMessage[any]{Type: "scoreboard", Payload: scoreboardPayload{Entries: entries}})
		case "clearScores":
			if err := h.scores.Clear(r.Context()); err != nil {
				renderer.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			renderer.push(outboundMessage[any]{Type: "scoreboard", Payload: scoreboardPayload{Entries: []domain.ScoreEntry{}}})
		default:
			renderer.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	// No renders can arrive after Close returns, so the channel is safe to close.
	session.Close()
	close(send)
	<-writerDone
}
