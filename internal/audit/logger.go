// Package audit records administrative calls: who made them, what they
// were given, and what they returned.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/model"
)

// ParamKind tells the logger how a call argument reached the handler.
type ParamKind int

const (
	// ParamOther arguments are not logged.
	ParamOther ParamKind = iota
	// ParamPathVariable arguments came from the URL path.
	ParamPathVariable
	// ParamRequestBody arguments were decoded from the request body.
	ParamRequestBody
)

// Param is one named argument of an audited call.
type Param struct {
	Name  string
	Kind  ParamKind
	Value any
}

// Request describes an audited call. Params keep their declaration order.
type Request struct {
	User   model.AuthUser
	URI    string
	Time   time.Time
	Params []Param
}

// Entry is a completed audit record.
type Entry struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"user_id"`
	URI           string          `json:"uri"`
	RequestTime   time.Time       `json:"request_time"`
	PathVariables json.RawMessage `json:"path_variables"`
	RequestBody   json.RawMessage `json:"request_body"`
	ResponseBody  json.RawMessage `json:"response_body,omitempty"`
	Status        string          `json:"status"`
}

// Publisher ships completed entries elsewhere. It must not block the caller.
type Publisher interface {
	PublishAsync(entry Entry)
}

// Operation is the wrapped admin call.
type Operation func(ctx context.Context) (any, error)

// Logger wraps admin operations with request and response logging.
type Logger struct {
	logger    *slog.Logger
	publisher Publisher
	metrics   metrics.Recorder
}

// NewLogger creates an audit logger. publisher may be nil.
func NewLogger(logger *slog.Logger, publisher Publisher, recorder metrics.Recorder) *Logger {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Logger{
		logger:    logger.With("component", "audit"),
		publisher: publisher,
		metrics:   recorder,
	}
}

// Around logs req, runs op, and logs its result. The result and error of
// op are returned unchanged; a failed op gets no response line.
func (l *Logger) Around(ctx context.Context, req Request, op Operation) (any, error) {
	if req.Time.IsZero() {
		req.Time = time.Now()
	}

	pathVars := encodeParams(req.Params, ParamPathVariable)
	body := encodeParams(req.Params, ParamRequestBody)

	l.logger.InfoContext(ctx, "[Request]",
		"user_id", req.User.ID,
		"time", req.Time.Format(time.RFC3339Nano),
		"url", req.URI,
	)
	l.logger.InfoContext(ctx, "[RequestBody]", "body", string(body))
	l.logger.InfoContext(ctx, "[PathVariable]", "path", string(pathVars))

	entry := Entry{
		ID:            ulid.Make().String(),
		UserID:        req.User.ID,
		URI:           req.URI,
		RequestTime:   req.Time,
		PathVariables: pathVars,
		RequestBody:   body,
	}

	result, err := op(ctx)
	if err != nil {
		entry.Status = metrics.StatusFailed
		l.finish(entry)
		return result, err
	}

	response := encodeValue(result)
	l.logger.InfoContext(ctx, "[ResponseBody]", "body", string(response))

	entry.ResponseBody = response
	entry.Status = metrics.StatusSuccess
	l.finish(entry)

	return result, nil
}

func (l *Logger) finish(entry Entry) {
	l.metrics.IncAuditEntry(entry.Status)
	if l.publisher != nil {
		l.publisher.PublishAsync(entry)
	}
}

// encodeParams renders the params of one kind as a JSON object whose keys
// follow declaration order.
func encodeParams(params []Param, kind ParamKind) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, p := range params {
		if p.Kind != kind {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		name, _ := json.Marshal(p.Name)
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(encodeValue(p.Value))
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// encodeValue marshals v, degrading to a JSON string when v cannot be marshaled.
func encodeValue(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(fmt.Sprintf("%v", v))
	}
	return data
}
