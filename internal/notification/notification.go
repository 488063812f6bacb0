package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

type Kind string

const (
	KindOrderConfirmation Kind = "orderConfirmation"
	KindAdminAlert        Kind = "adminAlert"
	KindStatusUpdate      Kind = "statusUpdate"
	KindContactMessage    Kind = "contactMessage"
)

// Params is the flat key/value map a template is rendered with.
type Params map[string]string

// Gateway sends templated transactional email.
type Gateway interface {
	Send(ctx context.Context, kind Kind, params Params) error
}

var ErrUnknownKind = errors.New("no template configured for notification kind")

// Error is returned when a notification could not be delivered.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notification %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LogGateway writes notifications to the log instead of sending them.
type LogGateway struct {
	logger *zap.Logger
}

func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

func (g *LogGateway) Send(_ context.Context, kind Kind, params Params) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := []zap.Field{zap.String("kind", string(kind))}
	for _, k := range keys {
		fields = append(fields, zap.String(k, params[k]))
	}
	g.logger.Info("notification (relay disabled)", fields...)
	return nil
}
