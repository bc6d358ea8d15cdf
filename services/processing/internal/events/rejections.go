package events

import (
	"context"
	"encoding/json"
	"fmt"

	domainerrors "dsjobs/common/errors"
	"dsjobs/services/processing/internal/config"
	"dsjobs/services/processing/internal/models"

	"github.com/nats-io/nats.go"
)

type publisher interface {
	Publish(subject string, data []byte) error
}

// RejectionPublisher announces every rejection on the reject subject, one
// message per failed field.
type RejectionPublisher struct {
	conn    publisher
	subject string
}

func NewRejectionPublisher(nc *nats.Conn, cfg *config.Config) *RejectionPublisher {
	return &RejectionPublisher{conn: nc, subject: cfg.RejectSubject}
}

func (p *RejectionPublisher) PublishRejections(ctx context.Context, rejections []models.Rejection) error {
	for _, r := range rejections {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := json.Marshal(r)
		if err != nil {
			return domainerrors.Internal("marshalling rejection", err)
		}
		if err := p.conn.Publish(p.subject, data); err != nil {
			return domainerrors.Unavailable(fmt.Sprintf("publishing rejection for record %s", r.RecordID), err)
		}
	}
	return nil
}
