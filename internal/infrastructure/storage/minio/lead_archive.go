package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/landing-ab/internal/domain/lead"
	"github.com/turtacn/landing-ab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/landing-ab/pkg/errors"
)

// LeadPrefix is the object prefix of archived leads.
const LeadPrefix = "leads/"

var _ lead.Archive = (*LeadArchive)(nil)

// LeadArchive writes one JSON object per lead, partitioned by creation day:
// leads/2024/03/01/<id>.json.
type LeadArchive struct {
	client *MinIOClient
	logger logging.Logger
}

func NewLeadArchive(client *MinIOClient, log logging.Logger) *LeadArchive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &LeadArchive{client: client, logger: log}
}

// ObjectKey returns the object name of l.
func ObjectKey(l *lead.Lead) string {
	t := l.CreatedAt.UTC()
	return fmt.Sprintf("%s%04d/%02d/%02d/%s.json", LeadPrefix, t.Year(), t.Month(), t.Day(), l.ID)
}

func (a *LeadArchive) Put(ctx context.Context, l *lead.Lead) error {
	if a.client.isClosed() {
		return ErrMinIOClientClosed
	}
	data, err := json.Marshal(l)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode lead").WithDetail(l.ID)
	}
	opts := minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"source": string(l.Source)},
		UserTags:     map[string]string{"source": string(l.Source)},
	}
	if l.UTMSource != "" {
		opts.UserTags["utm_source"] = l.UTMSource
	}

	key := ObjectKey(l)
	info, err := a.client.GetClient().PutObject(ctx, a.client.Bucket(), key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorage, "archive lead").WithDetail(key)
	}
	a.logger.Debug("lead archived", logging.String("key", key), logging.String("etag", info.ETag))
	return nil
}

//Personal.AI order the ending
