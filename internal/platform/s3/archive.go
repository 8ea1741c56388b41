package s3

import (
	"context"
	"fmt"
	"path"

	"github.com/imamik/capacityhunt/internal/config"
	"github.com/imamik/capacityhunt/internal/provisioning"
)

// Archive stores final responses under a fixed bucket and prefix.
type Archive struct {
	client *Client
	bucket string
	prefix string
}

var _ provisioning.Archiver = (*Archive)(nil)

// NewArchive creates an Archive from configuration.
func NewArchive(ctx context.Context, cfg config.Archive) (*Archive, error) {
	client, err := NewClient(ctx, cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	return newArchive(client, cfg.Bucket, cfg.Prefix), nil
}

func newArchive(client *Client, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// Prepare makes sure the bucket exists, creating it when missing.
func (a *Archive) Prepare(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return a.client.CreateBucket(ctx, a.bucket)
}

// Archive implements provisioning.Archiver.
func (a *Archive) Archive(ctx context.Context, name string, body []byte) (string, error) {
	key := path.Join(a.prefix, name)
	if err := a.client.PutObject(ctx, a.bucket, key, "application/json", body); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
