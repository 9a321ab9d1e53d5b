// Copyright 2026 cloudmorph LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package s3 reads and writes templates in Amazon S3. Locations have
// the form "s3://bucket/key".
package s3

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/cloudmorph/cloudmorph/pkg/source"
)

func init() {
	source.Register("s3", New)
}

// 🎯 Object is an S3 object acting as both source and sink.
type Object struct {
	client *s3.Client
	bucket string
	key    string
}

// 🏭 New creates an S3 source and sink for a location, using the
// ambient AWS configuration (environment, shared config, instance
// role).
func New(ctx context.Context, location string) (source.Source, source.Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, errors.Errorf("loading AWS config: %w", err)
	}
	obj, err := NewWithClient(s3.NewFromConfig(cfg), location)
	if err != nil {
		return nil, nil, err
	}
	return obj, obj, nil
}

// 🏭 NewWithClient creates an S3 object over an existing client. Used
// by the handler and by tests that point the client at a fake endpoint.
func NewWithClient(client *s3.Client, location string) (*Object, error) {
	bucket, key, found := strings.Cut(location, "/")
	if !found || bucket == "" || key == "" {
		return nil, errors.Errorf("invalid s3 location %q, want bucket/key", location)
	}
	return &Object{client: client, bucket: bucket, key: key}, nil
}

// 📝 Name returns the object key, so codec selection sees the
// extension.
func (o *Object) Name() string {
	return o.key
}

// 📄 Fetch downloads the object.
func (o *Object) Fetch(ctx context.Context) ([]byte, error) {
	zerolog.Ctx(ctx).Debug().Str("bucket", o.bucket).Str("key", o.key).Msg("downloading template from s3")

	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, errors.Errorf("getting s3://%s/%s: %w", o.bucket, o.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Errorf("reading s3 object body: %w", err)
	}
	return data, nil
}

// 📤 Store uploads the serialized template.
func (o *Object) Store(ctx context.Context, data []byte) error {
	zerolog.Ctx(ctx).Debug().Str("bucket", o.bucket).Str("key", o.key).Msg("uploading template to s3")

	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return errors.Errorf("putting s3://%s/%s: %w", o.bucket, o.key, err)
	}
	return nil
}
