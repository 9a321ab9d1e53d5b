package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmorph/cloudmorph/pkg/codec"

	_ "github.com/cloudmorph/cloudmorph/pkg/transforms/tagger"
)

func newFakeS3(t *testing.T) (*awss3.Client, *s3mem.Backend) {
	t.Helper()

	backend := s3mem.New()
	ts := httptest.NewServer(gofakes3.New(backend).Server())
	t.Cleanup(ts.Close)

	client := awss3.New(awss3.Options{
		BaseEndpoint: aws.String(ts.URL),
		Region:       "us-east-1",
		UsePathStyle: true,
		Credentials:  aws.AnonymousCredentials{},
	})
	return client, backend
}

func taggerEvent() Event {
	return Event{
		Transform: "tagger",
		Options: map[string]any{
			"tags": map[string]any{"env": "prod"},
		},
	}
}

func TestHandle_TemplateBodyString(t *testing.T) {
	h := New(Options{})

	ev := taggerEvent()
	ev.TemplateBody = "Resources:\n  Bucket:\n    Type: AWS::S3::Bucket\n"

	out, err := h.Handle(context.Background(), ev)
	require.NoError(t, err)

	bucket := out.Resources()["Bucket"].(map[string]any)
	tags := bucket["Properties"].(map[string]any)["Tags"].([]any)
	assert.Equal(t, map[string]any{"Key": "env", "Value": "prod"}, tags[0])
}

func TestHandle_TemplateBodyMapping(t *testing.T) {
	h := New(Options{})

	ev := taggerEvent()
	ev.TemplateBody = map[string]any{
		"Resources": map[string]any{
			"Queue": map[string]any{"Type": "AWS::SQS::Queue"},
		},
	}

	out, err := h.Handle(context.Background(), ev)
	require.NoError(t, err)
	queue := out.Resources()["Queue"].(map[string]any)
	assert.NotNil(t, queue["Properties"])
}

func TestHandle_TemplateLocationAndOutput(t *testing.T) {
	ctx := context.Background()
	client, backend := newFakeS3(t)
	require.NoError(t, backend.CreateBucket("in"))
	require.NoError(t, backend.CreateBucket("out"))

	_, err := client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String("in"),
		Key:    aws.String("stack.yaml"),
		Body:   strings.NewReader("Resources:\n  Bucket:\n    Type: AWS::S3::Bucket\n"),
	})
	require.NoError(t, err)

	h := New(Options{Client: client})

	ev := taggerEvent()
	ev.TemplateLocation = &Location{Bucket: "in", Key: "stack.yaml"}
	ev.OutputLocation = &Location{Bucket: "out", Key: "stack.yaml"}

	out, err := h.Handle(ctx, ev)
	require.NoError(t, err)
	require.NotNil(t, out.Resources())

	obj, err := backend.GetObject("out", "stack.yaml", nil)
	require.NoError(t, err)
	stored, err := io.ReadAll(obj.Contents)
	require.NoError(t, err)

	tmpl, err := codec.Default().Decode(stored)
	require.NoError(t, err)
	bucket := tmpl.Resources()["Bucket"].(map[string]any)
	assert.NotNil(t, bucket["Properties"])
}

func TestHandle_Invalid(t *testing.T) {
	h := New(Options{})

	tests := []struct {
		name string
		ev   Event
	}{
		{name: "unknown_transform", ev: Event{Transform: "nope", TemplateBody: "{}"}},
		{name: "no_template", ev: taggerEvent()},
		{
			name: "both_body_and_location",
			ev: func() Event {
				ev := taggerEvent()
				ev.TemplateBody = "{}"
				ev.TemplateLocation = &Location{Bucket: "b", Key: "k"}
				return ev
			}(),
		},
		{
			name: "unsupported_body_type",
			ev: func() Event {
				ev := taggerEvent()
				ev.TemplateBody = 42
				return ev
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.ev)
			require.Error(t, err)
		})
	}
}
