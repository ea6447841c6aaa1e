package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(m.body))}, nil
}

func TestS3CatalogState_Load(t *testing.T) {
	client := &mockS3{body: `[{"name":"Toast"}]`}
	state := NewS3CatalogState(client, "bucket", "catalog/recipes.json")

	b, err := state.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Toast"}]`, string(b))
	assert.Equal(t, "bucket", aws.ToString(client.input.Bucket))
	assert.Equal(t, "catalog/recipes.json", aws.ToString(client.input.Key))
}

func TestS3CatalogState_LoadError(t *testing.T) {
	client := &mockS3{err: errors.New("access denied")}
	_, err := NewS3CatalogState(client, "bucket", "key").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://bucket/key")
	assert.Contains(t, err.Error(), "access denied")
}
