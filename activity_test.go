package auth_test

import (
	"context"
	"errors"
	"testing"

	auth "github.com/goliatone/go-login"
	"github.com/stretchr/testify/assert"
)

func TestMultiActivitySink(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	failing := auth.ActivitySinkFunc(func(context.Context, auth.ActivityEvent) error {
		return errors.New("boom")
	})

	sink := auth.MultiActivitySink{first, nil, failing, second}
	err := sink.Record(context.Background(), auth.ActivityEvent{EventType: auth.ActivityEventLoginSuccess})

	assert.EqualError(t, err, "boom")
	assert.Len(t, first.all(), 1)
	assert.Len(t, second.all(), 1)
}

func TestActivitySinkFunc_Nil(t *testing.T) {
	var fn auth.ActivitySinkFunc
	assert.NoError(t, fn.Record(context.Background(), auth.ActivityEvent{}))
}
