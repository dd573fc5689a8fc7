package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestCompleteReturnsFirstChoice(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))
		w.Write([]byte(`{"choices":[{"message":{"content":"  1. **Taco Casa**: crunchy classics.  "}},{"message":{"content":"ignored"}}]}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)
	client := NewSuggestClient(exec, "gpt-4o-mini")

	text, err := client.Complete(context.Background(), "user-1", "Suggest restaurants in Austin.")
	require.NoError(t, err)

	assert.Equal(t, "1. **Taco Casa**: crunchy classics.", text)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Equal(t, "user-1", gotReq.User)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "Suggest restaurants in Austin.", gotReq.Messages[1].Content)
}

func TestSuggestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)
	client := NewSuggestClient(exec, "gpt-4o-mini")

	_, err := client.Complete(context.Background(), "user-1", "anything")
	assert.Error(t, err)
}
