package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", `{"websites":["acme.com"],"social_links":[]}`, `{"websites":["acme.com"],"social_links":[]}`, true},
		{"commentary", "Sure! Here you go:\n{\"websites\":[]}\nHope it helps {not json}", `{"websites":[]}`, true},
		{"nested", `x {"a":{"b":1},"c":"}"} y {"d":2}`, `{"a":{"b":1},"c":"}"}`, true},
		{"escaped quote", `{"a":"say \"}\" now"}`, `{"a":"say \"}\" now"}`, true},
		{"unbalanced prefix", `{ broken {"ok":true}`, `{"ok":true}`, true},
		{"none", "no json here", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitSections(t *testing.T) {
	text := "Here is your email\nSUBJECT:\nApplication for Web Developer\n\nBODY:\n<p>Hi,</p>\n"
	sections := SplitSections(text, "SUBJECT:", "BODY:")
	assert.Equal(t, "Application for Web Developer", sections["SUBJECT:"])
	assert.Equal(t, "<p>Hi,</p>", sections["BODY:"])

	reversed := SplitSections("BODY: b SUBJECT: s", "SUBJECT:", "BODY:")
	assert.Equal(t, "s", reversed["SUBJECT:"])
	assert.Equal(t, "b", reversed["BODY:"])

	missing := SplitSections("MESSAGE only", "SUBJECT:", "BODY:")
	assert.Empty(t, missing)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewLangChainCompleter(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLangChainCompleter(t *testing.T) {
	var got map[string]any
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gemma2-9b-it",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"websites\":[\"acme.com\"]}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	c, err := NewLangChainCompleter(Config{BaseURL: srv.URL + "/openai/v1/", APIKey: "secret", Model: "default-model", Timeout: 5 * time.Second})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "You extract links."},
			{Role: RoleUser, Content: "Job text"},
		},
		Model:       "gemma2-9b-it",
		MaxTokens:   500,
		Temperature: 0.4,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"websites":["acme.com"]}`, out)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.True(t, strings.HasSuffix(gotPath, "/chat/completions"), gotPath)
	assert.Equal(t, "gemma2-9b-it", got["model"])

	messages, _ := got["messages"].([]any)
	require.Len(t, messages, 2)
	first, _ := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
}

func TestLangChainCompleterRejectsEmptyRequest(t *testing.T) {
	c, err := NewLangChainCompleter(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), Request{})
	assert.Error(t, err)
}
