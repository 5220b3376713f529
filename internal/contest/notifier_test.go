// AngelaMos | 2026
// notifier_test.go

package contest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/config"
)

func notifyConfig(endpoint string) config.NotifyConfig {
	return config.NotifyConfig{
		AlimtalkURL:  endpoint,
		APIKey:       "key-1",
		UserID:       "yugwan",
		SenderKey:    "sender-key",
		Sender:       "041-564-1226",
		TemplateCode: "CONTEST_ACCEPTED",
		Timeout:      time.Second,
	}
}

func TestAlimtalkSendPostsForm(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		_, _ = w.Write([]byte(`{"code":0,"message":"success"}`))
	}))
	defer srv.Close()

	a := NewAlimtalk(notifyConfig(srv.URL), srv.Client())
	require.NoError(t, a.Send(context.Background(), "01012345678", "subject", "hello"))

	assert.Equal(t, "key-1", got.Get("apikey"))
	assert.Equal(t, "yugwan", got.Get("userid"))
	assert.Equal(t, "sender-key", got.Get("senderkey"))
	assert.Equal(t, "CONTEST_ACCEPTED", got.Get("tpl_code"))
	assert.Equal(t, "041-564-1226", got.Get("sender"))
	assert.Equal(t, "01012345678", got.Get("receiver_1"))
	assert.Equal(t, "subject", got.Get("subject_1"))
	assert.Equal(t, "hello", got.Get("message_1"))
}

func TestAlimtalkSendGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":-99,"message":"invalid template"}`))
	}))
	defer srv.Close()

	err := NewAlimtalk(notifyConfig(srv.URL), srv.Client()).Send(context.Background(), "010", "s", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid template")
}

func TestAlimtalkSendHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewAlimtalk(notifyConfig(srv.URL), srv.Client()).Send(context.Background(), "010", "s", "m")
	require.Error(t, err)
}

func TestNotifyAcceptedMessage(t *testing.T) {
	var message string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		message = r.PostForm.Get("message_1")
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	a := NewAlimtalk(notifyConfig(srv.URL), srv.Client())
	a.NotifyAccepted(context.Background(), &Application{ID: 3, Name: "유관순", ContactParent: "01012345678"})

	assert.Equal(t, "[유관순사업회] 유관순 학생의 웅변대회 참가가 확정되었습니다.", message)
}

func TestNotifyAcceptedDisabledIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := notifyConfig(srv.URL)
	cfg.APIKey = ""

	NewAlimtalk(cfg, srv.Client()).NotifyAccepted(context.Background(), &Application{ID: 1})
	assert.False(t, called)
}

func TestNotifyAcceptedSwallowsFailure(t *testing.T) {
	a := NewAlimtalk(notifyConfig("http://127.0.0.1:1/unreachable"), &http.Client{Timeout: 100 * time.Millisecond})

	assert.NotPanics(t, func() {
		a.NotifyAccepted(context.Background(), &Application{ID: 1, ContactParent: "010"})
	})
}
