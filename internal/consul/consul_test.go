package consul

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndDeregister(t *testing.T) {
	var (
		mu           sync.Mutex
		registered   consulapi.AgentServiceRegistration
		deregistered string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.URL.Path == "/v1/agent/service/register":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&registered))
		case strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
			deregistered = strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)

	id, err := RegisterService(client, "storefront", "8080")
	require.NoError(t, err)
	require.NoError(t, DeregisterService(client, id))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "storefront", registered.Name)
	require.Equal(t, 8080, registered.Port)
	require.NotNil(t, registered.Check)
	require.True(t, strings.HasSuffix(registered.Check.HTTP, ":8080/ping"))
	require.Equal(t, id, deregistered)
}

func TestRegisterRejectsBadPort(t *testing.T) {
	client, err := NewClient("127.0.0.1:1")
	require.NoError(t, err)
	_, err = RegisterService(client, "storefront", "http")
	require.Error(t, err)
}
