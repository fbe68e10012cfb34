package nodes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/posanalytics/pkg/nodes"
)

func TestClientParsesSuccessfulResponse(t *testing.T) {
	t.Parallel()

	// Arrange
	server := httptest.NewServer(jsonHandler(http.StatusOK, `{
		"Payload": {
			"Guardians": [{"EthAddress": "aaa", "Name": "Alpha"}],
			"CommitteeEvents": [{
				"RefBlock": 100,
				"RefTime": 10,
				"Committee": [{"EthAddress": "aaa", "EffectiveStake": "5", "Weight": 7}]
			}],
			"CurrentCommittee": [{}, {}],
			"CurrentCandidates": []
		}
	}`))
	defer server.Close()

	client := nodes.NewClient(server.Client())

	// Act
	payload, err := client.GetPayload(context.Background(), server.URL)

	// Assert
	require.NoError(t, err)
	require.Len(t, payload.Guardians, 1)
	assert.Equal(t, nodes.Guardian{EthAddress: "aaa", Name: "Alpha"}, payload.Guardians[0])

	require.Len(t, payload.CommitteeEvents, 1)
	event := payload.CommitteeEvents[0]
	assert.Equal(t, uint64(100), event.RefBlock.Uint64())
	assert.Equal(t, int64(10), event.RefTime.Int64())
	require.Len(t, event.Committee, 1)
	assert.Equal(t, 5.0, event.Committee[0].EffectiveStake.Float64())
	assert.Equal(t, 7.0, event.Committee[0].Weight.Float64())

	assert.JSONEq(t, `[{}, {}]`, string(payload.CurrentCommittee))
	assert.JSONEq(t, `[]`, string(payload.CurrentCandidates))
}

func TestClientFailures(t *testing.T) {
	t.Parallel()

	t.Run("it fails on non-2xx status", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(jsonHandler(http.StatusServiceUnavailable, `{"error": "down"}`))
		defer server.Close()

		// Act
		_, err := nodes.NewClient(server.Client()).GetPayload(t.Context(), server.URL)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 503")
	})

	t.Run("it fails on malformed JSON", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(jsonHandler(http.StatusOK, `{"Payload": {`))
		defer server.Close()

		// Act
		_, err := nodes.NewClient(server.Client()).GetPayload(t.Context(), server.URL)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})

	t.Run("it fails when the node is unreachable", func(t *testing.T) {
		t.Parallel()

		// Arrange
		server := httptest.NewServer(jsonHandler(http.StatusOK, `{}`))
		url := server.URL
		server.Close()

		// Act
		_, err := nodes.NewClient(nil).GetPayload(t.Context(), url)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "making request")
	})
}

// jsonHandler creates an HTTP handler that answers with the given status and body
func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
