package hostfuncs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/reglet-dev/wasmer-pipeline/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONHandler(t *testing.T) {
	handler := NewJSONHandler(func(ctx context.Context, req entities.GetEnvRequest) entities.GetEnvResponse {
		return entities.GetEnvResponse{Value: "value of " + req.Name, Found: true}
	})

	t.Run("success", func(t *testing.T) {
		respBytes, err := handler(context.Background(), []byte(`{"name":"HOME"}`))
		require.NoError(t, err)

		var resp entities.GetEnvResponse
		require.NoError(t, json.Unmarshal(respBytes, &resp))
		assert.Equal(t, "value of HOME", resp.Value)
		assert.Nil(t, resp.Error)
	})

	t.Run("invalid JSON returns ErrorResponse", func(t *testing.T) {
		respBytes, err := handler(context.Background(), []byte("{invalid-json"))
		require.NoError(t, err)

		var resp entities.GetEnvResponse
		require.NoError(t, json.Unmarshal(respBytes, &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, CodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "unmarshal")
	})
}

func TestNewJSONHandler_UnencodableResponse(t *testing.T) {
	handler := NewJSONHandler(func(ctx context.Context, _ struct{}) map[string]any {
		return map[string]any{"fn": func() {}}
	})

	respBytes, err := handler(context.Background(), []byte(`{}`))
	require.NoError(t, err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	assert.Equal(t, CodeInternal, resp.Error.Code)
}
