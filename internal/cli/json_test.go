package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/nstake/nstake/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineMode_DefaultValue(t *testing.T) {
	oldMode := machineMode
	defer func() { machineMode = oldMode }()

	machineMode = false
	assert.False(t, MachineMode())

	machineMode = true
	assert.True(t, MachineMode())
}

func TestWriteJSONSuccess_BasicData(t *testing.T) {
	var buf bytes.Buffer

	err := WriteJSONSuccess(&buf, map[string]string{"key": "value"})
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	dataMap, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", dataMap["key"])
}

func TestWriteJSONSuccess_NilData(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONSuccess(&buf, nil))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Nil(t, env.Error)
}

func TestWriteJSONError_AllFields(t *testing.T) {
	var buf bytes.Buffer

	details := map[string]string{"url": "http://node.invalid"}
	err := WriteJSONError(&buf, ErrCodeFetchFailed, "Node unreachable", "Check the node is up", details)
	require.NoError(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeFetchFailed, env.Error.Code)
	assert.Equal(t, "Node unreachable", env.Error.Message)
	assert.Equal(t, "Check the node is up", env.Error.Suggestion)

	detailsMap, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "http://node.invalid", detailsMap["url"])
}

func TestWriteJSONFromError_NilError(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSONFromError(&buf, nil))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Nil(t, env.Error)
}

func TestWriteJSONFromError_StructuredError(t *testing.T) {
	var buf bytes.Buffer

	nsErr := errors.New(errors.ErrConfig, "Config file not found", "Run 'nstake config init' to create one")
	require.NoError(t, WriteJSONFromError(&buf, nsErr))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))

	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeConfigNotFound, env.Error.Code)
	assert.Equal(t, "Config file not found", env.Error.Message)
	assert.Equal(t, "Run 'nstake config init' to create one", env.Error.Suggestion)
}

func TestWriteJSONFromError_WrappedStructuredError(t *testing.T) {
	var buf bytes.Buffer

	inner := errors.New(errors.ErrStore, "Failed to save stakers", "")
	require.NoError(t, WriteJSONFromError(&buf, fmt.Errorf("add: %w", inner)))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeStoreFailed, env.Error.Code)
}

func TestErrorToJSON_GenericError(t *testing.T) {
	result := ErrorToJSON(fmt.Errorf("generic error message"))

	require.NotNil(t, result)
	assert.Equal(t, ErrCodeUnknown, result.Code)
	assert.Equal(t, "generic error message", result.Message)
	assert.Empty(t, result.Suggestion)
	assert.Nil(t, ErrorToJSON(nil))
}

func TestErrorToJSON_AllInternalErrorCodes(t *testing.T) {
	tests := []struct {
		internalCode string
		message      string
		wantCode     string
	}{
		{errors.ErrConfig, "Config file not found", ErrCodeConfigNotFound},
		{errors.ErrConfig, "poll.multiplier must be at least 1", ErrCodeConfigInvalid},
		{errors.ErrStore, "Failed to save stakers", ErrCodeStoreFailed},
		{errors.ErrFetch, "Node returned 502", ErrCodeFetchFailed},
		{errors.ErrReport, "Report is not valid JSON", ErrCodeReportInvalid},
		{errors.ErrNotify, "Notifications are not available", ErrCodeNotifyFailed},
		{errors.ErrIndex, "No staker at index 4", ErrCodeIndexOutOfRange},
		{errors.ErrInput, "Staker name is required", ErrCodeInvalidInput},
		{"SOMETHING_ELSE", "?", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			result := ErrorToJSON(errors.New(tt.internalCode, tt.message, "some suggestion"))

			require.NotNil(t, result)
			assert.Equal(t, tt.wantCode, result.Code)
			assert.Equal(t, tt.message, result.Message)
			assert.Equal(t, "some suggestion", result.Suggestion)
		})
	}
}

func TestErrorToJSON_ConfigCauseNotExist(t *testing.T) {
	err := errors.WrapWithCode(os.ErrNotExist, errors.ErrConfig, "Failed to read config file", "")
	result := ErrorToJSON(err)

	assert.Equal(t, ErrCodeConfigNotFound, result.Code)
	details, ok := result.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, os.ErrNotExist.Error(), details["cause"])
}
