package httprfc

import (
	"context"
	stdjson "encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bapi-mapper/execution"
)

const baseURL = "https://gateway.example.com/rfc"

func newContext(t *testing.T) (*Context, *http.Client) {
	t.Helper()

	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)

	c := New(WithHTTPClient(hc))
	require.NoError(t, c.Configure(execution.Properties{
		PropertyBaseURL:  baseURL,
		PropertyUser:     "rfc_user",
		PropertyPassword: "secret",
		PropertyTimeout:  "5s",
		"memory.ignored": "x",
	}))

	return c, hc
}

func execute(t *testing.T, c *Context, fn *execution.Function) error {
	t.Helper()

	conn, err := c.Connection(context.Background())
	require.NoError(t, err)

	defer conn.Close()

	return conn.Execute(context.Background(), fn)
}

func TestRegistered(t *testing.T) {
	ctx, err := execution.NewContext(Name)
	require.NoError(t, err)
	assert.IsType(t, &Context{}, ctx)
}

func TestExecute(t *testing.T) {
	c, _ := newContext(t)

	var body map[string]any

	httpmock.RegisterResponder(http.MethodPost, baseURL+"/BAPI_FLIGHT_GETLIST",
		func(req *http.Request) (*http.Response, error) {
			user, password, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "rfc_user", user)
			assert.Equal(t, "secret", password)

			raw, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, &body))

			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"EXPORT": map[string]any{
					"RETURN": map[string]any{"TYPE": "S"},
					"COUNT":  2,
				},
				"TABLES": map[string]any{
					"FLIGHT_LIST": []any{
						map[string]any{"CARRID": "LH", "CONNID": "0400"},
						map[string]any{"CARRID": "AA", "CONNID": "0017"},
					},
				},
			})
		})

	fn := execution.NewFunction("BAPI_FLIGHT_GETLIST")
	fn.Imports["AIRLINE"] = "LH"
	fn.Tables["DATE_RANGE"] = execution.Table{{"SIGN": "I", "OPTION": "EQ", "LOW": "20240101"}}

	require.NoError(t, execute(t, c, fn))

	assert.Equal(t, map[string]any{
		"IMPORT": map[string]any{"AIRLINE": "LH"},
		"TABLES": map[string]any{
			"DATE_RANGE": []any{map[string]any{"SIGN": "I", "OPTION": "EQ", "LOW": "20240101"}},
		},
	}, body)

	assert.Equal(t, map[string]any{"TYPE": "S"}, fn.Exports["RETURN"])
	assert.Equal(t, stdjson.Number("2"), fn.Exports["COUNT"])

	require.Len(t, fn.Tables["FLIGHT_LIST"], 2)
	assert.Equal(t, "AA", fn.Tables["FLIGHT_LIST"][1]["CARRID"])
	assert.Len(t, fn.Tables["DATE_RANGE"], 1, "tables not returned are kept")

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestExecute_RemoteErrors(t *testing.T) {
	c, _ := newContext(t)

	httpmock.RegisterResponder(http.MethodPost, baseURL+"/Z_FAILS",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"ERROR": "FUNCTION_NOT_FOUND"}))
	httpmock.RegisterResponder(http.MethodPost, baseURL+"/Z_DENIED",
		httpmock.NewJsonResponderOrPanic(http.StatusForbidden, map[string]any{"ERROR": "no authorization"}))
	httpmock.RegisterResponder(http.MethodPost, baseURL+"/Z_BROKEN",
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	tests := []struct {
		function string
		status   int
		message  string
	}{
		{function: "Z_FAILS", status: http.StatusOK, message: "FUNCTION_NOT_FOUND"},
		{function: "Z_DENIED", status: http.StatusForbidden, message: "no authorization"},
		{function: "Z_BROKEN", status: http.StatusBadGateway, message: "502"},
	}

	for _, tt := range tests {
		t.Run(tt.function, func(t *testing.T) {
			err := execute(t, c, execution.NewFunction(tt.function))

			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.function, remoteErr.Function)
			assert.Equal(t, tt.status, remoteErr.StatusCode)
			assert.Contains(t, remoteErr.Message, tt.message)
		})
	}
}

func TestExecute_LargeIntegers(t *testing.T) {
	c, _ := newContext(t)

	httpmock.RegisterResponder(http.MethodPost, baseURL+"/Z_DOCUMENT",
		func(*http.Request) (*http.Response, error) {
			res := httpmock.NewStringResponse(http.StatusOK,
				`{"EXPORT":{"DOC_ID":9007199254740993},"TABLES":{"ITEMS":[{"POS":18446744073709551615}]}}`)
			res.Header.Set("Content-Type", "application/json; charset=utf-8")

			return res, nil
		})

	fn := execution.NewFunction("Z_DOCUMENT")
	require.NoError(t, execute(t, c, fn))

	assert.Equal(t, stdjson.Number("9007199254740993"), fn.Exports["DOC_ID"])
	assert.Equal(t, stdjson.Number("18446744073709551615"), fn.Tables["ITEMS"][0]["POS"])
}

func TestExecute_NotJSON(t *testing.T) {
	c, _ := newContext(t)

	httpmock.RegisterResponder(http.MethodPost, baseURL+"/Z_HTML",
		httpmock.NewStringResponder(http.StatusOK, "<html>login required</html>"))

	err := execute(t, c, execution.NewFunction("Z_HTML"))

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusOK, remoteErr.StatusCode)
	assert.Equal(t, "response is not JSON", remoteErr.Message)
}

func TestExecute_TransportError(t *testing.T) {
	c, _ := newContext(t)

	err := execute(t, c, execution.NewFunction("Z_UNREGISTERED"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "function Z_UNREGISTERED")

	var remoteErr *RemoteError
	assert.NotErrorAs(t, err, &remoteErr)
}

func TestConfigure(t *testing.T) {
	c := New()

	_, err := c.Connection(context.Background())
	assert.ErrorIs(t, err, execution.ErrNotConfigured)

	assert.ErrorIs(t, c.Configure(execution.Properties{}), ErrMissingBaseURL)
	assert.ErrorIs(t, c.Configure(execution.Properties{PropertyBaseURL: "gateway"}), ErrInvalidBaseURL)
	assert.Error(t, c.Configure(execution.Properties{PropertyBaseURL: baseURL, PropertyTimeout: "later"}))
	assert.Error(t, c.Configure(execution.Properties{PropertyBaseURL: baseURL, PropertyRetries: "many"}))

	require.NoError(t, c.Configure(execution.Properties{PropertyBaseURL: baseURL, PropertyRetries: "2"}))
	assert.Equal(t, baseURL, c.client.BaseURL)
	assert.Equal(t, 2, c.client.RetryCount)
	assert.Equal(t, DefaultTimeout, c.client.GetClient().Timeout)

	require.NoError(t, c.Reset())

	_, err = c.Connection(context.Background())
	assert.ErrorIs(t, err, execution.ErrNotConfigured)
}

func TestConfigure_Timeout(t *testing.T) {
	c := New()

	require.NoError(t, c.Configure(execution.Properties{PropertyBaseURL: baseURL, PropertyTimeout: "250"}))
	assert.Equal(t, 250*time.Millisecond, c.client.GetClient().Timeout)
}
