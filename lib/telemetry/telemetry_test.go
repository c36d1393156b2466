package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", "test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestOtlpTransport(t *testing.T) {
	testCases := []struct {
		conn      OtlpConnConfig
		transport string
		endpoint  string
	}{
		{
			conn:      OtlpConnConfig{HttpEndpoint: "http://localhost:4318/v1/traces"},
			transport: "http",
			endpoint:  "http://localhost:4318/v1/traces",
		},
		{
			conn: OtlpConnConfig{
				GrpcEndpoint: "http://localhost:4317",
				HttpEndpoint: "http://localhost:4318/v1/traces",
			},
			transport: "grpc",
			endpoint:  "http://localhost:4317",
		},
	}

	for _, test := range testCases {
		require.True(t, test.conn.enabled())
		require.Equal(t, test.transport, test.conn.transport())
		require.Equal(t, test.endpoint, test.conn.endpoint())
	}
	require.False(t, OtlpConnConfig{}.enabled())
}

func TestTruncate(t *testing.T) {
	short := []byte("sys-err-head")
	require.Equal(t, "sys-err-head", truncate(short))

	long := make([]byte, maxBodyAttribute+10)
	for i := range long {
		long[i] = 'a'
	}
	out := truncate(long)
	require.Len(t, out, maxBodyAttribute+len("...(truncated)"))
}

func TestTruncateShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().String("科目番号,科目名\r\n")
	require.NoError(t, err)
	require.Equal(t, "科目番号,科目名\r\n", truncate([]byte(encoded)))

	// each kanji is 3 bytes in utf-8, so the cut lands inside a rune
	long, err := japanese.ShiftJIS.NewEncoder().String(strings.Repeat("科", maxBodyAttribute))
	require.NoError(t, err)
	out := truncate([]byte(long))
	require.True(t, utf8.ValidString(out))
	require.True(t, strings.HasSuffix(out, "...(truncated)"))
	require.Equal(t, strings.Repeat("科", maxBodyAttribute/3), strings.TrimSuffix(out, "...(truncated)"))
}

func TestInstrumentRequestBody(t *testing.T) {
	_, span := Tracer("test:telemetry").Start(context.Background(), "test")
	defer span.End()

	testCases := []*http.Request{
		{},
		{GetBody: func() (io.ReadCloser, error) { return nil, nil }},
		{GetBody: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("nendo=2025")), nil
		}},
	}
	for _, req := range testCases {
		require.NotPanics(t, func() { instrumentRequestBody(span, req) })
	}
}

func TestInstrumentRestyWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := resty.New()
	InstrumentResty(client, "test:telemetry")

	res, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, "ok", res.String())

	res, err = client.R().SetFormData(map[string]string{"nendo": "2025"}).Post(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}
