package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walacor/walacor-go/client/httpclient"
	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
)

type fakeRequester struct {
	mu    sync.Mutex
	calls []*dto.RequestConfig
	resp  dto.Response
	err   error
}

func (f *fakeRequester) Request(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cfg)
	return f.resp, f.err
}

func respond(status int, body string) dto.Response {
	return dto.Response{StatusCode: status, Body: []byte(body)}
}

func newTestService(t *testing.T, resp dto.Response) (*Service, *fakeRequester, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	f := &fakeRequester{resp: resp}
	return NewService(f, relays.NewZerologRelay(&logs, "debug", false)), f, &logs
}

func TestService_InsertSingleRecord(t *testing.T) {
	svc, f, _ := newTestService(t, respond(200, `{"success":true,"data":{"EId":"e1","ETId":100,"ES":10,"UID":["u1"]}}`))

	res, err := svc.InsertSingleRecord(context.Background(), map[string]any{"name": "A"}, 100)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, SubmissionResult{EId: "e1", ETId: 100, ES: 10, UID: []string{"u1"}}, *res)

	require.Len(t, f.calls, 1)
	call := f.calls[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "envelopes/submit", call.Path)
	assert.Equal(t, "100", call.Headers["ETId"])
	b, err := json.Marshal(call.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Data":[{"name":"A"}]}`, string(b))
}

func TestService_InsertMultipleRecords_failureIsNil(t *testing.T) {
	svc, _, logs := newTestService(t, respond(200, `{"success":false}`))

	res, err := svc.InsertMultipleRecords(context.Background(), []map[string]any{{"a": 1}, {"a": 2}}, 7)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Contains(t, logs.String(), "Failed to insert record")
}

func TestService_InsertSingleRecord_shapeMismatch(t *testing.T) {
	svc, _, logs := newTestService(t, respond(200, `{"success":true,"data":{"ETId":1}}`))

	res, err := svc.InsertSingleRecord(context.Background(), map[string]any{}, 1)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Contains(t, logs.String(), "validation error")
}

func TestService_InsertSingleRecord_missingKeys(t *testing.T) {
	cases := map[string]string{
		"ETId and ES": `{"EId":"e1","UID":["u1"]}`,
		"ES":          `{"EId":"e1","ETId":100,"UID":["u1"]}`,
		"null ETId":   `{"EId":"e1","ETId":null,"ES":10,"UID":["u1"]}`,
		"UID":         `{"EId":"e1","ETId":100,"ES":10}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _, logs := newTestService(t, respond(200, `{"success":true,"data":`+data+`}`))

			res, err := svc.InsertSingleRecord(context.Background(), map[string]any{"name": "A"}, 100)
			require.NoError(t, err)
			assert.Nil(t, res)
			assert.Contains(t, logs.String(), "InsertSingleRecord validation error")
		})
	}
}

func TestService_transportErrorPropagates(t *testing.T) {
	svc, f, _ := newTestService(t, dto.Response{})
	f.err = &dto.APIConnectionError{Err: errors.New("refused")}

	res, err := svc.GetAll(context.Background(), 1, GetAllOptions{})
	var ce *dto.APIConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Nil(t, res)
}

func TestService_UpdateSingleRecordWithUID_missingUID(t *testing.T) {
	svc, f, logs := newTestService(t, respond(200, `{"success":true}`))

	res, err := svc.UpdateSingleRecordWithUID(context.Background(), map[string]any{"fname": "A"}, 1)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, f.calls)
	assert.Contains(t, logs.String(), "UID is required to update a record")
}

func TestService_UpdateSingleRecordWithUID(t *testing.T) {
	svc, f, _ := newTestService(t, respond(200, `{"success":true,"data":{"EId":"e","ETId":1,"ES":20,"UID":["u1"]}}`))

	res, err := svc.UpdateSingleRecordWithUID(context.Background(), map[string]any{"UID": "u1", "fname": "B"}, 1)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 20, res.ES)
	require.Len(t, f.calls, 1)
}

func TestService_UpdateMultipleRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []json.RawMessage
		calls   int
		log     string
	}{
		{
			name:    "all carry UID",
			records: []json.RawMessage{json.RawMessage(`{"UID":"a"}`), json.RawMessage(`{"UID":"b","x":1}`)},
			calls:   1,
		},
		{
			name:    "one without UID",
			records: []json.RawMessage{json.RawMessage(`{"UID":"a"}`), json.RawMessage(`{"x":1}`)},
			log:     "UID is required in all records for update",
		},
		{
			name:    "not an object",
			records: []json.RawMessage{json.RawMessage(`["UID"]`)},
			log:     "Invalid JSON in records",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, f, logs := newTestService(t, respond(200, `{"success":true,"data":{"EId":"e","ETId":1,"ES":20,"UID":["a","b"]}}`))
			res, err := svc.UpdateMultipleRecords(context.Background(), tt.records, 1)
			require.NoError(t, err)
			assert.Len(t, f.calls, tt.calls)
			if tt.log != "" {
				assert.Nil(t, res)
				assert.Contains(t, logs.String(), tt.log)
				return
			}
			require.NotNil(t, res)
			b, err := json.Marshal(f.calls[0].Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"Data":[{"UID":"a"},{"UID":"b","x":1}]}`, string(b))
		})
	}
}

func TestService_GetAll_queryString(t *testing.T) {
	svc, f, _ := newTestService(t, respond(200, `{"success":true,"data":[{"UID":"u1","name":"A"}]}`))

	rows, err := svc.GetAll(context.Background(), 100, GetAllOptions{PageNumber: 2, PageSize: 10, FromSummary: true})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"UID": "u1", "name": "A"}}, rows)
	assert.Equal(t, "query/get?pageNo=2&pageSize=10&fromSummary=true", f.calls[0].Path)
	assert.Nil(t, f.calls[0].Body)

	_, err = svc.GetAll(context.Background(), 100, GetAllOptions{})
	require.NoError(t, err)
	assert.Equal(t, "query/get?pageNo=0&pageSize=0&fromSummary=false", f.calls[1].Path)
}

func TestService_GetSingleRecordByRecordID(t *testing.T) {
	svc, f, logs := newTestService(t, respond(200, `{"success":false}`))

	rows, err := svc.GetSingleRecordByRecordID(context.Background(), map[string]string{"UID": "u1"}, 5, false)
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.Equal(t, "query/get?fromSummary=false", f.calls[0].Path)
	assert.Equal(t, map[string]string{"UID": "u1"}, f.calls[0].Body)
	assert.Contains(t, logs.String(), "Failed to fetch single record")
}

func TestService_PostComplexQuery(t *testing.T) {
	svc, f, _ := newTestService(t, respond(200, `{"success":true,"data":[{"a":"1"}],"total":42}`))

	res, err := svc.PostComplexQuery(context.Background(), 9, []map[string]any{{"$match": map[string]any{}}})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 42, res.Total)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, "query/getcomplex", f.calls[0].Path)
	assert.Equal(t, "9", f.calls[0].Headers["ETId"])
}

func TestService_PostComplexMQLQueries_missingTotal(t *testing.T) {
	svc, _, logs := newTestService(t, respond(200, `{"success":true,"data":[]}`))

	res, err := svc.PostComplexMQLQueries(context.Background(), 9, nil)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Contains(t, logs.String(), "validation error")
}

func TestService_PostQueryAPI(t *testing.T) {
	svc, f, _ := newTestService(t, respond(200, `{"success":true,"data":["r1",{"a":1}]}`))

	rows, err := svc.PostQueryAPI(context.Background(), 3, map[string]any{"x": 1}, DefaultQueryAPIOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `"r1"`, string(rows[0]))
	call := f.calls[0]
	assert.Equal(t, "query/get?pageNo=1&pageSize=0", call.Path)
	assert.Equal(t, "3", call.Headers["ETId"])
	assert.Equal(t, "1", call.Headers["SV"])
}

func TestService_PostQueryAPIAggregate_defaults(t *testing.T) {
	svc, f, _ := newTestService(t, respond(200, `{"success":true,"data":[],"Total":0}`))

	res, err := svc.PostQueryAPIAggregate(context.Background(), []map[string]any{}, DefaultAggregateOptions())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Total)
	call := f.calls[0]
	assert.Equal(t, "query/getComplex", call.Path)
	assert.Equal(t, map[string]string{"ETId": "10", "SV": "1", "DV": "1"}, call.Headers)
}

func TestService_InsertSingleRecord_endToEnd(t *testing.T) {
	var submitted []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_, _ = io.WriteString(w, `{"api_token":"tok"}`)
		case "/envelopes/submit":
			submitted, _ = io.ReadAll(r.Body)
			if r.Header.Get("Authorization") != "tok" || r.Header.Get("ETId") != "100" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = io.WriteString(w, `{"success":true,"data":{"EId":"e1","ETId":100,"ES":10,"UID":["u1"]}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := config.New(srv.URL, "user", "pw").WithRelay(relays.NewNopRelay())
	svc := NewService(httpclient.NewHTTPClient(cfg, nil), cfg.Relay())

	res, err := svc.InsertSingleRecord(context.Background(), map[string]any{"name": "A"}, 100)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"u1"}, res.UID)
	assert.JSONEq(t, `{"Data":[{"name":"A"}]}`, string(submitted))
}
