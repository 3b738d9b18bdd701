// Package data inserts, updates and queries records of platform envelope types.
package data

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/envelope"
	"github.com/walacor/walacor-go/relays"
	"github.com/walacor/walacor-go/utils"
)

const (
	submitPath     = "envelopes/submit"
	queryPath      = "query/get"
	complexPath    = "query/getcomplex"
	aggregatePath  = "query/getComplex"
	serviceName    = "data"
	headerETId     = "ETId"
	headerSV       = "SV"
	headerDV       = "DV"
	uidField       = "UID"
	msgInsertFail  = "Failed to insert record"
	msgUpdateFail  = "Failed to update record"
	msgUpdatesFail = "Failed to update records"
)

// Service maps record operations onto the platform query and submit endpoints.
//
// Methods return a nil result with a nil error when the platform reports
// failure or the payload does not decode; the cause is logged through the
// relay. Transport and authentication errors are returned.
type Service struct {
	client dto.Requester
	relay  relayDTO.RelayInterface
}

func NewService(client dto.Requester, relay relayDTO.RelayInterface) *Service {
	return &Service{client: client, relay: relay}
}

func (s *Service) InsertSingleRecord(ctx context.Context, record any, etid int) (*SubmissionResult, error) {
	return s.submit(ctx, "InsertSingleRecord", []any{record}, etid, msgInsertFail)
}

func (s *Service) InsertMultipleRecords(ctx context.Context, records []map[string]any, etid int) (*SubmissionResult, error) {
	return s.submit(ctx, "InsertMultipleRecords", records, etid, msgInsertFail)
}

// UpdateSingleRecordWithUID resubmits a record. The record must carry its UID,
// otherwise nothing is sent.
func (s *Service) UpdateSingleRecordWithUID(ctx context.Context, record map[string]any, etid int) (*SubmissionResult, error) {
	if _, ok := record[uidField]; !ok {
		s.fail("UpdateSingleRecordWithUID", etid, "UID is required to update a record", dto.ErrMissingUID)
		return nil, nil
	}
	return s.submit(ctx, "UpdateSingleRecordWithUID", []any{record}, etid, msgUpdateFail)
}

// UpdateMultipleRecords resubmits a batch of JSON objects. Nothing is sent
// unless every record is an object carrying a UID.
func (s *Service) UpdateMultipleRecords(ctx context.Context, records []json.RawMessage, etid int) (*SubmissionResult, error) {
	for _, raw := range records {
		var rec map[string]json.RawMessage
		if err := json.Unmarshal(raw, &rec); err != nil {
			s.fail("UpdateMultipleRecords", etid, "Invalid JSON in records", err)
			return nil, nil
		}
		if _, ok := rec[uidField]; !ok {
			s.fail("UpdateMultipleRecords", etid, "UID is required in all records for update", dto.ErrMissingUID)
			return nil, nil
		}
	}
	return s.submit(ctx, "UpdateMultipleRecords", records, etid, msgUpdatesFail)
}

func (s *Service) submit(ctx context.Context, op string, records any, etid int, failMsg string) (*SubmissionResult, error) {
	req := dto.NewRequestConfig(http.MethodPost, submitPath).
		WithHeader(headerETId, strconv.Itoa(etid)).
		WithBody(submitBody{Data: records})
	res, _, ok, err := call[SubmissionResult](ctx, s, op, etid, req, failMsg)
	if !ok || err != nil {
		return nil, err
	}
	return &res, nil
}

// GetAll lists the records of an envelope type.
func (s *Service) GetAll(ctx context.Context, etid int, opts GetAllOptions) ([]map[string]any, error) {
	path := utils.WithQuery(queryPath,
		utils.Param("pageNo", opts.PageNumber),
		utils.Param("pageSize", opts.PageSize),
		utils.Param("fromSummary", opts.FromSummary),
	)
	req := dto.NewRequestConfig(http.MethodPost, path).
		WithHeader(headerETId, strconv.Itoa(etid))
	rows, _, ok, err := call[[]map[string]any](ctx, s, "GetAll", etid, req, "Failed to fetch all records")
	if !ok || err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSingleRecordByRecordID fetches the records matching an equality filter,
// usually {"UID": "..."}.
func (s *Service) GetSingleRecordByRecordID(ctx context.Context, filter map[string]string, etid int, fromSummary bool) ([]map[string]any, error) {
	path := utils.WithQuery(queryPath, utils.Param("fromSummary", fromSummary))
	req := dto.NewRequestConfig(http.MethodPost, path).
		WithHeader(headerETId, strconv.Itoa(etid)).
		WithBody(filter)
	rows, _, ok, err := call[[]map[string]any](ctx, s, "GetSingleRecordByRecordID", etid, req, "Failed to fetch single record")
	if !ok || err != nil {
		return nil, err
	}
	return rows, nil
}

// PostComplexQuery runs an aggregation pipeline against one envelope type.
func (s *Service) PostComplexQuery(ctx context.Context, etid int, pipeline []map[string]any) (*ComplexQueryRecords, error) {
	req := dto.NewRequestConfig(http.MethodPost, complexPath).
		WithHeader(headerETId, strconv.Itoa(etid)).
		WithBody(pipeline)
	return s.paged(ctx, "PostComplexQuery", etid, req, "Failed to fetch complex query results")
}

// PostComplexMQLQueries is PostComplexQuery for MQL pipelines.
func (s *Service) PostComplexMQLQueries(ctx context.Context, etid int, pipeline []map[string]any) (*ComplexQueryRecords, error) {
	req := dto.NewRequestConfig(http.MethodPost, complexPath).
		WithHeader(headerETId, strconv.Itoa(etid)).
		WithBody(pipeline)
	return s.paged(ctx, "PostComplexMQLQueries", etid, req, "Failed to fetch MQL query results")
}

// PostQueryAPI runs a filter through the simplified query API.
func (s *Service) PostQueryAPI(ctx context.Context, etid int, payload map[string]any, opts QueryAPIOptions) (QueryRows, error) {
	path := utils.WithQuery(queryPath,
		utils.Param("pageNo", opts.PageNumber),
		utils.Param("pageSize", opts.PageSize),
	)
	req := dto.NewRequestConfig(http.MethodPost, path).
		WithHeaders(map[string]string{
			headerETId: strconv.Itoa(etid),
			headerSV:   strconv.Itoa(opts.SchemaVersion),
		}).
		WithBody(payload)
	rows, _, ok, err := call[QueryRows](ctx, s, "PostQueryAPI", etid, req, "Failed to fetch query results")
	if !ok || err != nil {
		return nil, err
	}
	return rows, nil
}

// PostQueryAPIAggregate runs an aggregate pipeline through query/getComplex.
func (s *Service) PostQueryAPIAggregate(ctx context.Context, pipeline []map[string]any, opts AggregateOptions) (*ComplexQueryRecords, error) {
	req := dto.NewRequestConfig(http.MethodPost, aggregatePath).
		WithHeaders(map[string]string{
			headerETId: strconv.Itoa(opts.ETId),
			headerSV:   strconv.Itoa(opts.SchemaVersion),
			headerDV:   strconv.Itoa(opts.DataVersion),
		}).
		WithBody(pipeline)
	return s.paged(ctx, "PostQueryAPIAggregate", opts.ETId, req, "Failed to fetch aggregate results")
}

func (s *Service) paged(ctx context.Context, op string, etid int, req *dto.RequestConfig, failMsg string) (*ComplexQueryRecords, error) {
	rows, body, ok, err := call[[]map[string]any](ctx, s, op, etid, req, failMsg)
	if !ok || err != nil {
		return nil, err
	}
	total, err := envelope.Total(body)
	if err != nil {
		s.fail(op, etid, "query result validation error", err)
		return nil, nil
	}
	return &ComplexQueryRecords{Records: rows, Total: total}, nil
}

// call issues req and decodes the data field into T. ok is false when the
// platform reported failure or the payload did not match T, both logged.
func call[T any](ctx context.Context, s *Service, op string, etid int, req *dto.RequestConfig, failMsg string) (T, []byte, bool, error) {
	var zero T
	resp, err := s.client.Request(ctx, req)
	if err != nil {
		return zero, nil, false, err
	}
	if !envelope.Success(resp.Body) {
		s.fail(op, etid, failMsg, nil)
		return zero, nil, false, nil
	}
	out, err := envelope.Data[T](resp.Body)
	if err != nil {
		s.fail(op, etid, op+" validation error", err)
		return zero, nil, false, nil
	}
	return out, resp.Body, true, nil
}

func (s *Service) fail(op string, etid int, msg string, err error) {
	s.relay.Error(relays.RlyService{Service: serviceName, Op: op, ETId: etid, Msg: msg, Err: err})
}
