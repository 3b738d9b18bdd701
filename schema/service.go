// Package schema reads and creates platform schemas (envelope types).
package schema

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/envelope"
	"github.com/walacor/walacor-go/relays"
	"github.com/walacor/walacor-go/utils"
)

const (
	serviceName = "schema"
	headerETId  = "ETId"
	headerSV    = "SV"
	// indexEnvelope routes index lookups, the target schema travels in the ETId header
	indexEnvelope = 15
	// queryTimeFormat is how the schema list expects its date range
	queryTimeFormat = "2006-01-02T15:04:05.000Z07:00"

	msgFetchDetails = "Failed to fetch schema details"
)

// Service wraps the schemas/* endpoints.
//
// List lookups return an empty slice and map lookups an empty map when the
// platform reports failure or the payload does not decode; single value
// lookups return nil. Transport and authentication errors are returned.
type Service struct {
	client dto.Requester
	relay  relayDTO.RelayInterface
}

func NewService(client dto.Requester, relay relayDTO.RelayInterface) *Service {
	return &Service{client: client, relay: relay}
}

// GetDataTypes lists the field types a schema may use.
func (s *Service) GetDataTypes(ctx context.Context) (DataTypes, error) {
	s.relay.Info(relays.RlyService{Service: serviceName, Op: "GetDataTypes", Msg: "Fetching data types..."})
	req := dto.NewRequestConfig(http.MethodGet, "schemas/dataTypes")
	out, ok, err := call[DataTypes](ctx, s, "GetDataTypes", 0, req, "Failed to fetch data")
	if !ok {
		return DataTypes{}, err
	}
	return out, nil
}

// GetPlatformAutoGenerationFields lists the fields the platform adds to every record.
func (s *Service) GetPlatformAutoGenerationFields(ctx context.Context) (map[string]AutoGenField, error) {
	s.relay.Info(relays.RlyService{Service: serviceName, Op: "GetPlatformAutoGenerationFields", Msg: "Fetching platform auto-generation fields..."})
	req := dto.NewRequestConfig(http.MethodGet, "schemas/systemFields")
	out, ok, err := call[map[string]AutoGenField](ctx, s, "GetPlatformAutoGenerationFields", 0, req, "Failed to fetch platform auto-generation fields")
	if !ok {
		return map[string]AutoGenField{}, err
	}
	return out, nil
}

func (s *Service) GetListWithLatestVersion(ctx context.Context) ([]SchemaEntry, error) {
	req := dto.NewRequestConfig(http.MethodGet, "schemas/versions/latest")
	out, ok, err := call[[]SchemaEntry](ctx, s, "GetListWithLatestVersion", 0, req, "Failed to fetch latest schema versions")
	if !ok {
		return []SchemaEntry{}, err
	}
	return out, nil
}

func (s *Service) GetVersions(ctx context.Context) ([]SchemaVersionEntry, error) {
	req := dto.NewRequestConfig(http.MethodGet, "schemas/versions")
	out, ok, err := call[[]SchemaVersionEntry](ctx, s, "GetVersions", 0, req, "Failed to fetch schema versions")
	if !ok {
		return []SchemaVersionEntry{}, err
	}
	return out, nil
}

func (s *Service) GetVersionsForETId(ctx context.Context, etid int) ([]int, error) {
	req := dto.NewRequestConfig(http.MethodGet, fmt.Sprintf("schemas/envelopeTypes/%d/versions", etid))
	out, ok, err := call[[]int](ctx, s, "GetVersionsForETId", etid, req, "Failed to fetch schema versions")
	if !ok {
		return []int{}, err
	}
	return out, nil
}

// GetIndexes lists the indexes of the schema identified by etid.
func (s *Service) GetIndexes(ctx context.Context, etid int) ([]IndexEntry, error) {
	req := dto.NewRequestConfig(http.MethodGet, fmt.Sprintf("schemas/envelopeTypes/%d/indexes", indexEnvelope)).
		WithHeader(headerETId, strconv.Itoa(etid))
	out, ok, err := call[[]IndexEntry](ctx, s, "GetIndexes", etid, req, "Failed to fetch schema indexes")
	if !ok {
		return []IndexEntry{}, err
	}
	return out, nil
}

func (s *Service) GetIndexesByTableName(ctx context.Context, tableName string) ([]IndexEntry, error) {
	path := utils.WithQuery(fmt.Sprintf("schemas/envelopeTypes/%d/indexesByTableName", indexEnvelope),
		utils.Param("tableName", tableName))
	req := dto.NewRequestConfig(http.MethodGet, path)
	out, ok, err := call[[]IndexEntry](ctx, s, "GetIndexesByTableName", 0, req, "Failed to fetch indexes by table name")
	if !ok {
		return []IndexEntry{}, err
	}
	return out, nil
}

// CreateSchema registers a new schema. The request is validated before
// anything is sent and an invalid one is returned as an error.
func (s *Service) CreateSchema(ctx context.Context, in CreateSchemaRequest) (*SchemaMetadata, error) {
	if err := envelope.Validate(in); err != nil {
		return nil, fmt.Errorf("invalid create schema request: %w", err)
	}
	req := dto.NewRequestConfig(http.MethodPost, "schemas/").
		WithHeaders(map[string]string{
			headerETId: strconv.Itoa(int(EnvelopeSchema)),
			headerSV:   "1",
		}).
		WithBody(in)
	out, ok, err := call[SchemaMetadata](ctx, s, "CreateSchema", in.Schema.ETId, req, "Failed to create schema")
	if !ok {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GetSchemaDetailsWithETId(ctx context.Context, etid int) (*SchemaDetail, error) {
	req := dto.NewRequestConfig(http.MethodGet, fmt.Sprintf("schemas/envelopeTypes/%d/details", etid)).
		WithHeader(headerETId, strconv.Itoa(etid))
	out, ok, err := call[SchemaDetail](ctx, s, "GetSchemaDetailsWithETId", etid, req, msgFetchDetails)
	if !ok {
		return nil, err
	}
	return &out, nil
}

// GetEnvelopeTypes lists every registered ETId.
func (s *Service) GetEnvelopeTypes(ctx context.Context) ([]int, error) {
	req := dto.NewRequestConfig(http.MethodGet, "schemas/envelopeTypes")
	out, ok, err := call[[]int](ctx, s, "GetEnvelopeTypes", 0, req, msgFetchDetails)
	if !ok {
		return nil, err
	}
	return out, nil
}

// GetDetailsByID fetches a schema by its document id.
func (s *Service) GetDetailsByID(ctx context.Context, id string) (*SchemaDetail, error) {
	req := dto.NewRequestConfig(http.MethodGet, "schemas/"+url.PathEscape(id))
	out, ok, err := call[SchemaDetail](ctx, s, "GetDetailsByID", 0, req, msgFetchDetails)
	if !ok {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GetListSchemaItems(ctx context.Context) ([]SchemaItem, error) {
	req := dto.NewRequestConfig(http.MethodGet, "schemas")
	out, ok, err := call[[]SchemaItem](ctx, s, "GetListSchemaItems", 0, req, msgFetchDetails)
	if !ok {
		return nil, err
	}
	return out, nil
}

// GetSchemaQuerySchemaItems pages through schema summaries created in a date range.
func (s *Service) GetSchemaQuerySchemaItems(ctx context.Context, q SchemaQueryListRequest) (*SchemaQueryList, error) {
	if err := envelope.Validate(q); err != nil {
		return nil, fmt.Errorf("invalid schema list request: %w", err)
	}
	path := utils.WithQuery("schemas/schemaList",
		utils.Param("page", q.Page),
		utils.Param("pageSize", q.PageSize),
		utils.Param("order", q.Order),
		utils.Param("orderBy", q.OrderBy),
		utils.Param("startDate", formatQueryTime(q.StartDate)),
		utils.Param("endDate", formatQueryTime(q.EndDate)),
	)
	req := dto.NewRequestConfig(http.MethodGet, path)
	resp, err := s.client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	if !envelope.Success(resp.Body) {
		s.fail("GetSchemaQuerySchemaItems", 0, msgFetchDetails, nil)
		return nil, nil
	}
	data, err := envelope.Data[[]SchemaSummary](resp.Body)
	if err != nil {
		s.fail("GetSchemaQuerySchemaItems", 0, "SchemaQueryList validation error", err)
		return nil, nil
	}
	total, err := envelope.Total(resp.Body)
	if err != nil {
		s.fail("GetSchemaQuerySchemaItems", 0, "SchemaQueryList validation error", err)
		return nil, nil
	}
	return &SchemaQueryList{Data: data, Total: total}, nil
}

func formatQueryTime(t time.Time) string {
	return t.UTC().Format(queryTimeFormat)
}

// call issues req and decodes the data field into T. ok is false on any
// failure; platform and shape failures are logged and leave err nil.
func call[T any](ctx context.Context, s *Service, op string, etid int, req *dto.RequestConfig, failMsg string) (T, bool, error) {
	var zero T
	resp, err := s.client.Request(ctx, req)
	if err != nil {
		return zero, false, err
	}
	if !envelope.Success(resp.Body) {
		s.fail(op, etid, failMsg, nil)
		return zero, false, nil
	}
	out, err := envelope.Data[T](resp.Body)
	if err != nil {
		s.fail(op, etid, op+" validation error", err)
		return zero, false, nil
	}
	return out, true, nil
}

func (s *Service) fail(op string, etid int, msg string, err error) {
	s.relay.Error(relays.RlyService{Service: serviceName, Op: op, ETId: etid, Msg: msg, Err: err})
}
