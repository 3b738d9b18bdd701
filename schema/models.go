package schema

import (
	"time"
)

// SystemEnvelopeType lists the envelope types reserved by the platform.
type SystemEnvelopeType int

const (
	EnvelopeOrgID            SystemEnvelopeType = 5
	EnvelopeUser             SystemEnvelopeType = 10
	EnvelopeUserAddress      SystemEnvelopeType = 11
	EnvelopeRole             SystemEnvelopeType = 15
	EnvelopeUserRole         SystemEnvelopeType = 16
	EnvelopeFile             SystemEnvelopeType = 17
	EnvelopeStorageLocation  SystemEnvelopeType = 40
	EnvelopeScheduleJobs     SystemEnvelopeType = 41
	EnvelopeHashingSignature SystemEnvelopeType = 42
	EnvelopeSchema           SystemEnvelopeType = 50
	EnvelopeBPMAction        SystemEnvelopeType = 51
	EnvelopeBPMCode          SystemEnvelopeType = 100
	EnvelopeBPMApproval      SystemEnvelopeType = 105
)

type AutoGenField struct {
	FieldName       string `json:"FieldName" validate:"required"`
	DataType        string `json:"DataType" validate:"required"`
	Required        bool   `json:"Required"`
	SystemGenerated bool   `json:"SystemGenerated"`
	MaxLength       *int   `json:"MaxLength,omitempty"`
}

// SchemaEntry is the latest version of one schema.
type SchemaEntry struct {
	ETId      int    `json:"ETId"`
	TableName string `json:"TableName" validate:"required"`
	SV        int    `json:"SV"`
}

type SchemaVersionEntry struct {
	ETId     int   `json:"ETId"`
	Versions []int `json:"versions" validate:"required"`
}

type IndexEntry struct {
	V    int            `json:"v"`
	Key  map[string]any `json:"key" validate:"required"`
	Name string         `json:"name" validate:"required"`
	NS   string         `json:"ns" validate:"required"`
}

type CreateFieldRequest struct {
	FieldName string `json:"FieldName" validate:"required"`
	DataType  string `json:"DataType" validate:"required"`
	Required  bool   `json:"Required"`
	MaxLength *int   `json:"MaxLength,omitempty"`
}

type CreateIndexRequest struct {
	Fields      []string `json:"Fields" validate:"required,min=1"`
	IndexValue  string   `json:"IndexValue" validate:"required"`
	ForceUpdate bool     `json:"ForceUpdate"`
	Delete      bool     `json:"Delete"`
}

type CreateSchemaDefinition struct {
	ETId      int                  `json:"ETId" validate:"required"`
	TableName string               `json:"TableName" validate:"required"`
	Family    string               `json:"Family" validate:"required"`
	DoSummary bool                 `json:"DoSummary"`
	Fields    []CreateFieldRequest `json:"Fields" validate:"required,dive"`
	Indexes   []CreateIndexRequest `json:"Indexes" validate:"dive"`
}

// CreateSchemaRequest is the body of a schema creation.
type CreateSchemaRequest struct {
	ETId   int                    `json:"ETId" validate:"required"`
	SV     int                    `json:"SV" validate:"required"`
	Schema CreateSchemaDefinition `json:"Schema"`
}

// NewCreateSchemaRequest wraps a definition with the system envelope
// routing the platform expects for schema creation.
func NewCreateSchemaRequest(def CreateSchemaDefinition) CreateSchemaRequest {
	if def.Indexes == nil {
		def.Indexes = []CreateIndexRequest{}
	}
	return CreateSchemaRequest{ETId: int(EnvelopeSchema), SV: 1, Schema: def}
}

type SchemaMetadata struct {
	EId       string   `json:"EId" validate:"required"`
	ETId      int      `json:"ETId"`
	SV        int      `json:"SV"`
	ES        int      `json:"ES"`
	CreatedAt int64    `json:"CreatedAt"`
	UpdatedAt int64    `json:"UpdatedAt"`
	UID       []string `json:"UID" validate:"required"`
}

type SchemaDetail struct {
	ID                 string           `json:"_id" validate:"required"`
	ETId               int              `json:"ETId"`
	TableName          string           `json:"TableName" validate:"required"`
	Family             string           `json:"Family"`
	DoSummary          bool             `json:"DoSummary"`
	Fields             []map[string]any `json:"Fields"`
	Indexes            []map[string]any `json:"Indexes"`
	DbTableName        string           `json:"DbTableName"`
	DbHistoryTableName string           `json:"DbHistoryTableName"`
	SV                 int              `json:"SV"`
	LastModifiedBy     string           `json:"LastModifiedBy"`
	UID                string           `json:"UID"`
	ORGId              string           `json:"ORGId"`
	SL                 string           `json:"SL"`
	HashSign           string           `json:"HashSign"`
	HS                 string           `json:"HS"`
	EId                string           `json:"EId"`
	UpdatedAt          int64            `json:"UpdatedAt"`
	IsDeleted          bool             `json:"IsDeleted"`
	CreatedAt          int64            `json:"CreatedAt"`
}

type SchemaItem struct {
	ID                 string `json:"_id" validate:"required"`
	ORGId              string `json:"ORGId"`
	ORGName            string `json:"ORGName"`
	EId                string `json:"EId"`
	ETId               int    `json:"ETId"`
	DV                 int    `json:"DV"`
	TableName          string `json:"TableName" validate:"required"`
	DbTableName        string `json:"DbTableName"`
	DbHistoryTableName string `json:"DbHistoryTableName"`
	Family             string `json:"Family"`
	DoSummary          bool   `json:"DoSummary"`
	Description        string `json:"Description"`
	LastModifiedBy     string `json:"LastModifiedBy"`
	CreatedAt          int64  `json:"CreatedAt"`
	UpdatedAt          int64  `json:"UpdatedAt"`
}

type SchemaSummary struct {
	UID            string `json:"UID" validate:"required"`
	Schema         string `json:"schema"`
	ETId           int    `json:"ETId"`
	CreatedDate    int64  `json:"createdDate"`
	Family         string `json:"Family"`
	SV             int    `json:"SV"`
	NumberOfFields int    `json:"numberOfFields"`
}

type SchemaQueryList struct {
	Data  []SchemaSummary `json:"data"`
	Total int             `json:"total"`
}

// SchemaQueryListRequest filters the paged schema list.
type SchemaQueryListRequest struct {
	Page      int       `validate:"gte=1"`
	PageSize  int       `validate:"gte=1"`
	Order     string    `validate:"oneof=asc desc"`
	OrderBy   string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`
}

func DefaultSchemaQueryListRequest(start, end time.Time) SchemaQueryListRequest {
	return SchemaQueryListRequest{
		Page:      1,
		PageSize:  10,
		Order:     "desc",
		OrderBy:   "Family",
		StartDate: start,
		EndDate:   end,
	}
}

func (AutoGenField) RequiredKeys() []string {
	return []string{"FieldName", "DataType", "Required", "SystemGenerated"}
}

func (SchemaEntry) RequiredKeys() []string {
	return []string{"ETId", "TableName", "SV"}
}

func (SchemaVersionEntry) RequiredKeys() []string {
	return []string{"ETId", "versions"}
}

func (IndexEntry) RequiredKeys() []string {
	return []string{"v", "key", "name", "ns"}
}

func (SchemaMetadata) RequiredKeys() []string {
	return []string{"EId", "ETId", "SV", "ES", "CreatedAt", "UpdatedAt", "UID"}
}
