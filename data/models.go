package data

import "encoding/json"

// SubmissionResult is the receipt of an envelopes/submit call.
type SubmissionResult struct {
	EId  string   `json:"EId" validate:"required"`
	ETId int      `json:"ETId"`
	ES   int      `json:"ES"`
	UID  []string `json:"UID" validate:"required"`
}

// ComplexQueryRecords is a page of aggregation results with the platform total.
type ComplexQueryRecords struct {
	Records []map[string]any `json:"Records"`
	Total   int              `json:"Total"`
}

// GetAllOptions selects a page of GetAll. A zero PageNumber disables paging.
type GetAllOptions struct {
	PageNumber  int
	PageSize    int
	FromSummary bool
}

type QueryAPIOptions struct {
	SchemaVersion int
	PageNumber    int
	// PageSize zero means no limit
	PageSize int
}

func DefaultQueryAPIOptions() QueryAPIOptions {
	return QueryAPIOptions{SchemaVersion: 1, PageNumber: 1}
}

type AggregateOptions struct {
	ETId          int
	SchemaVersion int
	DataVersion   int
}

func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{ETId: 10, SchemaVersion: 1, DataVersion: 1}
}

type submitBody struct {
	Data any `json:"Data"`
}

// QueryRows is the raw row list returned by the query API.
type QueryRows = []json.RawMessage

func (SubmissionResult) RequiredKeys() []string {
	return []string{"EId", "ETId", "ES", "UID"}
}
