package model

import (
	"time"

	"github.com/google/uuid"
)

func (Span) TableName() string {
	return "spans"
}

func (Span) TableEngine() string {
	return "MergeTree    ORDER BY (project_id, trace_id, start_time);"
}

// AttributePlaceholder marks model/session/provider/user attributes the
// ingest side could not resolve.
const AttributePlaceholder = "<null>"

type Span struct {
	SpanID           uuid.UUID `db:"span_id" clickhouse:"type:UUID" json:"spanId"`
	Name             string    `db:"name" clickhouse:"type:String" json:"name"`
	SpanType         uint8     `db:"span_type" clickhouse:"type:UInt8" json:"spanType"`
	StartTime        time.Time `db:"start_time" clickhouse:"type:DateTime64(9)" json:"startTime"`
	EndTime          time.Time `db:"end_time" clickhouse:"type:DateTime64(9)" json:"endTime"`
	PromptTokens     int64     `db:"prompt_tokens" clickhouse:"type:Int64" json:"promptTokens"`
	CompletionTokens int64     `db:"completion_tokens" clickhouse:"type:Int64" json:"completionTokens"`
	TotalTokens      int64     `db:"total_tokens" clickhouse:"type:Int64" json:"totalTokens"`
	InputCost        float64   `db:"input_cost" clickhouse:"type:Float64" json:"inputCost"`
	OutputCost       float64   `db:"output_cost" clickhouse:"type:Float64" json:"outputCost"`
	TotalCost        float64   `db:"total_cost" clickhouse:"type:Float64" json:"totalCost"`
	Model            string    `db:"model" clickhouse:"type:String" json:"model"`
	SessionID        string    `db:"session_id" clickhouse:"type:String" json:"sessionId"`
	ProjectID        uuid.UUID `db:"project_id" clickhouse:"type:UUID" json:"projectId"`
	TraceID          uuid.UUID `db:"trace_id" clickhouse:"type:UUID" json:"traceId"`
	Provider         string    `db:"provider" clickhouse:"type:String" json:"provider"`
	UserID           string    `db:"user_id" clickhouse:"type:String" json:"userId"`
}
