// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeOpportunity       QueryType = "opportunity"
	QueryTypePredictionInsert  QueryType = "prediction_insert"
	QueryTypePredictionHistory QueryType = "prediction_history"
)
