package bigquery

import (
	"context"

	bq "cloud.google.com/go/bigquery"
)

// RowIterator é o subconjunto do iterador do BigQuery usado pelos
// repositórios. Next preenche dst e devolve iterator.Done no fim
type RowIterator interface {
	Next(dst any) error
}

// Runner é a superfície de execução do warehouse da qual os repositórios
// dependem. Connection a implementa; os testes usam um mock
type Runner interface {
	Query(ctx context.Context, query string, params []bq.QueryParameter) (RowIterator, error)
	Exec(ctx context.Context, statement string, params []bq.QueryParameter) error
	Load(ctx context.Context, tableName string, rows []any, truncate bool) error
	Insert(ctx context.Context, tableName string, rows []any) error
	CreateTableIfNotExists(ctx context.Context, tableName string, schema bq.Schema) (bool, error)
	DeleteTable(ctx context.Context, tableName string) error
	Qualify(tableName string) string
}
