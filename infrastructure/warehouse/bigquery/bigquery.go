package bigquery

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	bq "cloud.google.com/go/bigquery"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vfg2006/ads-warehouse-sync/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Escopo de leitura do Drive: tabelas de referência podem ser externas,
// apoiadas em planilhas do Google Sheets
const driveReadOnlyScope = "https://www.googleapis.com/auth/drive.readonly"

type Conn interface {
	Runner
	Close() error
	Ping(context.Context) error
}

// Connection embrulha o cliente do BigQuery com o projeto e o dataset
// padrão do warehouse. Nomes de tabela podem vir qualificados com outro
// dataset ("rollup_reference.ad_grouping") ou puros ("meta_ads")
type Connection struct {
	client    *bq.Client
	projectID string
	datasetID string
}

func NewConnection(
	ctx context.Context,
	cfg config.Warehouse,
) (*Connection, error) {
	projectID := cfg.ProjectID
	if projectID == "" && cfg.CredentialsJSON != "" {
		projectID = projectFromCredentials(cfg.CredentialsJSON)
	}
	if projectID == "" {
		return nil, errors.New("projeto do BigQuery não configurado: defina GCP_PROJECT_ID ou GOOGLE_CREDENTIALS")
	}

	opts := []option.ClientOption{
		option.WithScopes(bq.Scope, driveReadOnlyScope),
	}
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else {
		// Sem credenciais explícitas, o cliente usa Application Default Credentials
		logrus.Info("GOOGLE_CREDENTIALS não definido, usando Application Default Credentials")
	}

	client, err := bq.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar cliente do BigQuery")
	}

	return &Connection{
		client:    client,
		projectID: projectID,
		datasetID: cfg.DatasetID,
	}, nil
}

func (c *Connection) Close() error {
	return c.client.Close()
}

func (c *Connection) Ping(ctx context.Context) error {
	_, err := c.client.Dataset(c.datasetID).Metadata(ctx)
	return err
}

// Query executa um SELECT parametrizado e devolve o iterador de linhas
func (c *Connection) Query(ctx context.Context, query string, params []bq.QueryParameter) (RowIterator, error) {
	q := c.client.Query(query)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar consulta no BigQuery")
	}

	return it, nil
}

// Exec executa um statement DML (MERGE, DELETE) e espera o job terminar
func (c *Connection) Exec(ctx context.Context, statement string, params []bq.QueryParameter) error {
	q := c.client.Query(statement)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao submeter statement no BigQuery")
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return errors.Wrap(err, "erro ao aguardar job do BigQuery")
	}

	return status.Err()
}

// Load grava os registros na tabela via load job NDJSON. Com truncate a
// tabela é sobrescrita; sem truncate os registros são anexados
func (c *Connection) Load(ctx context.Context, tableName string, rows []any, truncate bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return errors.Wrap(err, "erro ao serializar registro para NDJSON")
		}
	}

	source := bq.NewReaderSource(&buf)
	source.SourceFormat = bq.JSON

	loader := c.table(tableName).LoaderFrom(source)
	loader.WriteDisposition = bq.WriteAppend
	if truncate {
		loader.WriteDisposition = bq.WriteTruncate
	}

	job, err := loader.Run(ctx)
	if err != nil {
		return errors.Wrapf(err, "erro ao submeter load job para %s", tableName)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return errors.Wrapf(err, "erro ao aguardar load job de %s", tableName)
	}

	return status.Err()
}

// Insert grava registros pequenos via streaming insert, sem load job
func (c *Connection) Insert(ctx context.Context, tableName string, rows []any) error {
	return c.table(tableName).Inserter().Put(ctx, rows)
}

// CreateTableIfNotExists cria a tabela com o schema informado caso ela
// ainda não exista. Devolve true quando a tabela foi criada nesta chamada
func (c *Connection) CreateTableIfNotExists(ctx context.Context, tableName string, schema bq.Schema) (bool, error) {
	table := c.table(tableName)

	_, err := table.Metadata(ctx)
	if err == nil {
		return false, nil
	}
	if !isNotFound(err) {
		return false, errors.Wrapf(err, "erro ao consultar metadados de %s", tableName)
	}

	logrus.WithField("table", tableName).Info("Tabela não existe, criando...")

	if err := table.Create(ctx, &bq.TableMetadata{Schema: schema}); err != nil {
		// Outra rotina pode ter criado a tabela entre o Metadata e o Create
		if isConflict(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "erro ao criar tabela %s", tableName)
	}

	return true, nil
}

// DeleteTable remove a tabela. Tabela inexistente não é erro: a limpeza de
// staging precisa ser idempotente
func (c *Connection) DeleteTable(ctx context.Context, tableName string) error {
	err := c.table(tableName).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return errors.Wrapf(err, "erro ao remover tabela %s", tableName)
	}

	return nil
}

// Qualify devolve o nome completo da tabela para uso em SQL:
// `projeto.dataset.tabela`
func (c *Connection) Qualify(tableName string) string {
	datasetID, tableID := c.splitTableName(tableName)
	return fmt.Sprintf("`%s.%s.%s`", c.projectID, datasetID, tableID)
}

func (c *Connection) table(tableName string) *bq.Table {
	datasetID, tableID := c.splitTableName(tableName)
	return c.client.Dataset(datasetID).Table(tableID)
}

func (c *Connection) splitTableName(tableName string) (string, string) {
	parts := strings.SplitN(tableName, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return c.datasetID, tableName
}

func projectFromCredentials(credentialsJSON string) string {
	var creds struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(credentialsJSON), &creds); err != nil {
		return ""
	}
	return creds.ProjectID
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func isConflict(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}
