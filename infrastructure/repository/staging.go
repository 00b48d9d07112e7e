package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	bq "cloud.google.com/go/bigquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery"
	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

const defaultBatchSize = 1000

// stageAndMerge grava as linhas numa tabela de staging e executa o MERGE na
// tabela final. A staging é sempre descartada, inclusive quando o load ou o
// MERGE falham, para não deixar tabelas temporárias órfãs no dataset.
func stageAndMerge(
	ctx context.Context,
	runner bigquery.Runner,
	table string,
	schema bq.Schema,
	rows []any,
	batchSize int,
	buildMerge func(target, staging string) string,
) error {
	suffix, err := utils.GenerateStagingSuffix()
	if err != nil {
		return errors.Wrap(err, "erro ao gerar sufixo da staging")
	}

	staging := fmt.Sprintf("%s_tmp_%s", table, suffix)
	if _, err := runner.CreateTableIfNotExists(ctx, staging, schema); err != nil {
		return errors.Wrapf(err, "erro ao criar staging %s", staging)
	}

	// A limpeza roda mesmo com o contexto da sincronização já cancelado
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		defer cancel()

		if err := runner.DeleteTable(cleanupCtx, staging); err != nil {
			logrus.WithError(err).Warnf("erro ao remover staging %s", staging)
		}
	}()

	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		// O primeiro lote trunca a staging, os demais anexam
		if err := runner.Load(ctx, staging, rows[start:end], start == 0); err != nil {
			return errors.Wrapf(err, "erro ao carregar lote na staging %s", staging)
		}
	}

	statement := buildMerge(runner.Qualify(table), runner.Qualify(staging))
	if err := runner.Exec(ctx, statement, nil); err != nil {
		return errors.Wrapf(err, "erro ao executar MERGE em %s", table)
	}

	return nil
}

// buildMergeQuery monta um MERGE upsert: linhas casadas pelas colunas-chave
// são atualizadas em todas as demais colunas; as não casadas são inseridas
// por inteiro
func buildMergeQuery(target, staging string, columns, keyColumns []string) string {
	keys := make(map[string]bool, len(keyColumns))
	for _, key := range keyColumns {
		keys[key] = true
	}

	conditions := make([]string, 0, len(keyColumns))
	for _, key := range keyColumns {
		conditions = append(conditions, fmt.Sprintf("T.%s = S.%s", key, key))
	}

	assignments := make([]string, 0, len(columns))
	values := make([]string, 0, len(columns))
	for _, column := range columns {
		values = append(values, "S."+column)
		if keys[column] {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = S.%s", column, column))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "MERGE %s T\n", target)
	fmt.Fprintf(&sb, "USING %s S\n", staging)
	fmt.Fprintf(&sb, "ON %s\n", strings.Join(conditions, " AND "))
	sb.WriteString("WHEN MATCHED THEN\n")
	fmt.Fprintf(&sb, "  UPDATE SET\n    %s\n", strings.Join(assignments, ",\n    "))
	sb.WriteString("WHEN NOT MATCHED THEN\n")
	fmt.Fprintf(&sb, "  INSERT (%s)\n", strings.Join(columns, ", "))
	fmt.Fprintf(&sb, "  VALUES (%s)", strings.Join(values, ", "))

	return sb.String()
}

// queryParameters converte os argumentos do squirrel (placeholders "?")
// para parâmetros posicionais do BigQuery
func queryParameters(args []any) []bq.QueryParameter {
	if len(args) == 0 {
		return nil
	}

	params := make([]bq.QueryParameter, 0, len(args))
	for _, arg := range args {
		params = append(params, bq.QueryParameter{Value: arg})
	}

	return params
}
