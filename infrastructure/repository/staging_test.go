package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	bq "cloud.google.com/go/bigquery"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"google.golang.org/api/iterator"

	"cloud.google.com/go/civil"
	"github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery"
	bqmocks "github.com/vfg2006/ads-warehouse-sync/infrastructure/warehouse/bigquery/mocks"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
)

var stagingNamePattern = regexp.MustCompile(`^meta_ads_tmp_[A-Za-z0-9]{8}$`)

func repositoryConfig(batchSize int) *config.Config {
	return &config.Config{
		Warehouse: config.Warehouse{
			MetaAdsTable: "meta_ads",
		},
		Pipeline: config.Pipeline{
			BatchSize: batchSize,
		},
	}
}

// qualifyStub responde Qualify como a conexão real, prefixando projeto e
// dataset
func qualifyStub(runner *bqmocks.MockRunner) {
	runner.EXPECT().
		Qualify(gomock.Any()).
		DoAndReturn(func(name string) string { return "`projeto.dataset." + name + "`" }).
		AnyTimes()
}

func sampleRows(n int) []*domain.InsightRow {
	rows := make([]*domain.InsightRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &domain.InsightRow{
			AccountID: "act_123",
			AdID:      "111",
			DateStart: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			DateStop:  time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		})
	}
	return rows
}

func TestSaveOrUpdate(t *testing.T) {
	t.Run("Carga completa - deve criar a staging, carregar em lotes, executar o MERGE e descartar a staging", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		runner := bqmocks.NewMockRunner(ctrl)
		qualifyStub(runner)

		var staging string
		var mergeStatement string
		var truncateFlags []bool
		var batchSizes []int

		runner.EXPECT().
			CreateTableIfNotExists(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tableName string, _ bq.Schema) (bool, error) {
				staging = tableName
				return true, nil
			})

		runner.EXPECT().
			Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tableName string, rows []any, truncate bool) error {
				assert.Equal(t, staging, tableName)
				truncateFlags = append(truncateFlags, truncate)
				batchSizes = append(batchSizes, len(rows))
				return nil
			}).
			Times(3)

		runner.EXPECT().
			Exec(gomock.Any(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, statement string, _ []bq.QueryParameter) error {
				mergeStatement = statement
				return nil
			})

		runner.EXPECT().
			DeleteTable(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tableName string) error {
				assert.Equal(t, staging, tableName)
				return nil
			})

		repo := NewInsightRepository(runner, repositoryConfig(2))

		err := repo.SaveOrUpdate(context.Background(), sampleRows(5))

		assert.NoError(t, err)
		assert.Regexp(t, stagingNamePattern, staging)

		// O primeiro lote trunca a staging, os demais anexam
		assert.Equal(t, []bool{true, false, false}, truncateFlags)
		assert.Equal(t, []int{2, 2, 1}, batchSizes)

		// O MERGE casa pela chave natural e nunca a atualiza
		assert.Contains(t, mergeStatement, "MERGE `projeto.dataset.meta_ads` T")
		assert.Contains(t, mergeStatement, "USING `projeto.dataset."+staging+"` S")
		assert.Contains(t, mergeStatement, "ON T.account_id = S.account_id AND T.ad_id = S.ad_id AND T.date_start = S.date_start")
		assert.Contains(t, mergeStatement, "spend = S.spend")
		assert.NotContains(t, mergeStatement, "account_id = S.account_id,")
		assert.NotContains(t, mergeStatement, "ad_id = S.ad_id,")
	})

	t.Run("Falha no MERGE - deve descartar a staging mesmo assim e propagar o erro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		runner := bqmocks.NewMockRunner(ctrl)
		qualifyStub(runner)

		var staging string

		runner.EXPECT().
			CreateTableIfNotExists(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tableName string, _ bq.Schema) (bool, error) {
				staging = tableName
				return true, nil
			})
		runner.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(nil)
		runner.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Nil()).Return(errors.New("quota exceeded"))
		runner.EXPECT().
			DeleteTable(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tableName string) error {
				assert.Equal(t, staging, tableName)
				return nil
			})

		repo := NewInsightRepository(runner, repositoryConfig(0))

		err := repo.SaveOrUpdate(context.Background(), sampleRows(1))

		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("Lote vazio - não deve tocar o warehouse", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		runner := bqmocks.NewMockRunner(ctrl)

		repo := NewInsightRepository(runner, repositoryConfig(2))

		assert.NoError(t, repo.SaveOrUpdate(context.Background(), nil))
	})
}

func TestExistingKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := bqmocks.NewMockRunner(ctrl)
	qualifyStub(runner)

	rows := []insightKeyScan{
		{AccountID: "act_123", AdID: "111", DateStart: civil.Date{Year: 2024, Month: time.January, Day: 1}},
		{AccountID: "act_123", AdID: "222", DateStart: civil.Date{Year: 2024, Month: time.January, Day: 2}},
	}

	it := bqmocks.NewMockRowIterator(ctrl)
	cursor := 0
	it.EXPECT().
		Next(gomock.Any()).
		DoAndReturn(func(dst any) error {
			if cursor == len(rows) {
				return iterator.Done
			}

			*(dst.(*insightKeyScan)) = rows[cursor]
			cursor++
			return nil
		}).
		Times(len(rows) + 1)

	runner.EXPECT().
		Query(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, query string, params []bq.QueryParameter) (bigquery.RowIterator, error) {
			assert.Contains(t, query, "SELECT account_id, ad_id, date_start FROM `projeto.dataset.meta_ads`")
			assert.Contains(t, query, "account_id = ?")
			assert.Len(t, params, 3)
			return it, nil
		})

	repo := NewInsightRepository(runner, repositoryConfig(2))

	keys, err := repo.ExistingKeys(context.Background(), "act_123", domain.DateRange{
		Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"act_123_111_2024-01-01": true,
		"act_123_222_2024-01-02": true,
	}, keys)
}

func TestBuildMergeQuery(t *testing.T) {
	query := buildMergeQuery("`p.d.destino`", "`p.d.destino_tmp_abc`",
		[]string{"account_id", "ad_id", "date_start", "spend", "clicks"},
		[]string{"account_id", "ad_id", "date_start"},
	)

	assert.Contains(t, query, "MERGE `p.d.destino` T")
	assert.Contains(t, query, "USING `p.d.destino_tmp_abc` S")
	assert.Contains(t, query, "ON T.account_id = S.account_id AND T.ad_id = S.ad_id AND T.date_start = S.date_start")
	assert.Contains(t, query, "UPDATE SET\n    spend = S.spend,\n    clicks = S.clicks")
	assert.Contains(t, query, "INSERT (account_id, ad_id, date_start, spend, clicks)")
	assert.Contains(t, query, "VALUES (S.account_id, S.ad_id, S.date_start, S.spend, S.clicks)")

	// Colunas-chave nunca entram no UPDATE
	assert.NotContains(t, query, "account_id = S.account_id,")
}

func TestQueryParameters(t *testing.T) {
	assert.Nil(t, queryParameters(nil))

	params := queryParameters([]any{"act_123", 7})
	assert.Equal(t, []bq.QueryParameter{{Value: "act_123"}, {Value: 7}}, params)
}
