package extracting

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta"
	metadomain "github.com/vfg2006/ads-warehouse-sync/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-warehouse-sync/internal/config"
	"github.com/vfg2006/ads-warehouse-sync/internal/domain"
	"github.com/vfg2006/ads-warehouse-sync/pkg/utils"
)

const (
	retryInitialInterval = time.Second
	retryMaxElapsedTime  = 2 * time.Minute
)

// Extractor busca os insights brutos de um conjunto de contas num intervalo
// de datas, dividindo o intervalo em blocos e paralelizando por conta
type Extractor interface {
	ExtractRange(ctx context.Context, accountIDs []string, dateRange domain.DateRange) ([]domain.RawInsight, error)
}

type extractor struct {
	cfg        *config.Config
	integrator meta.Integrator
}

func NewExtractor(cfg *config.Config, integrator meta.Integrator) Extractor {
	return &extractor{
		cfg:        cfg,
		integrator: integrator,
	}
}

// ExtractRange extrai os insights de todas as contas no intervalo. Cada
// conta roda num worker próprio, limitado por MaxConcurrentJobs; os blocos
// de datas de uma conta são buscados em sequência. Erros fatais da API
// abortam a extração inteira; os transitórios são repetidos com backoff.
func (e *extractor) ExtractRange(ctx context.Context, accountIDs []string, dateRange domain.DateRange) ([]domain.RawInsight, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	if len(accountIDs) == 0 {
		logrus.Warn("extração: nenhuma conta configurada para sincronização")
		return nil, nil
	}

	chunks := utils.SplitDateRange(dateRange.Since, dateRange.Until, e.cfg.InsightSync.ChunkDays)

	logrus.WithFields(logrus.Fields{
		"accounts": len(accountIDs),
		"chunks":   len(chunks),
		"since":    utils.FormatDate(dateRange.Since),
		"until":    utils.FormatDate(dateRange.Until),
	}).Info("extração: iniciando busca de insights")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	maxConcurrent := e.cfg.InsightSync.MaxConcurrentJobs
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	// Canal para controlar o número de workers concorrentes
	semaphore := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var records []domain.RawInsight
	var firstErr error

	for _, accountID := range accountIDs {
		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(accountID string) {
			defer func() {
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			accountRecords, err := e.extractAccount(ctx, accountID, chunks)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = err
					// Um erro fatal numa conta aborta as demais
					cancel()
				}
				return
			}

			records = append(records, accountRecords...)
		}(accountID)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	logrus.WithFields(logrus.Fields{
		"accounts": len(accountIDs),
		"records":  len(records),
	}).Info("extração: busca de insights concluída")

	return records, nil
}

// extractAccount busca os blocos de datas de uma conta em sequência, com
// uma pausa entre blocos para não sobrecarregar a API
func (e *extractor) extractAccount(ctx context.Context, accountID string, chunks [][2]time.Time) ([]domain.RawInsight, error) {
	var records []domain.RawInsight

	delay := time.Duration(e.cfg.InsightSync.RequestDelaySeconds) * time.Second

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunkRecords, err := e.extractChunk(ctx, accountID, chunk[0], chunk[1])
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": domain.NormalizeAccountID(accountID),
				"since":      utils.FormatDate(chunk[0]),
				"until":      utils.FormatDate(chunk[1]),
			}).Error("extração: bloco de datas falhou: ", err.Error())
			return nil, err
		}

		records = append(records, chunkRecords...)

		if delay > 0 && i < len(chunks)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return records, nil
}

// extractChunk busca um bloco de datas com backoff exponencial para erros
// transitórios. Uma tentativa que falhou não contribui com registro algum:
// só o resultado da tentativa bem-sucedida entra no lote.
func (e *extractor) extractChunk(ctx context.Context, accountID string, since, until time.Time) ([]domain.RawInsight, error) {
	var records []domain.RawInsight

	operation := func() error {
		chunkRecords, err := e.integrator.InsightsByDateRange(ctx, accountID, since, until)
		if err != nil {
			if metadomain.IsRetryable(err) {
				logrus.WithFields(logrus.Fields{
					"account_id": domain.NormalizeAccountID(accountID),
					"since":      utils.FormatDate(since),
					"until":      utils.FormatDate(until),
				}).Warn("extração: erro transitório na Meta API, tentando novamente: ", err.Error())
				return err
			}
			return backoff.Permanent(err)
		}

		records = chunkRecords
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxElapsedTime = retryMaxElapsedTime

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}

	return records, nil
}
