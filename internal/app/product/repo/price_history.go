package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-search/internal/app/product/contracts"
	"github.com/light-bringer/procat-search/internal/models/m_price_history"
	"github.com/light-bringer/procat-search/internal/pkg/condition"
	"github.com/light-bringer/procat-search/internal/pkg/query"
)

// SearchPriceHistory retrieves price changes matching the search, most recent first.
func (rm *ReadModelImpl) SearchPriceHistory(ctx context.Context, search *contracts.PriceHistorySearch) (*contracts.PriceHistoryResult, error) {
	stmt, err := rm.historyStatement(search)
	if err != nil {
		return nil, fmt.Errorf("failed to build price history search: %w", err)
	}
	rm.logger.DebugContext(ctx, "Executing query", "sql", stmt.SQL, "params", len(stmt.Params))

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var records []*contracts.PriceHistoryRecord
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price history: %w", err)
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		record, err := dataToRecord(&data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return &contracts.PriceHistoryResult{Records: records}, nil
}

func (rm *ReadModelImpl) historyStatement(search *contracts.PriceHistorySearch) (spanner.Statement, error) {
	if search == nil {
		search = &contracts.PriceHistorySearch{}
	}

	criteria, err := rm.history.SearchCriteria(search, nil, condition.SearchOptions{Trim: true})
	if err != nil {
		return spanner.Statement{}, err
	}

	return query.From(m_price_history.TableName).
		As(historyAlias).
		Select(qualifyAll(historyAlias, m_price_history.NewModel().ReadColumns())...).
		Where(criteria).
		OrderBy(qualify(historyAlias, m_price_history.ChangedAt), query.Desc).
		Limit(pageSize(search.Limit)).
		Build(), nil
}

// dataToRecord converts database Data to a PriceHistoryRecord.
func dataToRecord(data *m_price_history.Data) (*contracts.PriceHistoryRecord, error) {
	newPrice, err := ratio(data.NewPriceNumerator, data.NewPriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid new price: %w", err)
	}

	record := &contracts.PriceHistoryRecord{
		HistoryID: data.HistoryID,
		ProductID: data.ProductID,
		NewPrice:  toFloat(newPrice),
		ChangedAt: data.ChangedAt,
	}

	// oldPrice is nil for initial creation
	if data.OldPriceNumerator.Valid && data.OldPriceDenominator.Valid {
		oldPrice, err := ratio(data.OldPriceNumerator.Int64, data.OldPriceDenominator.Int64)
		if err != nil {
			return nil, fmt.Errorf("invalid old price: %w", err)
		}
		f := toFloat(oldPrice)
		record.OldPrice = &f
	}

	if data.ChangedBy.Valid {
		record.ChangedBy = data.ChangedBy.StringVal
	}
	if data.ChangedReason.Valid {
		record.ChangedReason = data.ChangedReason.StringVal
	}

	return record, nil
}
