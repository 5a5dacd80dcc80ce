package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/score"
	"github.com/verte-zerg/blockfall/internal/store"
)

// Report contains precomputed data for the scores views.
type Report struct {
	Table score.Table
	Games []model.GameAggregate
}

// BuildReport loads the ranked table from the stored EEPROM image and the
// game history.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	table, err := score.DefaultLayout.Load(st.EEPROM(ctx))
	if err != nil {
		return Report{}, fmt.Errorf("failed to load high scores: %w", err)
	}
	games, err := st.ListGames(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list games: %w", err)
	}
	return Report{Table: table, Games: games}, nil
}
