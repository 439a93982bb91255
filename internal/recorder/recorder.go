package recorder

import (
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// RefreshEvent records the outcome of one scheduled portfolio refresh.
type RefreshEvent struct {
	Duration time.Duration
	Fetched  int
	Empty    int
	Failed   int
}

// Recorder persists portfolio history for later analysis (e.g. a
// Grafana board over the SQLite file).
type Recorder interface {
	RecordSnapshot(snap *model.PortfolioSnapshot) error
	RecordRefresh(evt *RefreshEvent) error
	Close() error
}
