package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/lrn/internal/model"
)

// DefaultTrendWindow smooths the accuracy trend.
const DefaultTrendWindow = 3

// SessionLister reads session history.
type SessionLister interface {
	ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionRecord, error)
}

// Report contains loaded data for stats rendering.
type Report struct {
	Sessions []model.SessionRecord
}

// BuildReport loads the sessions selected by filter, oldest first.
func BuildReport(ctx context.Context, st SessionLister, filter model.HistoryFilter) (Report, error) {
	sessions, err := st.ListSessions(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if filter.Last > 0 && len(sessions) > filter.Last {
		sessions = sessions[len(sessions)-filter.Last:]
	}
	return Report{Sessions: sessions}, nil
}

// Render writes the summary, trend and session table sized to totalWidth.
func (r Report) Render(w io.Writer, totalWidth int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderAccuracyTrend(w, r.Sessions, DefaultTrendWindow, totalWidth); err != nil {
		return err
	}
	return RenderSessionTable(w, r.Sessions)
}
