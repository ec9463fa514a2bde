//go:build !windows

package source

import (
	"context"

	"github.com/cdtdelta/logonaudit/internal/query"
	"github.com/cdtdelta/logonaudit/internal/winevent"
)

type stubSource struct{}

func newLiveSource() Source { return &stubSource{} }

func (s *stubSource) Events(ctx context.Context, host string, f *query.Filter) ([]*winevent.Event, error) {
	return nil, ErrUnsupported
}
