// Package report writes overview reports as JSON lines, one per seller.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/marketlane/sellermetrics/internal/dto"
	"github.com/marketlane/sellermetrics/internal/entity"
	"github.com/marketlane/sellermetrics/internal/insights"
	"github.com/schollz/progressbar/v3"
)

type Source interface {
	Sellers(ctx context.Context) ([]entity.Seller, error)
	ResolveSeller(ctx context.Context, sellerId string) (entity.Scope, error)
	Overview(ctx context.Context, q insights.Query) (*entity.Overview, error)
}

type Options struct {
	Period entity.PeriodToken
	// SellerId limits the report to one seller. Empty means the platform
	// followed by every seller.
	SellerId string
	// Now pins the reference instant so every line shares the same windows.
	Now time.Time
	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
}

type Line struct {
	SellerId string        `json:"sellerId"`
	Name     string        `json:"name"`
	Overview *dto.Overview `json:"overview"`
}

// Write computes the overview for every target and writes one JSON line per
// target to w. It returns the number of lines written.
func Write(ctx context.Context, src Source, w io.Writer, o Options) (int, error) {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}

	targets, err := targets(ctx, src, o.SellerId)
	if err != nil {
		return 0, err
	}

	progress := o.Progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(targets),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("overview "+string(o.Period)),
		progressbar.OptionShowCount(),
	)

	enc := json.NewEncoder(w)
	n := 0
	for _, t := range targets {
		ov, err := src.Overview(ctx, insights.Query{Scope: t.scope, Period: o.Period, Now: o.Now})
		if err != nil {
			return n, fmt.Errorf("overview of %q: %w", t.id(), err)
		}
		if err := enc.Encode(Line{SellerId: t.scope.SellerId, Name: t.name, Overview: dto.ConvertEntityOverview(ov)}); err != nil {
			return n, err
		}
		n++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return n, nil
}

type target struct {
	scope entity.Scope
	name  string
}

func (t target) id() string {
	if t.scope.IsPlatform() {
		return "platform"
	}
	return t.scope.SellerId
}

func targets(ctx context.Context, src Source, sellerId string) ([]target, error) {
	if sellerId != "" {
		scope, err := src.ResolveSeller(ctx, sellerId)
		if err != nil {
			return nil, err
		}
		return []target{{scope: scope, name: sellerId}}, nil
	}

	sellers, err := src.Sellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't list sellers: %w", err)
	}
	tt := make([]target, 0, len(sellers)+1)
	tt = append(tt, target{scope: entity.PlatformScope(), name: "platform"})
	for i := range sellers {
		tt = append(tt, target{scope: entity.SellerScope(&sellers[i]), name: sellers[i].Name})
	}
	return tt, nil
}
