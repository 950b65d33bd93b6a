package worker

// lowstock_cron.go
// Daily low-stock digest: every morning at 08:00 the shop owner gets one email
// listing every active product at or below its restock threshold.

import (
	"context"
	"fmt"
	"strings"

	"shopcentral/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// LowStockCronConfig holds the dependencies for the daily digest.
type LowStockCronConfig struct {
	ProductRepo repository.ProductRepository
	Dispatcher  *Dispatcher
	DigestEmail string
	ShopName    string
}

// StartLowStockCron schedules the daily digest at 08:00 local time.
// Returns the cron runner so main can Stop() it on shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("0 8 * * *", func() {
		sendLowStockDigest(ctx, cfg)
	})
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to schedule")
		return c
	}
	c.Start()
	log.Info().Msg("lowstock_cron: scheduled daily at 08:00")
	return c
}

func sendLowStockDigest(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.DigestEmail == "" {
		return
	}

	products, err := cfg.ProductRepo.ListLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: query failed")
		return
	}
	if len(products) == 0 {
		log.Info().Msg("lowstock_cron: nothing to report")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Low stock report for %s\n\n", cfg.ShopName)
	for _, p := range products {
		fmt.Fprintf(&b, "  - %s %s: %d %s left (restock at %d)\n", p.Brand, p.Name, p.Stock, p.Unit, p.LowStockAt)
	}

	job := EmailJobPayload{
		ToEmail: cfg.DigestEmail,
		Subject: fmt.Sprintf("%s — %d products low on stock", cfg.ShopName, len(products)),
		Body:    b.String(),
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to enqueue digest email")
		return
	}
	log.Info().Int("products", len(products)).Msg("lowstock_cron: digest enqueued")
}
