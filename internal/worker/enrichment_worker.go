package worker

// enrichment_worker.go
// Processes catalog enrichment jobs from QueueEnrichment. For a product saved
// without a category or image, it asks the vision sidecar to fill the gap.
// All sidecar calls go through the circuit breaker so a downed sidecar never
// stalls the pool; a tripped breaker fails the job and the retry/DLQ path
// takes over.

import (
	"context"
	"encoding/json"
	"fmt"

	"shopcentral/internal/infra"
	"shopcentral/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EnrichmentJobPayload is the job envelope sent to QueueEnrichment.
type EnrichmentJobPayload struct {
	ProductID string `json:"product_id"`
}

type EnrichmentWorker struct {
	productRepo repository.ProductRepository
	vision      *infra.VisionClient
	cb          *infra.CircuitBreaker
}

func NewEnrichmentWorker(productRepo repository.ProductRepository, vision *infra.VisionClient, cb *infra.CircuitBreaker) *EnrichmentWorker {
	return &EnrichmentWorker{productRepo: productRepo, vision: vision, cb: cb}
}

// Process fills in missing category and image for one product.
// Partial success is fine: whatever the sidecar produced gets saved.
func (w *EnrichmentWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EnrichmentJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("enrichment_worker: invalid payload")
		return nil
	}

	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		log.Error().Str("product_id", payload.ProductID).Msg("enrichment_worker: invalid product_id")
		return nil
	}

	product, err := w.productRepo.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("enrichment_worker: product %s not found: %w", payload.ProductID, err)
	}
	if !product.Active {
		return nil
	}

	changed := false

	if product.Category == "" {
		var suggestion *infra.SuggestCategoryResult
		cbErr := w.cb.Execute(func() error {
			res, err := w.vision.SuggestCategory(ctx, product.Name)
			if err != nil {
				return err
			}
			suggestion = res
			return nil
		})
		if cbErr != nil {
			return fmt.Errorf("enrichment_worker: suggest category: %w", cbErr)
		}
		if suggestion.Category != "" {
			product.Category = suggestion.Category
			changed = true
		}
	}

	if product.ImageURL == "" {
		var generated *infra.GenerateImageResult
		cbErr := w.cb.Execute(func() error {
			res, err := w.vision.GenerateImage(ctx, product.Name, product.Brand, product.Category)
			if err != nil {
				return err
			}
			generated = res
			return nil
		})
		if cbErr != nil {
			// Category alone is still worth persisting before we bail.
			if changed {
				_ = w.productRepo.Update(ctx, product)
			}
			return fmt.Errorf("enrichment_worker: generate image: %w", cbErr)
		}
		if generated.ImageURL != "" {
			product.ImageURL = generated.ImageURL
			product.ImageHint = product.Name
			changed = true
		}
	}

	if !changed {
		return nil
	}
	if err := w.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("enrichment_worker: save product: %w", err)
	}
	log.Info().
		Str("product_id", payload.ProductID).
		Str("category", product.Category).
		Msg("enrichment_worker: product enriched")
	return nil
}
