package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadtime-prediction-api/catalog"
	"leadtime-prediction-api/features"
	"leadtime-prediction-api/logger"
	"leadtime-prediction-api/metrics"
	"leadtime-prediction-api/models"
	"leadtime-prediction-api/regressor"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrScoring = errors.New("prediction failed")

// PredictionCache is the subset of CacheService used by PredictionService.
type PredictionCache interface {
	Available() bool
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Publish(ctx context.Context, channel string, message any) error
}

type PredictionResult struct {
	PredictedLeadTimeDays float64                `json:"predicted_lead_time_days"`
	Features              features.FeatureRecord `json:"features"`
}

type PredictionOptions struct {
	Cache    PredictionCache
	CacheTTL time.Duration
	Channel  string
	Logger   *zap.Logger
}

// PredictionService answers list and predict calls against catalogs and a
// model that are fixed for the life of the process.
type PredictionService struct {
	catalogs *catalog.Catalogs
	resolver *features.Resolver
	model    regressor.Model
	cache    PredictionCache
	cacheTTL time.Duration
	channel  string
	log      *zap.Logger
	now      func() time.Time
}

func NewPredictionService(catalogs *catalog.Catalogs, model regressor.Model, opts PredictionOptions) *PredictionService {
	cache := opts.Cache
	if cache == nil {
		cache = NewDisabledCache()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &PredictionService{
		catalogs: catalogs,
		resolver: features.NewResolver(catalogs),
		model:    model,
		cache:    cache,
		cacheTTL: opts.CacheTTL,
		channel:  opts.Channel,
		log:      log,
		now:      time.Now,
	}
}

func (s *PredictionService) ModelName() string { return s.model.Name() }

func (s *PredictionService) CatalogCounts() map[string]int { return s.catalogs.Counts() }

func (s *PredictionService) ListSuppliers() []models.Supplier {
	return s.catalogs.Suppliers.All()
}

func (s *PredictionService) ListSites() []models.Site {
	return s.catalogs.Sites.All()
}

// Predict resolves req against the catalogs and scores it. Resolution always
// runs, even with a warm cache, so unknown ids return a *features.NotFoundError
// before the cache or the model is consulted. Model failures are returned
// wrapped in ErrScoring.
func (s *PredictionService) Predict(ctx context.Context, req features.Request) (*PredictionResult, error) {
	log := logger.FromContext(ctx, s.log)

	start := time.Now()
	rec, err := s.resolver.Resolve(req)
	if err != nil {
		if errors.Is(err, features.ErrNotFound) {
			metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		} else {
			metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	key, keyErr := s.cacheKey(rec)
	if keyErr != nil {
		log.Warn("prediction cache key", zap.Error(keyErr))
	}
	if s.cache.Available() && keyErr == nil {
		var cached PredictionResult
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
			log.Warn("prediction cache read failed", zap.String("key", key), zap.Error(err))
		case found:
			metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
			metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
			s.publish(ctx, log, req, cached.PredictedLeadTimeDays, true)
			return &PredictionResult{PredictedLeadTimeDays: cached.PredictedLeadTimeDays, Features: rec}, nil
		default:
			metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		}
	}

	y, err := s.model.Predict(rec)
	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrScoring, err)
	}
	metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	result := &PredictionResult{PredictedLeadTimeDays: y, Features: rec}
	if s.cache.Available() && keyErr == nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			log.Warn("prediction cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	s.publish(ctx, log, req, y, false)
	return result, nil
}

// cacheKey hashes the resolved record under the loaded model name, so a new
// artifact or a changed catalog row never reuses an old entry.
func (s *PredictionService) cacheKey(rec features.FeatureRecord) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("leadtime:predict:%s:%s", s.model.Name(), hex.EncodeToString(sum[:])), nil
}

func (s *PredictionService) publish(ctx context.Context, log *zap.Logger, req features.Request, y float64, cached bool) {
	if !s.cache.Available() || s.channel == "" {
		return
	}
	event := models.PredictionEvent{
		ID:                    uuid.NewString(),
		TS:                    s.now().UTC(),
		SupplierID:            req.SupplierID,
		SKUID:                 req.SKUID,
		DestSiteID:            req.DestSiteID,
		PredictedLeadTimeDays: y,
		Model:                 s.model.Name(),
		Cached:                cached,
	}
	if err := s.cache.Publish(ctx, s.channel, event); err != nil {
		log.Warn("prediction event publish failed", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	metrics.EventsPublished.Inc()
}
