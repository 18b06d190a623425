package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
)

const reportKeyPrefix = "report:giacenze:"

// ReportCache è una cache a due livelli per il report giacenze: mappa locale
// (L1) più Redis (L2). Ogni mutazione sugli articoli invalida tutto: il report
// non deve mai mostrare dati stantii.
type ReportCache struct {
	l1Cache map[string][]*models.ReportRiga
	l1Mutex sync.RWMutex

	redisClient *redis.Client
	ttl         time.Duration
	logger      *zap.Logger
}

// NewReportCache crea una nuova istanza della cache
func NewReportCache(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	return &ReportCache{
		l1Cache:     make(map[string][]*models.ReportRiga),
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

// Get cerca il report per la firma del filtro, prima in L1 poi in Redis.
func (rc *ReportCache) Get(ctx context.Context, firma string) []*models.ReportRiga {
	rc.l1Mutex.RLock()
	righe, ok := rc.l1Cache[firma]
	rc.l1Mutex.RUnlock()
	if ok {
		rc.logger.Debug("Report cache L1 hit", zap.String("firma", firma))
		return righe
	}

	data, err := rc.redisClient.Get(ctx, reportKeyPrefix+firma).Result()
	if err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(data), &righe); err != nil {
		return nil
	}

	// Promuove in L1 per le prossime richieste
	rc.l1Mutex.Lock()
	rc.l1Cache[firma] = righe
	rc.l1Mutex.Unlock()

	rc.logger.Debug("Report cache L2 hit", zap.String("firma", firma))
	return righe
}

// Set memorizza il report in entrambi i livelli.
func (rc *ReportCache) Set(ctx context.Context, firma string, righe []*models.ReportRiga) {
	rc.l1Mutex.Lock()
	rc.l1Cache[firma] = righe
	rc.l1Mutex.Unlock()

	data, err := json.Marshal(righe)
	if err != nil {
		return
	}
	if err := rc.redisClient.Set(ctx, reportKeyPrefix+firma, data, rc.ttl).Err(); err != nil {
		rc.logger.Debug("Report cache set fallito", zap.Error(err))
	}
}

// Invalidate svuota entrambi i livelli. Chiamata da ogni operazione che
// modifica gli articoli.
func (rc *ReportCache) Invalidate(ctx context.Context) {
	rc.l1Mutex.Lock()
	rc.l1Cache = make(map[string][]*models.ReportRiga)
	rc.l1Mutex.Unlock()

	keys, err := rc.redisClient.Keys(ctx, reportKeyPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := rc.redisClient.Del(ctx, keys...).Err(); err != nil {
		rc.logger.Debug("Report cache invalidation fallita", zap.Error(err))
	}
}

// Firma costruisce la chiave di cache per il ruolo/utente richiedente.
func Firma(ruolo, utente string) string {
	return fmt.Sprintf("%s:%s", ruolo, utente)
}
