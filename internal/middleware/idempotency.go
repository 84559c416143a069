package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// storedOutcome is the recorded result of a command request. A retried
// request with the same key replays the first outcome instead of running
// the command again, so a client that re-sends a booking after a timeout
// cannot double-book, and a losing accept replayed later still reports the
// loss.
type storedOutcome struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// outcomeRecorder wraps gin.ResponseWriter to capture the response body.
type outcomeRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *outcomeRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays recorded outcomes for repeated command
// requests carrying the same Idempotency-Key header.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The command surface is POST-only; reads are idempotent already.
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + key

		if outcome, err := loadOutcome(ctx, redisClient, cacheKey); err == nil && outcome != nil {
			c.Data(outcome.StatusCode, "application/json", outcome.Body)
			c.Abort()
			return
		}
		// On a Redis error the command runs without idempotency rather
		// than failing the request.

		w := &outcomeRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		// Record definitive outcomes only. A 5xx may be transient, so a
		// retry should get a fresh attempt.
		if status := c.Writer.Status(); status < http.StatusInternalServerError {
			_ = storeOutcome(ctx, redisClient, cacheKey, &storedOutcome{
				StatusCode: status,
				Body:       w.body.Bytes(),
			})
		}
	}
}

func loadOutcome(ctx context.Context, client *redis.Client, key string) (*storedOutcome, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var outcome storedOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func storeOutcome(ctx context.Context, client *redis.Client, key string, outcome *storedOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, idempotencyTTL).Err()
}
