package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqPrefix = "dlq:"

// DeadLetter records a job that failed processing, for manual replay.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	FailedAt time.Time       `json:"failed_at"`
}

// SendToDLQ pushes a failed job onto the dead-letter list for its queue.
// Failures here are only logged; losing a DLQ entry must never crash a worker.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, errMsg string, attempts int) {
	entry := DeadLetter{
		Queue:    queue,
		Type:     jobType,
		Payload:  payload,
		Error:    errMsg,
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to marshal DLQ entry")
		return
	}
	if err := rdb.LPush(ctx, dlqPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to push to DLQ")
		return
	}
	log.Warn().Str("queue", queue).Str("type", jobType).Str("error", errMsg).Msg("job sent to DLQ")
}

// DLQLength returns the number of dead-lettered jobs for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqPrefix+queue).Result()
}
