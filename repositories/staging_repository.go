package repositories

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"davetli.app/configs/configslog"
	"davetli.app/models"

	"github.com/go-redis/redis"
	"go.uber.org/zap"
)

// IStagingRepository bir toplu işin onay bekleyen satır verisini tutan
// anahtar-değer staging store arayüzü. Düzen:
//
//	bulk:job:{id}:rows    hash  satır id → JSON satır
//	bulk:job:{id}:stats   hash  total_count / valid_count / invalid_count
//	bulk:job:{id}:status  scalar
type IStagingRepository interface {
	PushRow(jobID string, row models.StagedRow) error
	// PushChunk bir chunk'ın satırlarını ve sayaç artışlarını tek pipeline'da
	// yazar; store gidiş-dönüşleri satır başına değil chunk başına olur.
	PushChunk(jobID string, rows []models.StagedRow, validDelta, invalidDelta int) error
	GetRow(jobID string, rowID int) (*models.StagedRow, error)
	RowExists(jobID string, rowID int) (bool, error)
	// RangeRows işin tüm satırlarını satır id'sine göre sıralı döner.
	RangeRows(jobID string) ([]models.StagedRow, error)
	DeleteRow(jobID string, rowID int) error
	DeleteRows(jobID string) error
	SetStats(jobID string, stats models.StagedStats) error
	GetStats(jobID string) (models.StagedStats, error)
	IncrStat(jobID, field string, delta int64) error
	SetStatus(jobID, status string) error
	GetStatus(jobID string) (string, error)
}

// StagingRepository IStagingRepository arayüzünü Redis üzerinde uygular.
type StagingRepository struct {
	client *redis.Client
}

// NewStagingRepository yeni bir StagingRepository örneği oluşturur.
func NewStagingRepository(client *redis.Client) IStagingRepository {
	return &StagingRepository{client: client}
}

func rowsKey(jobID string) string   { return "bulk:job:" + jobID + ":rows" }
func statsKey(jobID string) string  { return "bulk:job:" + jobID + ":stats" }
func statusKey(jobID string) string { return "bulk:job:" + jobID + ":status" }

func wrapStagingErr(op string, err error) error {
	configslog.Log.Error("StagingRepository: Redis hatası", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", ErrStagingUnavailable, op, err)
}

func (r *StagingRepository) PushRow(jobID string, row models.StagedRow) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return err
	}
	if err := r.client.HSet(rowsKey(jobID), strconv.Itoa(row.ID), payload).Err(); err != nil {
		return wrapStagingErr("hset", err)
	}
	return nil
}

func (r *StagingRepository) PushChunk(jobID string, rows []models.StagedRow, validDelta, invalidDelta int) error {
	if len(rows) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return err
		}
		pipe.HSet(rowsKey(jobID), strconv.Itoa(row.ID), payload)
	}
	pipe.HIncrBy(statsKey(jobID), "total_count", int64(len(rows)))
	pipe.HIncrBy(statsKey(jobID), "valid_count", int64(validDelta))
	pipe.HIncrBy(statsKey(jobID), "invalid_count", int64(invalidDelta))
	if _, err := pipe.Exec(); err != nil {
		return wrapStagingErr("pipeline", err)
	}
	return nil
}

func (r *StagingRepository) GetRow(jobID string, rowID int) (*models.StagedRow, error) {
	payload, err := r.client.HGet(rowsKey(jobID), strconv.Itoa(rowID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapStagingErr("hget", err)
	}
	var row models.StagedRow
	if err := json.Unmarshal([]byte(payload), &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *StagingRepository) RowExists(jobID string, rowID int) (bool, error) {
	exists, err := r.client.HExists(rowsKey(jobID), strconv.Itoa(rowID)).Result()
	if err != nil {
		return false, wrapStagingErr("hexists", err)
	}
	return exists, nil
}

func (r *StagingRepository) RangeRows(jobID string) ([]models.StagedRow, error) {
	values, err := r.client.HGetAll(rowsKey(jobID)).Result()
	if err != nil {
		return nil, wrapStagingErr("hgetall", err)
	}
	rows := make([]models.StagedRow, 0, len(values))
	for _, payload := range values {
		var row models.StagedRow
		if err := json.Unmarshal([]byte(payload), &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	// Hash alan sırası belirsizdir; dışarıya her zaman id sıralı verilir.
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (r *StagingRepository) DeleteRow(jobID string, rowID int) error {
	if err := r.client.HDel(rowsKey(jobID), strconv.Itoa(rowID)).Err(); err != nil {
		return wrapStagingErr("hdel", err)
	}
	return nil
}

func (r *StagingRepository) DeleteRows(jobID string) error {
	if err := r.client.Del(rowsKey(jobID)).Err(); err != nil {
		return wrapStagingErr("del", err)
	}
	return nil
}

func (r *StagingRepository) SetStats(jobID string, stats models.StagedStats) error {
	err := r.client.HMSet(statsKey(jobID), map[string]interface{}{
		"total_count":   strconv.Itoa(stats.TotalCount),
		"valid_count":   strconv.Itoa(stats.ValidCount),
		"invalid_count": strconv.Itoa(stats.InvalidCount),
	}).Err()
	if err != nil {
		return wrapStagingErr("hmset", err)
	}
	return nil
}

func (r *StagingRepository) GetStats(jobID string) (models.StagedStats, error) {
	values, err := r.client.HGetAll(statsKey(jobID)).Result()
	if err != nil {
		return models.StagedStats{}, wrapStagingErr("hgetall", err)
	}
	parse := func(field string) int {
		value, _ := strconv.Atoi(values[field])
		return value
	}
	return models.StagedStats{
		TotalCount:   parse("total_count"),
		ValidCount:   parse("valid_count"),
		InvalidCount: parse("invalid_count"),
	}, nil
}

func (r *StagingRepository) IncrStat(jobID, field string, delta int64) error {
	if err := r.client.HIncrBy(statsKey(jobID), field, delta).Err(); err != nil {
		return wrapStagingErr("hincrby", err)
	}
	return nil
}

func (r *StagingRepository) SetStatus(jobID, status string) error {
	if err := r.client.Set(statusKey(jobID), status, 0).Err(); err != nil {
		return wrapStagingErr("set", err)
	}
	return nil
}

func (r *StagingRepository) GetStatus(jobID string) (string, error) {
	status, err := r.client.Get(statusKey(jobID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", wrapStagingErr("get", err)
	}
	return status, nil
}

var _ IStagingRepository = (*StagingRepository)(nil)
