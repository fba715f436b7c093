// Package idgen 時系列に単調増加する分散ID生成
package idgen

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	// epoch ID採番の起点（2024-01-01 00:00:00 UTC）
	epoch = int64(1704067200000)

	workerIDBits   = 10
	sequenceBits   = 12
	maxWorkerID    = -1 ^ (-1 << workerIDBits)
	maxSequence    = -1 ^ (-1 << sequenceBits)
	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
)

// Snowflake 時系列に単調増加する分散ID生成器
// 41ビットのミリ秒タイムスタンプ、10ビットのワーカーID、12ビットのシーケンス。
// ワーカーIDはインスタンスごとに一意に割り当てる。
type Snowflake struct {
	mu        sync.Mutex
	timestamp int64
	workerID  int64
	sequence  int64
}

// NewSnowflake ワーカーIDを指定して生成器を作成
func NewSnowflake(workerID int64) (*Snowflake, error) {
	if workerID < 0 || workerID > maxWorkerID {
		return nil, fmt.Errorf("worker id must be in range 0-%d: %d", maxWorkerID, workerID)
	}
	return &Snowflake{workerID: workerID}, nil
}

// NextID 次のIDを10進文字列で返す
func (s *Snowflake) NextID() string {
	return strconv.FormatInt(s.generate(), 10)
}

func (s *Snowflake) generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now == s.timestamp {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			// 同一ミリ秒内のシーケンスを使い切ったら次のミリ秒まで待つ
			for now <= s.timestamp {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		s.sequence = 0
	}
	s.timestamp = now

	return ((now - epoch) << timestampShift) |
		(s.workerID << workerIDShift) |
		s.sequence
}
