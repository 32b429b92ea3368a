package xbatch

import "sync/atomic"

// Stats 运行进度计数，可在运行期间被其他 goroutine 读取（如进度上报）。
type Stats struct {
	batches   atomic.Uint64
	addresses atomic.Uint64
}

func (s *Stats) record(addrs int) {
	s.batches.Add(1)
	s.addresses.Add(uint64(addrs))
}

// Batches 已交给 Sink 的批次数。
func (s *Stats) Batches() uint64 {
	return s.batches.Load()
}

// Addresses 已交给 Sink 的地址数。
func (s *Stats) Addresses() uint64 {
	return s.addresses.Load()
}
