package jvm

// LiveAllocs reports the C allocations currently owned by InitArgs values.
func LiveAllocs() int64 {
	return liveAllocs.Load()
}
