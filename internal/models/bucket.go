package models

// BucketSeconds is the width of a summary bucket.
const BucketSeconds = 10

// SummaryBucket holds upstream metrics for one 10-second interval of one pattern.
type SummaryBucket struct {
	TimeIndex   int     `json:"timeIndex"`
	Count       int     `json:"count"`
	Density     float64 `json:"density"`
	COD         float64 `json:"cod"`
	CID         float64 `json:"cid"`
	OutCounts   string  `json:"positionDaCounts"`
	InCounts    string  `json:"positionReceiveCounts"`
	RealTimeSec int64   `json:"realTimeSec"`
}

// Offset returns the bucket's start within the match in milliseconds.
func (b SummaryBucket) Offset() int64 {
	return int64(b.TimeIndex) * BucketSeconds * 1000
}

// Decorate fills RealTimeSec on every bucket from its time index.
func Decorate(buckets []SummaryBucket) []SummaryBucket {
	for i := range buckets {
		buckets[i].RealTimeSec = int64(buckets[i].TimeIndex) * BucketSeconds
	}
	return buckets
}
