package renderer

// Batch is a contiguous range of pixel indices [Start, Start+Count) handed to one job.
// Contiguous ranges keep each worker walking memory linearly.
type Batch struct {
	ID    int
	Start int
	Count int
}

// End returns the index one past the last pixel of the batch
func (b Batch) End() int {
	return b.Start + b.Count
}

// PartitionRange splits [start, start+total) into at most parts contiguous batches
// of total/parts pixels each; the last batch absorbs the remainder. Empty batches
// are not produced.
func PartitionRange(start, total, parts int) []Batch {
	if total <= 0 || parts <= 0 {
		return nil
	}
	if parts > total {
		parts = total
	}

	batches := make([]Batch, 0, parts)
	size := total / parts
	offset := start

	for i := 0; i < parts; i++ {
		count := size
		if i == parts-1 {
			count = start + total - offset
		}
		batches = append(batches, Batch{ID: i, Start: offset, Count: count})
		offset += count
	}

	return batches
}
