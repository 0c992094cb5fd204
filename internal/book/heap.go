package book

// MaxPriceHeap keeps bid price levels ordered so the best (highest) bid is
// always the O(1) peek at index 0.
type MaxPriceHeap []uint64

func (h MaxPriceHeap) Len() int            { return len(h) }
func (h MaxPriceHeap) Less(i, j int) bool  { return h[i] > h[j] }
func (h MaxPriceHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *MaxPriceHeap) Push(x interface{}) { *h = append(*h, x.(uint64)) }
func (h *MaxPriceHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
func (h MaxPriceHeap) Peek() uint64 { return h[0] }

// MinPriceHeap keeps ask price levels ordered so the best (lowest) ask is
// always the O(1) peek at index 0.
type MinPriceHeap []uint64

func (h MinPriceHeap) Len() int            { return len(h) }
func (h MinPriceHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h MinPriceHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *MinPriceHeap) Push(x interface{}) { *h = append(*h, x.(uint64)) }
func (h *MinPriceHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
func (h MinPriceHeap) Peek() uint64 { return h[0] }
