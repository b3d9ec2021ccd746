package structures

// entry is a heap slot: the key we order by plus the payload.
type entry[T any] struct {
	priority int
	item     T
}

// PriorityQueue - минимальная бинарная куча на слайсе. Меньший priority =
// более срочный элемент. Индексация с единицы: слот 0 не используется, чтобы
// родитель/потомки считались как i/2, 2i и 2i+1.
//
// Куча нестабильна: порядок элементов с равным приоритетом не определен.
// Кому нужен FIFO внутри приоритета - кодируйте вторичный ключ в сам priority.
type PriorityQueue[T any] struct {
	heap []entry[T]
	size int
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{
		heap: make([]entry[T], 1), // слот 0 - заглушка
	}
}

// Insert adds item with the given priority. O(log n).
func (pq *PriorityQueue[T]) Insert(item T, priority int) {
	pq.heap = append(pq.heap, entry[T]{priority: priority, item: item})
	pq.size++
	pq.percUp(pq.size)
}

// percUp restores heap order after an insert: swap the new element with its
// parent while the parent's priority is strictly greater.
func (pq *PriorityQueue[T]) percUp(i int) {
	for i/2 > 0 {
		if pq.heap[i].priority < pq.heap[i/2].priority {
			pq.heap[i], pq.heap[i/2] = pq.heap[i/2], pq.heap[i]
		} else {
			break
		}
		i = i / 2
	}
}

// ExtractMin removes and returns the most urgent (priority, item) pair.
// The third return value is false when the heap is empty. O(log n).
func (pq *PriorityQueue[T]) ExtractMin() (int, T, bool) {
	if pq.size == 0 {
		var zero T
		return 0, zero, false
	}

	min := pq.heap[1]

	// Последний элемент встает на место корня и просеивается вниз.
	pq.heap[1] = pq.heap[pq.size]
	pq.heap = pq.heap[:pq.size]
	pq.size--
	if pq.size > 0 {
		pq.percDown(1)
	}

	return min.priority, min.item, true
}

// percDown restores heap order after the root was replaced: swap with the
// smaller child while that child's priority is strictly smaller.
func (pq *PriorityQueue[T]) percDown(i int) {
	for i*2 <= pq.size {
		mc := pq.minChild(i)
		if pq.heap[i].priority > pq.heap[mc].priority {
			pq.heap[i], pq.heap[mc] = pq.heap[mc], pq.heap[i]
		} else {
			break
		}
		i = mc
	}
}

// minChild returns the index of the smaller child of i. Если правого потомка
// нет, меньший по определению левый.
func (pq *PriorityQueue[T]) minChild(i int) int {
	if i*2+1 > pq.size {
		return i * 2
	}
	if pq.heap[i*2].priority < pq.heap[i*2+1].priority {
		return i * 2
	}
	return i*2 + 1
}

// PeekMin returns the most urgent pair without removing it.
func (pq *PriorityQueue[T]) PeekMin() (int, T, bool) {
	if pq.size == 0 {
		var zero T
		return 0, zero, false
	}
	return pq.heap[1].priority, pq.heap[1].item, true
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.size == 0
}

func (pq *PriorityQueue[T]) Len() int {
	return pq.size
}
