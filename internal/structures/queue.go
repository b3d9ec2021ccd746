package structures

// Queue - FIFO поверх односвязного списка. Держим head и tail,
// поэтому и Enqueue, и Dequeue за O(1).
//
// Не потокобезопасна: один владелец, внешняя блокировка при необходимости.
type Queue[T any] struct {
	head *node[T] // начало очереди
	tail *node[T] // конец очереди
	size int
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue appends item at the tail. O(1).
func (q *Queue[T]) Enqueue(item T) {
	n := &node[T]{data: item}
	if q.head == nil {
		q.head = n
		q.tail = n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.size++
}

// Dequeue removes and returns the head item. The second return value is
// false when the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	if q.head == nil {
		var zero T
		return zero, false
	}

	data := q.head.data
	q.head = q.head.next
	if q.head == nil {
		q.tail = nil // очередь опустела, хвост тоже сбрасываем
	}
	q.size--
	return data, true
}

// Peek returns the head item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.head == nil {
		var zero T
		return zero, false
	}
	return q.head.data, true
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == nil
}

func (q *Queue[T]) Len() int {
	return q.size
}
