package structures

// Stack - LIFO поверх односвязного списка. Push/Pop за O(1).
//
// Не потокобезопасен, как и Queue.
type Stack[T any] struct {
	top  *node[T]
	size int
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push puts item on top of the stack. O(1).
func (s *Stack[T]) Push(item T) {
	n := &node[T]{data: item, next: s.top}
	s.top = n
	s.size++
}

// Pop removes and returns the top item. The second return value is false
// when the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	if s.top == nil {
		var zero T
		return zero, false
	}

	data := s.top.data
	s.top = s.top.next
	s.size--
	return data, true
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if s.top == nil {
		var zero T
		return zero, false
	}
	return s.top.data, true
}

func (s *Stack[T]) IsEmpty() bool {
	return s.top == nil
}

func (s *Stack[T]) Len() int {
	return s.size
}
