package structures

// node - звено односвязного списка. Живет только внутри Queue/Stack,
// наружу никогда не отдается.
type node[T any] struct {
	data T
	next *node[T]
}
