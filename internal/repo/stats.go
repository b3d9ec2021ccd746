package repo

import "context"

// Stats - сводка по задачам в хранилище для /api/stats.
type Stats struct {
	TotalTasks int            `json:"total_tasks"`
	ByStatus   map[string]int `json:"by_status"`
}

func (r *TaskRepo) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[string]int)}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM tasks GROUP BY status
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, err
		}
		stats.ByStatus[status] = count
		stats.TotalTasks += count
	}
	return stats, rows.Err()
}
