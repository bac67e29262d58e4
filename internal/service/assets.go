package service

// ReconcileAssets возвращает пути, которые были в old, но отсутствуют в new
// (old − new). Путь, присутствующий в new, никогда не попадает в результат,
// даже если он был и в old. Чистая функция, без I/O: фактическое удаление
// выполняет оркестратор.
func ReconcileAssets(oldPaths, newPaths []string) []string {
	keep := make(map[string]bool, len(newPaths))
	for _, p := range newPaths {
		keep[p] = true
	}

	toDelete := make([]string, 0, len(oldPaths))
	seen := make(map[string]bool, len(oldPaths))
	for _, p := range oldPaths {
		if p == "" || keep[p] || seen[p] {
			continue
		}
		seen[p] = true
		toDelete = append(toDelete, p)
	}
	return toDelete
}
