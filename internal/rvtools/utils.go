package rvtools

import (
	"sort"
	"strconv"
	"strings"
)

func parseIntOrZero(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return val
}

func parseBooleanValue(s string) bool {
	if s == "" {
		return false
	}
	cleanStr := strings.ToLower(strings.TrimSpace(s))
	return cleanStr == "true" || cleanStr == "1" || cleanStr == "yes" || cleanStr == "enabled"
}

func getColumnValue(row []string, colMap map[string]int, key string) string {
	if idx, exists := colMap[key]; exists && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func buildColumnMap(headers []string) map[string]int {
	colMap := make(map[string]int)
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		colMap[key] = i
	}
	return colMap
}

func ensureMapExists[K comparable, V any](m map[K]map[K]V, key K) {
	if _, ok := m[key]; !ok {
		m[key] = make(map[K]V)
	}
}

func calculateHostsPerCluster(clusterToHosts map[string]map[string]struct{}) []int {
	if len(clusterToHosts) == 0 {
		return []int{}
	}

	// Sort cluster names for consistent ordering
	clusterNames := make([]string, 0, len(clusterToHosts))
	for cluster := range clusterToHosts {
		clusterNames = append(clusterNames, cluster)
	}
	sort.Strings(clusterNames)

	hostsPerCluster := make([]int, 0, len(clusterNames))
	for _, cluster := range clusterNames {
		hostsPerCluster = append(hostsPerCluster, len(clusterToHosts[cluster]))
	}

	return hostsPerCluster
}
